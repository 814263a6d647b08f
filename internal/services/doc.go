// Package services defines shared utilities consumed by the per-file
// recode workflow and its external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, file paths, and stage
//     names for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent outcomes (failed vs invalid).
//
// Use these helpers when wiring new workflow steps so error handling and
// observability stay uniform across the batch.
package services
