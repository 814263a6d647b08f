// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no recode-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties including tags and disposition flags
//   - Format: container-level metadata (duration, size, tags)
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - Parse: decodes a previously captured JSON payload
package ffprobe
