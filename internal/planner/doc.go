// Package planner decides, per track, whether a stream is copied or
// transcoded, which track of each kind becomes the default, and which
// disposition flags every output track carries.
//
// The planner is pure: it performs no I/O and keeps all state in a Planner
// value created per file. Classification runs kind by kind in source order:
//
//  1. Language tags are normalized (absent/und become the target language,
//     the legacy "ger" becomes "deu") and each rewrite is recorded as a
//     LanguageOverride once the track is accepted.
//  2. Video tracks are copied or transcoded against the target codec and
//     bit depth; attached pictures take the cover-art path instead.
//  3. Audio and subtitle tracks are admitted by language, copied when their
//     codec is acceptable, and offered to a per-kind default selector that
//     uses Compare as its ordering.
//  4. Result runs Reconcile once over the classified state to produce one
//     Assignment per output track with exactly one default per kind.
//
// Priority tables are plain values on Options so callers can override them
// per invocation.
package planner
