// Package recoder runs the per-file workflow: probe the source, plan its
// tracks, serialize the ffmpeg argument plan, then skip, move or encode.
//
// Batch runs walk a directory sequentially under a single-instance lock and
// record every outcome in the history ledger so later runs can skip files
// that were already handled.
//
// Key types:
//   - Recoder: shared collaborators for one invocation
//   - FilePlan: everything decided about one source file
//   - Report: outcome of processing one file
//   - BatchSummary: reports for a whole run
package recoder
