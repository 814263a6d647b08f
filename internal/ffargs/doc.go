// Package ffargs serializes a reconciled plan into ffmpeg argument fragments.
//
// Serialize is pure: it consumes planner decisions, disposition assignments,
// language overrides and metadata maps and returns an ArgumentPlan holding
// four ordered fragment lists (mapping, codec, disposition, metadata) plus
// the AnyChange verdict callers use to skip files that need no work.
package ffargs
