// Package preflight provides readiness checks for the external binaries and
// filesystem paths recode depends on.
//
// These checks run in two contexts:
//   - Batch runs call RunAll before touching any file. If a check fails the
//     run stops instead of failing every file for the same reason.
//   - The CLI "recode status" command renders the individual results.
package preflight
