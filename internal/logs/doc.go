// Package logs reads the recode log file for the `recode logs` command.
//
// Tail returns the last N lines (optionally only those containing a match
// string, such as a run ID or file name) along with the byte offset at which
// to resume. Follow polls from that offset until the context is cancelled.
package logs
