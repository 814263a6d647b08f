// Package history persists a ledger of processed media files in SQLite.
//
// Batch runs consult the ledger to skip files whose path, size and
// modification time already carry a successful entry, and the status command
// reads it back for the most recent outcomes.
package history
