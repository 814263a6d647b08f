// Package main hosts the recode CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, builds the logger, and
// hands the real work to internal/recoder: `plan` prints what would happen to
// a file, `run` processes a file or directory, `status` reports dependency
// and ledger state, and `config` scaffolds or validates the TOML file.
package main
