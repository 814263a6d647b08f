// Package config loads, normalizes, and validates recode configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the RECODE_LANG environment
// fallback. The Config type centralizes every knob the CLI and the per-file
// workflow need: language policy, target codecs, encoder tuning and paths.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical codec names, and clear validation errors.
package config
