// Package language provides language code normalization and mapping.
//
// All language-related conversions (ISO 639-1, ISO 639-2, display names,
// tag extraction, legacy code rewriting) are consolidated here so the
// planner, the CLI tables and configuration validation agree on one table.
package language
