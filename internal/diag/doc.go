// Package diag defines the diagnostic model shared by every quill phase.
//
// Diagnostic is the central record: severity, stable numeric code, message,
// primary span and optional notes. Producers emit through a Reporter so they
// never couple to storage; BagReporter aggregates into a Bag, which supports
// sorting, deduplication and merging across parallel per-file work.
//
// The package performs no formatting or IO. Rendering lives in the CLI layer,
// orchestration in internal/driver. Keep the data model deterministic so
// diagnostics can be serialised for caching and golden tests.
package diag
