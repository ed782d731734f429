// Package services defines shared utilities consumed by the import pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp list IDs, row ranks, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     (auth, network, decode, parse, not found) so the orchestrator can decide
//     whether a failure is fatal to a list or only to a single row.
//
// Use these helpers when wiring new pipeline code so error handling and
// observability stay uniform.
package services
