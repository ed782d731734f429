// Package api is the façade the presentation layer talks to. A Service owns
// one catalog, its durable store, the metadata client, and the import
// orchestrator, and persists the catalog after every mutation.
//
// # Key Types
//
// Service: opened from a config, it restores the persisted catalog and
// settings and exposes imports, interactive search, user lists, per-movie user
// state, and projected views.
//
// View: one projected list with the sort that produced it and its completion
// counts.
//
// # Design Notes
//
// A Service is not safe for concurrent use. Imports run their network work on
// internal goroutines but merge on the goroutine that called the Service, so
// the CLI can render progress callbacks directly. CancelImports is the one
// method that may be called from another goroutine, typically a signal
// handler.
package api
