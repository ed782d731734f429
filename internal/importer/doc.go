// Package importer resolves ranked CSV rows into catalog movies.
//
// An Orchestrator imports one list at a time: rows are searched with at most
// Options.MaxConcurrency requests in flight, the best candidate for each row
// is picked, and the accepted movies are merged into the catalog once, from
// the calling goroutine. Progress is reported after every resolved row.
// Cancellation stops admission of new rows; in-flight searches finish and
// their results are discarded.
//
// Preload drives the startup import of every list named in a manifest,
// strictly one list after another, with a single blended progress value.
package importer
