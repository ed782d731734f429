// Package catalog owns the in-memory movie catalog: the Movie and MovieList
// records, the merge engine that folds imported batches into the catalog
// without clobbering user state, and the user-facing mutation API (watched,
// ratings, watchlist, user-created lists).
//
// A Catalog has a single logical owner. Fetches happen elsewhere; results are
// applied here from one goroutine, so the type carries no locks. Observers
// registered with Subscribe are notified synchronously after every mutation,
// which lets renderers react without polling.
//
// Two records describe the same film when their IDs match, or when their
// titles match case-insensitively and their years are equal. Every insertion
// path (Merge and Add) enforces that the catalog never holds two such records.
package catalog
