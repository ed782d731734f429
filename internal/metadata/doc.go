// Package metadata turns TMDB search responses into catalog candidates.
//
// Client.Search runs one title search and maps each result to a catalog.Movie.
// With IncludeDetails set, every candidate is enriched with runtime, genres,
// director, and top cast fetched concurrently; a candidate whose enrichment
// fails keeps its summary fields and the search still succeeds. Successful
// search responses are cached in memory for a configurable TTL.
package metadata
