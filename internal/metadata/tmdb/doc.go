// Package tmdb is the HTTP client for The Movie Database v3 API.
//
// It covers movie search, movie details, and movie credits. Every request is
// paced by a token bucket and carries the API key as a query parameter. A
// missing or placeholder key fails with services.ErrAuth before any request is
// sent; non-2xx responses and transport failures map to services.ErrNetwork,
// and undecodable bodies to services.ErrDecode.
package tmdb
