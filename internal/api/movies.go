package api

import (
	"context"
	"time"

	"cinefile/internal/catalog"
)

// Movie returns one catalog movie.
func (s *Service) Movie(id string) (catalog.Movie, error) {
	m, ok := s.catalog.Movie(id)
	if !ok {
		return catalog.Movie{}, notFound("movie", "no movie with id "+id)
	}
	return m, nil
}

// SetWatched marks a movie watched, optionally on date, or unwatched.
func (s *Service) SetWatched(ctx context.Context, id string, watched bool, date *time.Time) (catalog.Movie, error) {
	m, err := s.catalog.SetWatched(id, watched, date)
	return after(ctx, s, m, err)
}

// ToggleWatched flips a movie's watched flag.
func (s *Service) ToggleWatched(ctx context.Context, id string) (catalog.Movie, error) {
	m, err := s.catalog.ToggleWatched(id)
	return after(ctx, s, m, err)
}

// SetWatchedDate records or clears the watched date.
func (s *Service) SetWatchedDate(ctx context.Context, id string, date *time.Time) (catalog.Movie, error) {
	m, err := s.catalog.SetWatchedDate(id, date)
	return after(ctx, s, m, err)
}

// RateMovie sets or, with nil, clears the user's rating.
func (s *Service) RateMovie(ctx context.Context, id string, rating *float64) (catalog.Movie, error) {
	m, err := s.catalog.RateMovie(id, rating)
	return after(ctx, s, m, err)
}

// SetInWatchlist adds a movie to or removes it from the watchlist.
func (s *Service) SetInWatchlist(ctx context.Context, id string, in bool) (catalog.Movie, error) {
	m, err := s.catalog.SetInWatchlist(id, in)
	return after(ctx, s, m, err)
}

// ToggleWatchlist flips a movie's watchlist membership.
func (s *Service) ToggleWatchlist(ctx context.Context, id string) (catalog.Movie, error) {
	m, err := s.catalog.ToggleWatchlist(id)
	return after(ctx, s, m, err)
}

// Watchlist returns the movies on the watchlist.
func (s *Service) Watchlist() []catalog.Movie { return s.catalog.Watchlist() }
