package catalog

import (
	"fmt"
	"time"

	"cinefile/internal/logging"
	"cinefile/internal/services"
)

// Rating bounds for RateMovie.
const (
	MinUserRating = 0.0
	MaxUserRating = 10.0
)

// SetWatched marks a movie watched or unwatched. A watched movie without a
// date is stamped with the current time; unwatching clears the date.
func (c *Catalog) SetWatched(id string, watched bool, date *time.Time) (Movie, error) {
	return c.update(id, "set watched", func(m *Movie) error {
		m.Watched = watched
		switch {
		case !watched:
			m.WatchedDate = nil
		case date != nil:
			d := *date
			m.WatchedDate = &d
		case m.WatchedDate == nil:
			now := c.now()
			m.WatchedDate = &now
		}
		return nil
	})
}

// ToggleWatched flips the watched flag.
func (c *Catalog) ToggleWatched(id string) (Movie, error) {
	idx, ok := c.byID[id]
	if !ok {
		return Movie{}, notFound("toggle watched", id)
	}
	return c.SetWatched(id, !c.movies[idx].Watched, nil)
}

// SetWatchedDate records when a movie was watched. A non-nil date also marks
// the movie watched; nil clears only the date.
func (c *Catalog) SetWatchedDate(id string, date *time.Time) (Movie, error) {
	return c.update(id, "set watched date", func(m *Movie) error {
		if date == nil {
			m.WatchedDate = nil
			return nil
		}
		d := *date
		m.WatchedDate = &d
		m.Watched = true
		return nil
	})
}

// RateMovie sets the user's rating. A nil rating clears it.
func (c *Catalog) RateMovie(id string, rating *float64) (Movie, error) {
	if rating != nil && (*rating < MinUserRating || *rating > MaxUserRating) {
		return Movie{}, services.Wrap(services.ErrValidation, "catalog", "rate movie",
			fmt.Sprintf("rating %.1f outside %.0f-%.0f", *rating, MinUserRating, MaxUserRating), nil)
	}
	return c.update(id, "rate movie", func(m *Movie) error {
		if rating == nil {
			m.UserRating = nil
			return nil
		}
		r := *rating
		m.UserRating = &r
		return nil
	})
}

// ToggleWatchlist flips watchlist membership.
func (c *Catalog) ToggleWatchlist(id string) (Movie, error) {
	return c.update(id, "toggle watchlist", func(m *Movie) error {
		m.InWatchlist = !m.InWatchlist
		return nil
	})
}

// SetInWatchlist sets watchlist membership explicitly.
func (c *Catalog) SetInWatchlist(id string, in bool) (Movie, error) {
	return c.update(id, "set watchlist", func(m *Movie) error {
		m.InWatchlist = in
		return nil
	})
}

// Watchlist returns watchlisted movies in catalog order.
func (c *Catalog) Watchlist() []Movie {
	var out []Movie
	for _, m := range c.movies {
		if m.InWatchlist {
			out = append(out, m.Clone())
		}
	}
	return out
}

func (c *Catalog) update(id, operation string, apply func(*Movie) error) (Movie, error) {
	idx, ok := c.byID[id]
	if !ok {
		return Movie{}, notFound(operation, id)
	}
	m := c.movies[idx].Clone()
	if err := apply(&m); err != nil {
		return Movie{}, err
	}
	c.movies[idx] = m
	c.logger.Debug("movie updated",
		logging.String("movie_id", id),
		logging.String("operation", operation),
	)
	c.emit(Event{Kind: EventMovieUpdated, MovieIDs: []string{id}})
	return m.Clone(), nil
}

func notFound(operation, id string) error {
	return services.Wrap(services.ErrNotFound, "catalog", operation, "no movie with id "+id, nil)
}
