package projection

import (
	"fmt"
	"strings"

	"cinefile/internal/catalog"
	"cinefile/internal/services"
)

// WatchFilter narrows a view by watched state.
type WatchFilter string

const (
	FilterAll       WatchFilter = "all"
	FilterWatched   WatchFilter = "watched"
	FilterUnwatched WatchFilter = "unwatched"
)

// ParseWatchFilter parses a filter name; empty means FilterAll.
func ParseWatchFilter(raw string) (WatchFilter, error) {
	switch f := WatchFilter(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", FilterAll:
		return FilterAll, nil
	case FilterWatched, FilterUnwatched:
		return f, nil
	default:
		return "", services.Wrap(services.ErrValidation, "projection", "parse filter",
			fmt.Sprintf("unknown filter %q", raw), nil)
	}
}

// Apply returns the movies that pass the filter, keeping their order.
func (f WatchFilter) Apply(movies []catalog.Movie) []catalog.Movie {
	if f == "" || f == FilterAll {
		return movies
	}
	out := make([]catalog.Movie, 0, len(movies))
	for _, m := range movies {
		if m.Watched == (f == FilterWatched) {
			out = append(out, m)
		}
	}
	return out
}
