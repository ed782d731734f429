package store

import (
	"context"
	"encoding/json"
	"fmt"

	"cinefile/internal/catalog"
	"cinefile/internal/services"
)

// Keys holding catalog state.
const (
	KeyUserLists   = "lists.user"
	KeyMovies      = "catalog.movies"
	KeySystemLists = "catalog.system_lists"
)

// Snapshot is the persisted catalog.
type Snapshot struct {
	Movies      []catalog.Movie
	SystemLists []catalog.MovieList
	UserLists   []catalog.MovieList
}

// Lists returns system lists followed by user lists.
func (s Snapshot) Lists() []catalog.MovieList {
	out := make([]catalog.MovieList, 0, len(s.SystemLists)+len(s.UserLists))
	out = append(out, s.SystemLists...)
	return append(out, s.UserLists...)
}

// SnapshotOf captures the catalog's current state.
func SnapshotOf(c *catalog.Catalog) Snapshot {
	snap := Snapshot{Movies: c.Movies()}
	for _, l := range c.Lists() {
		if l.UserCreated() {
			snap.UserLists = append(snap.UserLists, l)
		} else {
			snap.SystemLists = append(snap.SystemLists, l)
		}
	}
	return snap
}

// SaveSnapshot writes movies and lists in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	values := make(map[string]string, 3)
	for key, value := range map[string]any{
		KeyMovies:      nonNil(snap.Movies),
		KeySystemLists: nonNil(snap.SystemLists),
		KeyUserLists:   nonNil(snap.UserLists),
	} {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		values[key] = string(data)
	}
	return s.PutMany(ctx, values)
}

// LoadSnapshot reads the persisted catalog. Missing keys yield empty slices.
func (s *Store) LoadSnapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if _, err := s.GetJSON(ctx, KeyMovies, &snap.Movies); err != nil {
		return Snapshot{}, err
	}
	if _, err := s.GetJSON(ctx, KeySystemLists, &snap.SystemLists); err != nil {
		return Snapshot{}, err
	}
	if _, err := s.GetJSON(ctx, KeyUserLists, &snap.UserLists); err != nil {
		return Snapshot{}, err
	}
	for _, l := range snap.UserLists {
		if !l.UserCreated() {
			return Snapshot{}, services.Wrap(services.ErrDecode, "store", "load snapshot",
				"user list "+l.ID+" is not marked user-created", nil)
		}
	}
	return snap, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
