package catalog

import (
	"log/slog"
	"slices"
	"time"

	"cinefile/internal/logging"
)

// Catalog is the deduplicated collection of movies plus the known lists.
type Catalog struct {
	logger *slog.Logger
	now    func() time.Time

	movies      []Movie
	byID        map[string]int
	byTitleYear map[string]int
	lists       []MovieList
	subscribers []subscription
	nextSubID   int
}

// New returns an empty catalog.
func New(logger *slog.Logger) *Catalog {
	return &Catalog{
		logger:      logging.NewComponentLogger(logger, "catalog"),
		now:         time.Now,
		byID:        make(map[string]int),
		byTitleYear: make(map[string]int),
	}
}

// Restore loads a persisted snapshot. Movies violating the identity invariant
// are folded together through the regular merge path, so a corrupt snapshot
// cannot introduce duplicates. User lists are reconciled afterwards.
func (c *Catalog) Restore(movies []Movie, lists []MovieList) {
	c.movies = nil
	c.byID = make(map[string]int, len(movies))
	c.byTitleYear = make(map[string]int, len(movies))
	c.lists = nil
	for _, l := range lists {
		c.lists = append(c.lists, l.Clone())
	}
	for _, m := range movies {
		c.mergeOne(m, "")
	}
	c.reconcileUserLists()
}

// Len returns the number of movies in the catalog.
func (c *Catalog) Len() int { return len(c.movies) }

// Movies returns a copy of every movie in canonical (insertion) order.
func (c *Catalog) Movies() []Movie {
	out := make([]Movie, len(c.movies))
	for i, m := range c.movies {
		out[i] = m.Clone()
	}
	return out
}

// Movie returns the movie with id.
func (c *Catalog) Movie(id string) (Movie, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Movie{}, false
	}
	return c.movies[idx].Clone(), true
}

// Lookup finds the catalog entry equivalent to m (by ID, then title and year).
func (c *Catalog) Lookup(m Movie) (Movie, bool) {
	idx, _, ok := c.find(m)
	if !ok {
		return Movie{}, false
	}
	return c.movies[idx].Clone(), true
}

// Lists returns a copy of the known lists, system lists first in registration
// order, then user lists.
func (c *Catalog) Lists() []MovieList {
	out := make([]MovieList, 0, len(c.lists))
	for _, l := range c.lists {
		if !l.UserCreated() {
			out = append(out, l.Clone())
		}
	}
	for _, l := range c.lists {
		if l.UserCreated() {
			out = append(out, l.Clone())
		}
	}
	return out
}

// UserLists returns only user-created lists.
func (c *Catalog) UserLists() []MovieList {
	var out []MovieList
	for _, l := range c.lists {
		if l.UserCreated() {
			out = append(out, l.Clone())
		}
	}
	return out
}

// List returns the list with id.
func (c *Catalog) List(id string) (MovieList, bool) {
	idx := c.listIndex(id)
	if idx < 0 {
		return MovieList{}, false
	}
	return c.lists[idx].Clone(), true
}

// HasMembers reports whether any movie ranks in listID.
func (c *Catalog) HasMembers(listID string) bool {
	for _, m := range c.movies {
		if _, ok := m.ListRankings[listID]; ok {
			return true
		}
	}
	return false
}

type matchKind int

const (
	matchNone matchKind = iota
	matchByID
	matchByTitleYear
)

func (c *Catalog) find(m Movie) (int, matchKind, bool) {
	if m.ID != "" {
		if idx, ok := c.byID[m.ID]; ok {
			return idx, matchByID, true
		}
	}
	if idx, ok := c.byTitleYear[titleYearKey(m.Title, m.Year)]; ok {
		return idx, matchByTitleYear, true
	}
	return -1, matchNone, false
}

func (c *Catalog) append(m Movie) {
	c.movies = append(c.movies, m)
	idx := len(c.movies) - 1
	c.byID[m.ID] = idx
	c.byTitleYear[titleYearKey(m.Title, m.Year)] = idx
}

// replace stores m at idx and keeps the indexes in step when the title or
// year changed. Callers ensure the new title and year are not owned by
// another entry.
func (c *Catalog) replace(idx int, m Movie) {
	old := c.movies[idx]
	oldKey := titleYearKey(old.Title, old.Year)
	newKey := titleYearKey(m.Title, m.Year)
	if oldKey != newKey {
		if cur, ok := c.byTitleYear[oldKey]; ok && cur == idx {
			delete(c.byTitleYear, oldKey)
		}
		c.byTitleYear[newKey] = idx
	}
	c.movies[idx] = m
}

func (c *Catalog) listIndex(id string) int {
	return slices.IndexFunc(c.lists, func(l MovieList) bool { return l.ID == id })
}
