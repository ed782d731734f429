package catalog

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// MaxCastMembers is the conventional cap on Movie.Cast.
const MaxCastMembers = 5

// Movie is a catalog entry.
type Movie struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Year           int      `json:"year"`
	Director       string   `json:"director"`
	PosterURL      string   `json:"poster_url"`
	Overview       string   `json:"overview"`
	Genres         []string `json:"genres"`
	RuntimeMinutes int      `json:"runtime_minutes"`
	Cast           []string `json:"cast"`

	// CriticRating is provider-sourced.
	CriticRating float64 `json:"critic_rating"`

	// User-owned; never overwritten by import or merge.
	UserRating  *float64   `json:"user_rating,omitempty"`
	Watched     bool       `json:"watched"`
	WatchedDate *time.Time `json:"watched_date,omitempty"`
	InWatchlist bool       `json:"in_watchlist"`

	// ListRankings maps list ID to the movie's rank within that list.
	ListRankings map[string]int `json:"list_rankings"`
}

// Clone returns a deep copy so callers cannot alias catalog state.
func (m Movie) Clone() Movie {
	out := m
	out.Genres = slices.Clone(m.Genres)
	out.Cast = slices.Clone(m.Cast)
	out.ListRankings = maps.Clone(m.ListRankings)
	if m.UserRating != nil {
		rating := *m.UserRating
		out.UserRating = &rating
	}
	if m.WatchedDate != nil {
		date := *m.WatchedDate
		out.WatchedDate = &date
	}
	return out
}

// DirectorLastName returns the final whitespace-separated token of the
// director, or the director unchanged when it has no spaces.
func (m Movie) DirectorLastName() string {
	fields := strings.Fields(m.Director)
	if len(fields) == 0 {
		return m.Director
	}
	return fields[len(fields)-1]
}

// Rank returns the movie's rank in listID and whether it belongs to the list.
func (m Movie) Rank(listID string) (int, bool) {
	rank, ok := m.ListRankings[listID]
	return rank, ok
}

// SameFilm reports whether two records describe the same real-world title.
func SameFilm(a, b Movie) bool {
	if a.ID != "" && a.ID == b.ID {
		return true
	}
	return titleYearKey(a.Title, a.Year) == titleYearKey(b.Title, b.Year)
}

func titleYearKey(title string, year int) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" + strconv.Itoa(year)
}

// MovieList is a named, ranked collection.
type MovieList struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Year        int    `json:"year"`
	// MovieIDs is authoritative only for user-created lists.
	MovieIDs      []string `json:"movie_ids"`
	IsUserCreated *bool    `json:"is_user_created,omitempty"`
	SourceURL     string   `json:"source_url,omitempty"`
}

// UserCreated reports whether the list was created by the user. Absent means
// system-provided.
func (l MovieList) UserCreated() bool {
	return l.IsUserCreated != nil && *l.IsUserCreated
}

// Clone returns a deep copy of the list.
func (l MovieList) Clone() MovieList {
	out := l
	out.MovieIDs = slices.Clone(l.MovieIDs)
	if l.IsUserCreated != nil {
		v := *l.IsUserCreated
		out.IsUserCreated = &v
	}
	return out
}
