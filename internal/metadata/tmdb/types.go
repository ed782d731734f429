package tmdb

import (
	"strconv"
	"strings"
)

// SearchResult is one entry of a movie search response.
type SearchResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
	Adult       bool    `json:"adult"`
}

// SearchResponse models the paginated search payload.
type SearchResponse struct {
	Page         int            `json:"page"`
	Results      []SearchResult `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// Genre is a TMDB genre tag.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovieDetails carries the fields of /movie/{id} used for enrichment.
type MovieDetails struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Runtime int     `json:"runtime"`
	Genres  []Genre `json:"genres"`
}

// CastMember is one billed performer.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewMember is one crew credit.
type CrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits models /movie/{id}/credits.
type Credits struct {
	ID   int64        `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Director returns the first crew member credited with the Director job.
func (c Credits) Director() string {
	for _, member := range c.Crew {
		if member.Job == "Director" {
			return strings.TrimSpace(member.Name)
		}
	}
	return ""
}

// TopCast returns up to limit cast names in billing order.
func (c Credits) TopCast(limit int) []string {
	var names []string
	for _, member := range c.Cast {
		if len(names) >= limit {
			break
		}
		if name := strings.TrimSpace(member.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ReleaseYear extracts the year from a YYYY-MM-DD release date. Missing or
// malformed dates yield 0.
func ReleaseYear(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0
	}
	if len(date) > 4 && date[4] != '-' {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return 0
	}
	return year
}

// SearchOptions holds the optional filters of a movie search.
type SearchOptions struct {
	Year         int
	IncludeAdult bool
}

// CacheKey returns a stable string representation for caching.
func (o SearchOptions) CacheKey() string {
	var builder strings.Builder
	builder.WriteString("y=")
	builder.WriteString(strconv.Itoa(o.Year))
	builder.WriteString("|a=")
	builder.WriteString(strconv.FormatBool(o.IncludeAdult))
	return builder.String()
}
