package metadata_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cinefile/internal/metadata"
	"cinefile/internal/metadata/tmdb"
	"cinefile/internal/services"
)

type stubSearcher struct {
	mu          sync.Mutex
	searchCalls int
	search      func(query string, opts tmdb.SearchOptions) (*tmdb.SearchResponse, error)
	details     map[int64]*tmdb.MovieDetails
	credits     map[int64]*tmdb.Credits
}

func (s *stubSearcher) SearchMovie(_ context.Context, query string, opts tmdb.SearchOptions) (*tmdb.SearchResponse, error) {
	s.mu.Lock()
	s.searchCalls++
	s.mu.Unlock()
	return s.search(query, opts)
}

func (s *stubSearcher) MovieDetails(_ context.Context, id int64) (*tmdb.MovieDetails, error) {
	if d, ok := s.details[id]; ok {
		return d, nil
	}
	return nil, services.Wrap(services.ErrNetwork, "stub", "details", "missing", nil)
}

func (s *stubSearcher) MovieCredits(_ context.Context, id int64) (*tmdb.Credits, error) {
	if c, ok := s.credits[id]; ok {
		return c, nil
	}
	return nil, services.Wrap(services.ErrNetwork, "stub", "credits", "missing", nil)
}

func heatResponse() *tmdb.SearchResponse {
	return &tmdb.SearchResponse{Page: 1, Results: []tmdb.SearchResult{
		{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15", PosterPath: "/heat.jpg", Overview: "Thieves.", VoteAverage: 7.9},
		{ID: 1000, Title: "Heat 2", ReleaseDate: "", VoteAverage: 5.1},
		{ID: 1001, Title: "Heat Wave", ReleaseDate: "bogus"},
	}}
}

func TestSearchSummaryMapping(t *testing.T) {
	stub := &stubSearcher{search: func(string, tmdb.SearchOptions) (*tmdb.SearchResponse, error) {
		return heatResponse(), nil
	}}
	client := metadata.New(stub, metadata.Options{ImageBaseURL: "https://image.tmdb.org/t/p/w500/"}, nil)

	movies, err := client.Search(context.Background(), metadata.Query{Title: "Heat", Year: 1995})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(movies) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(movies))
	}
	heat := movies[0]
	if heat.ID != "949" || heat.Year != 1995 || heat.CriticRating != 7.9 {
		t.Fatalf("unexpected mapping: %+v", heat)
	}
	if heat.PosterURL != "https://image.tmdb.org/t/p/w500/heat.jpg" {
		t.Fatalf("poster url = %q", heat.PosterURL)
	}
	if heat.Director != "" || heat.RuntimeMinutes != 0 {
		t.Fatalf("summary should not carry details: %+v", heat)
	}
	if movies[1].Year != 0 || movies[2].Year != 0 || movies[1].PosterURL != "" {
		t.Fatalf("expected zero year and empty poster: %+v %+v", movies[1], movies[2])
	}
}

func TestSearchEnrichmentDegradesPerCandidate(t *testing.T) {
	stub := &stubSearcher{
		search: func(string, tmdb.SearchOptions) (*tmdb.SearchResponse, error) {
			return heatResponse(), nil
		},
		details: map[int64]*tmdb.MovieDetails{
			949:  {ID: 949, Runtime: 170, Genres: []tmdb.Genre{{Name: "Action"}, {Name: "Crime"}}},
			1000: {ID: 1000, Runtime: 90},
		},
		credits: map[int64]*tmdb.Credits{
			949: {Cast: []tmdb.CastMember{{Name: "Al Pacino"}, {Name: "Robert De Niro"}}, Crew: []tmdb.CrewMember{{Job: "Director", Name: "Michael Mann"}}},
		},
	}
	client := metadata.New(stub, metadata.Options{DetailConcurrency: 2}, nil)

	movies, err := client.Search(context.Background(), metadata.Query{Title: "Heat", IncludeDetails: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(movies) != 3 || movies[0].ID != "949" || movies[1].ID != "1000" || movies[2].ID != "1001" {
		t.Fatalf("provider order not kept: %+v", movies)
	}
	if movies[0].Director != "Michael Mann" || movies[0].RuntimeMinutes != 170 || len(movies[0].Genres) != 2 || len(movies[0].Cast) != 2 {
		t.Fatalf("candidate not enriched: %+v", movies[0])
	}
	if movies[1].RuntimeMinutes != 0 || movies[1].Title != "Heat 2" {
		t.Fatalf("partially failed candidate should fall back to summary: %+v", movies[1])
	}
}

func TestSearchPropagatesAuthError(t *testing.T) {
	stub := &stubSearcher{search: func(string, tmdb.SearchOptions) (*tmdb.SearchResponse, error) {
		return nil, services.Wrap(services.ErrAuth, "stub", "search", "no key", nil)
	}}
	client := metadata.New(stub, metadata.Options{}, nil)
	if _, err := client.Search(context.Background(), metadata.Query{Title: "Heat"}); !errors.Is(err, services.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestSearchCachesResponses(t *testing.T) {
	stub := &stubSearcher{search: func(string, tmdb.SearchOptions) (*tmdb.SearchResponse, error) {
		return heatResponse(), nil
	}}
	client := metadata.New(stub, metadata.Options{CacheTTL: time.Minute}, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := client.Search(ctx, metadata.Query{Title: "Heat", Year: 1995}); err != nil {
			t.Fatalf("Search: %v", err)
		}
	}
	if _, err := client.Search(ctx, metadata.Query{Title: "heat ", Year: 1995}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if stub.searchCalls != 1 {
		t.Fatalf("expected 1 upstream search, got %d", stub.searchCalls)
	}
	if _, err := client.Search(ctx, metadata.Query{Title: "Heat"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if stub.searchCalls != 2 {
		t.Fatalf("different year should miss the cache, got %d calls", stub.searchCalls)
	}
}

func TestSearchWithoutCacheAlwaysQueries(t *testing.T) {
	stub := &stubSearcher{search: func(string, tmdb.SearchOptions) (*tmdb.SearchResponse, error) {
		return &tmdb.SearchResponse{}, nil
	}}
	client := metadata.New(stub, metadata.Options{}, nil)
	for i := 0; i < 2; i++ {
		movies, err := client.Search(context.Background(), metadata.Query{Title: "Nothing"})
		if err != nil || len(movies) != 0 {
			t.Fatalf("Search: %v %v", movies, err)
		}
	}
	if stub.searchCalls != 2 {
		t.Fatalf("expected 2 upstream searches, got %d", stub.searchCalls)
	}
}
