package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// FakeMovie is one title served by FakeTMDB.
type FakeMovie struct {
	ID          int64
	Title       string
	ReleaseDate string
	PosterPath  string
	Overview    string
	VoteAverage float64
	Runtime     int
	Genres      []string
	Director    string
	Cast        []string
}

// FakeTMDB is an httptest server that answers the TMDB endpoints CineFile
// uses from an in-memory table.
type FakeTMDB struct {
	Server *httptest.Server
	APIKey string

	mu       sync.Mutex
	movies   []FakeMovie
	failures map[string]int

	searches atomic.Int64
	inFlight atomic.Int64
	peak     atomic.Int64
	// Gate, when set, blocks every search until it is closed or receives.
	Gate chan struct{}
}

// NewFakeTMDB starts a fake TMDB server that accepts apiKey.
func NewFakeTMDB(t testing.TB, apiKey string, movies ...FakeMovie) *FakeTMDB {
	t.Helper()
	fake := &FakeTMDB{APIKey: apiKey, movies: movies, failures: make(map[string]int)}
	fake.Server = httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(fake.Server.Close)
	return fake
}

// URL is the server base URL.
func (f *FakeTMDB) URL() string { return f.Server.URL }

// FailQuery makes searches for query answer with status.
func (f *FakeTMDB) FailQuery(query string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[strings.ToLower(query)] = status
}

// Searches returns the number of search requests served.
func (f *FakeTMDB) Searches() int { return int(f.searches.Load()) }

// PeakConcurrency returns the highest number of simultaneous searches seen.
func (f *FakeTMDB) PeakConcurrency() int { return int(f.peak.Load()) }

func (f *FakeTMDB) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("api_key") != f.APIKey {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/")
	switch {
	case path == "search/movie":
		f.search(w, r)
	case strings.HasPrefix(path, "movie/"):
		f.movie(w, strings.TrimPrefix(path, "movie/"))
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeTMDB) search(w http.ResponseWriter, r *http.Request) {
	f.searches.Add(1)
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.peak.Load()
		if current <= peak || f.peak.CompareAndSwap(peak, current) {
			break
		}
	}
	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-r.Context().Done():
			return
		}
	}

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))

	f.mu.Lock()
	status, fail := f.failures[query]
	var results []map[string]any
	for _, m := range f.movies {
		if !strings.Contains(strings.ToLower(m.Title), query) {
			continue
		}
		if year > 0 && !strings.HasPrefix(m.ReleaseDate, strconv.Itoa(year)) {
			continue
		}
		results = append(results, map[string]any{
			"id":           m.ID,
			"title":        m.Title,
			"release_date": m.ReleaseDate,
			"poster_path":  m.PosterPath,
			"overview":     m.Overview,
			"vote_average": m.VoteAverage,
		})
	}
	f.mu.Unlock()

	if fail {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
		return
	}
	if results == nil {
		results = []map[string]any{}
	}
	writeJSON(w, map[string]any{"page": 1, "results": results, "total_pages": 1, "total_results": len(results)})
}

func (f *FakeTMDB) movie(w http.ResponseWriter, rest string) {
	idText, credits := strings.CutSuffix(rest, "/credits")
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	f.mu.Lock()
	var found *FakeMovie
	for i := range f.movies {
		if f.movies[i].ID == id {
			m := f.movies[i]
			found = &m
			break
		}
	}
	f.mu.Unlock()
	if found == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if credits {
		cast := make([]map[string]any, 0, len(found.Cast))
		for i, name := range found.Cast {
			cast = append(cast, map[string]any{"name": name, "order": i})
		}
		crew := []map[string]any{}
		if found.Director != "" {
			crew = append(crew, map[string]any{"name": found.Director, "job": "Director"})
		}
		writeJSON(w, map[string]any{"id": id, "cast": cast, "crew": crew})
		return
	}
	genres := make([]map[string]any, 0, len(found.Genres))
	for i, name := range found.Genres {
		genres = append(genres, map[string]any{"id": i + 1, "name": name})
	}
	writeJSON(w, map[string]any{"id": id, "title": found.Title, "runtime": found.Runtime, "genres": genres})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
