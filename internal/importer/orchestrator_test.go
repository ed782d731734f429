package importer_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cinefile/internal/catalog"
	"cinefile/internal/csvimport"
	"cinefile/internal/importer"
	"cinefile/internal/metadata"
	"cinefile/internal/services"
)

type fakeSearcher struct {
	mu    sync.Mutex
	calls []metadata.Query

	inFlight atomic.Int32
	peak     atomic.Int32
	started  chan struct{}
	gate     chan struct{}

	fn func(q metadata.Query) ([]catalog.Movie, error)
}

func (f *fakeSearcher) Search(ctx context.Context, q metadata.Query) ([]catalog.Movie, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.mu.Unlock()

	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.peak.Load()
		if current <= peak || f.peak.CompareAndSwap(peak, current) {
			break
		}
	}
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.fn == nil {
		return echo(q), nil
	}
	return f.fn(q)
}

func (f *fakeSearcher) queries() []metadata.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]metadata.Query(nil), f.calls...)
}

// echo returns one candidate that matches the query exactly.
func echo(q metadata.Query) []catalog.Movie {
	return []catalog.Movie{{
		ID:           "tmdb-" + q.Title,
		Title:        q.Title,
		Year:         q.Year,
		CriticRating: 7,
		ListRankings: map[string]int{},
	}}
}

func makeRows(n int) []csvimport.Row {
	rows := make([]csvimport.Row, n)
	for i := range rows {
		rows[i] = csvimport.Row{Rank: i + 1, Title: fmt.Sprintf("Film %02d", i+1), Year: 1990 + i%20}
	}
	return rows
}

func collect(progress *[]importer.Progress) importer.ProgressFunc {
	return func(p importer.Progress) { *progress = append(*progress, p) }
}

func TestImportListProgressIsMonotonicAndBounded(t *testing.T) {
	searcher := &fakeSearcher{fn: func(q metadata.Query) ([]catalog.Movie, error) {
		time.Sleep(time.Millisecond)
		if q.Title == "Film 05" || q.Title == "Film 11" {
			return nil, services.Wrap(services.ErrNetwork, "fake", "search", "boom", nil)
		}
		if q.Title == "Film 07" {
			return nil, nil
		}
		return echo(q), nil
	}}
	c := catalog.New(nil)
	orch := importer.New(c, searcher, importer.Options{MaxConcurrency: 6}, nil)

	const n = 30
	var progress []importer.Progress
	result, err := orch.ImportList(context.Background(), makeRows(n), "list", collect(&progress))
	if err != nil {
		t.Fatalf("ImportList: %v", err)
	}
	if len(progress) != n {
		t.Fatalf("expected %d progress ticks, got %d", n, len(progress))
	}
	for i := 1; i < len(progress); i++ {
		if progress[i].Fraction < progress[i-1].Fraction {
			t.Fatalf("progress decreased at %d: %v -> %v", i, progress[i-1].Fraction, progress[i].Fraction)
		}
	}
	if last := progress[len(progress)-1]; last.Fraction != 1 || last.Completed != n || last.Total != n {
		t.Fatalf("unexpected final tick %+v", last)
	}
	if peak := searcher.peak.Load(); peak > 6 {
		t.Fatalf("concurrency cap exceeded: %d", peak)
	}
	if result.State != importer.StateCompleted || orch.State("list") != importer.StateCompleted {
		t.Fatalf("unexpected state %v", result.State)
	}
	if result.Failed != 2 || result.Unmatched != 1 || result.Matched != n-3 {
		t.Fatalf("unexpected counts %+v", result)
	}
	if c.Len() != n-3 {
		t.Fatalf("expected %d movies, got %d", n-3, c.Len())
	}
	m, ok := c.Movie("tmdb-Film 03")
	if !ok || m.ListRankings["list"] != 3 {
		t.Fatalf("rank not tagged: %+v", m)
	}
}

func TestImportListIsIdempotent(t *testing.T) {
	c := catalog.New(nil)
	orch := importer.New(c, &fakeSearcher{}, importer.Options{}, nil)
	rows := makeRows(12)

	if _, err := orch.ImportList(context.Background(), rows, "list", nil); err != nil {
		t.Fatalf("first import: %v", err)
	}
	first := c.Movies()
	if _, err := orch.ImportList(context.Background(), rows, "list", nil); err != nil {
		t.Fatalf("second import: %v", err)
	}
	if c.Len() != len(first) {
		t.Fatalf("cardinality changed: %d -> %d", len(first), c.Len())
	}
}

func TestImportListEmptyRows(t *testing.T) {
	orch := importer.New(catalog.New(nil), &fakeSearcher{}, importer.Options{}, nil)
	var progress []importer.Progress
	result, err := orch.ImportList(context.Background(), nil, "empty", collect(&progress))
	if err != nil || result.State != importer.StateCompleted || len(progress) != 0 {
		t.Fatalf("unexpected result %+v err=%v ticks=%d", result, err, len(progress))
	}
}

func TestImportListBroadensQueryWithoutYear(t *testing.T) {
	searcher := &fakeSearcher{fn: func(q metadata.Query) ([]catalog.Movie, error) {
		if q.Year != 0 {
			return nil, nil
		}
		return []catalog.Movie{{ID: "1", Title: "Playtime", Year: 1967}}, nil
	}}
	c := catalog.New(nil)
	orch := importer.New(c, searcher, importer.Options{}, nil)
	rows := []csvimport.Row{{Rank: 4, Title: "Playtime", Year: 1968, Director: "Jacques Tati", RuntimeMinutes: 124}}

	result, err := orch.ImportList(context.Background(), rows, "tspdt", nil)
	if err != nil || result.Matched != 1 {
		t.Fatalf("unexpected result %+v err=%v", result, err)
	}
	queries := searcher.queries()
	if len(queries) != 2 || queries[0].Year != 1968 || queries[1].Year != 0 {
		t.Fatalf("unexpected queries %+v", queries)
	}
	m, _ := c.Movie("1")
	if m.Director != "Jacques Tati" || m.RuntimeMinutes != 124 || m.ListRankings["tspdt"] != 4 {
		t.Fatalf("row fields not backfilled: %+v", m)
	}
}

func TestImportListKeepUnmatched(t *testing.T) {
	searcher := &fakeSearcher{fn: func(metadata.Query) ([]catalog.Movie, error) { return nil, nil }}
	c := catalog.New(nil)
	orch := importer.New(c, searcher, importer.Options{KeepUnmatched: true}, nil)
	rows := []csvimport.Row{{Rank: 1, Title: "Lost Film", Year: 1921}}

	result, err := orch.ImportList(context.Background(), rows, "list", nil)
	if err != nil || result.Synthesized != 1 {
		t.Fatalf("unexpected result %+v err=%v", result, err)
	}
	m, ok := c.Movie(catalog.LocalID("Lost Film", 1921))
	if !ok || m.ListRankings["list"] != 1 {
		t.Fatalf("expected synthesized movie, got %+v", m)
	}
}

func TestImportListAuthErrorIsFatal(t *testing.T) {
	searcher := &fakeSearcher{fn: func(metadata.Query) ([]catalog.Movie, error) {
		time.Sleep(2 * time.Millisecond)
		return nil, services.Wrap(services.ErrAuth, "fake", "search", "no key", nil)
	}}
	orch := importer.New(catalog.New(nil), searcher, importer.Options{MaxConcurrency: 2}, nil)

	var progress []importer.Progress
	result, err := orch.ImportList(context.Background(), makeRows(50), "list", collect(&progress))
	if !errors.Is(err, services.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if result.State != importer.StateFailed || orch.State("list") != importer.StateFailed {
		t.Fatalf("expected failed state, got %v", result.State)
	}
	if !errors.Is(orch.Err("list"), services.ErrAuth) {
		t.Fatalf("expected recorded auth error, got %v", orch.Err("list"))
	}
	if len(searcher.queries()) >= 50 {
		t.Fatalf("admission did not stop: %d searches", len(searcher.queries()))
	}
	if last := progress[len(progress)-1]; last.Fraction != 1 {
		t.Fatalf("expected closing tick, got %+v", last)
	}
}

func TestCancelDrainsInFlightAndDiscardsResults(t *testing.T) {
	searcher := &fakeSearcher{
		started: make(chan struct{}, 100),
		gate:    make(chan struct{}),
	}
	c := catalog.New(nil)
	orch := importer.New(c, searcher, importer.Options{MaxConcurrency: 6}, nil)

	type outcome struct {
		result   importer.Result
		err      error
		progress []importer.Progress
	}
	done := make(chan outcome, 1)
	go func() {
		var progress []importer.Progress
		result, err := orch.ImportList(context.Background(), makeRows(40), "list", collect(&progress))
		done <- outcome{result, err, progress}
	}()

	for i := 0; i < 6; i++ {
		select {
		case <-searcher.started:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for searches to start")
		}
	}
	if orch.State("list") != importer.StateRunning {
		t.Fatalf("expected running, got %v", orch.State("list"))
	}
	if _, err := orch.ImportList(context.Background(), makeRows(1), "list", nil); !errors.Is(err, importer.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	if !orch.Cancel("list") {
		t.Fatal("Cancel returned false for running import")
	}
	close(searcher.gate)

	var got outcome
	select {
	case got = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("import did not finish after cancel")
	}
	if got.err != nil {
		t.Fatalf("ImportList: %v", got.err)
	}
	if got.result.State != importer.StateCancelled {
		t.Fatalf("expected cancelled, got %v", got.result.State)
	}
	if got.result.Completed != 6 || got.result.Discarded != 6 {
		t.Fatalf("expected 6 drained and discarded rows, got %+v", got.result)
	}
	if c.Len() != 0 {
		t.Fatalf("results after cancel should be discarded, catalog has %d", c.Len())
	}
	if len(got.progress) != 7 || got.progress[6].Fraction != 1 {
		t.Fatalf("expected 6 ticks plus closing tick, got %+v", got.progress)
	}
	if orch.Cancel("list") {
		t.Fatal("Cancel should report false once the import ended")
	}
}

func TestContextCancellationStopsAdmission(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	searcher := &fakeSearcher{fn: func(q metadata.Query) ([]catalog.Movie, error) {
		if calls.Add(1) == 3 {
			cancel()
		}
		return echo(q), nil
	}}
	orch := importer.New(catalog.New(nil), searcher, importer.Options{MaxConcurrency: 1}, nil)

	result, err := orch.ImportList(ctx, makeRows(20), "list", nil)
	if err != nil {
		t.Fatalf("ImportList: %v", err)
	}
	if result.State != importer.StateCancelled {
		t.Fatalf("expected cancelled, got %v", result.State)
	}
	if result.Completed >= 20 {
		t.Fatalf("expected admission to stop early, completed %d", result.Completed)
	}
}
