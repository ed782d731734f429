package api_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cinefile/internal/api"
	"cinefile/internal/config"
	"cinefile/internal/importer"
	"cinefile/internal/projection"
	"cinefile/internal/services"
	"cinefile/internal/testsupport"
)

const manifestJSON = `{
  "lists": [
    {"id": "nyt", "name": "NYT 21st Century", "source": "NYT", "year": 2025, "type": "csv-nyt21", "resource": "nyt"},
    {"id": "afi", "name": "AFI 100", "source": "AFI", "year": 2007, "type": "csv-afi", "resource": "afi.csv", "preload": false}
  ]
}`

func fakeTMDB(t *testing.T) *testsupport.FakeTMDB {
	t.Helper()
	return testsupport.NewFakeTMDB(t, "secret",
		testsupport.FakeMovie{ID: 496243, Title: "Parasite", ReleaseDate: "2019-05-30", VoteAverage: 8.5, Runtime: 132, Director: "Bong Joon Ho"},
		testsupport.FakeMovie{ID: 129, Title: "Spirited Away", ReleaseDate: "2001-07-20", VoteAverage: 8.5, Runtime: 125, Director: "Hayao Miyazaki"},
		testsupport.FakeMovie{ID: 15, Title: "Citizen Kane", ReleaseDate: "1941-04-17", VoteAverage: 8.0, Runtime: 119, Director: "Orson Welles"},
	)
}

func newConfig(t *testing.T, tmdb *testsupport.FakeTMDB, opts ...testsupport.ConfigOption) *config.Config {
	t.Helper()
	catalogDir := filepath.Join(t.TempDir(), "catalog")
	testsupport.WriteFile(t, filepath.Join(catalogDir, "manifest.json"), manifestJSON)
	testsupport.WriteFile(t, filepath.Join(catalogDir, "nyt.csv"), "rank,title,year\n1,Parasite,2019\n2,Spirited Away,2001\n3,Unknown Film,2005\n")
	testsupport.WriteFile(t, filepath.Join(catalogDir, "afi.csv"), "edition,rank,title,year\n2007,1,Citizen Kane,1941\n")
	base := []testsupport.ConfigOption{
		testsupport.WithTMDBKey("secret"),
		testsupport.WithTMDBBaseURL(tmdb.URL()),
		testsupport.WithCatalogDir(catalogDir),
	}
	cfg := testsupport.NewConfig(t, append(base, opts...)...)
	cfg.Import.IncludeDetails = true
	return cfg
}

func openService(t *testing.T, cfg *config.Config) *api.Service {
	t.Helper()
	svc, err := api.Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("api.Open: %v", err)
	}
	return svc
}

func closeService(t *testing.T, svc *api.Service) {
	t.Helper()
	if err := svc.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestPreloadPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	tmdb := fakeTMDB(t)
	cfg := newConfig(t, tmdb)

	svc := openService(t, cfg)
	var last importer.PreloadProgress
	report, err := svc.Preload(ctx, false, func(p importer.PreloadProgress) { last = p })
	if err != nil {
		t.Fatalf("Preload: %v", err)
	}
	if len(report.Outcomes) != 1 || report.Outcomes[0].Result.Matched != 2 || report.Outcomes[0].Result.Unmatched != 1 {
		t.Fatalf("unexpected report %+v", report.Outcomes)
	}
	if last.Fraction != 1 {
		t.Fatalf("expected final progress 1, got %+v", last)
	}
	if svc.ImportState("nyt") != importer.StateCompleted || svc.ImportState("afi") != importer.StateIdle {
		t.Fatalf("unexpected import states nyt=%v afi=%v", svc.ImportState("nyt"), svc.ImportState("afi"))
	}
	closeService(t, svc)

	svc = openService(t, cfg)
	defer closeService(t, svc)
	if got := len(svc.Lists()); got != 2 {
		t.Fatalf("expected both manifest lists restored, got %d", got)
	}
	parasite, err := svc.Movie("496243")
	if err != nil {
		t.Fatalf("Movie: %v", err)
	}
	if parasite.ListRankings["nyt"] != 1 || parasite.Director != "Bong Joon Ho" || parasite.RuntimeMinutes != 132 {
		t.Fatalf("unexpected restored movie %+v", parasite)
	}

	searches := tmdb.Searches()
	if _, err := svc.Preload(ctx, false, nil); err != nil {
		t.Fatalf("second Preload: %v", err)
	}
	if tmdb.Searches() != searches {
		t.Fatalf("imported lists should be skipped on restart")
	}
}

func TestImportListRunsNonPreloadList(t *testing.T) {
	ctx := context.Background()
	cfg := newConfig(t, fakeTMDB(t))
	svc := openService(t, cfg)
	defer closeService(t, svc)

	result, err := svc.ImportList(ctx, "afi", nil)
	if err != nil {
		t.Fatalf("ImportList: %v", err)
	}
	if result.Matched != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	view, err := svc.View(api.ViewQuery{ListID: "afi"})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if len(view.Movies) != 1 || view.Movies[0].Title != "Citizen Kane" || view.ListName != "AFI 100" {
		t.Fatalf("unexpected view %+v", view)
	}
	if _, err := svc.ImportList(ctx, "missing", nil); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInvalidKeyFailsImportAndSearch(t *testing.T) {
	ctx := context.Background()
	tmdb := fakeTMDB(t)
	cfg := newConfig(t, tmdb, testsupport.WithTMDBKey("wrong"))
	svc := openService(t, cfg)
	defer closeService(t, svc)

	if _, err := svc.Preload(ctx, false, nil); !errors.Is(err, services.ErrAuth) {
		t.Fatalf("expected auth error from preload, got %v", err)
	}
	if svc.ImportState("nyt") != importer.StateFailed {
		t.Fatalf("expected failed state, got %v", svc.ImportState("nyt"))
	}

	_, err := svc.SearchMovies(ctx, "Parasite", 0)
	if !errors.Is(err, services.ErrAuth) {
		t.Fatalf("expected auth error from search, got %v", err)
	}
	if msg := services.UserMessage(err); !strings.Contains(msg, "TMDB API key") {
		t.Fatalf("unexpected user message %q", msg)
	}
}

func TestPlaceholderKeyNeverReachesServer(t *testing.T) {
	tmdb := fakeTMDB(t)
	cfg := newConfig(t, tmdb, testsupport.WithTMDBKey(config.PlaceholderTMDBKey))
	svc := openService(t, cfg)
	defer closeService(t, svc)

	if _, err := svc.SearchMovies(context.Background(), "Parasite", 0); !errors.Is(err, services.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if tmdb.Searches() != 0 {
		t.Fatalf("expected no requests, got %d", tmdb.Searches())
	}
}

func TestUserListsAndStatePersist(t *testing.T) {
	ctx := context.Background()
	cfg := newConfig(t, fakeTMDB(t))
	svc := openService(t, cfg)
	if _, err := svc.Preload(ctx, false, nil); err != nil {
		t.Fatalf("Preload: %v", err)
	}

	list, err := svc.CreateList(ctx, "Favorites", "mine")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	if err := svc.AddToList(ctx, list.ID, "129"); err != nil {
		t.Fatalf("AddToList: %v", err)
	}
	if err := svc.AddToList(ctx, "nyt", "129"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("system lists must be read-only, got %v", err)
	}
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.SetWatched(ctx, "129", true, &date); err != nil {
		t.Fatalf("SetWatched: %v", err)
	}
	rating := 9.5
	if _, err := svc.RateMovie(ctx, "496243", &rating); err != nil {
		t.Fatalf("RateMovie: %v", err)
	}
	bad := 11.0
	if _, err := svc.RateMovie(ctx, "496243", &bad); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.SetInWatchlist(ctx, "496243", true); err != nil {
		t.Fatalf("SetInWatchlist: %v", err)
	}
	if err := svc.SetSort(ctx, projection.SortTitle, false); err != nil {
		t.Fatalf("SetSort: %v", err)
	}
	if err := svc.SelectList(ctx, list.ID); err != nil {
		t.Fatalf("SelectList: %v", err)
	}
	if err := svc.SetShowAdultContent(ctx, true); err != nil {
		t.Fatalf("SetShowAdultContent: %v", err)
	}
	closeService(t, svc)

	svc = openService(t, cfg)
	defer closeService(t, svc)

	prefs := svc.Settings()
	if prefs.SortOption != projection.SortTitle || prefs.SortAscending || prefs.SelectedListID != list.ID || !prefs.ShowAdultContent {
		t.Fatalf("settings not restored: %+v", prefs)
	}
	view, err := svc.View(api.ViewQuery{})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if view.ListID != list.ID || len(view.Movies) != 1 || view.Movies[0].ID != "129" {
		t.Fatalf("unexpected selected view %+v", view)
	}
	if !view.Movies[0].Watched || view.Movies[0].WatchedDate == nil || !view.Movies[0].WatchedDate.Equal(date) {
		t.Fatalf("watched state not restored: %+v", view.Movies[0])
	}
	if view.Watched != 1 || view.Total != 1 || view.Progress != 1 {
		t.Fatalf("unexpected completion %d/%d %v", view.Watched, view.Total, view.Progress)
	}
	parasite, _ := svc.Movie("496243")
	if parasite.UserRating == nil || *parasite.UserRating != 9.5 || !parasite.InWatchlist {
		t.Fatalf("user state not restored: %+v", parasite)
	}
	if got := svc.Watchlist(); len(got) != 1 || got[0].ID != "496243" {
		t.Fatalf("unexpected watchlist %+v", got)
	}

	if err := svc.DeleteList(ctx, list.ID); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}
	if svc.Settings().SelectedListID != projection.AllListsID {
		t.Fatalf("deleting the selected list should reset the selection, got %q", svc.Settings().SelectedListID)
	}
	if _, err := svc.Movie("129"); err != nil {
		t.Fatalf("deleting a list must keep its movies: %v", err)
	}
}

func TestViewSortsAndFilters(t *testing.T) {
	ctx := context.Background()
	cfg := newConfig(t, fakeTMDB(t))
	svc := openService(t, cfg)
	defer closeService(t, svc)
	if _, err := svc.Preload(ctx, false, nil); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	if _, err := svc.ToggleWatched(ctx, "496243"); err != nil {
		t.Fatalf("ToggleWatched: %v", err)
	}

	view, err := svc.View(api.ViewQuery{ListID: "nyt"})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if len(view.Movies) != 2 || view.Movies[0].ID != "496243" || view.Movies[1].ID != "129" {
		t.Fatalf("unexpected rank order %+v", view.Movies)
	}
	descending := false
	view, err = svc.View(api.ViewQuery{ListID: "nyt", Sort: projection.SortYear, Ascending: &descending, Filter: projection.FilterUnwatched})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if len(view.Movies) != 1 || view.Movies[0].ID != "129" {
		t.Fatalf("unexpected filtered view %+v", view.Movies)
	}
	if view.Watched != 1 || view.Total != 2 {
		t.Fatalf("completion should ignore the filter, got %d/%d", view.Watched, view.Total)
	}
	if _, err := svc.View(api.ViewQuery{ListID: "nope"}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSearchAndAddMovie(t *testing.T) {
	ctx := context.Background()
	cfg := newConfig(t, fakeTMDB(t))
	svc := openService(t, cfg)
	defer closeService(t, svc)

	results, err := svc.SearchMovies(ctx, "citizen", 0)
	if err != nil {
		t.Fatalf("SearchMovies: %v", err)
	}
	if len(results) != 1 || results[0].Director != "Orson Welles" {
		t.Fatalf("unexpected results %+v", results)
	}
	list, err := svc.CreateList(ctx, "Classics", "")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	id, err := svc.AddMovie(ctx, results[0], list.ID)
	if err != nil {
		t.Fatalf("AddMovie: %v", err)
	}
	if _, err := svc.SetWatched(ctx, id, true, nil); err != nil {
		t.Fatalf("SetWatched: %v", err)
	}

	again, err := svc.SearchMovies(ctx, "citizen", 0)
	if err != nil {
		t.Fatalf("SearchMovies: %v", err)
	}
	if !again[0].Watched || again[0].ListRankings[list.ID] != 1 {
		t.Fatalf("search results should reflect catalog state, got %+v", again[0])
	}
	if _, err := svc.SearchMovies(ctx, "  ", 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCancelImportsWhenIdle(t *testing.T) {
	svc := openService(t, newConfig(t, fakeTMDB(t)))
	defer closeService(t, svc)
	if n := svc.CancelImports(); n != 0 {
		t.Fatalf("expected no running imports, got %d", n)
	}
}
