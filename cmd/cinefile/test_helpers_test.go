package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cinefile/internal/testsupport"
)

type cliTestEnv struct {
	tmdb       *testsupport.FakeTMDB
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TMDB_API_KEY", "")

	tmdb := testsupport.NewFakeTMDB(t, "cli-key",
		testsupport.FakeMovie{ID: 496243, Title: "Parasite", ReleaseDate: "2019-05-30", VoteAverage: 8.5, Director: "Bong Joon Ho"},
		testsupport.FakeMovie{ID: 129, Title: "Spirited Away", ReleaseDate: "2001-07-20", VoteAverage: 8.5, Director: "Hayao Miyazaki"},
		testsupport.FakeMovie{ID: 15, Title: "Citizen Kane", ReleaseDate: "1941-04-17", VoteAverage: 8.0, Director: "Orson Welles"},
	)

	catalogDir := filepath.Join(base, "catalog")
	testsupport.WriteFile(t, filepath.Join(catalogDir, "manifest.json"), `{"lists": [
  {"id": "nyt", "name": "NYT 21st Century", "source": "NYT", "year": 2025, "type": "csv-nyt21", "resource": "nyt"},
  {"id": "afi", "name": "AFI 100", "source": "AFI", "year": 2007, "type": "csv-afi", "resource": "afi", "preload": false}
]}`)
	testsupport.WriteFile(t, filepath.Join(catalogDir, "nyt.csv"), "rank,title,year\n1,Parasite,2019\n2,Spirited Away,2001\n")
	testsupport.WriteFile(t, filepath.Join(catalogDir, "afi.csv"), "edition,rank,title,year\n2007,1,Citizen Kane,1941\n")

	configPath := filepath.Join(homeDir, ".config", "cinefile", "config.toml")
	writeTestConfig(t, configPath, base, catalogDir, tmdb.URL(), "cli-key")

	return &cliTestEnv{tmdb: tmdb, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path, base, catalogDir, tmdbURL, apiKey string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
catalog_dir = %q

[tmdb]
api_key = %q
base_url = %q
requests_per_second = 0
cache_ttl_seconds = 0
`, filepath.Join(base, "data"), filepath.Join(base, "logs"), catalogDir, apiKey, tmdbURL)
	testsupport.WriteFile(t, path, content)
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, configPath string, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, configPath, args...)
	if err != nil {
		t.Fatalf("cinefile %s: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, out, stderr)
	}
	return out
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
