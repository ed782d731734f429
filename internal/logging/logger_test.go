package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cinefile/internal/config"
	"cinefile/internal/logging"
	"cinefile/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("catalog ready", logging.Int("movies", 3))

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "cinefile.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "catalog ready") || !strings.Contains(string(data), "movies=3") {
		t.Fatalf("unexpected log output %q", string(data))
	}
}

func TestConsoleLoggerRendersComponentAndList(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithListID(context.Background(), "afi-100")
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "importer"))
	logger.Info("row resolved", logging.String("title", "Citizen Kane"))
	logger.Debug("hidden at info level")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{"INFO", "[importer]", "List afi-100", "row resolved", `title="Citizen Kane"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "hidden at info level") {
		t.Fatalf("debug line leaked into info output: %q", out)
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "search failed", "tmdb_search_failed", logging.Int("rank", 4))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, string(data))
	}
	if entry["level"] != "warn" || entry["msg"] != "search failed" {
		t.Fatalf("unexpected entry %#v", entry)
	}
	if entry[logging.FieldEventType] != "tmdb_search_failed" {
		t.Fatalf("expected event type, got %#v", entry)
	}
	if _, ok := entry[logging.FieldImpact]; !ok {
		t.Fatalf("expected default impact to be injected: %#v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 0) {
		t.Fatal("nop logger should not be enabled")
	}
	logging.WarnWithContext(nil, "ignored", "none")
}

func TestJSONLoggerPromotesScopeFieldsOnce(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "scope.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRowRank(services.WithListID(context.Background(), "nyt-21st-century"), 7)
	logger = logging.NewComponentLogger(logger, "importer").With(logging.String(logging.FieldListID, "stale"))
	logging.WithContext(ctx, logger).Info("row resolved", logging.String("title", "Heat"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(string(data))
	if strings.Count(line, `"list_id"`) != 1 {
		t.Fatalf("expected list_id once, got %s", line)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, line)
	}
	if entry[logging.FieldListID] != "nyt-21st-century" || entry[logging.FieldRowRank] != float64(7) {
		t.Fatalf("unexpected scope fields %#v", entry)
	}
	if entry[logging.FieldComponent] != "importer" || entry["title"] != "Heat" {
		t.Fatalf("unexpected entry %#v", entry)
	}
	if strings.Index(line, `"list_id"`) > strings.Index(line, `"title"`) {
		t.Fatalf("expected scope fields before record attrs: %s", line)
	}
}

func TestConsoleLoggerRendersRowRank(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rank.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithRowRank(services.WithListID(context.Background(), "afi-100"), 12)
	logging.WithContext(ctx, logger).Info("no match", logging.Float64("score", 42.5), logging.String("query", ""))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{"List afi-100 #12", "score=42.5", `query=""`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "row_rank=") {
		t.Fatalf("row rank should be promoted, got %q", out)
	}
}
