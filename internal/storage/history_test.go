package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"archmap/internal/config"
	"archmap/internal/logging"
)

func newTestLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{
		Level:  logging.ErrorLevel,
		Format: logging.JSONFormat,
		Output: io.Discard,
	})
}

func openTestHistory(t *testing.T) (*History, string) {
	t.Helper()
	root, err := os.MkdirTemp("", "archmap-storage-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(root) })

	h, err := Open(root, newTestLogger())
	if err != nil {
		t.Fatalf("Failed to open history: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h, root
}

func TestOpenCreatesDatabase(t *testing.T) {
	_, root := openTestHistory(t)

	if _, err := os.Stat(config.HistoryDBPath(root)); err != nil {
		t.Errorf("Expected database file to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, config.DotDir)); err != nil {
		t.Errorf("Expected dot directory to exist: %v", err)
	}
}

func TestRecordAndRecent(t *testing.T) {
	h, _ := openTestHistory(t)

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := h.RecordBuild(BuildRecord{
			StartedAt:   base.Add(time.Duration(i) * time.Minute),
			DurationMS:  int64(100 + i),
			Files:       10 + i,
			Edges:       20 + i,
			Patterns:    1,
			CacheHit:    i == 2,
			ProjectKind: "laravel",
		})
		if err != nil {
			t.Fatalf("Failed to record build: %v", err)
		}
	}

	records, err := h.Recent(2)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if !records[0].StartedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("Expected newest build first, got %v", records[0].StartedAt)
	}
	if !records[0].CacheHit {
		t.Error("Expected the newest build to be a cache hit")
	}
	if records[1].Files != 11 || records[1].Edges != 21 {
		t.Errorf("Unexpected counts: %+v", records[1])
	}
	if records[0].ProjectKind != "laravel" {
		t.Errorf("Expected project kind laravel, got %s", records[0].ProjectKind)
	}
}

func TestRecordAssignsIDAndTimestamp(t *testing.T) {
	h, _ := openTestHistory(t)

	if err := h.RecordBuild(BuildRecord{Files: 1}); err != nil {
		t.Fatalf("Failed to record build: %v", err)
	}

	records, err := h.Recent(0)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if len(records[0].ID) != 36 {
		t.Errorf("Expected a generated UUID, got %q", records[0].ID)
	}
	if records[0].StartedAt.IsZero() {
		t.Error("Expected a generated timestamp")
	}
}

func TestCount(t *testing.T) {
	h, _ := openTestHistory(t)

	for i := 0; i < 4; i++ {
		if err := h.RecordBuild(BuildRecord{Files: i}); err != nil {
			t.Fatalf("Failed to record build: %v", err)
		}
	}

	n, err := h.Count()
	if err != nil {
		t.Fatalf("Failed to count builds: %v", err)
	}
	if n != 4 {
		t.Errorf("Expected 4 builds, got %d", n)
	}
}

func TestHistorySurvivesReopen(t *testing.T) {
	h, root := openTestHistory(t)

	if err := h.RecordBuild(BuildRecord{Files: 7, ProjectKind: "php"}); err != nil {
		t.Fatalf("Failed to record build: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Failed to close history: %v", err)
	}

	reopened, err := Open(root, newTestLogger())
	if err != nil {
		t.Fatalf("Failed to reopen history: %v", err)
	}
	defer reopened.Close()

	records, err := reopened.Recent(0)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(records) != 1 || records[0].Files != 7 {
		t.Errorf("Expected the recorded build to survive reopen, got %+v", records)
	}
}
