package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/gameshell/internal/profiling"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreRunLifecycle(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.StartRun("run-1", "pong", "tui"); err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}
	if _, err := store.StartRun("run-2", "inputview", "ssh"); err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}
	if err := store.FinishRun("run-1", 1000); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	runs, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	// Newest first
	if runs[0].RunID != "run-2" {
		t.Errorf("Expected run-2 first, got %s", runs[0].RunID)
	}
	if !runs[0].EndedAt.IsZero() {
		t.Error("Expected run-2 to be unfinished")
	}
	if runs[1].Ticks != 1000 {
		t.Errorf("Ticks = %d, expected 1000", runs[1].Ticks)
	}
	if runs[1].EndedAt.IsZero() {
		t.Error("Expected run-1 to have an end time")
	}

	pong, err := store.RecentRuns("pong", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(pong) != 1 || pong[0].CoreID != "pong" {
		t.Errorf("Expected only the pong run, got %+v", pong)
	}
}

func TestStoreFinishUnknownRun(t *testing.T) {
	store := openTestStore(t)
	if err := store.FinishRun("missing", 1); err == nil {
		t.Error("Expected error for unknown run")
	}
}

func TestStoreDuplicateRunID(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.StartRun("dup", "pong", "tui"); err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}
	if _, err := store.StartRun("dup", "pong", "tui"); err == nil {
		t.Error("Expected error for duplicate run ID")
	}
}

func TestStoreReportSummaries(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.StartRun("run", "pong", "tui"); err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}

	reports := []profiling.Report{
		{
			Entries: []profiling.Entry{
				{Name: "tick_do", Count: 100, Samples: 100, Mean: 2 * time.Millisecond, Min: time.Millisecond, Max: 3 * time.Millisecond},
			},
			Counters: []profiling.CounterEntry{{Name: "audio_underruns", Value: 2}},
		},
		{
			Entries: []profiling.Entry{
				{Name: "tick_do", Count: 50, Samples: 50, Mean: 4 * time.Millisecond, Min: 2 * time.Millisecond, Max: 9 * time.Millisecond},
				{Name: "fill_audio_buffer", Count: 10, Samples: 10, Mean: time.Millisecond, Min: time.Millisecond, Max: time.Millisecond},
			},
			Counters: []profiling.CounterEntry{{Name: "audio_underruns", Value: 3}},
		},
		{},
	}
	for _, rep := range reports {
		if err := store.SaveReport("run", rep); err != nil {
			t.Fatalf("SaveReport() failed: %v", err)
		}
	}

	intervals, err := store.Intervals("run")
	if err != nil {
		t.Fatalf("Intervals() failed: %v", err)
	}
	if len(intervals) != 2 {
		t.Fatalf("Expected 2 intervals, got %d", len(intervals))
	}

	// Ordered by name
	tick := intervals[1]
	if tick.Name != "tick_do" {
		t.Fatalf("Expected tick_do second, got %s", tick.Name)
	}
	if tick.Count != 150 || tick.Reports != 2 {
		t.Errorf("Count = %d, Reports = %d, expected 150 and 2", tick.Count, tick.Reports)
	}
	if tick.Mean != 3*time.Millisecond {
		t.Errorf("Mean = %v, expected 3ms", tick.Mean)
	}
	if tick.Min != time.Millisecond || tick.Max != 9*time.Millisecond {
		t.Errorf("Min = %v, Max = %v, expected 1ms and 9ms", tick.Min, tick.Max)
	}

	counters, err := store.Counters("run")
	if err != nil {
		t.Fatalf("Counters() failed: %v", err)
	}
	if len(counters) != 1 || counters[0].Total != 5 {
		t.Errorf("Counters = %+v, expected audio_underruns 5", counters)
	}

	if err := store.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	if runs, _ := store.RecentRuns("", 10); len(runs) != 0 {
		t.Errorf("Expected no runs after clear, got %d", len(runs))
	}
}
