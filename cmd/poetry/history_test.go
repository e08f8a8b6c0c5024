package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func setupHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	db, err := initDB(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("initDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewHistoryStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewHistoryStore() error = %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func TestHistoryRoundTrip(t *testing.T) {
	store := setupHistoryStore(t)
	ctx := context.Background()

	id, err := store.RecordRun(ctx, RunRecord{
		StartWord: "river",
		Requested: 40,
		Actual:    23,
		Truncated: true,
		Duration:  125 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if id == "" {
		t.Fatal("RecordRun() returned an empty run ID")
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != id {
		t.Errorf("ID = %q, want %q", got.ID, id)
	}
	if got.StartWord != "river" {
		t.Errorf("StartWord = %q, want \"river\"", got.StartWord)
	}
	if got.Requested != 40 {
		t.Errorf("Requested = %d, want 40", got.Requested)
	}
	if got.Actual != 23 {
		t.Errorf("Actual = %d, want 23", got.Actual)
	}
	if !got.Truncated {
		t.Error("Truncated = false, want true")
	}
	if got.Duration != 125*time.Millisecond {
		t.Errorf("Duration = %v, want 125ms", got.Duration)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}

func TestHistoryRecentRunsOrderAndLimit(t *testing.T) {
	store := setupHistoryStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if _, err := store.RecordRun(ctx, RunRecord{StartWord: "word", Requested: i, Actual: i}); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	// Newest first; insertion order breaks the tie when timestamps land
	// in the same second.
	if runs[0].Requested != 3 || runs[1].Requested != 2 {
		t.Errorf("requested lengths = %d, %d, want 3, 2", runs[0].Requested, runs[1].Requested)
	}
}
