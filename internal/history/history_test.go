package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// The parent directory does not exist yet; Open must create it.
	store, err := Open(filepath.Join(t.TempDir(), "fovea", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func TestRecordAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := Run{
		StartedAt:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		EndedAt:    time.Date(2025, 3, 1, 9, 10, 0, 0, time.UTC),
		Source:     "book.epub",
		WordsRead:  3000,
		TotalWords: 90000,
		WPM:        300,
		DurationMs: 600000,
	}
	second := Run{
		StartedAt:  time.Date(2025, 3, 2, 20, 0, 0, 0, time.UTC),
		EndedAt:    time.Date(2025, 3, 2, 20, 5, 0, 0, time.UTC),
		Source:     "notes.md",
		WordsRead:  1750,
		TotalWords: 1750,
		WPM:        350,
		DurationMs: 300000,
	}

	if _, err := store.RecordRun(ctx, first); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	id, err := store.RecordRun(ctx, second)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if id == 0 {
		t.Error("RecordRun returned id 0")
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}

	// Newest first.
	if runs[0].Source != "notes.md" || runs[1].Source != "book.epub" {
		t.Errorf("order = [%s, %s], want newest first", runs[0].Source, runs[1].Source)
	}
	got := runs[1]
	if !got.StartedAt.Equal(first.StartedAt) || !got.EndedAt.Equal(first.EndedAt) {
		t.Errorf("timestamps = %v/%v, want %v/%v", got.StartedAt, got.EndedAt, first.StartedAt, first.EndedAt)
	}
	if got.WordsRead != first.WordsRead || got.TotalWords != first.TotalWords || got.WPM != first.WPM || got.DurationMs != first.DurationMs {
		t.Errorf("run = %+v, want %+v", got, first)
	}
}

func TestListRunsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := Run{
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			EndedAt:   base.Add(time.Duration(i)*time.Hour + 10*time.Minute),
			Source:    "stdin",
			WPM:       300,
		}
		if _, err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun %d: %v", i, err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if !runs[0].EndedAt.After(runs[1].EndedAt) {
		t.Errorf("runs not newest first: %v then %v", runs[0].EndedAt, runs[1].EndedAt)
	}
}

func TestGetTotals(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	empty, err := store.GetTotals(ctx)
	if err != nil {
		t.Fatalf("GetTotals: %v", err)
	}
	if empty.Runs != 0 || empty.WordsRead != 0 || empty.Duration != 0 {
		t.Errorf("empty totals = %+v, want zeros", empty)
	}

	now := time.Now().UTC()
	for _, run := range []Run{
		{StartedAt: now, EndedAt: now, Source: "a.txt", WordsRead: 100, DurationMs: 20000},
		{StartedAt: now, EndedAt: now, Source: "b.txt", WordsRead: 250, DurationMs: 50000},
	} {
		if _, err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	totals, err := store.GetTotals(ctx)
	if err != nil {
		t.Fatalf("GetTotals: %v", err)
	}
	if totals.Runs != 2 {
		t.Errorf("Runs = %d, want 2", totals.Runs)
	}
	if totals.WordsRead != 350 {
		t.Errorf("WordsRead = %d, want 350", totals.WordsRead)
	}
	if totals.Duration != 70*time.Second {
		t.Errorf("Duration = %v, want 70s", totals.Duration)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")
	ctx := context.Background()

	store1, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	now := time.Now().UTC()
	if _, err := store1.RecordRun(ctx, Run{StartedAt: now, EndedAt: now, Source: "x.txt"}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := store1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store2.Close()
	runs, err := store2.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs after reopen, want 1", len(runs))
	}
}
