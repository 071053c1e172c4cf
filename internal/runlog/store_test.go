package runlog_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"retake/internal/runlog"
)

func openStore(t *testing.T) *runlog.Store {
	t.Helper()
	store, err := runlog.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		run := runlog.Run{
			RunID:           "run-" + string(rune('a'+i)),
			SourcePath:      "/takes/session.wav",
			AudioPath:       "/takes/session_cleaned.wav",
			SubtitlePath:    "/takes/session.hrt",
			SourceSeconds:   120,
			CleanedSeconds:  90,
			SegmentsTotal:   40,
			SegmentsDropped: 8,
			Cues:            25,
			Status:          runlog.StatusSucceeded,
			StartedAt:       base.Add(time.Duration(i) * time.Hour),
			FinishedAt:      base.Add(time.Duration(i)*time.Hour + time.Minute),
		}
		if err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun %d: %v", i, err)
		}
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-c" || runs[1].RunID != "run-b" {
		t.Errorf("runs not newest-first: %s, %s", runs[0].RunID, runs[1].RunID)
	}
	if runs[0].SegmentsDropped != 8 || runs[0].Cues != 25 {
		t.Errorf("counters lost: %+v", runs[0])
	}
	if runs[0].Status != runlog.StatusSucceeded {
		t.Errorf("status = %q", runs[0].Status)
	}
}

func TestRecordFailedRunKeepsError(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	run := runlog.Run{
		RunID:        "run-x",
		SourcePath:   "/takes/broken.wav",
		Status:       runlog.StatusFailed,
		ErrorMessage: "recognition engine unavailable: whisper: check engine",
		StartedAt:    time.Now().UTC(),
		FinishedAt:   time.Now().UTC(),
	}
	if err := store.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	runs, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if runs[0].ErrorMessage == "" {
		t.Error("error message not persisted")
	}
}

func TestReductionPercent(t *testing.T) {
	run := runlog.Run{SourceSeconds: 200, CleanedSeconds: 150}
	if got := run.ReductionPercent(); math.Abs(got-25) > 1e-9 {
		t.Errorf("ReductionPercent = %g, want 25", got)
	}
	if got := (runlog.Run{}).ReductionPercent(); got != 0 {
		t.Errorf("zero-duration run should report 0, got %g", got)
	}
}

func TestOpenTwiceMigratesCleanly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := runlog.Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	store.Close()
	store, err = runlog.Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	store.Close()
}
