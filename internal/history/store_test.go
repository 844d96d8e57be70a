package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(id string, finished time.Time) Run {
	return Run{
		ID:          id,
		PackagePath: "/packages/sample.unitypackage",
		Destination: "/projects/sample",
		Staging:     "/projects/tmp",
		RecordCount: 2,
		StartedAt:   finished.Add(-2 * time.Second),
		FinishedAt:  finished,
	}
}

func TestRecordAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	first := sampleRun("run-1", now.Add(-time.Hour))
	second := sampleRun("run-2", now)

	for _, run := range []Run{first, second} {
		if err := store.RecordRun(ctx, run, []Placement{
			{RunID: run.ID, GUID: "aaa", TargetPath: "Assets/a.txt"},
			{RunID: run.ID, GUID: "bbb", TargetPath: "Assets/b", Folder: true},
		}); err != nil {
			t.Fatalf("RecordRun %s: %v", run.ID, err)
		}
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len = %d", len(runs))
	}
	if runs[0].ID != "run-2" {
		t.Fatalf("newest first, got %q", runs[0].ID)
	}
	if runs[0].RecordCount != 2 {
		t.Fatalf("RecordCount = %d", runs[0].RecordCount)
	}
}

func TestGetRunAbsent(t *testing.T) {
	store := openTestStore(t)

	run, err := store.GetRun(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run != nil {
		t.Fatalf("run = %+v, want nil", run)
	}
}

func TestPlacementsOrderedByTarget(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run := sampleRun("run-1", time.Now())
	placements := []Placement{
		{RunID: run.ID, GUID: "ccc", TargetPath: "Assets/z.txt"},
		{RunID: run.ID, GUID: "aaa", TargetPath: "Assets/a.txt"},
	}
	if err := store.RecordRun(ctx, run, placements); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	got, err := store.Placements(ctx, run.ID)
	if err != nil {
		t.Fatalf("Placements: %v", err)
	}
	if len(got) != 2 || got[0].TargetPath != "Assets/a.txt" {
		t.Fatalf("placements = %+v", got)
	}
}

func TestLatestPlacementPicksNewestRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := sampleRun("run-old", time.Now().Add(-time.Hour))
	recent := sampleRun("run-new", time.Now())

	if err := store.RecordRun(ctx, old, []Placement{{RunID: old.ID, GUID: "guid", TargetPath: "Assets/old.txt"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordRun(ctx, recent, []Placement{{RunID: recent.ID, GUID: "guid", TargetPath: "Assets/new.txt"}}); err != nil {
		t.Fatal(err)
	}

	placement, run, err := store.LatestPlacement(ctx, "guid")
	if err != nil {
		t.Fatalf("LatestPlacement: %v", err)
	}
	if placement == nil || run == nil {
		t.Fatal("expected a placement")
	}
	if placement.TargetPath != "Assets/new.txt" || run.ID != "run-new" {
		t.Fatalf("placement = %+v run = %+v", placement, run)
	}
}

func TestLatestPlacementUnknownGUID(t *testing.T) {
	store := openTestStore(t)

	placement, run, err := store.LatestPlacement(context.Background(), "missing")
	if err != nil {
		t.Fatalf("LatestPlacement: %v", err)
	}
	if placement != nil || run != nil {
		t.Fatal("unknown GUID should yield nils, not an error")
	}
}
