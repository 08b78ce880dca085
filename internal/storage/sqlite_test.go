//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"genos/internal/model"
)

func TestSQLiteStoreRunAndHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "genos.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	run := model.Run{
		VersionedRecord:     model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:                  "run-1",
		Problem:             "onemax",
		Selection:           "tournament",
		PopulationSize:      16,
		MutationProbability: 0.2,
		GenerationLimit:     30,
		Seed:                9,
		Generations:         11,
		FinalBestFitness:    1,
		FinalBestEncoding:   "1111",
		Status:              model.RunStatusCompleted,
		CreatedAtUTC:        "2026-02-01T10:00:00Z",
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatalf("expected run %s", run.ID)
	}
	if loaded.Problem != run.Problem || loaded.Generations != run.Generations {
		t.Fatalf("unexpected run loaded: %+v", loaded)
	}

	_, ok, err = store.GetRun(ctx, "missing")
	if err != nil {
		t.Fatalf("get missing run: %v", err)
	}
	if ok {
		t.Fatal("expected missing run to report absence")
	}

	history := []model.GenerationStats{
		{
			VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
			RunID:           "run-1",
			Generation:      1,
			BestFitness:     0.75,
			MeanFitness:     0.5,
			BestEncoding:    "1101",
		},
	}
	if err := store.SaveHistory(ctx, "run-1", history); err != nil {
		t.Fatalf("save history: %v", err)
	}
	loadedHistory, ok, err := store.GetHistory(ctx, "run-1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if !ok {
		t.Fatal("expected history run-1")
	}
	if len(loadedHistory) != 1 || loadedHistory[0].BestEncoding != "1101" {
		t.Fatalf("unexpected history loaded: %+v", loadedHistory)
	}
}

func TestSQLiteStoreListRuns(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "genos.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	for _, id := range []string{"run-b", "run-a"} {
		run := model.Run{
			VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
			ID:              id,
			Problem:         "chromatic",
		}
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("unexpected run count: %d", len(runs))
	}
	if runs[0].ID != "run-a" || runs[1].ID != "run-b" {
		t.Fatalf("unexpected order: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "genos.db")

	first := NewSQLiteStore(dbPath)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("first init: %v", err)
	}
	run := model.Run{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              "persisted-run",
		Problem:         "onemax",
	}
	if err := first.SaveRun(ctx, run); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}

	second := NewSQLiteStore(dbPath)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("second init: %v", err)
	}
	t.Cleanup(func() {
		_ = second.Close()
	})

	loaded, ok, err := second.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if !ok || loaded.ID != run.ID {
		t.Fatalf("expected persisted run, got ok=%t value=%+v", ok, loaded)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	ctx := context.Background()

	store := NewSQLiteStore(filepath.Join(t.TempDir(), "genos.db"))
	if err := store.SaveRun(ctx, model.Run{ID: "run-1"}); err == nil {
		t.Fatal("expected save before init to fail")
	}
	if _, _, err := store.GetRun(ctx, "run-1"); err == nil {
		t.Fatal("expected get before init to fail")
	}
}
