package stats

import (
	"os"
	"path/filepath"
	"testing"

	"genos/internal/model"
)

func TestWriteAndExportRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "exports")

	runID := "run-123"
	artifacts := RunArtifacts{
		Config: RunConfig{
			RunID:               runID,
			Problem:             "chromatic",
			Selection:           "roulette",
			PopulationSize:      4,
			MutationProbability: 0.1,
			GenerationLimit:     3,
			Seed:                1,
			Target:              "#336699",
		},
		BestByGeneration: []float64{0.5, 0.6, 0.7},
		History: []model.GenerationStats{
			{RunID: runID, Generation: 1, BestFitness: 0.5, MeanFitness: 0.4},
			{RunID: runID, Generation: 2, BestFitness: 0.6, MeanFitness: 0.5},
			{RunID: runID, Generation: 3, BestFitness: 0.7, MeanFitness: 0.6},
		},
		FinalBestFitness:  0.7,
		FinalBestEncoding: "#35669a",
	}

	runDir, err := WriteRunArtifacts(baseDir, artifacts)
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}

	for _, file := range []string{"config.json", "fitness_history.json", "history.json", "fitness_series.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, file)); err != nil {
			t.Fatalf("expected file %s: %v", file, err)
		}
	}

	exportedDir, err := ExportRunArtifacts(baseDir, runID, outDir)
	if err != nil {
		t.Fatalf("export artifacts: %v", err)
	}

	for _, file := range []string{"config.json", "fitness_history.json", "history.json", "fitness_series.csv"} {
		if _, err := os.Stat(filepath.Join(exportedDir, file)); err != nil {
			t.Fatalf("expected exported file %s: %v", file, err)
		}
	}

	cfg, ok, err := ReadRunConfig(baseDir, runID)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !ok {
		t.Fatal("expected run config to exist")
	}
	if cfg.Problem != "chromatic" || cfg.Target != "#336699" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	series, ok, err := ReadFitnessSeries(baseDir, runID)
	if err != nil {
		t.Fatalf("read series: %v", err)
	}
	if !ok {
		t.Fatal("expected fitness series to exist")
	}
	if len(series) != 3 || series[2] != 0.7 {
		t.Fatalf("unexpected series: %+v", series)
	}

	history, ok, err := ReadRunHistory(baseDir, runID)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if !ok {
		t.Fatal("expected history to exist")
	}
	if len(history) != 3 || history[1].Generation != 2 || history[1].BestFitness != 0.6 {
		t.Fatalf("unexpected history: %+v", history)
	}

	if _, ok, err := ReadRunHistory(baseDir, "absent"); err != nil || ok {
		t.Fatalf("expected missing history to report absence, ok=%t err=%v", ok, err)
	}
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	_, err := WriteRunArtifacts(t.TempDir(), RunArtifacts{})
	if err == nil {
		t.Fatal("expected missing run id error")
	}
}

func TestReadRunConfigMissing(t *testing.T) {
	_, ok, err := ReadRunConfig(t.TempDir(), "absent")
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if ok {
		t.Fatal("expected missing config to report absence")
	}
}

func TestRunIndexAppendListAndUpsert(t *testing.T) {
	baseDir := t.TempDir()

	err := AppendRunIndex(baseDir, RunIndexEntry{
		RunID:            "run-1",
		Problem:          "chromatic",
		Selection:        "roulette",
		PopulationSize:   8,
		Generations:      3,
		Seed:             1,
		FinalBestFitness: 0.80,
		CreatedAtUTC:     "2026-02-10T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("append run-1: %v", err)
	}

	err = AppendRunIndex(baseDir, RunIndexEntry{
		RunID:            "run-2",
		Problem:          "onemax",
		Selection:        "tournament",
		PopulationSize:   8,
		Generations:      3,
		Seed:             2,
		FinalBestFitness: 0.82,
		CreatedAtUTC:     "2026-02-10T11:00:00Z",
	})
	if err != nil {
		t.Fatalf("append run-2: %v", err)
	}

	entries, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].RunID != "run-2" || entries[1].RunID != "run-1" {
		t.Fatalf("unexpected order: %+v", entries)
	}

	err = AppendRunIndex(baseDir, RunIndexEntry{
		RunID:            "run-1",
		Problem:          "chromatic",
		Selection:        "roulette",
		PopulationSize:   8,
		Generations:      3,
		Seed:             1,
		FinalBestFitness: 0.90,
		CreatedAtUTC:     "2026-02-10T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("upsert run-1: %v", err)
	}

	entries, err = ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list after upsert: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after upsert, got %d", len(entries))
	}
	if entries[0].RunID != "run-1" || entries[0].FinalBestFitness != 0.90 {
		t.Fatalf("unexpected upsert result: %+v", entries[0])
	}
}

func TestRunIndexEqualTimestampPrefersLaterAppend(t *testing.T) {
	baseDir := t.TempDir()
	ts := "2026-02-10T12:00:00Z"

	if err := AppendRunIndex(baseDir, RunIndexEntry{RunID: "run-a", CreatedAtUTC: ts}); err != nil {
		t.Fatalf("append run-a: %v", err)
	}
	if err := AppendRunIndex(baseDir, RunIndexEntry{RunID: "run-b", CreatedAtUTC: ts}); err != nil {
		t.Fatalf("append run-b: %v", err)
	}

	entries, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].RunID != "run-b" {
		t.Fatalf("expected latest appended run-b first, got %+v", entries)
	}
}

func TestListRunIndexMissingDir(t *testing.T) {
	entries, err := ListRunIndex(filepath.Join(t.TempDir(), "never-created"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty index, got %+v", entries)
	}
}
