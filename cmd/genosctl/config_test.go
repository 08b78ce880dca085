package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	genosapi "genos/pkg/genos"
)

func TestLoadRunRequestFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_config.json")
	payload := map[string]any{
		"run_id":               "cfg-run",
		"problem":              "onemax",
		"bit_length":           24,
		"population":           16,
		"generations":          8,
		"mutation_probability": 0.25,
		"seed":                 77,
		"selection":            "tournament",
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	req, err := loadRunRequestFromConfig(path)
	if err != nil {
		t.Fatalf("load run request: %v", err)
	}
	if req.RunID != "cfg-run" || req.Problem != "onemax" || req.Selection != "tournament" {
		t.Fatalf("unexpected names: %+v", req)
	}
	if req.BitLength != 24 || req.PopulationSize != 16 || req.Generations != 8 {
		t.Fatalf("unexpected sizes: %+v", req)
	}
	if req.MutationProbability != 0.25 || req.Seed != 77 {
		t.Fatalf("unexpected numbers: %+v", req)
	}
}

func TestLoadRunRequestFromConfigIgnoresMistypedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_config.json")
	payload := map[string]any{
		"problem":    "chromatic",
		"seed":       "not-a-number",
		"population": true,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	req, err := loadRunRequestFromConfig(path)
	if err != nil {
		t.Fatalf("load run request: %v", err)
	}
	if req.Problem != "chromatic" {
		t.Fatalf("expected problem from config, got %+v", req)
	}
	if req.Seed != 0 || req.PopulationSize != 0 {
		t.Fatalf("expected mistyped values to be ignored: %+v", req)
	}
}

func TestLoadOrDefaultRunRequest(t *testing.T) {
	req, err := loadOrDefaultRunRequest("")
	if err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if req.Problem != "" || req.PopulationSize != 0 || req.Generations != 0 || req.Seed != 0 {
		t.Fatalf("expected zero request for empty path, got %+v", req)
	}

	_, err = loadOrDefaultRunRequest(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "load config:") {
		t.Fatalf("expected load config error, got %v", err)
	}
}

func TestOverrideFromFlags(t *testing.T) {
	req := genosapi.RunRequest{
		Problem:        "onemax",
		BitLength:      24,
		PopulationSize: 16,
		Generations:    8,
		Seed:           77,
	}
	overrideFromFlags(&req, map[string]bool{"gens": true, "seed": true}, map[string]any{
		"problem": "chromatic",
		"pop":     99,
		"gens":    3,
		"seed":    int64(11),
	})
	if req.Problem != "onemax" || req.PopulationSize != 16 {
		t.Fatalf("unset flags must not override config: %+v", req)
	}
	if req.Generations != 3 || req.Seed != 11 {
		t.Fatalf("set flags must override config: %+v", req)
	}
}
