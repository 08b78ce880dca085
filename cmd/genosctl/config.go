package main

import (
	"encoding/json"
	"fmt"
	"os"

	genosapi "genos/pkg/genos"
)

func loadRunRequestFromConfig(path string) (genosapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return genosapi.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return genosapi.RunRequest{}, err
	}

	var req genosapi.RunRequest
	if v, ok := asString(raw["run_id"]); ok {
		req.RunID = v
	}
	if v, ok := asString(raw["problem"]); ok {
		req.Problem = v
	}
	if v, ok := asString(raw["target"]); ok {
		req.Target = v
	}
	if v, ok := asInt(raw["bit_length"]); ok {
		req.BitLength = v
	}
	if v, ok := asInt(raw["population"]); ok {
		req.PopulationSize = v
	}
	if v, ok := asInt(raw["generations"]); ok {
		req.Generations = v
	}
	if v, ok := asFloat64(raw["mutation_probability"]); ok {
		req.MutationProbability = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asString(raw["selection"]); ok {
		req.Selection = v
	}
	return req, nil
}

func loadOrDefaultRunRequest(configPath string) (genosapi.RunRequest, error) {
	if configPath == "" {
		return genosapi.RunRequest{}, nil
	}
	req, err := loadRunRequestFromConfig(configPath)
	if err != nil {
		return genosapi.RunRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}

func overrideFromFlags(req *genosapi.RunRequest, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "run-id":
			req.RunID = v.(string)
		case "problem":
			req.Problem = v.(string)
		case "target":
			req.Target = v.(string)
		case "bits":
			req.BitLength = v.(int)
		case "pop":
			req.PopulationSize = v.(int)
		case "gens":
			req.Generations = v.(int)
		case "mutation-prob":
			req.MutationProbability = v.(float64)
		case "seed":
			req.Seed = v.(int64)
		case "selection":
			req.Selection = v.(string)
		}
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
