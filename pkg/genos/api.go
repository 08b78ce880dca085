package genos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"genos/internal/chromatic"
	"genos/internal/logging"
	"genos/internal/model"
	"genos/internal/onemax"
	"genos/internal/platform"
	"genos/internal/problemid"
	"genos/internal/stats"
	"genos/internal/storage"
	"genos/internal/strategy"
)

const (
	defaultArtifactsDir = "artifacts"
	defaultExportsDir   = "exports"
	defaultDBPath       = "genos.db"

	defaultPopulationSize      = 50
	defaultGenerationLimit     = 100
	defaultMutationProbability = 0.1
	defaultTargetHex           = "#2a9d8f"
	defaultBitLength           = 32
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	ExportsDir   string
	Logger       logging.Logger
}

type Client struct {
	store storage.Store
	lab   *platform.Lab

	artifactsDir string
	exportsDir   string
	logger       logging.Logger
}

type RunRequest struct {
	RunID   string
	Problem string
	// MutationProbability of zero selects the default of 0.1. Drive the
	// engine package directly for a run with no mutation at all.
	MutationProbability float64
	PopulationSize      int
	Generations         int
	Seed                int64
	Selection           string

	// Target is the goal color for the chromatic problem.
	Target string
	// BitLength is the genome width for the onemax problem.
	BitLength int

	// Progress, when set, receives the stats of each completed generation.
	Progress func(model.GenerationStats)
}

type RunSummary struct {
	RunID             string
	Problem           string
	Selection         string
	Seed              int64
	Generations       int
	ArtifactsDir      string
	BestByGeneration  []float64
	FinalBestFitness  float64
	FinalBestEncoding string
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID            string
	CreatedAtUTC     string
	Problem          string
	Selection        string
	Seed             int64
	Population       int
	Generations      int
	FinalBestFitness float64
}

type HistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type RunConfigRequest struct {
	RunID  string
	Latest bool
}

type RunConfigItem struct {
	RunID               string
	Problem             string
	Selection           string
	PopulationSize      int
	MutationProbability float64
	GenerationLimit     int
	Seed                int64
	Target              string
	BitLength           int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

type ProblemInfo struct {
	Name             string
	Description      string
	DefaultSelection string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		artifactsDir: artifactsDir,
		exportsDir:   exportsDir,
		logger:       logger,
	}, nil
}

func (c *Client) Close() error {
	if c.lab != nil && c.lab.Started() {
		return c.lab.StopWithReason(platform.StopReasonShutdown)
	}
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	_, err := c.ensureLab(ctx)
	return err
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	req.Problem = problemid.Normalize(req.Problem)
	if req.Problem == "" {
		req.Problem = "chromatic"
	}
	if req.PopulationSize <= 0 {
		req.PopulationSize = defaultPopulationSize
	}
	if req.Generations <= 0 {
		req.Generations = defaultGenerationLimit
	}
	if req.MutationProbability == 0 {
		req.MutationProbability = defaultMutationProbability
	}
	if req.Selection == "" {
		req.Selection = defaultSelectionFor(req.Problem)
	}

	selector, err := selectorFromName(req.Selection)
	if err != nil {
		return RunSummary{}, err
	}

	spec := platform.RunSpec{
		Selection:           req.Selection,
		PopulationSize:      req.PopulationSize,
		MutationProbability: req.MutationProbability,
		GenerationLimit:     req.Generations,
		Seed:                req.Seed,
		Progress:            req.Progress,
	}

	switch req.Problem {
	case "chromatic":
		target := req.Target
		if target == "" {
			target = defaultTargetHex
		}
		channels, err := chromatic.ParseHex(target)
		if err != nil {
			return RunSummary{}, err
		}
		problem, err := chromatic.New(chromatic.Config{
			Target:          channels,
			PopulationSize:  req.PopulationSize,
			GenerationLimit: req.Generations,
			Selector:        selector,
		})
		if err != nil {
			return RunSummary{}, err
		}
		spec.Problem = problem
		spec.Target = problem.TargetHex()
	case "onemax":
		if req.BitLength <= 0 {
			req.BitLength = defaultBitLength
		}
		problem, err := onemax.New(onemax.Config{
			BitLength:       req.BitLength,
			PopulationSize:  req.PopulationSize,
			GenerationLimit: req.Generations,
			Selector:        selector,
		})
		if err != nil {
			return RunSummary{}, err
		}
		spec.Problem = problem
		spec.BitLength = req.BitLength
	default:
		return RunSummary{}, fmt.Errorf("unsupported problem: %s", req.Problem)
	}

	runID := req.RunID
	if runID == "" {
		runID = fmt.Sprintf("%s-%s", req.Problem, uuid.NewString())
	}
	spec.RunID = runID

	lab, err := c.ensureLab(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	result, err := lab.RunEvolution(ctx, spec)
	if err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:             result.RunID,
		Problem:           req.Problem,
		Selection:         req.Selection,
		Seed:              result.Seed,
		Generations:       result.Generations,
		ArtifactsDir:      result.ArtifactsDir,
		BestByGeneration:  append([]float64(nil), result.BestByGeneration...),
		FinalBestFitness:  result.FinalBestFitness,
		FinalBestEncoding: result.FinalBestEncoding,
	}, nil
}

func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:            e.RunID,
			CreatedAtUTC:     e.CreatedAtUTC,
			Problem:          e.Problem,
			Selection:        e.Selection,
			Seed:             e.Seed,
			Population:       e.PopulationSize,
			Generations:      e.Generations,
			FinalBestFitness: e.FinalBestFitness,
		})
	}
	return out, nil
}

func (c *Client) History(ctx context.Context, req HistoryRequest) ([]model.GenerationStats, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(req.RunID, req.Latest, "history")
	if err != nil {
		return nil, err
	}

	lab, err := c.ensureLab(ctx)
	if err != nil {
		return nil, err
	}
	history, ok, err := lab.History(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("history not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return history, nil
}

func (c *Client) RunConfig(_ context.Context, req RunConfigRequest) (RunConfigItem, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, "run config")
	if err != nil {
		return RunConfigItem{}, err
	}

	cfg, ok, err := stats.ReadRunConfig(c.artifactsDir, runID)
	if err != nil {
		return RunConfigItem{}, err
	}
	if !ok {
		return RunConfigItem{}, fmt.Errorf("run config not found for run id: %s", runID)
	}
	return RunConfigItem{
		RunID:               cfg.RunID,
		Problem:             cfg.Problem,
		Selection:           cfg.Selection,
		PopulationSize:      cfg.PopulationSize,
		MutationProbability: cfg.MutationProbability,
		GenerationLimit:     cfg.GenerationLimit,
		Seed:                cfg.Seed,
		Target:              cfg.Target,
		BitLength:           cfg.BitLength,
	}, nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}
	runID, err := c.resolveRunID(req.RunID, req.Latest, "export")
	if err != nil {
		return ExportSummary{}, err
	}

	exportedDir, err := stats.ExportRunArtifacts(c.artifactsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: exportedDir}, nil
}

func Problems() []ProblemInfo {
	return []ProblemInfo{
		{Name: "chromatic", Description: "evolve an RGB color toward a target color", DefaultSelection: "roulette"},
		{Name: "onemax", Description: "evolve a bit string toward all ones", DefaultSelection: "tournament"},
	}
}

func (c *Client) resolveRunID(runID string, latest bool, operation string) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if latest {
		entries, err := stats.ListRunIndex(c.artifactsDir)
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "", errors.New("no runs available")
		}
		return entries[0].RunID, nil
	}
	if runID == "" {
		return "", fmt.Errorf("%s requires run id or latest", operation)
	}
	return runID, nil
}

func (c *Client) ensureLab(ctx context.Context) (*platform.Lab, error) {
	if c.lab != nil {
		return c.lab, nil
	}
	lab := platform.NewLab(platform.Config{
		Store:        c.store,
		ArtifactsDir: c.artifactsDir,
		Logger:       c.logger,
	})
	if err := lab.Init(ctx); err != nil {
		return nil, err
	}
	c.lab = lab
	return c.lab, nil
}

func defaultSelectionFor(problem string) string {
	if problem == "onemax" {
		return "tournament"
	}
	return "roulette"
}

func selectorFromName(name string) (strategy.Selector, error) {
	switch name {
	case "roulette":
		return strategy.RouletteSelector{}, nil
	case "tournament":
		return strategy.TournamentSelector{Size: 3}, nil
	default:
		return nil, fmt.Errorf("unsupported selection strategy: %s", name)
	}
}
