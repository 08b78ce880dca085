package platform

import (
	"context"
	"fmt"
	"sync"
	"time"

	"genos/internal/engine"
	"genos/internal/logging"
	"genos/internal/model"
	"genos/internal/stats"
	"genos/internal/storage"
)

// Problem binds a specialization to a name and a primitive projection of
// its populations. Projections carry encoded genomes and fitness numbers
// only, never live solution references.
type Problem interface {
	engine.Specialization
	Name() string
	Project(population []engine.Solution) (model.Projection, error)
}

type Config struct {
	Store        storage.Store
	ArtifactsDir string
	Logger       logging.Logger
}

type StopReason string

const (
	StopReasonNormal   StopReason = "normal"
	StopReasonShutdown StopReason = "shutdown"
)

type RunSpec struct {
	RunID               string
	Problem             Problem
	Selection           string
	PopulationSize      int
	MutationProbability float64
	GenerationLimit     int
	Seed                int64

	// Problem specific metadata recorded with the run artifacts.
	Target    string
	BitLength int

	// Progress, when set, receives the stats of each completed generation.
	Progress func(model.GenerationStats)
}

type RunResult struct {
	RunID             string
	ArtifactsDir      string
	Seed              int64
	Generations       int
	BestByGeneration  []float64
	FinalBestFitness  float64
	FinalBestEncoding string
}

// Lab owns the store and artifact directory shared by evolution runs.
type Lab struct {
	store        storage.Store
	artifactsDir string
	logger       logging.Logger

	mu             sync.RWMutex
	started        bool
	lastStopReason StopReason
}

func NewLab(cfg Config) *Lab {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Lab{
		store:          cfg.Store,
		artifactsDir:   cfg.ArtifactsDir,
		logger:         logger,
		lastStopReason: StopReasonNormal,
	}
}

func (l *Lab) Init(ctx context.Context) error {
	if l.store == nil {
		return fmt.Errorf("store is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return nil
	}
	if err := l.store.Init(ctx); err != nil {
		return err
	}
	l.started = true
	return nil
}

func (l *Lab) Stop() {
	_ = l.StopWithReason(StopReasonNormal)
}

func (l *Lab) Shutdown() {
	_ = l.StopWithReason(StopReasonShutdown)
}

func (l *Lab) StopWithReason(reason StopReason) error {
	if reason == "" {
		reason = StopReasonNormal
	}
	if !isValidStopReason(reason) {
		return fmt.Errorf("unsupported stop reason: %s", reason)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		if err := storage.CloseIfSupported(l.store); err != nil {
			return err
		}
	}
	l.started = false
	l.lastStopReason = reason
	return nil
}

func (l *Lab) Started() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.started
}

func (l *Lab) LastStopReason() StopReason {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastStopReason
}

// RunEvolution drives one synchronous run to completion, persists the run
// record and per-generation history, and mirrors them into the artifacts
// directory when one is configured.
func (l *Lab) RunEvolution(ctx context.Context, spec RunSpec) (RunResult, error) {
	l.mu.RLock()
	started := l.started
	l.mu.RUnlock()

	if !started {
		return RunResult{}, fmt.Errorf("lab is not initialized")
	}
	if spec.Problem == nil {
		return RunResult{}, fmt.Errorf("problem is required")
	}

	runID := spec.RunID
	if runID == "" {
		runID = fmt.Sprintf("%s-%d", spec.Problem.Name(), spec.Seed)
	}

	e, err := engine.New(engine.Config{
		PopulationSize:      spec.PopulationSize,
		MutationProbability: spec.MutationProbability,
		Seed:                spec.Seed,
		Specialization:      spec.Problem,
	})
	if err != nil {
		return RunResult{}, err
	}

	l.logger.Info("run started",
		"run_id", runID,
		"problem", spec.Problem.Name(),
		"population_size", e.PopulationSize(),
		"mutation_probability", e.MutationProbability(),
		"seed", e.Seed(),
	)

	var history []model.GenerationStats
	var projectionErr error
	observer := func(e *engine.Engine) {
		if projectionErr != nil {
			return
		}
		projection, err := spec.Problem.Project(e.Snapshot())
		if err != nil {
			projectionErr = fmt.Errorf("project generation %d: %w", e.CurrentGeneration(), err)
			return
		}
		entry := model.GenerationStats{
			VersionedRecord: model.VersionedRecord{SchemaVersion: storage.CurrentSchemaVersion, CodecVersion: storage.CurrentCodecVersion},
			RunID:           runID,
			Generation:      e.CurrentGeneration(),
			BestFitness:     projection.BestFitness,
			MeanFitness:     projection.MeanFitness,
			BestEncoding:    projection.BestEncoding,
		}
		history = append(history, entry)
		if spec.Progress != nil {
			spec.Progress(entry)
		}
	}

	runErr := e.Run(ctx, observer)
	if projectionErr != nil {
		return RunResult{}, projectionErr
	}

	finalProjection, err := spec.Problem.Project(e.Snapshot())
	if err != nil {
		return RunResult{}, fmt.Errorf("project final population: %w", err)
	}

	status := model.RunStatusCompleted
	if runErr != nil {
		status = model.RunStatusFailed
	}
	now := time.Now().UTC()
	run := model.Run{
		VersionedRecord:     model.VersionedRecord{SchemaVersion: storage.CurrentSchemaVersion, CodecVersion: storage.CurrentCodecVersion},
		ID:                  runID,
		Problem:             spec.Problem.Name(),
		Selection:           spec.Selection,
		PopulationSize:      e.PopulationSize(),
		MutationProbability: e.MutationProbability(),
		GenerationLimit:     spec.GenerationLimit,
		Seed:                e.Seed(),
		Generations:         e.CurrentGeneration(),
		FinalBestFitness:    finalProjection.BestFitness,
		FinalBestEncoding:   finalProjection.BestEncoding,
		Status:              status,
		CreatedAtUTC:        now.Format(time.RFC3339Nano),
	}

	if saveErr := l.persistRun(ctx, run, history); saveErr != nil {
		if runErr != nil {
			l.logger.Error("persist failed run", "run_id", runID, "error", saveErr)
			return RunResult{}, runErr
		}
		return RunResult{}, saveErr
	}
	if runErr != nil {
		l.logger.Warn("run failed",
			"run_id", runID,
			"generations", e.CurrentGeneration(),
			"error", runErr,
		)
		return RunResult{}, runErr
	}

	bestByGeneration := make([]float64, 0, len(history))
	for _, entry := range history {
		bestByGeneration = append(bestByGeneration, entry.BestFitness)
	}

	var artifactsDir string
	if l.artifactsDir != "" {
		runDir, err := stats.WriteRunArtifacts(l.artifactsDir, stats.RunArtifacts{
			Config: stats.RunConfig{
				RunID:               runID,
				Problem:             spec.Problem.Name(),
				Selection:           spec.Selection,
				PopulationSize:      e.PopulationSize(),
				MutationProbability: e.MutationProbability(),
				GenerationLimit:     spec.GenerationLimit,
				Seed:                e.Seed(),
				Target:              spec.Target,
				BitLength:           spec.BitLength,
			},
			BestByGeneration:  bestByGeneration,
			History:           history,
			FinalBestFitness:  finalProjection.BestFitness,
			FinalBestEncoding: finalProjection.BestEncoding,
		})
		if err != nil {
			return RunResult{}, err
		}
		if err := stats.AppendRunIndex(l.artifactsDir, stats.RunIndexEntry{
			RunID:            runID,
			Problem:          spec.Problem.Name(),
			Selection:        spec.Selection,
			PopulationSize:   e.PopulationSize(),
			Generations:      e.CurrentGeneration(),
			Seed:             e.Seed(),
			FinalBestFitness: finalProjection.BestFitness,
			CreatedAtUTC:     now.Format(time.RFC3339Nano),
		}); err != nil {
			return RunResult{}, err
		}
		artifactsDir = runDir
	}

	l.logger.Info("run completed",
		"run_id", runID,
		"generations", e.CurrentGeneration(),
		"best_fitness", finalProjection.BestFitness,
		"best_encoding", finalProjection.BestEncoding,
	)

	return RunResult{
		RunID:             runID,
		ArtifactsDir:      artifactsDir,
		Seed:              e.Seed(),
		Generations:       e.CurrentGeneration(),
		BestByGeneration:  bestByGeneration,
		FinalBestFitness:  finalProjection.BestFitness,
		FinalBestEncoding: finalProjection.BestEncoding,
	}, nil
}

func (l *Lab) persistRun(ctx context.Context, run model.Run, history []model.GenerationStats) error {
	if err := l.store.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if err := l.store.SaveHistory(ctx, run.ID, history); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (l *Lab) Runs(ctx context.Context) ([]model.Run, error) {
	if !l.Started() {
		return nil, fmt.Errorf("lab is not initialized")
	}
	return l.store.ListRuns(ctx)
}

func (l *Lab) GetRun(ctx context.Context, id string) (model.Run, bool, error) {
	if !l.Started() {
		return model.Run{}, false, fmt.Errorf("lab is not initialized")
	}
	return l.store.GetRun(ctx, id)
}

func (l *Lab) History(ctx context.Context, runID string) ([]model.GenerationStats, bool, error) {
	if !l.Started() {
		return nil, false, fmt.Errorf("lab is not initialized")
	}
	return l.store.GetHistory(ctx, runID)
}

func isValidStopReason(reason StopReason) bool {
	switch reason {
	case StopReasonNormal, StopReasonShutdown:
		return true
	default:
		return false
	}
}
