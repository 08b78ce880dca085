package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"genos/internal/logging"
	"genos/internal/model"
	"genos/internal/platform/config"
	"genos/internal/stats"
	"genos/internal/storage"
	genosapi "genos/pkg/genos"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, logging.ParseLevel(settings.LogLevel), settings.LogFormat)

	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:], settings, logger)
	case "run":
		return runRun(ctx, args[1:], settings, logger)
	case "runs":
		return runRuns(ctx, args[1:], settings)
	case "show":
		return runShow(ctx, args[1:], settings, logger)
	case "problems":
		return runProblems(args[1:])
	case "export":
		return runExport(ctx, args[1:], settings)
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string, settings config.Settings, logger logging.Logger) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storeKindDefault(settings), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", settings.SQLitePath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := genosapi.New(genosapi.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPath,
		ArtifactsDir: settings.ArtifactsDir,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string, settings config.Settings, logger logging.Logger) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	problem := fs.String("problem", "chromatic", "problem: chromatic|onemax")
	target := fs.String("target", "", "goal color for chromatic (#rrggbb)")
	bitLength := fs.Int("bits", 0, "bit string length for onemax (0 uses the default)")
	population := fs.Int("pop", 50, "population size")
	generations := fs.Int("gens", 100, "generation limit")
	mutationProb := fs.Float64("mutation-prob", 0.1, "per-offspring mutation probability in [0,1]")
	seed := fs.Int64("seed", 0, "rng seed (0 seeds from the clock)")
	selection := fs.String("selection", "", "parent selection strategy: roulette|tournament (empty uses the problem default)")
	trace := fs.Int("trace", 1, "print progress every N generations (0 disables)")
	artifactsDir := fs.String("artifacts-dir", settings.ArtifactsDir, "artifacts output directory")
	storeKind := fs.String("store", storeKindDefault(settings), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", settings.SQLitePath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}
	if *configPath == "" {
		req = genosapi.RunRequest{
			RunID:               *runID,
			Problem:             *problem,
			Target:              *target,
			BitLength:           *bitLength,
			PopulationSize:      *population,
			Generations:         *generations,
			MutationProbability: *mutationProb,
			Seed:                *seed,
			Selection:           *selection,
		}
	} else {
		overrideFromFlags(&req, setFlags, map[string]any{
			"run-id":        *runID,
			"problem":       *problem,
			"target":        *target,
			"bits":          *bitLength,
			"pop":           *population,
			"gens":          *generations,
			"mutation-prob": *mutationProb,
			"seed":          *seed,
			"selection":     *selection,
		})
	}

	if *trace > 0 {
		every := *trace
		req.Progress = func(gs model.GenerationStats) {
			if gs.Generation%every == 0 {
				fmt.Printf("generation=%d best_fitness=%.6f mean_fitness=%.6f best=%s\n",
					gs.Generation, gs.BestFitness, gs.MeanFitness, gs.BestEncoding)
			}
		}
	}

	client, err := genosapi.New(genosapi.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPath,
		ArtifactsDir: *artifactsDir,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("run completed run_id=%s problem=%s selection=%s pop=%d gens=%d seed=%d\n",
		summary.RunID, summary.Problem, summary.Selection, req.PopulationSize, summary.Generations, summary.Seed)
	fmt.Printf("final_best_fitness=%.6f final_best=%s\n", summary.FinalBestFitness, summary.FinalBestEncoding)
	fmt.Printf("artifacts_dir=%s\n", filepath.Clean(summary.ArtifactsDir))
	return nil
}

func runRuns(_ context.Context, args []string, settings config.Settings) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	artifactsDir := fs.String("artifacts-dir", settings.ArtifactsDir, "artifacts directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	entries, err := stats.ListRunIndex(*artifactsDir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if len(entries) > *limit {
		entries = entries[:*limit]
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, e := range entries {
		fmt.Printf("run_id=%s created_at=%s problem=%s selection=%s seed=%d pop=%d gens=%d final_best_fitness=%.6f\n",
			e.RunID,
			e.CreatedAtUTC,
			e.Problem,
			e.Selection,
			e.Seed,
			e.PopulationSize,
			e.Generations,
			e.FinalBestFitness,
		)
	}
	return nil
}

func runShow(ctx context.Context, args []string, settings config.Settings, logger logging.Logger) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show the most recent run from run index")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit run details as JSON")
	artifactsDir := fs.String("artifacts-dir", settings.ArtifactsDir, "artifacts directory")
	storeKind := fs.String("store", storeKindDefault(settings), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", settings.SQLitePath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("show requires --run-id or --latest")
	}
	if *latest {
		entries, err := stats.ListRunIndex(*artifactsDir)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return errors.New("no runs available")
		}
		*runID = entries[0].RunID
	}

	cfg, ok, err := stats.ReadRunConfig(*artifactsDir, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("run config not found for run id: %s", *runID)
	}

	client, err := genosapi.New(genosapi.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPath,
		ArtifactsDir: *artifactsDir,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	histLimit := *limit
	if histLimit < 0 {
		histLimit = 0
	}
	history, err := client.History(ctx, genosapi.HistoryRequest{RunID: *runID, Limit: histLimit})
	if err != nil {
		// The memory store starts empty in a fresh process; the artifacts
		// directory keeps the history of completed runs.
		stored, ok, readErr := stats.ReadRunHistory(*artifactsDir, *runID)
		if readErr != nil {
			return readErr
		}
		if !ok {
			return err
		}
		history = stored
		if histLimit > 0 && len(history) > histLimit {
			history = history[:histLimit]
		}
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Config  stats.RunConfig         `json:"config"`
			History []model.GenerationStats `json:"history,omitempty"`
		}{cfg, history})
	}

	fmt.Printf("run_id=%s problem=%s selection=%s pop=%d gen_limit=%d mutation_prob=%g seed=%d\n",
		cfg.RunID, cfg.Problem, cfg.Selection, cfg.PopulationSize, cfg.GenerationLimit, cfg.MutationProbability, cfg.Seed)
	if cfg.Target != "" {
		fmt.Printf("target=%s\n", cfg.Target)
	}
	if cfg.BitLength > 0 {
		fmt.Printf("bit_length=%d\n", cfg.BitLength)
	}
	for _, gs := range history {
		fmt.Printf("generation=%d best_fitness=%.6f mean_fitness=%.6f best=%s\n",
			gs.Generation, gs.BestFitness, gs.MeanFitness, gs.BestEncoding)
	}
	return nil
}

func runProblems(args []string) error {
	fs := flag.NewFlagSet("problems", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "emit problems as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	problems := genosapi.Problems()
	if *jsonOut {
		type problemItem struct {
			Name             string `json:"name"`
			Description      string `json:"description"`
			DefaultSelection string `json:"default_selection"`
		}
		items := make([]problemItem, 0, len(problems))
		for _, p := range problems {
			items = append(items, problemItem{
				Name:             p.Name,
				Description:      p.Description,
				DefaultSelection: p.DefaultSelection,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	for _, p := range problems {
		fmt.Printf("name=%s default_selection=%s description=%q\n", p.Name, p.DefaultSelection, p.Description)
	}
	return nil
}

func runExport(_ context.Context, args []string, settings config.Settings) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run from run index")
	outDir := fs.String("out", "exports", "export output directory")
	artifactsDir := fs.String("artifacts-dir", settings.ArtifactsDir, "artifacts directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("export requires --run-id or --latest")
	}
	if *latest {
		entries, err := stats.ListRunIndex(*artifactsDir)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return errors.New("no runs available to export")
		}
		*runID = entries[0].RunID
	}

	exportedDir, err := stats.ExportRunArtifacts(*artifactsDir, *runID, *outDir)
	if err != nil {
		return err
	}

	fmt.Printf("exported run_id=%s to=%s\n", *runID, filepath.Clean(exportedDir))
	return nil
}

func storeKindDefault(settings config.Settings) string {
	if settings.StoreKind != "" {
		return settings.StoreKind
	}
	return storage.DefaultStoreKind()
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: genosctl <init|run|runs|show|problems|export> [flags]", msg)
}
