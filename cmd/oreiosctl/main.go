package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"oreios/internal/config"
	"oreios/internal/gen"
	"oreios/internal/logger"
	"oreios/internal/model"
	"oreios/internal/storage"
	"oreios/internal/terrain"
	oreiosapi "oreios/pkg/oreios"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "generate":
		return runGenerate(ctx, args[1:])
	case "simulate":
		return runSimulate(ctx, args[1:])
	case "episodes":
		return runEpisodes(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "oreios.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	if err := store.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "oreios.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *storeKind != "sqlite" {
		fmt.Printf("store=%s holds no persistent state, nothing to reset\n", *storeKind)
		return nil
	}
	if err := os.Remove(*dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("no database at %s\n", *dbPath)
			return nil
		}
		return err
	}
	fmt.Printf("removed %s\n", *dbPath)
	return nil
}

func runGenerate(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	size := fs.Float64("size", 30, "terrain side length in metres")
	resolution := fs.Float64("resolution", 0.05, "grid spacing in metres")
	octaves := fs.String("octaves", "0.1x15", "noise octaves as roughness x downsample, comma separated")
	seed := fs.Int64("seed", 0, "noise seed")
	out := fs.String("out", "", "optional path for a JSON dump of the field")
	if err := fs.Parse(args); err != nil {
		return err
	}

	octs, err := parseOctaves(*octaves)
	if err != nil {
		return err
	}
	fld, err := gen.Generate(gen.Config{
		Size:       *size,
		Resolution: *resolution,
		Octaves:    octs,
		Seed:       *seed,
	})
	if err != nil {
		return err
	}

	minH, maxH := fld.MinMax()
	cells := fld.Cols() * fld.Rows()
	fmt.Printf("field: %dx%d (%s samples)\n", fld.Cols(), fld.Rows(), humanize.Comma(int64(cells)))
	fmt.Printf("height range: %.4f .. %.4f\n", minH, maxH)

	hft, err := terrain.NewHeightFieldTerrain(fld)
	if err != nil {
		return err
	}
	px, py, pz := hft.PeakWithin(-*size/2, *size/2, -*size/2, *size/2)
	fmt.Printf("peak: %.4f at (%.2f, %.2f)\n", pz, px, py)

	if *out != "" {
		dump := fieldDump{
			Size:       *size,
			Resolution: *resolution,
			Seed:       *seed,
			Cols:       fld.Cols(),
			Rows:       fld.Rows(),
			Data:       fld.Data(),
		}
		blob, err := json.MarshalIndent(dump, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(*out, blob, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%s)\n", *out, humanize.Bytes(uint64(len(blob))))
	}
	return nil
}

type fieldDump struct {
	Size       float64   `json:"size"`
	Resolution float64   `json:"resolution"`
	Seed       int64     `json:"seed"`
	Cols       int       `json:"cols"`
	Rows       int       `json:"rows"`
	Data       []float64 `json:"data"`
}

func runSimulate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional YAML config path")
	outcomesPath := fs.String("outcomes", "", "JSON file with an array of episode outcomes")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "oreios.db", "sqlite database path")
	runID := fs.String("run", "", "run id (generated when empty)")
	logLevel := fs.String("log-level", "info", "log level: debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *outcomesPath == "" {
		return errors.New("outcomes file is required")
	}

	outcomes, err := loadOutcomes(*outcomesPath)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			return err
		}
	}

	log := logger.New(*logLevel, cfg.Log.File)
	defer func() {
		_ = log.Sync()
	}()

	session, err := oreiosapi.NewSession(ctx, &terrain.NopRegistrar{}, oreiosapi.Options{
		Config:    cfg,
		StoreKind: *storeKind,
		DBPath:    *dbPath,
		RunID:     *runID,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = session.Close()
	}()

	fmt.Printf("run %s: %d episodes\n", session.RunID(), len(outcomes))
	for i, outcome := range outcomes {
		regenerated, err := session.RecordEpisode(ctx, outcome)
		if err != nil {
			return err
		}
		marker := ""
		if regenerated {
			marker = " *"
		}
		fmt.Printf("episode %3d: timed_out=%-5v distance=%6.2f level=%d difficulty=%.3f%s\n",
			i, outcome.TimedOut, outcome.Distance, session.Level(), session.Difficulty(), marker)
	}
	fmt.Printf("final: level=%d difficulty=%.3f\n", session.Level(), session.Difficulty())
	return nil
}

func runEpisodes(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("episodes", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "oreios.db", "sqlite database path")
	runID := fs.String("run", "", "run id to list")
	jsonOut := fs.Bool("json", false, "emit records as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("run id is required")
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	records, err := store.ListEpisodes(ctx, *runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no episodes found")
		return nil
	}

	if *jsonOut {
		blob, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
		return nil
	}
	for _, rec := range records {
		marker := ""
		if rec.Regenerated {
			marker = " *"
		}
		fmt.Printf("episode %3d: timed_out=%-5v distance=%6.2f level=%d difficulty=%.3f %s%s\n",
			rec.Index, rec.TimedOut, rec.Distance, rec.Level, rec.Difficulty,
			humanize.Time(rec.CreatedAt), marker)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "oreios.db", "sqlite database path")
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if len(runs) > *limit {
		runs = runs[:*limit]
	}

	if *jsonOut {
		blob, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(blob))
		return nil
	}
	for _, info := range runs {
		fmt.Printf("%s: episodes=%d level=%d difficulty=%.3f\n",
			info.RunID, info.Episodes, info.Level, info.Difficulty)
	}
	return nil
}

func loadOutcomes(path string) ([]model.EpisodeOutcome, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var outcomes []model.EpisodeOutcome
	if err := json.Unmarshal(blob, &outcomes); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(outcomes) == 0 {
		return nil, fmt.Errorf("%s holds no outcomes", path)
	}
	return outcomes, nil
}

func parseOctaves(spec string) ([]gen.Octave, error) {
	parts := strings.Split(spec, ",")
	octaves := make([]gen.Octave, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		rough, down, ok := strings.Cut(part, "x")
		if !ok {
			return nil, fmt.Errorf("octave %q: want roughness x downsample", part)
		}
		r, err := strconv.ParseFloat(rough, 64)
		if err != nil {
			return nil, fmt.Errorf("octave %q: %w", part, err)
		}
		d, err := strconv.ParseFloat(down, 64)
		if err != nil {
			return nil, fmt.Errorf("octave %q: %w", part, err)
		}
		octaves = append(octaves, gen.Octave{Roughness: r, Downsample: d})
	}
	return octaves, nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: oreiosctl <init|reset|generate|simulate|episodes|runs> [flags]", msg)
}
