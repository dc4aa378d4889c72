// Package oreios ties the terrain engine and the difficulty curriculum into
// the session API the training environment drives: one terrain, one
// controller, one run of persisted episode history.
package oreios

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"oreios/internal/config"
	"oreios/internal/curriculum"
	"oreios/internal/field"
	"oreios/internal/gen"
	"oreios/internal/model"
	"oreios/internal/storage"
	"oreios/internal/terrain"
)

const defaultDBPath = "oreios.db"

// Options configures a Session. Zero values fall back to the reference
// defaults and an in-memory store.
type Options struct {
	Config    config.Config
	StoreKind string
	DBPath    string
	RunID     string
	Logger    *zap.Logger
}

// Session owns the terrain and curriculum state for one simulation instance.
// Sessions are not shared between instances; each worker builds its own.
type Session struct {
	cfg   config.Config
	log   *zap.Logger
	runID string

	hills      *terrain.Hills
	controller *curriculum.Controller
	store      storage.Store
	registrar  terrain.Registrar

	episodes int
}

// NewSession validates the configuration, builds the initial zero-difficulty
// terrain, spawns it with the registrar, and opens the history store.
func NewSession(ctx context.Context, reg terrain.Registrar, opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg.Terrain.Size == 0 && cfg.Terrain.Resolution == 0 {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	controller, err := curriculum.NewController(cfg.Curriculum, log)
	if err != nil {
		return nil, err
	}

	// The curriculum starts every run from flat ground; the configured
	// octave roughness is the ceiling reached through level raises.
	genCfg := gen.Config{
		Size:       cfg.Terrain.Size,
		Resolution: cfg.Terrain.Resolution,
		Octaves:    zeroRoughness(cfg.Terrain.Octaves),
		Seed:       cfg.Terrain.Seed,
		Offset:     terrainOffset(cfg.Terrain),
	}
	hills, err := terrain.MakeHillsFromConfig(genCfg)
	if err != nil {
		return nil, err
	}
	if err := hills.Spawn(reg); err != nil {
		return nil, fmt.Errorf("spawning terrain: %w", err)
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	return &Session{
		cfg:        cfg,
		log:        log,
		runID:      runID,
		hills:      hills,
		controller: controller,
		store:      store,
		registrar:  reg,
	}, nil
}

// RecordEpisode folds one episode outcome into the curriculum, persists the
// decision, and regenerates the terrain when the controller asks for it.
// It reports whether the terrain was regenerated.
func (s *Session) RecordEpisode(ctx context.Context, outcome model.EpisodeOutcome) (bool, error) {
	regenerate := s.controller.Register(outcome)
	if regenerate {
		seed := s.cfg.Terrain.Seed + int64(s.episodes) + 1
		if err := s.hills.Regenerate(s.registrar, s.controller.Difficulty(), seed); err != nil {
			return false, fmt.Errorf("regenerating terrain: %w", err)
		}
		s.log.Debug("terrain regenerated",
			zap.Float64("difficulty", s.controller.Difficulty()),
			zap.Int64("seed", seed),
		)
	}

	rec := model.EpisodeRecord{
		RunID:       s.runID,
		Index:       s.episodes,
		TimedOut:    outcome.TimedOut,
		Distance:    outcome.Distance,
		Level:       s.controller.Level(),
		Difficulty:  s.controller.Difficulty(),
		Regenerated: regenerate,
		CreatedAt:   time.Now().UTC(),
	}
	s.episodes++

	if err := s.store.SaveEpisode(ctx, rec); err != nil {
		return regenerate, fmt.Errorf("saving episode: %w", err)
	}
	if err := s.store.SaveCurriculum(ctx, s.controller.Snapshot(s.runID)); err != nil {
		return regenerate, fmt.Errorf("saving curriculum state: %w", err)
	}
	return regenerate, nil
}

// Resume restores persisted controller state for this run, if any.
func (s *Session) Resume(ctx context.Context) error {
	snap, ok, err := s.store.GetCurriculum(ctx, s.runID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	s.controller.Restore(snap)
	s.episodes = snap.Episodes
	if s.controller.Difficulty() > 0 {
		seed := s.cfg.Terrain.Seed + int64(s.episodes)
		if err := s.hills.Regenerate(s.registrar, s.controller.Difficulty(), seed); err != nil {
			return fmt.Errorf("restoring terrain difficulty: %w", err)
		}
	}
	return nil
}

// Episodes lists the persisted history for this run.
func (s *Session) Episodes(ctx context.Context) ([]model.EpisodeRecord, error) {
	return s.store.ListEpisodes(ctx, s.runID)
}

// Close releases the history store.
func (s *Session) Close() error {
	return storage.CloseIfSupported(s.store)
}

func (s *Session) Terrain() terrain.Terrain { return s.hills }
func (s *Session) RunID() string            { return s.runID }
func (s *Session) Level() int               { return s.controller.Level() }
func (s *Session) Difficulty() float64      { return s.controller.Difficulty() }

func zeroRoughness(octaves []gen.Octave) []gen.Octave {
	out := make([]gen.Octave, len(octaves))
	for i, oct := range octaves {
		out[i] = gen.Octave{Roughness: 0, Downsample: oct.Downsample}
	}
	return out
}

func terrainOffset(cfg config.TerrainConfig) field.Vec3 {
	return field.Vec3{X: cfg.OffsetX, Y: cfg.OffsetY, Z: cfg.OffsetZ}
}
