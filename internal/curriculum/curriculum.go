// Package curriculum adjusts terrain difficulty episode-by-episode from
// agent performance, with combo/miss streak hysteresis so single-episode
// noise cannot oscillate the level.
package curriculum

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"oreios/internal/model"
)

// Config holds the fixed controller thresholds. Validated once at
// construction; a bad value is a configuration error, not a runtime one.
type Config struct {
	ComboThreshold int     `json:"combo_threshold" yaml:"combo_threshold"`
	MissThreshold  int     `json:"miss_threshold" yaml:"miss_threshold"`
	DifficultyStep float64 `json:"difficulty_step" yaml:"difficulty_step"`
	MaxDifficulty  float64 `json:"max_difficulty" yaml:"max_difficulty"`
	DistanceLower  float64 `json:"distance_lower" yaml:"distance_lower"`
	DistanceUpper  float64 `json:"distance_upper" yaml:"distance_upper"`
}

func (c Config) Validate() error {
	if c.ComboThreshold <= 0 {
		return fmt.Errorf("combo threshold must be positive, got %d", c.ComboThreshold)
	}
	if c.MissThreshold <= 0 {
		return fmt.Errorf("miss threshold must be positive, got %d", c.MissThreshold)
	}
	if c.DifficultyStep <= 0 {
		return fmt.Errorf("difficulty step must be positive, got %g", c.DifficultyStep)
	}
	if c.MaxDifficulty < c.DifficultyStep {
		return fmt.Errorf("max difficulty %g must be at least one step %g", c.MaxDifficulty, c.DifficultyStep)
	}
	if c.DistanceLower >= c.DistanceUpper {
		return fmt.Errorf("distance thresholds must satisfy lower < upper, got (%g, %g)", c.DistanceLower, c.DistanceUpper)
	}
	return nil
}

// Controller is the per-environment difficulty state. It is created once per
// training run and survives every terrain regeneration; only Register
// mutates it. Not safe for concurrent use; each simulation instance owns its
// own controller.
type Controller struct {
	cfg Config
	log *zap.Logger

	level       int
	comboStreak int
	missStreak  int
	episodes    int
}

func NewController(cfg Config, log *zap.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{cfg: cfg, log: log}, nil
}

// Level is the discrete difficulty index, always in [0, MaxLevel].
func (c *Controller) Level() int { return c.level }

// MaxLevel is the highest level whose difficulty stays within the bound.
// The epsilon keeps ratios like 0.3/0.05 from flooring a level short.
func (c *Controller) MaxLevel() int {
	return int(math.Floor(c.cfg.MaxDifficulty/c.cfg.DifficultyStep + 1e-9))
}

// Difficulty maps the level to the roughness fed to the terrain generator.
func (c *Controller) Difficulty() float64 {
	d := float64(c.level) * c.cfg.DifficultyStep
	if d > c.cfg.MaxDifficulty {
		return c.cfg.MaxDifficulty
	}
	return d
}

// Register folds one episode outcome into the streaks and reports whether
// the caller must regenerate terrain before the next episode. A timeout
// counts toward the combo streak, anything else toward the miss streak.
// Reaching the miss threshold lowers the level; reaching the combo threshold
// raises it only when the traveled distance exceeds the upper bound, lowers
// it below the lower bound, and holds otherwise. Both streaks reset after
// any qualifying evaluation, so a sustained streak adjusts the level at most
// once per threshold window.
func (c *Controller) Register(outcome model.EpisodeOutcome) bool {
	c.episodes++
	if outcome.TimedOut {
		c.missStreak = 0
		c.comboStreak++
	} else {
		c.comboStreak = 0
		c.missStreak++
	}

	if c.comboStreak < c.cfg.ComboThreshold && c.missStreak < c.cfg.MissThreshold {
		return false
	}

	before := c.level
	switch {
	case c.missStreak >= c.cfg.MissThreshold:
		c.lower()
	case outcome.Distance > c.cfg.DistanceUpper:
		c.raise()
	case outcome.Distance < c.cfg.DistanceLower:
		c.lower()
	}
	c.comboStreak = 0
	c.missStreak = 0

	if c.level != before {
		c.log.Info("difficulty level changed",
			zap.Int("from", before),
			zap.Int("to", c.level),
			zap.Float64("difficulty", c.Difficulty()),
		)
	}
	return true
}

func (c *Controller) raise() {
	if c.level < c.MaxLevel() {
		c.level++
	}
}

func (c *Controller) lower() {
	if c.level > 0 {
		c.level--
	}
}

// Snapshot exports the controller state for persistence.
func (c *Controller) Snapshot(runID string) model.CurriculumSnapshot {
	return model.CurriculumSnapshot{
		RunID:       runID,
		Level:       c.level,
		Difficulty:  c.Difficulty(),
		ComboStreak: c.comboStreak,
		MissStreak:  c.missStreak,
		Episodes:    c.episodes,
	}
}

// Restore resumes a controller from a persisted snapshot.
func (c *Controller) Restore(snap model.CurriculumSnapshot) {
	c.level = snap.Level
	if c.level < 0 {
		c.level = 0
	}
	if max := c.MaxLevel(); c.level > max {
		c.level = max
	}
	c.comboStreak = snap.ComboStreak
	c.missStreak = snap.MissStreak
	c.episodes = snap.Episodes
}
