// Package config carries the explicit configuration values the terrain and
// curriculum constructors consume. There is no process-wide config state;
// callers load or build a Config and pass it down.
package config

import (
	"fmt"

	"oreios/internal/curriculum"
	"oreios/internal/gen"
)

// Config holds the full subsystem configuration.
type Config struct {
	Terrain    TerrainConfig     `yaml:"terrain"`
	Curriculum curriculum.Config `yaml:"curriculum"`
	Log        LogConfig         `yaml:"log"`
}

// TerrainConfig describes the generated terrain footprint and noise layers.
type TerrainConfig struct {
	Size       float64      `yaml:"size"`
	Resolution float64      `yaml:"resolution"`
	Octaves    []gen.Octave `yaml:"octaves"`
	Seed       int64        `yaml:"seed"`
	OffsetX    float64      `yaml:"offset_x"`
	OffsetY    float64      `yaml:"offset_y"`
	OffsetZ    float64      `yaml:"offset_z"`
}

// LogConfig holds the logging level and optional rotating file sink.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default mirrors the reference training setup: a 30m square at 5cm
// resolution with one 15x-downsampled octave, and the conservative
// curriculum thresholds.
func Default() Config {
	return Config{
		Terrain: TerrainConfig{
			Size:       30,
			Resolution: 0.05,
			Octaves:    []gen.Octave{{Roughness: 0.1, Downsample: 15}},
		},
		Curriculum: curriculum.Config{
			ComboThreshold: 5,
			MissThreshold:  3,
			DifficultyStep: 0.01,
			MaxDifficulty:  0.3,
			DistanceLower:  2.5,
			DistanceUpper:  5.0,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate fails fast on any malformed value so a bad configuration never
// reaches a running simulation.
func (c Config) Validate() error {
	if c.Terrain.Size <= 0 {
		return fmt.Errorf("terrain size must be positive, got %g", c.Terrain.Size)
	}
	if c.Terrain.Resolution <= 0 {
		return fmt.Errorf("terrain resolution must be positive, got %g", c.Terrain.Resolution)
	}
	if len(c.Terrain.Octaves) == 0 {
		return fmt.Errorf("terrain needs at least one octave")
	}
	for i, oct := range c.Terrain.Octaves {
		if oct.Roughness <= 0 {
			return fmt.Errorf("octave %d: roughness must be positive, got %g", i, oct.Roughness)
		}
		if oct.Downsample <= 0 {
			return fmt.Errorf("octave %d: downsample must be positive, got %g", i, oct.Downsample)
		}
	}
	if err := c.Curriculum.Validate(); err != nil {
		return fmt.Errorf("curriculum: %w", err)
	}
	return nil
}
