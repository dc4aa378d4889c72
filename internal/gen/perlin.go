package gen

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"

	"oreios/internal/field"
)

// PerlinConfig describes a fixed-difficulty Perlin terrain. Alpha, Beta and
// Iterations follow the usual terrain defaults when zero.
type PerlinConfig struct {
	Size       float64
	Resolution float64
	Amplitude  float64
	Wavelength float64
	Alpha      float64
	Beta       float64
	Iterations int32
	Seed       int64
	Offset     field.Vec3
}

// GeneratePerlin synthesizes a HeightField from seeded Perlin noise. Unlike
// the octave generator it produces coherent gradients rather than independent
// lattice samples, which suits fixed rough-terrain evaluation runs.
func GeneratePerlin(cfg PerlinConfig) (*field.HeightField, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("terrain size must be positive, got %g", cfg.Size)
	}
	if cfg.Resolution <= 0 {
		return nil, fmt.Errorf("terrain resolution must be positive, got %g", cfg.Resolution)
	}
	if cfg.Amplitude < 0 {
		return nil, fmt.Errorf("amplitude must not be negative, got %g", cfg.Amplitude)
	}
	if cfg.Wavelength <= 0 {
		return nil, fmt.Errorf("wavelength must be positive, got %g", cfg.Wavelength)
	}
	if cfg.Alpha == 0 {
		cfg.Alpha = 2
	}
	if cfg.Beta == 0 {
		cfg.Beta = 2
	}
	if cfg.Iterations == 0 {
		cfg.Iterations = 3
	}

	noise := perlin.NewPerlin(cfg.Alpha, cfg.Beta, cfg.Iterations, cfg.Seed)
	n := int(math.Round(cfg.Size/cfg.Resolution)) + 1
	step := cfg.Size / float64(n-1)
	out := make([]float64, n*n)
	for iy := 0; iy < n; iy++ {
		y := -cfg.Size/2 + float64(iy)*step
		for ix := 0; ix < n; ix++ {
			x := -cfg.Size/2 + float64(ix)*step
			out[iy*n+ix] = cfg.Amplitude * noise.Noise2D(x/cfg.Wavelength, y/cfg.Wavelength)
		}
	}
	return field.New(out, n, n, cfg.Resolution, cfg.Resolution, cfg.Offset)
}
