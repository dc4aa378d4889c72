// Package gen synthesizes height fields from layered random octaves. Each
// octave samples uniform noise on a coarse lattice and upsamples it with a
// bicubic kernel; octave contributions sum into the final field.
package gen

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"oreios/internal/field"
)

// Octave is one noise layer: an amplitude bound and the coarse-lattice
// spacing expressed as a multiple of the output resolution.
type Octave struct {
	Roughness  float64 `json:"roughness" yaml:"roughness"`
	Downsample float64 `json:"downsample" yaml:"downsample"`
}

// Config describes one synthesis run. Identical Seed and Octaves produce
// bit-identical output.
type Config struct {
	Size       float64
	Resolution float64
	Octaves    []Octave
	Seed       int64
	Offset     field.Vec3
}

func (c Config) validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("terrain size must be positive, got %g", c.Size)
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("terrain resolution must be positive, got %g", c.Resolution)
	}
	if len(c.Octaves) == 0 {
		return errors.New("at least one octave is required")
	}
	for i, oct := range c.Octaves {
		if oct.Roughness < 0 {
			return fmt.Errorf("octave %d: roughness must not be negative, got %g", i, oct.Roughness)
		}
		if oct.Downsample <= 0 {
			return fmt.Errorf("octave %d: downsample must be positive, got %g", i, oct.Downsample)
		}
	}
	return nil
}

// Generate synthesizes a HeightField. The generator is pure: it owns a local
// seeded source and every call returns a fresh field.
func Generate(cfg Config) (*field.HeightField, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Rounding keeps the sample count stable when size/resolution lands a
	// hair under an integer (3/0.1 is 29.999... in floating point).
	n := int(math.Round(cfg.Size/cfg.Resolution)) + 1
	out := make([]float64, n*n)
	rng := rand.New(rand.NewSource(cfg.Seed))
	for _, oct := range cfg.Octaves {
		addOctave(out, n, cfg.Size, oct.Downsample*cfg.Resolution, oct.Roughness, rng)
	}
	return field.New(out, n, n, cfg.Resolution, cfg.Resolution, cfg.Offset)
}

// addOctave samples the coarse lattice and accumulates its bicubic upsampling
// into out. The lattice extends 3 coarse cells beyond the output extent on
// each side so the 4x4 kernel always has support.
func addOctave(out []float64, n int, size, spacing, roughness float64, rng *rand.Rand) {
	m := int(math.Ceil(size/spacing-1e-9)) + 7
	start := -size/2 - 3*spacing

	coarse := make([]float64, m*m)
	for i := range coarse {
		coarse[i] = rng.Float64() * roughness
	}

	step := size / float64(n-1)
	for iy := 0; iy < n; iy++ {
		y := -size/2 + float64(iy)*step
		for ix := 0; ix < n; ix++ {
			x := -size/2 + float64(ix)*step
			out[iy*n+ix] += bicubic(coarse, m, (x-start)/spacing, (y-start)/spacing)
		}
	}
}

// bicubic evaluates a Catmull-Rom surface through the lattice at fractional
// lattice coordinates (tx, ty).
func bicubic(coarse []float64, m int, tx, ty float64) float64 {
	ix := int(math.Floor(tx))
	iy := int(math.Floor(ty))
	ux := tx - float64(ix)
	uy := ty - float64(iy)

	var rows [4]float64
	for k := 0; k < 4; k++ {
		base := (iy - 1 + k) * m
		rows[k] = catmullRom(
			coarse[base+ix-1],
			coarse[base+ix],
			coarse[base+ix+1],
			coarse[base+ix+2],
			ux,
		)
	}
	return catmullRom(rows[0], rows[1], rows[2], rows[3], uy)
}

func catmullRom(p0, p1, p2, p3, u float64) float64 {
	return 0.5 * (2*p1 +
		u*((p2-p0)+
			u*((2*p0-5*p1+4*p2-p3)+
				u*(3*(p1-p2)+p3-p0))))
}
