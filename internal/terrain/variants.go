package terrain

import (
	"fmt"
	"math"

	"oreios/internal/field"
	"oreios/internal/gen"
)

// Hills is rolling procedural terrain from the octave generator.
type Hills struct {
	*HeightFieldTerrain
	cfg gen.Config
}

// MakeHills synthesizes the initial field and wraps it in a terrain in one
// call.
func MakeHills(size, resolution float64, seed int64, octaves ...gen.Octave) (*Hills, error) {
	return MakeHillsFromConfig(gen.Config{
		Size:       size,
		Resolution: resolution,
		Octaves:    octaves,
		Seed:       seed,
	})
}

func MakeHillsFromConfig(cfg gen.Config) (*Hills, error) {
	f, err := gen.Generate(cfg)
	if err != nil {
		return nil, err
	}
	t, err := NewHeightFieldTerrain(f)
	if err != nil {
		return nil, err
	}
	return &Hills{HeightFieldTerrain: t, cfg: cfg}, nil
}

// Regenerate synthesizes a fresh field with the given roughness scaling and
// seed, then swaps it in under the existing collision identity.
func (h *Hills) Regenerate(reg Registrar, roughness float64, seed int64) error {
	cfg := h.cfg
	cfg.Seed = seed
	cfg.Octaves = make([]gen.Octave, len(h.cfg.Octaves))
	for i, oct := range h.cfg.Octaves {
		cfg.Octaves[i] = gen.Octave{Roughness: roughness, Downsample: oct.Downsample}
	}
	f, err := gen.Generate(cfg)
	if err != nil {
		return err
	}
	h.cfg = cfg
	return h.Replace(reg, f)
}

// MakeSlope builds an inclined plane rising along X at the given angle in
// radians.
func MakeSlope(angle, size, resolution float64, offset field.Vec3) (*HeightFieldTerrain, error) {
	if angle <= -math.Pi/2 || angle >= math.Pi/2 {
		return nil, fmt.Errorf("slope angle must be inside (-pi/2, pi/2), got %g", angle)
	}
	f, err := profileField(size, resolution, offset, func(x float64) float64 {
		return x * math.Tan(angle)
	})
	if err != nil {
		return nil, err
	}
	return NewHeightFieldTerrain(f)
}

// MakeSteps builds uniform stairs climbing along X.
func MakeSteps(stepWidth, stepHeight, size, resolution float64, offset field.Vec3) (*HeightFieldTerrain, error) {
	if stepWidth <= 0 {
		return nil, fmt.Errorf("step width must be positive, got %g", stepWidth)
	}
	f, err := profileField(size, resolution, offset, func(x float64) float64 {
		return math.Floor((x+size/2)/stepWidth) * stepHeight
	})
	if err != nil {
		return nil, err
	}
	return NewHeightFieldTerrain(f)
}

// profileField samples a height profile that varies only along X onto a
// square grid.
func profileField(size, resolution float64, offset field.Vec3, profile func(x float64) float64) (*field.HeightField, error) {
	if size <= 0 || resolution <= 0 {
		return nil, fmt.Errorf("size and resolution must be positive, got (%g, %g)", size, resolution)
	}
	n := int(math.Round(size/resolution)) + 1
	step := size / float64(n-1)
	data := make([]float64, n*n)
	for ix := 0; ix < n; ix++ {
		h := profile(-size/2 + float64(ix)*step)
		for iy := 0; iy < n; iy++ {
			data[iy*n+ix] = h
		}
	}
	return field.New(data, n, n, resolution, resolution, offset)
}
