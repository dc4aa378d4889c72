package terrain

import (
	"errors"
	"sync/atomic"

	"oreios/internal/field"
)

// HeightFieldTerrain backs the terrain contract with one HeightField. The
// field sits behind an atomic pointer: Replace publishes a regenerated field
// as a single indivisible swap, so a concurrent query observes either the
// fully-old or the fully-new grid, never a mixture.
type HeightFieldTerrain struct {
	fld atomic.Pointer[field.HeightField]

	shape Handle
	body  Handle
}

func NewHeightFieldTerrain(f *field.HeightField) (*HeightFieldTerrain, error) {
	if f == nil {
		return nil, errors.New("height field terrain requires a field")
	}
	t := &HeightFieldTerrain{shape: NoHandle, body: NoHandle}
	t.fld.Store(f)
	return t, nil
}

// Field returns the currently published height field.
func (t *HeightFieldTerrain) Field() *field.HeightField {
	return t.fld.Load()
}

func (t *HeightFieldTerrain) HeightAt(x, y float64) float64 {
	return t.fld.Load().HeightAt(x, y)
}

func (t *HeightFieldTerrain) NormalAt(x, y float64) field.Vec3 {
	return t.fld.Load().NormalAt(x, y)
}

func (t *HeightFieldTerrain) PeakWithin(xLo, xHi, yLo, yHi float64) (x, y, height float64) {
	return t.fld.Load().PeakWithin(xLo, xHi, yLo, yHi)
}

// Spawn registers the grid as collision geometry, sets ground friction, and
// centers the body so the field's height range straddles its offset.
func (t *HeightFieldTerrain) Spawn(reg Registrar) error {
	f := t.fld.Load()
	shape, body, err := reg.RegisterHeightField(f.Data(), f.Cols(), f.Rows(), f.ResX(), f.ResY())
	if err != nil {
		return err
	}
	t.shape, t.body = shape, body
	if err := reg.SetFriction(body, groundFriction); err != nil {
		return err
	}
	min, max := f.MinMax()
	off := f.Offset()
	return reg.SetBasePosition(body, off.X, off.Y, off.Z+(min+max)/2)
}

// Replace swaps in a regenerated field and re-uploads the height data under
// the existing shape handle, keeping the body's external identity and base
// position. Before Spawn it only publishes the field.
func (t *HeightFieldTerrain) Replace(reg Registrar, f *field.HeightField) error {
	if f == nil {
		return errors.New("replacement height field is required")
	}
	t.fld.Store(f)
	if t.shape == NoHandle {
		return nil
	}
	return reg.UpdateHeightField(t.shape, f.Data(), f.Cols(), f.Rows())
}

func (t *HeightFieldTerrain) Reset() {}

func (t *HeightFieldTerrain) Shape() Handle { return t.shape }
func (t *HeightFieldTerrain) Body() Handle  { return t.body }
