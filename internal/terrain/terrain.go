// Package terrain exposes the closed set of terrain variants the simulation
// environment drives: a flat plane, height-field-backed terrain, and the
// procedurally generated variants built on top of it.
package terrain

import "oreios/internal/field"

// Handle identifies geometry registered with the physics collaborator.
type Handle int

// NoHandle marks geometry that has not been registered yet.
const NoHandle Handle = -1

// Registrar is the physics-engine surface terrain geometry is registered
// with. Implementations wrap the collision backend; tests use a fake.
type Registrar interface {
	RegisterPlane() (body Handle, err error)
	RegisterHeightField(data []float64, cols, rows int, scaleX, scaleY float64) (shape, body Handle, err error)
	UpdateHeightField(shape Handle, data []float64, cols, rows int) error
	SetFriction(body Handle, coeff float64) error
	SetBasePosition(body Handle, x, y, z float64) error
}

// Terrain is the uniform query and lifecycle contract shared by all
// variants. Height and normal queries run tens of times per physics step and
// never fail; out-of-grid queries degrade to flat-ground defaults.
type Terrain interface {
	HeightAt(x, y float64) float64
	NormalAt(x, y float64) field.Vec3
	PeakWithin(xLo, xHi, yLo, yHi float64) (x, y, height float64)
	Spawn(reg Registrar) error
	Reset()
}

const groundFriction = 1.0
