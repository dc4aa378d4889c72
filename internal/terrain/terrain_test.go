package terrain

import (
	"errors"
	"testing"

	"oreios/internal/field"
	"oreios/internal/gen"
)

// fakeRegistrar records registrations the way the physics collaborator
// would see them.
type fakeRegistrar struct {
	nextHandle Handle

	planes        []Handle
	fields        map[Handle][]float64
	updates       map[Handle]int
	friction      map[Handle]float64
	basePositions map[Handle][3]float64

	failRegister bool
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{
		fields:        make(map[Handle][]float64),
		updates:       make(map[Handle]int),
		friction:      make(map[Handle]float64),
		basePositions: make(map[Handle][3]float64),
	}
}

func (r *fakeRegistrar) handle() Handle {
	r.nextHandle++
	return r.nextHandle
}

func (r *fakeRegistrar) RegisterPlane() (Handle, error) {
	if r.failRegister {
		return NoHandle, errors.New("registrar unavailable")
	}
	h := r.handle()
	r.planes = append(r.planes, h)
	return h, nil
}

func (r *fakeRegistrar) RegisterHeightField(data []float64, cols, rows int, scaleX, scaleY float64) (Handle, Handle, error) {
	if r.failRegister {
		return NoHandle, NoHandle, errors.New("registrar unavailable")
	}
	shape := r.handle()
	body := r.handle()
	r.fields[shape] = append([]float64(nil), data...)
	return shape, body, nil
}

func (r *fakeRegistrar) UpdateHeightField(shape Handle, data []float64, cols, rows int) error {
	if _, ok := r.fields[shape]; !ok {
		return errors.New("unknown shape handle")
	}
	r.fields[shape] = append([]float64(nil), data...)
	r.updates[shape]++
	return nil
}

func (r *fakeRegistrar) SetFriction(body Handle, coeff float64) error {
	r.friction[body] = coeff
	return nil
}

func (r *fakeRegistrar) SetBasePosition(body Handle, x, y, z float64) error {
	r.basePositions[body] = [3]float64{x, y, z}
	return nil
}

func TestPlainQueriesAndSpawn(t *testing.T) {
	p := NewPlain()
	if h := p.HeightAt(3.7, -12); h != 0 {
		t.Fatalf("plain height = %g", h)
	}
	if n := p.NormalAt(100, 100); n != field.Up {
		t.Fatalf("plain normal = %+v", n)
	}
	x, y, h := p.PeakWithin(-2, 4, 1, 3)
	if x != 1 || y != 2 || h != 0 {
		t.Fatalf("plain peak = (%g, %g, %g), want (1, 2, 0)", x, y, h)
	}

	reg := newFakeRegistrar()
	if err := p.Spawn(reg); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if len(reg.planes) != 1 {
		t.Fatalf("expected one plane registration, got %d", len(reg.planes))
	}
	if reg.friction[p.Body()] != 1.0 {
		t.Fatalf("plane friction = %g, want 1.0", reg.friction[p.Body()])
	}
}

func TestPlainSpawnPropagatesRegistrarError(t *testing.T) {
	reg := newFakeRegistrar()
	reg.failRegister = true
	if err := NewPlain().Spawn(reg); err == nil {
		t.Fatal("expected spawn error")
	}
}

func testField(t *testing.T, center float64) *field.HeightField {
	t.Helper()
	rows := [][]float64{
		{0, 0, 0},
		{0, center, 0},
		{0, 0, 0},
	}
	f, err := field.FromRows(rows, 1, 1, field.Vec3{})
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}
	return f
}

func TestHeightFieldTerrainSpawnRegistersGeometry(t *testing.T) {
	ht, err := NewHeightFieldTerrain(testField(t, 2))
	if err != nil {
		t.Fatalf("new terrain: %v", err)
	}
	reg := newFakeRegistrar()
	if err := ht.Spawn(reg); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if ht.Shape() == NoHandle || ht.Body() == NoHandle {
		t.Fatal("spawn left handles unset")
	}
	if reg.friction[ht.Body()] != 1.0 {
		t.Fatalf("friction = %g, want 1.0", reg.friction[ht.Body()])
	}
	// Height range is 0..2, so the body is centered at z=1.
	if pos := reg.basePositions[ht.Body()]; pos != [3]float64{0, 0, 1} {
		t.Fatalf("base position = %v, want (0, 0, 1)", pos)
	}
}

func TestReplaceKeepsCollisionIdentity(t *testing.T) {
	ht, err := NewHeightFieldTerrain(testField(t, 2))
	if err != nil {
		t.Fatalf("new terrain: %v", err)
	}
	reg := newFakeRegistrar()
	if err := ht.Spawn(reg); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	shape, body := ht.Shape(), ht.Body()

	if err := ht.Replace(reg, testField(t, 5)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if ht.Shape() != shape || ht.Body() != body {
		t.Fatal("replace changed collision handles")
	}
	if reg.updates[shape] != 1 {
		t.Fatalf("expected one height data upload, got %d", reg.updates[shape])
	}
	if got := ht.HeightAt(0, 0); got != 5 {
		t.Fatalf("height after replace = %g, want 5", got)
	}
}

func TestReplaceBeforeSpawnOnlyPublishes(t *testing.T) {
	ht, err := NewHeightFieldTerrain(testField(t, 2))
	if err != nil {
		t.Fatalf("new terrain: %v", err)
	}
	reg := newFakeRegistrar()
	if err := ht.Replace(reg, testField(t, 3)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(reg.updates) != 0 {
		t.Fatal("replace before spawn must not touch the registrar")
	}
	if got := ht.HeightAt(0, 0); got != 3 {
		t.Fatalf("height = %g, want 3", got)
	}
}

func TestReplaceIsAtomicUnderConcurrentQueries(t *testing.T) {
	low := testField(t, 0)
	high, err := field.FromRows([][]float64{
		{10, 10, 10},
		{10, 10, 10},
		{10, 10, 10},
	}, 1, 1, field.Vec3{})
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}

	ht, err := NewHeightFieldTerrain(low)
	if err != nil {
		t.Fatalf("new terrain: %v", err)
	}
	reg := newFakeRegistrar()
	if err := ht.Spawn(reg); err != nil {
		t.Fatalf("spawn: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			// Every query sees a whole field: exactly 0 or exactly 10.
			if h := ht.HeightAt(0, 0); h != 0 && h != 10 {
				t.Errorf("torn read: height = %g", h)
				return
			}
		}
	}()
	for i := 0; i < 500; i++ {
		next := low
		if i%2 == 0 {
			next = high
		}
		if err := ht.Replace(reg, next); err != nil {
			t.Fatalf("replace: %v", err)
		}
	}
	<-done
}

func TestMakeHillsGeneratesOwnedField(t *testing.T) {
	h, err := MakeHills(3, 0.1, 42, gen.Octave{Roughness: 0.4, Downsample: 20})
	if err != nil {
		t.Fatalf("make hills: %v", err)
	}
	if h.Field().Cols() != 31 || h.Field().Rows() != 31 {
		t.Fatalf("dims = %dx%d, want 31x31", h.Field().Cols(), h.Field().Rows())
	}
	// Somewhere the terrain must actually deviate from flat.
	min, max := h.Field().MinMax()
	if min == max {
		t.Fatal("hills field is flat")
	}
}

func TestHillsRegenerateSwapsField(t *testing.T) {
	h, err := MakeHills(3, 0.1, 1, gen.Octave{Roughness: 0.4, Downsample: 20})
	if err != nil {
		t.Fatalf("make hills: %v", err)
	}
	reg := newFakeRegistrar()
	if err := h.Spawn(reg); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	before := h.Field()
	if err := h.Regenerate(reg, 0.2, 2); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if h.Field() == before {
		t.Fatal("regenerate did not publish a new field")
	}
	if reg.updates[h.Shape()] != 1 {
		t.Fatalf("expected one upload, got %d", reg.updates[h.Shape()])
	}
}

func TestHillsRegenerateZeroRoughnessIsFlat(t *testing.T) {
	h, err := MakeHills(2, 0.1, 9, gen.Octave{Roughness: 0.4, Downsample: 10})
	if err != nil {
		t.Fatalf("make hills: %v", err)
	}
	reg := newFakeRegistrar()
	if err := h.Spawn(reg); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if err := h.Regenerate(reg, 0, 10); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	min, max := h.Field().MinMax()
	if min != 0 || max != 0 {
		t.Fatalf("zero-difficulty terrain not flat: (%g, %g)", min, max)
	}
}

func TestMakeSlopeProfile(t *testing.T) {
	s, err := MakeSlope(0.25, 4, 0.5, field.Vec3{})
	if err != nil {
		t.Fatalf("make slope: %v", err)
	}
	left := s.HeightAt(-1.5, 0)
	right := s.HeightAt(1.5, 0)
	if right <= left {
		t.Fatalf("slope not rising along X: %g vs %g", left, right)
	}
	// Height is independent of Y.
	if a, b := s.HeightAt(0.5, -1), s.HeightAt(0.5, 1); a != b {
		t.Fatalf("slope varies along Y: %g vs %g", a, b)
	}
}

func TestMakeStepsProfile(t *testing.T) {
	s, err := MakeSteps(1.0, 0.2, 4, 0.25, field.Vec3{})
	if err != nil {
		t.Fatalf("make steps: %v", err)
	}
	// Points within one step share a height; the next step is higher.
	if a, b := s.HeightAt(-1.9, 0), s.HeightAt(-1.3, 0); a != b {
		t.Fatalf("heights within a step differ: %g vs %g", a, b)
	}
	if a, b := s.HeightAt(-1.9, 0), s.HeightAt(-0.9, 0); b-a < 0.19 {
		t.Fatalf("next step not higher: %g vs %g", a, b)
	}
	if _, err := MakeSteps(0, 0.2, 4, 0.25, field.Vec3{}); err == nil {
		t.Fatal("expected error for zero step width")
	}
}
