package terrain

import "oreios/internal/field"

// Plain is flat ground at height zero. It owns no height field; spawn
// registers the collision plane primitive.
type Plain struct {
	body Handle
}

func NewPlain() *Plain {
	return &Plain{body: NoHandle}
}

func (p *Plain) HeightAt(x, y float64) float64 { return 0 }

func (p *Plain) NormalAt(x, y float64) field.Vec3 { return field.Up }

// PeakWithin returns the region center at height zero.
func (p *Plain) PeakWithin(xLo, xHi, yLo, yHi float64) (x, y, height float64) {
	return (xLo + xHi) / 2, (yLo + yHi) / 2, 0
}

func (p *Plain) Spawn(reg Registrar) error {
	body, err := reg.RegisterPlane()
	if err != nil {
		return err
	}
	p.body = body
	return reg.SetFriction(body, groundFriction)
}

func (p *Plain) Reset() {}

func (p *Plain) Body() Handle { return p.body }
