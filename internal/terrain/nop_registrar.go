package terrain

// NopRegistrar satisfies Registrar without a physics backend. Tooling that
// only needs queries and curriculum decisions (no collision world) uses it.
type NopRegistrar struct {
	next Handle
}

func (r *NopRegistrar) handle() Handle {
	r.next++
	return r.next
}

func (r *NopRegistrar) RegisterPlane() (Handle, error) {
	return r.handle(), nil
}

func (r *NopRegistrar) RegisterHeightField(_ []float64, _, _ int, _, _ float64) (Handle, Handle, error) {
	return r.handle(), r.handle(), nil
}

func (r *NopRegistrar) UpdateHeightField(Handle, []float64, int, int) error { return nil }

func (r *NopRegistrar) SetFriction(Handle, float64) error { return nil }

func (r *NopRegistrar) SetBasePosition(Handle, float64, float64, float64) error { return nil }
