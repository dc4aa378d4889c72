package field

// nearestVertices selects the surface triangle containing (x, y). The cell's
// fractional position picks the lower-left triangle (cell corner plus its two
// axis neighbors) or the upper-right one (diagonal corner plus the same two
// neighbors). Vertex heights are raw samples; the Z offset is applied by the
// callers that need world heights.
func (f *HeightField) nearestVertices(x, y float64) (v1, v2, v3 Vec3, ok bool) {
	ix, iy := f.IndexX(x), f.IndexY(y)
	if ix < 0 || iy < 0 || ix+1 >= f.cols || iy+1 >= f.rows {
		return Vec3{}, Vec3{}, Vec3{}, false
	}
	cx, cy := f.CoordX(ix), f.CoordY(iy)
	if (x-cx)/f.resX+(y-cy)/f.resY < 1 {
		v1 = Vec3{cx, cy, f.at(ix, iy)}
	} else {
		v1 = Vec3{cx + f.resX, cy + f.resY, f.at(ix+1, iy+1)}
	}
	v2 = Vec3{cx, cy + f.resY, f.at(ix, iy+1)}
	v3 = Vec3{cx + f.resX, cy, f.at(ix+1, iy)}
	return v1, v2, v3, true
}

// HeightAt returns the interpolated world height at (x, y). The surface is
// continuous and piecewise planar; it is not smooth across the diagonal split
// of a cell. Out-of-grid queries return 0.
func (f *HeightField) HeightAt(x, y float64) float64 {
	v1, v2, v3, ok := f.nearestVertices(x, y)
	if !ok {
		return 0
	}
	e1 := v2.Sub(v1)
	e2 := v3.Sub(v1)
	px, py := x-v1.X, y-v1.Y
	div := e1.X*e2.Y - e2.X*e1.Y
	c1 := (px*e2.Y - e2.X*py) / div
	c2 := (e1.X*py - px*e1.Y) / div
	return c1*e1.Z + c2*e2.Z + v1.Z + f.offset.Z
}

// NormalAt returns the unit surface normal at (x, y), always pointing up
// (Z >= 0). Out-of-grid queries return the up vector.
func (f *HeightField) NormalAt(x, y float64) Vec3 {
	v1, v2, v3, ok := f.nearestVertices(x, y)
	if !ok {
		return Up
	}
	n := v1.Sub(v2).Cross(v1.Sub(v3)).Unit()
	if n.Z < 0 {
		return Vec3{-n.X, -n.Y, -n.Z}
	}
	return n
}

// PeakWithin scans the cells covered by the world-space rectangle for the
// highest sample and returns its cell's world coordinates and world height.
// The index bounds expand by one cell on the upper edge so the rectangle is
// fully covered, and are clamped to the grid; a rectangle entirely outside
// the grid degrades to the nearest boundary cell.
func (f *HeightField) PeakWithin(xLo, xHi, yLo, yHi float64) (x, y, height float64) {
	ixLo, ixHi := clampSpan(f.IndexX(xLo), f.IndexX(xHi)+1, f.cols)
	iyLo, iyHi := clampSpan(f.IndexY(yLo), f.IndexY(yHi)+1, f.rows)

	bestX, bestY := ixLo, iyLo
	best := f.at(ixLo, iyLo)
	for iy := iyLo; iy < iyHi; iy++ {
		for ix := ixLo; ix < ixHi; ix++ {
			if h := f.at(ix, iy); h > best {
				best, bestX, bestY = h, ix, iy
			}
		}
	}
	return f.CoordX(bestX), f.CoordY(bestY), best + f.offset.Z
}

// clampSpan clamps the half-open index range [lo, hi) to [0, n), keeping at
// least one cell.
func clampSpan(lo, hi, n int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if lo > n-1 {
		lo = n - 1
	}
	if hi > n {
		hi = n
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}
