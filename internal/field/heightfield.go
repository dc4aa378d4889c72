// Package field holds the dense elevation grid and its continuous-domain
// query engine: coordinate discretization, triangulated height interpolation,
// normal estimation and region-peak search.
package field

import (
	"errors"
	"fmt"
	"math"
)

// HeightField is an immutable dense elevation grid. Samples are stored
// row-major, increasing Y then X. The world footprint per axis is
// (dim-1)*resolution, centered on the offset.
type HeightField struct {
	data []float64
	cols int
	rows int

	resX, resY   float64
	sizeX, sizeY float64
	offset       Vec3
}

// New builds a HeightField from row-major samples. Each axis needs at least
// two samples and a strictly positive resolution.
func New(data []float64, cols, rows int, resX, resY float64, offset Vec3) (*HeightField, error) {
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("height field needs at least 2 samples per axis, got %dx%d", cols, rows)
	}
	if resX <= 0 || resY <= 0 {
		return nil, fmt.Errorf("height field resolution must be positive, got (%g, %g)", resX, resY)
	}
	if len(data) != cols*rows {
		return nil, fmt.Errorf("height field data length %d does not match %dx%d grid", len(data), cols, rows)
	}
	return &HeightField{
		data:   data,
		cols:   cols,
		rows:   rows,
		resX:   resX,
		resY:   resY,
		sizeX:  float64(cols-1) * resX,
		sizeY:  float64(rows-1) * resY,
		offset: offset,
	}, nil
}

// FromRows builds a HeightField from a [row][col] elevation slice.
func FromRows(rows [][]float64, resX, resY float64, offset Vec3) (*HeightField, error) {
	if len(rows) == 0 {
		return nil, errors.New("height field needs at least one row")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d samples, expected %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return New(data, cols, len(rows), resX, resY, offset)
}

func (f *HeightField) Cols() int    { return f.cols }
func (f *HeightField) Rows() int    { return f.rows }
func (f *HeightField) ResX() float64 { return f.resX }
func (f *HeightField) ResY() float64 { return f.resY }

// SizeX and SizeY report the world footprint, (dim-1)*resolution per axis.
func (f *HeightField) SizeX() float64 { return f.sizeX }
func (f *HeightField) SizeY() float64 { return f.sizeY }

func (f *HeightField) Offset() Vec3 { return f.offset }

// Data exposes the raw row-major samples for geometry registration. Callers
// must not mutate it.
func (f *HeightField) Data() []float64 { return f.data }

func (f *HeightField) at(ix, iy int) float64 {
	return f.data[iy*f.cols+ix]
}

// IndexX maps a world X coordinate to its grid column.
func (f *HeightField) IndexX(x float64) int {
	return int(math.Floor((x + f.sizeX/2 - f.offset.X) / f.resX))
}

// IndexY maps a world Y coordinate to its grid row.
func (f *HeightField) IndexY(y float64) int {
	return int(math.Floor((y + f.sizeY/2 - f.offset.Y) / f.resY))
}

// CoordX maps a grid column back to its world X coordinate.
func (f *HeightField) CoordX(ix int) float64 {
	return float64(ix)*f.resX - f.sizeX/2 + f.offset.X
}

// CoordY maps a grid row back to its world Y coordinate.
func (f *HeightField) CoordY(iy int) float64 {
	return float64(iy)*f.resY - f.sizeY/2 + f.offset.Y
}

// MinMax returns the extremes of the raw samples.
func (f *HeightField) MinMax() (min, max float64) {
	min, max = f.data[0], f.data[0]
	for _, h := range f.data[1:] {
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}
	return min, max
}
