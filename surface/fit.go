package surface

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds returns the axis-aligned bounding box of all triangle vertices.
func Bounds(tris []r3.Triangle) r3.Box {
	if len(tris) == 0 {
		return r3.Box{}
	}
	b := emptyBox()
	for _, t := range tris {
		for _, v := range t {
			b = extend(b, v)
		}
	}
	return b
}

// PointBounds returns the axis-aligned bounding box of points.
func PointBounds(points []r3.Vec) r3.Box {
	if len(points) == 0 {
		return r3.Box{}
	}
	b := emptyBox()
	for _, v := range points {
		b = extend(b, v)
	}
	return b
}

func emptyBox() r3.Box {
	inf := math.Inf(1)
	return r3.Box{
		Min: r3.Vec{X: inf, Y: inf, Z: inf},
		Max: r3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

func extend(b r3.Box, v r3.Vec) r3.Box {
	b.Min.X = math.Min(b.Min.X, v.X)
	b.Min.Y = math.Min(b.Min.Y, v.Y)
	b.Min.Z = math.Min(b.Min.Z, v.Z)
	b.Max.X = math.Max(b.Max.X, v.X)
	b.Max.Y = math.Max(b.Max.Y, v.Y)
	b.Max.Z = math.Max(b.Max.Z, v.Z)
	return b
}

// FitTriangles scales tris uniformly so the largest bounding-box dimension
// equals diameter, centred on the origin. The input slice is not modified.
// A non-positive diameter or a zero-size mesh returns a copy unchanged.
func FitTriangles(tris []r3.Triangle, diameter float64) []r3.Triangle {
	out := make([]r3.Triangle, len(tris))
	copy(out, tris)
	if diameter <= 0 || len(tris) == 0 {
		return out
	}

	b := Bounds(tris)
	size := b.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim <= 0 {
		return out
	}

	scale := diameter / maxDim
	center := b.Center()
	for i := range out {
		for j := range out[i] {
			out[i][j] = r3.Scale(scale, r3.Sub(out[i][j], center))
		}
	}
	return out
}
