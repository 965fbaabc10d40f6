// Package mesh supplies world-space triangle soups used as morph targets.
package mesh

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoTriangles is returned when a source yields an empty triangle list.
var ErrNoTriangles = errors.New("mesh: no triangles")

// Source loads a triangle soup. Implementations may block on I/O.
type Source interface {
	Triangles(ctx context.Context) ([]r3.Triangle, error)
}

// Transform maps model-space vertices to world space.
type Transform func(r3.Vec) r3.Vec

// FromIndexed assembles triangles from a vertex buffer and an index buffer
// (three indices per triangle). A nil transform leaves vertices as-is.
func FromIndexed(positions []r3.Vec, indices []uint32, xf Transform) ([]r3.Triangle, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	tris := make([]r3.Triangle, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		var t r3.Triangle
		for k := 0; k < 3; k++ {
			idx := int(indices[i+k])
			if idx >= len(positions) {
				return nil, fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
			}
			t[k] = apply(xf, positions[idx])
		}
		tris = append(tris, t)
	}
	return tris, nil
}

// FromSoup groups consecutive vertex triples into triangles.
// Trailing vertices that do not form a full triangle are dropped.
func FromSoup(positions []r3.Vec, xf Transform) []r3.Triangle {
	tris := make([]r3.Triangle, 0, len(positions)/3)
	for i := 0; i+2 < len(positions); i += 3 {
		tris = append(tris, r3.Triangle{
			apply(xf, positions[i]),
			apply(xf, positions[i+1]),
			apply(xf, positions[i+2]),
		})
	}
	return tris
}

func apply(xf Transform, v r3.Vec) r3.Vec {
	if xf == nil {
		return v
	}
	return xf(v)
}

// Scaled returns a transform that scales then translates.
func Scaled(scale float64, offset r3.Vec) Transform {
	return func(v r3.Vec) r3.Vec {
		return r3.Add(r3.Scale(scale, v), offset)
	}
}
