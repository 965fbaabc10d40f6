package mesh

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Torus is a procedural torus lying in the XY plane.
type Torus struct {
	Radius     float64 // ring radius
	TubeRadius float64 // radius of the solid tube
	RadialSegs int     // segments around the ring
	TubeSegs   int     // segments around the tube
}

// Triangles generates the indexed torus and expands it to a soup.
func (t Torus) Triangles(ctx context.Context) ([]r3.Triangle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	radial, tube := t.RadialSegs, t.TubeSegs
	if radial < 3 {
		radial = 3
	}
	if tube < 3 {
		tube = 3
	}

	positions := make([]r3.Vec, 0, (radial+1)*(tube+1))
	for j := 0; j <= radial; j++ {
		v := float64(j) / float64(radial) * 2 * math.Pi
		for i := 0; i <= tube; i++ {
			u := float64(i) / float64(tube) * 2 * math.Pi
			ring := t.Radius + t.TubeRadius*math.Cos(v)
			positions = append(positions, r3.Vec{
				X: ring * math.Cos(u),
				Y: ring * math.Sin(u),
				Z: t.TubeRadius * math.Sin(v),
			})
		}
	}

	indices := make([]uint32, 0, radial*tube*6)
	for j := 1; j <= radial; j++ {
		for i := 1; i <= tube; i++ {
			a := uint32((tube+1)*j + i - 1)
			b := uint32((tube+1)*(j-1) + i - 1)
			c := uint32((tube+1)*(j-1) + i)
			d := uint32((tube+1)*j + i)
			indices = append(indices, a, b, d, b, c, d)
		}
	}

	tris, err := FromIndexed(positions, indices, nil)
	if err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return nil, ErrNoTriangles
	}
	return tris, nil
}
