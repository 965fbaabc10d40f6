// Package surface draws area-weighted random points from triangulated surfaces.
package surface

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// AreaEpsilon is the area below which a triangle carries no sampling weight.
const AreaEpsilon = 1e-6

// ErrNoSurface is returned when no triangle has a usable area.
var ErrNoSurface = errors.New("surface: no triangle with non-zero area")

// Rand is the random source used for sampling.
// *rand.Rand satisfies it; Float64 must return values in [0, 1).
type Rand interface {
	Float64() float64
}

// Pose is a rigid transform applied to every sampled point:
// rotation by Angle radians around Axis, then translation.
type Pose struct {
	Axis        r3.Vec
	Angle       float64
	Translation r3.Vec
}

// placement is a Pose with its rotation resolved once.
type placement struct {
	rot      r3.Rotation
	identity bool
	offset   r3.Vec
}

func (p Pose) placement() placement {
	if p.Angle == 0 || r3.Norm(p.Axis) == 0 {
		return placement{identity: true, offset: p.Translation}
	}
	return placement{rot: r3.NewRotation(p.Angle, p.Axis), offset: p.Translation}
}

func (pl placement) apply(v r3.Vec) r3.Vec {
	if !pl.identity {
		v = pl.rot.Rotate(v)
	}
	return r3.Add(v, pl.offset)
}

// TriangleArea returns half the cross-product magnitude of two edges of t.
func TriangleArea(t r3.Triangle) float64 {
	ab := r3.Sub(t[1], t[0])
	ac := r3.Sub(t[2], t[0])
	return 0.5 * r3.Norm(r3.Cross(ab, ac))
}

// Sampler holds the cumulative-area distribution of a triangle list.
type Sampler struct {
	tris       []r3.Triangle
	cumulative []float64
	total      float64
	place      placement
}

// NewSampler builds the cumulative-area table for tris.
// Triangles with area below AreaEpsilon are dropped.
// Returns ErrNoSurface when no triangle remains.
func NewSampler(tris []r3.Triangle, pose Pose) (*Sampler, error) {
	kept := make([]r3.Triangle, 0, len(tris))
	areas := make([]float64, 0, len(tris))
	for _, t := range tris {
		a := TriangleArea(t)
		if a < AreaEpsilon || math.IsNaN(a) || math.IsInf(a, 0) {
			continue
		}
		kept = append(kept, t)
		areas = append(areas, a)
	}

	cumulative := floats.CumSum(make([]float64, len(areas)), areas)
	total := 0.0
	if n := len(cumulative); n > 0 {
		total = cumulative[n-1]
	}
	if !(total > 0) {
		return nil, ErrNoSurface
	}

	return &Sampler{
		tris:       kept,
		cumulative: cumulative,
		total:      total,
		place:      pose.placement(),
	}, nil
}

// TotalArea returns the summed area of all weighted triangles.
func (s *Sampler) TotalArea() float64 {
	return s.total
}

// pick returns the first triangle whose cumulative area is >= r.
// Falls back to the last triangle when r lies past the table end.
func (s *Sampler) pick(r float64) int {
	idx := sort.SearchFloat64s(s.cumulative, r)
	if idx >= len(s.cumulative) {
		idx = len(s.cumulative) - 1
	}
	return idx
}

// barycentric draws u ~ U(0,1), v ~ U(0,1-u), w = 1-u-v.
// The folding is asymmetric: it is not area-uniform inside the triangle.
func barycentric(rng Rand) (u, v, w float64) {
	u = rng.Float64()
	v = rng.Float64() * (1 - u)
	w = 1 - u - v
	return u, v, w
}

// Point draws one surface point.
func (s *Sampler) Point(rng Rand) r3.Vec {
	t := s.tris[s.pick(rng.Float64()*s.total)]
	u, v, w := barycentric(rng)
	p := r3.Add(r3.Add(r3.Scale(u, t[0]), r3.Scale(v, t[1])), r3.Scale(w, t[2]))
	return s.place.apply(p)
}

// Sample draws n surface points.
func (s *Sampler) Sample(rng Rand, n int) []r3.Vec {
	if n <= 0 {
		return nil
	}
	out := make([]r3.Vec, n)
	for i := range out {
		out[i] = s.Point(rng)
	}
	return out
}

// Sample draws n area-weighted points from tris and applies pose to each.
// Returns ErrNoSurface (and no points) when tris has no usable area.
func Sample(tris []r3.Triangle, n int, rng Rand, pose Pose) ([]r3.Vec, error) {
	s, err := NewSampler(tris, pose)
	if err != nil {
		return nil, err
	}
	return s.Sample(rng, n), nil
}
