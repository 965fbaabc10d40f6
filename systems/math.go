package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// minRadius guards every division by a planar distance.
const minRadius = 1e-3

// xy projects a point onto the ring plane.
func xy(v r3.Vec) r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

// planarLen returns |v.xy|.
func planarLen(v r3.Vec) float64 {
	return math.Hypot(v.X, v.Y)
}

// tangent returns the counter-clockwise tangent (-y, x, 0).
func tangent(v r3.Vec) r3.Vec {
	return r3.Vec{X: -v.Y, Y: v.X}
}

// lerp interpolates a toward b. t == 1 yields b exactly.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// uniform draws from [lo, hi).
func uniform(rng Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
