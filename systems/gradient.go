package systems

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorStop is one gradient control point.
type ColorStop struct {
	Pos   float64
	Color colorful.Color
}

// Gradient is an ordered list of stops over [0, 1].
type Gradient []ColorStop

// RingGradient is the cyclic 6-stop palette shared by every ring.
// The first and last stops match so the hue wraps cleanly at angle 2π.
var RingGradient = Gradient{
	{0.0, mustHex("#ff4040")},
	{0.2, mustHex("#ff3080")},
	{0.4, mustHex("#c020ff")},
	{0.6, mustHex("#4040ff")},
	{0.8, mustHex("#20a0c0")},
	{1.0, mustHex("#ff4040")},
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// At returns the color at pos, blending in RGB between the surrounding
// stops. When no segment contains pos the last and first stops are blended.
func (g Gradient) At(pos float64) colorful.Color {
	switch len(g) {
	case 0:
		return colorful.Color{}
	case 1:
		return g[0].Color
	}
	for i := 0; i < len(g)-1; i++ {
		a, b := g[i], g[i+1]
		if pos >= a.Pos && pos <= b.Pos {
			span := b.Pos - a.Pos
			if span <= 0 {
				return a.Color
			}
			return a.Color.BlendRgb(b.Color, (pos-a.Pos)/span)
		}
	}
	last, first := g[len(g)-1], g[0]
	span := first.Pos - last.Pos
	if span == 0 {
		return last.Color
	}
	return last.Color.BlendRgb(first.Color, clamp01((pos-last.Pos)/span))
}

// AtAngle evaluates the gradient at θ/(2π) mod 1.
func (g Gradient) AtAngle(theta float64) colorful.Color {
	pos := math.Mod(theta/(2*math.Pi), 1)
	if pos < 0 {
		pos++
	}
	return g.At(pos)
}
