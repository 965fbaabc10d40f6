package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/halo/components"
	"github.com/pthm-cable/halo/systems"
)

// velocityScale stretches per-tick velocities so they are visible.
const velocityScale = 400

var (
	guideColor   = rl.Color{R: 80, G: 90, B: 110, A: 160}
	anchorColor  = rl.Color{R: 200, G: 200, B: 200, A: 90}
	pointerColor = rl.Color{R: 255, G: 255, B: 255, A: 60}
	velColor     = rl.Color{R: 255, G: 180, B: 60, A: 140}
)

// DrawRingGuides outlines each ring's base radius.
func (r *ParticleRenderer) DrawRingGuides(sys *systems.SwarmSystem) {
	cx, cy := r.cam.WorldToScreen(0, 0)
	scale := r.cam.PixelsPerUnit * r.cam.Zoom
	sys.EachRing(func(_ components.RingSlot, spec *components.RingSpec, _ *components.Swarm) {
		rl.DrawCircleLines(int32(cx), int32(cy), float32(spec.Radius)*scale, guideColor)
	})
}

// DrawAnchors draws every particle's spring anchor.
func (r *ParticleRenderer) DrawAnchors(sys *systems.SwarmSystem) {
	sys.EachRing(func(_ components.RingSlot, _ *components.RingSpec, swarm *components.Swarm) {
		r.DrawPoints(swarm.Initial, anchorColor)
	})
}

// DrawVelocities draws a short line along each particle's velocity.
// Only every stride-th particle is drawn.
func (r *ParticleRenderer) DrawVelocities(sys *systems.SwarmSystem, stride int) {
	if stride < 1 {
		stride = 1
	}
	sys.EachRing(func(_ components.RingSlot, _ *components.RingSpec, swarm *components.Swarm) {
		for i := 0; i < swarm.Len(); i += stride {
			p, v := swarm.Positions[i], swarm.Velocities[i]
			sx, sy := r.cam.WorldToScreen(float32(p.X), float32(p.Y))
			ex, ey := r.cam.WorldToScreen(float32(p.X+v.X*velocityScale), float32(p.Y+v.Y*velocityScale))
			rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: ex, Y: ey}, velColor)
		}
	})
}

// DrawPointer outlines the pointer's influence radius.
func (r *ParticleRenderer) DrawPointer(pos r2.Vec, radius float64) {
	sx, sy := r.cam.WorldToScreen(float32(pos.X), float32(pos.Y))
	scale := r.cam.PixelsPerUnit * r.cam.Zoom
	rl.DrawCircleLines(int32(sx), int32(sy), float32(radius)*scale, pointerColor)
}

// GradientLegend samples g into n raylib colors.
func GradientLegend(g systems.Gradient, n int) []rl.Color {
	if n < 1 {
		return nil
	}
	out := make([]rl.Color, n)
	for i := range out {
		out[i] = FromColorful(g.At(float64(i)/float64(n)), 255)
	}
	return out
}
