// Package renderer draws the swarm with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/halo/camera"
	"github.com/pthm-cable/halo/components"
	"github.com/pthm-cable/halo/systems"
)

// depthScale shrinks or grows points by their z offset after a morph.
const depthScale = 0.03

// ParticleRenderer draws every ring from its packed position and color buffers.
type ParticleRenderer struct {
	cam       *camera.Camera
	pointSize float32

	// Reused per ring
	positions []float32
	colors    []float32
}

// NewParticleRenderer creates a particle renderer drawing through cam.
func NewParticleRenderer(cam *camera.Camera, pointSize float32) *ParticleRenderer {
	if pointSize <= 0 {
		pointSize = 1
	}
	return &ParticleRenderer{cam: cam, pointSize: pointSize}
}

// Draw renders all rings of sys.
func (r *ParticleRenderer) Draw(sys *systems.SwarmSystem) {
	sys.EachRing(func(_ components.RingSlot, _ *components.RingSpec, swarm *components.Swarm) {
		r.positions = swarm.PositionBuffer(r.positions)
		r.colors = swarm.ColorBuffer(r.colors)
		r.DrawBuffers(r.positions, r.colors)
	})
}

// DrawBuffers renders packed xyz positions with packed rgb colors.
func (r *ParticleRenderer) DrawBuffers(positions, colors []float32) {
	n := len(positions) / 3
	if len(colors)/3 < n {
		n = len(colors) / 3
	}
	for i := 0; i < n; i++ {
		x, y, z := positions[i*3], positions[i*3+1], positions[i*3+2]
		if !r.cam.IsVisible(x, y, 0.1) {
			continue
		}
		size := r.pointSize * (1 + z*depthScale)
		if size < 0.5 {
			size = 0.5
		}
		sx, sy := r.cam.WorldToScreen(x, y)
		color := RGB(colors[i*3], colors[i*3+1], colors[i*3+2], 230)
		if size <= 1 {
			rl.DrawPixelV(rl.Vector2{X: sx, Y: sy}, color)
			continue
		}
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, color)
	}
}

// DrawPoints renders points (for example morph targets) in a single color.
func (r *ParticleRenderer) DrawPoints(points []r3.Vec, color rl.Color) {
	for _, p := range points {
		x, y := float32(p.X), float32(p.Y)
		if !r.cam.IsVisible(x, y, 0.1) {
			continue
		}
		sx, sy := r.cam.WorldToScreen(x, y)
		rl.DrawPixelV(rl.Vector2{X: sx, Y: sy}, color)
	}
}

// RGB converts unit-range channels to a raylib color, clamping out-of-range values.
func RGB(red, green, blue float32, alpha uint8) rl.Color {
	return rl.Color{R: channel(red), G: channel(green), B: channel(blue), A: alpha}
}

// FromColorful converts a colorful color to a raylib color.
func FromColorful(c colorful.Color, alpha uint8) rl.Color {
	c = c.Clamped()
	return RGB(float32(c.R), float32(c.G), float32(c.B), alpha)
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
