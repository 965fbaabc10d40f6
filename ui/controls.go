package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/halo/config"
)

// ControlsResult reports what the user changed during one frame.
type ControlsResult struct {
	Rebuild        bool // ring layout changed or "Rebuild" pressed
	PhysicsChanged bool // pointer parameters changed
	StartMorph     bool
}

// ControlsData is the read-only state shown next to the controls.
type ControlsData struct {
	MorphState   string
	TargetsReady bool
}

// ControlsPanel renders the ring configuration sliders and morph buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Height returns the panel height in pixels.
func (c *ControlsPanel) Height() int32 {
	return 8*36 + 2*40 + c.renderer.Theme.Padding*3 + 20
}

// Draw renders the panel and applies slider edits to cfg. Derived values
// are recomputed when the ring layout changes.
func (c *ControlsPanel) Draw(cfg *config.Config, data ControlsData) ControlsResult {
	var res ControlsResult
	if !c.visible {
		return res
	}

	r := c.renderer
	padding := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.Height())

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	w := float32(c.width - padding*2 - 50)

	rl.DrawText("Rings", int32(x), int32(y), 16, rl.White)
	y += 20

	before := cfg.Rings

	slider := func(label string, value, min, max float32, format string) float32 {
		rl.DrawText(label, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
		y += 14
		v := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: w, Height: 16}, "", "", value, min, max)
		rl.DrawText(fmt.Sprintf(format, v), int32(x+w+6), int32(y+2), r.Theme.FontSize, r.Theme.ValueColor)
		y += 22
		return v
	}

	editInt := func(dst *int, label string, min, max float32) {
		cur := float32(*dst)
		if v := slider(label, cur, min, max, "%.0f"); v != cur {
			*dst = int(math.Round(float64(v)))
		}
	}
	editFloat := func(dst *float64, label string, min, max float32, format string) {
		cur := float32(*dst)
		if v := slider(label, cur, min, max, format); v != cur {
			*dst = float64(v)
		}
	}

	editInt(&cfg.Rings.Count, "Ring count", 1, 12)
	editInt(&cfg.Rings.TotalParticles, "Particles", 100, 20000)
	editFloat(&cfg.Rings.WobbleStrength, "Wobble", 0, 2, "%.2f")
	editFloat(&cfg.Rings.OrbitSpeed, "Orbit speed", 0, 0.002, "%.4f")
	editFloat(&cfg.Rings.WaveAmplitude, "Wave", 0, 0.5, "%.2f")
	editFloat(&cfg.Rings.ScatterFactor, "Scatter", 0, 0.3, "%.2f")

	if RingsChanged(before, cfg.Rings) {
		cfg.Recompute()
		res.Rebuild = true
	}

	pointer := cfg.Pointer
	editFloat(&cfg.Pointer.Force, "Pointer force", 0, 0.2, "%.3f")
	editFloat(&cfg.Pointer.Radius, "Pointer radius", 0.5, 6, "%.1f")

	y += 4
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 110, Height: 28}, toggleText(cfg.Pointer.Repel, "Repel", "Attract")) {
		cfg.Pointer.Repel = !cfg.Pointer.Repel
	}
	if gui.Button(rl.Rectangle{X: x + 120, Y: y, Width: 110, Height: 28}, "Rebuild") {
		res.Rebuild = true
	}
	y += 36
	res.PhysicsChanged = pointer != cfg.Pointer

	morphLabel := "Start Morph"
	if !data.TargetsReady {
		morphLabel = "Loading..."
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 110, Height: 28}, morphLabel) {
		res.StartMorph = true
	}
	rl.DrawText(data.MorphState, int32(x+120), int32(y+8), r.Theme.FontSize, r.Theme.SectionHeader)

	return res
}

// RingsChanged reports whether any scalar that shapes the ring layout differs.
func RingsChanged(a, b config.RingsConfig) bool {
	return a.Count != b.Count ||
		a.TotalParticles != b.TotalParticles ||
		a.BaseRadius != b.BaseRadius ||
		a.OrbitSpeed != b.OrbitSpeed ||
		a.WobbleStrength != b.WobbleStrength ||
		a.WaveAmplitude != b.WaveAmplitude ||
		a.ScatterFactor != b.ScatterFactor ||
		a.OrbitModulationAmplitude != b.OrbitModulationAmplitude ||
		a.OrbitModulationFrequency != b.OrbitModulationFrequency
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
