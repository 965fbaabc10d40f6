package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/halo/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Rings         int
	Particles     int
	TargetPoints  int
	TargetsReady  bool
	MorphState    string
	MorphProgress float64
	Tick          int32
	Steps         int
	FPS           int32
	Paused        bool
	PointerLive   bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Rings: %d | Particles: %d | Targets: %d", data.Rings, data.Particles, data.TargetPoints),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Steps: %dx | FPS: %d", data.Tick, data.Steps, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	if data.PointerLive {
		statusText += " | pointer"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	y := h.renderer.DrawLabelValue(10, 97, "Morph", data.MorphState)
	if !data.TargetsReady {
		h.renderer.DrawLabelValue(10, y, "Targets", "loading")
		return
	}
	h.renderer.DrawBar(10, y, "Progress", float32(data.MorphProgress), 260)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// DrawGradient renders the ring color legend.
func (h *HUD) DrawGradient(x, y, width int32, colors []rl.Color) {
	h.renderer.DrawColorStrip(x, y, width, colors)
}

// PerfPanel renders the per-phase tick timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg tick: %s (%.0f TPS)", stats.AvgTick.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, ph := range stats.Phases() {
		avg := stats.Avg(ph)
		pct := stats.Pct(ph)

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", ph, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
