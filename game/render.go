package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/halo/ui"
)

var (
	backgroundColor = rl.Color{R: 8, G: 10, B: 16, A: 255}
	targetColor     = rl.Color{R: 120, G: 255, B: 200, A: 120}
)

// Draw renders the swarm, overlays and UI.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	g.drawActiveOverlays(true)
	g.particleRenderer.Draw(g.sys)
	g.drawActiveOverlays(false)

	g.drawUI()

	rl.EndDrawing()
}

// drawActiveOverlays renders enabled overlays either beneath or above the particles.
func (g *Game) drawActiveOverlays(beneath bool) {
	for _, id := range g.uiOverlays.EnabledOverlays() {
		switch {
		case beneath && id == ui.OverlayRingGuides:
			g.particleRenderer.DrawRingGuides(g.sys)
		case beneath && id == ui.OverlayAnchors:
			g.particleRenderer.DrawAnchors(g.sys)
		case beneath && id == ui.OverlayTargets:
			g.particleRenderer.DrawPoints(g.sys.Targets(), targetColor)
		case !beneath && id == ui.OverlayVelocities:
			g.particleRenderer.DrawVelocities(g.sys, 8)
		case !beneath && id == ui.OverlayPointer && g.pointerLive:
			g.particleRenderer.DrawPointer(g.pointer.Position, g.cfg.Pointer.Radius)
		}
	}
}

// drawUI draws the HUD, panels and controls.
func (g *Game) drawUI() {
	g.uiHUD.Draw(ui.HUDData{
		Title:         "Halo",
		Rings:         g.sys.RingCount(),
		Particles:     g.sys.ParticleCount(),
		TargetPoints:  len(g.sys.Targets()),
		TargetsReady:  g.sys.TargetsReady(),
		MorphState:    g.sys.Morph.State().String(),
		MorphProgress: g.sys.Morph.Progress(),
		Tick:          g.sys.Tick(),
		Steps:         g.stepsPerUpdate,
		FPS:           rl.GetFPS(),
		Paused:        g.paused,
		PointerLive:   g.pointerLive,
	})

	if g.uiOverlays.IsEnabled(ui.OverlayGradient) {
		g.uiHUD.DrawGradient(10, 140, 260, g.legend)
	}

	if g.uiOverlays.IsEnabled(ui.OverlayPerf) {
		g.uiPerfPanel.Draw(g.perfCollector.Stats())
	}

	if g.uiOverlays.IsEnabled(ui.OverlayControls) != g.uiControls.IsVisible() {
		g.uiControls.Toggle()
	}
	res := g.uiControls.Draw(g.cfg, ui.ControlsData{
		MorphState:   g.sys.Morph.State().String(),
		TargetsReady: g.sys.TargetsReady(),
	})
	if res.Rebuild {
		g.rebuildPending = true
	}
	if res.PhysicsChanged {
		g.paramsPending = true
	}
	if res.StartMorph {
		g.requestMorph()
	}

	g.uiHUD.DrawControls(int32(g.screenHeight),
		"SPACE: Pause | < >: Steps | M: Morph | B: Rebuild | T/A/R/P/V/G: Overlays | F3: Perf | TAB: Controls")
}
