package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard and pointer input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyM) {
		g.requestMorph()
	}
	if rl.IsKeyPressed(rl.KeyB) {
		g.rebuildPending = true
	}

	g.handleOverlayKeys()
	g.handleCameraInput()
	g.handlePointer()
}

// handleOverlayKeys checks for overlay toggle key presses.
func (g *Game) handleOverlayKeys() {
	for _, desc := range g.uiOverlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			g.uiOverlays.Toggle(desc.ID)
		}
	}
}

// handlePointer feeds mouse movement to the swarm pointer. Leaving the
// window clears it; hovering the controls panel does not move it.
func (g *Game) handlePointer() {
	if !rl.IsCursorOnScreen() {
		g.pointer.Leave()
		return
	}

	mouse := rl.GetMousePosition()
	if g.overControls(mouse) {
		return
	}
	delta := rl.GetMouseDelta()
	if delta.X == 0 && delta.Y == 0 && g.pointer.Active {
		return
	}
	g.pointer.Move(g.camera.PointerWorld(mouse.X, mouse.Y), g.sys.Now())
}

// overControls reports whether the mouse is over the controls panel.
func (g *Game) overControls(mouse rl.Vector2) bool {
	if !g.uiControls.IsVisible() {
		return false
	}
	x := g.screenWidth - 300
	return mouse.X >= x && mouse.Y >= 140 && mouse.Y <= 140+float32(g.uiControls.Height())
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.uiPerfPanel.SetPosition(int32(w)-300, 10)
	g.uiControls.SetPosition(int32(w)-300, 140)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.camera.Zoom

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Zoom controls: mouse wheel or +/- keys
	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		g.camera.ZoomBy(1.0 + wheelMove*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
