// Morph target preview tool - interactive surface sampling with sliders.
//
// Usage: go run ./cmd/targetpreview [-mesh gear.glb]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/halo/camera"
	"github.com/pthm-cable/halo/config"
	"github.com/pthm-cable/halo/game"
	"github.com/pthm-cable/halo/renderer"
	"github.com/pthm-cable/halo/surface"
	"github.com/pthm-cable/halo/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewSize  = 700
	panelWidth   = windowWidth - previewSize - 30
)

// PreviewParams holds the sampling parameters being tuned.
type PreviewParams struct {
	Count       float32
	FitDiameter float32
	AngleDeg    float32
	Axis        int // 0 = x, 1 = y, 2 = z
	Seed        int64
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	meshPath := flag.String("mesh", "", "glTF/GLB mesh to preview (empty = config / torus)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	tris, err := game.TargetSource(cfg, *meshPath).Triangles(context.Background())
	if err != nil {
		slog.Error("failed to load mesh", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Morph Target Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := PreviewParams{
		Count:       float32(cfg.TotalParticles()),
		FitDiameter: float32(cfg.Morph.FitDiameter),
		AngleDeg:    float32(cfg.Morph.Rotation.AngleDeg),
		Seed:        1,
	}

	cam := camera.New(previewSize, previewSize, float32(previewSize)/24)
	var points []r3.Vec
	var sampleErr error
	needsResample := true

	for !rl.WindowShouldClose() {
		if needsResample {
			points, sampleErr = resample(tris, params)
			needsResample = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Preview area
		rl.DrawRectangle(10, 10, previewSize, previewSize, rl.Black)
		for _, p := range points {
			sx, sy := cam.WorldToScreen(float32(p.X), float32(p.Y))
			if sx < 0 || sy < 0 || sx >= previewSize || sy >= previewSize {
				continue
			}
			// Colour by height around the ring gradient
			c := renderer.FromColorful(systems.RingGradient.At(0.5+p.Z/16), 220)
			rl.DrawPixelV(rl.Vector2{X: sx + 10, Y: sy + 10}, c)
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Morph Targets", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 30
		rl.DrawText(fmt.Sprintf("Triangles: %d  Points: %d", len(tris), len(points)), int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		if sampleErr != nil {
			rl.DrawText(sampleErr.Error(), int32(panelX), int32(panelY), 14, rl.Red)
		}
		panelY += 25

		slider := func(label string, value, min, max float32, format string) float32 {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				value, min, max,
			)
			rl.DrawText(fmt.Sprintf(format, v), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			return v
		}

		if v := slider("Sample count", params.Count, 100, 20000, "%.0f"); v != params.Count {
			params.Count = float32(math.Round(float64(v)))
			needsResample = true
		}
		if v := slider("Fit diameter (0 = off)", params.FitDiameter, 0, 24, "%.1f"); v != params.FitDiameter {
			params.FitDiameter = v
			needsResample = true
		}
		if v := slider("Rotation (deg)", params.AngleDeg, -180, 180, "%.0f"); v != params.AngleDeg {
			params.AngleDeg = v
			needsResample = true
		}

		for i, name := range []string{"X axis", "Y axis", "Z axis"} {
			label := name
			if params.Axis == i {
				label = "[" + name + "]"
			}
			if gui.Button(rl.Rectangle{X: panelX + float32(i)*120, Y: panelY, Width: 110, Height: 30}, label) {
				params.Axis = i
				needsResample = true
			}
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 110, Height: 30}, "Random Seed") {
			params.Seed = rand.Int63()
			needsResample = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 120, Y: panelY, Width: 110, Height: 30}, "Reset View") {
			cam.Reset()
		}
		panelY += 45

		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			cam.ZoomBy(1 + wheel*0.1)
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(morphYAML(params))
		}

		rl.EndDrawing()
	}
}

// resample draws a fresh point set with the current parameters.
func resample(tris []r3.Triangle, params PreviewParams) ([]r3.Vec, error) {
	if params.FitDiameter > 0 {
		tris = surface.FitTriangles(tris, float64(params.FitDiameter))
	}
	pose := surface.Pose{
		Axis:  axisVec(params.Axis),
		Angle: float64(params.AngleDeg) * math.Pi / 180,
	}
	rng := rand.New(rand.NewSource(params.Seed))
	return surface.Sample(tris, int(params.Count), rng, pose)
}

func axisVec(i int) r3.Vec {
	switch i {
	case 1:
		return r3.Vec{Y: 1}
	case 2:
		return r3.Vec{Z: 1}
	}
	return r3.Vec{X: 1}
}

func morphYAML(p PreviewParams) string {
	a := axisVec(p.Axis)
	return fmt.Sprintf(`morph:
  sample_count: %.0f
  fit_diameter: %.1f
  rotation:
    axis: [%.0f, %.0f, %.0f]
    angle_deg: %.0f`,
		p.Count, p.FitDiameter, a.X, a.Y, a.Z, p.AngleDeg)
}
