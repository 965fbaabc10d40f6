package game

import (
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/halo/config"
	"github.com/pthm-cable/halo/mesh"
	"github.com/pthm-cable/halo/surface"
	"github.com/pthm-cable/halo/telemetry"
)

// TargetSource returns the morph mesh described by cfg. A non-empty
// meshPath (.glb or .gltf) overrides the configured path; with no path
// the procedural torus is used.
func TargetSource(cfg *config.Config, meshPath string) mesh.Source {
	if meshPath == "" {
		meshPath = cfg.Morph.MeshPath
	}
	if meshPath != "" {
		scale := cfg.Morph.Scale
		if scale == 0 {
			scale = 1
		}
		return mesh.GLTFFile{Path: meshPath, Transform: mesh.Scaled(scale, r3.Vec{})}
	}
	t := cfg.Morph.Torus
	return mesh.Torus{
		Radius:     t.Radius,
		TubeRadius: t.TubeRadius,
		RadialSegs: t.RadialSegs,
		TubeSegs:   t.TubeSegs,
	}
}

// TargetOptions builds sampling options from cfg. count falls back to
// the configured particle total when morph.sample_count is zero.
func TargetOptions(cfg *config.Config, seed int64) mesh.TargetOptions {
	count := cfg.Morph.SampleCount
	if count <= 0 {
		count = cfg.TotalParticles()
	}
	rot := cfg.Morph.Rotation.Axis
	tr := cfg.Morph.Translation
	return mesh.TargetOptions{
		Count:       count,
		FitDiameter: cfg.Morph.FitDiameter,
		Pose: surface.Pose{
			Axis:        r3.Vec{X: rot[0], Y: rot[1], Z: rot[2]},
			Angle:       cfg.Derived.AngleRad,
			Translation: r3.Vec{X: tr[0], Y: tr[1], Z: tr[2]},
		},
		Seed: seed,
	}
}

// ReadTargetsFile loads precomputed target points from a CSV file.
func ReadTargetsFile(path string) ([]r3.Vec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening targets: %w", err)
	}
	defer f.Close()
	return telemetry.ReadPoints(f)
}

// startTargets begins producing morph targets, either from a points file
// or by loading and sampling a mesh in the background.
func (g *Game) startTargets(opts Options) {
	if opts.TargetsPath != "" {
		points, err := ReadTargetsFile(opts.TargetsPath)
		if err != nil {
			slog.Error("failed to read targets", "path", opts.TargetsPath, "error", err)
		} else {
			slog.Info("morph targets loaded", "path", opts.TargetsPath, "points", len(points))
		}
		g.targets = mesh.Resolved(points, err)
	} else {
		src := TargetSource(g.cfg, opts.MeshPath)
		g.targets = mesh.LoadTargets(g.ctx, src, TargetOptions(g.cfg, g.rng.Int63()))
	}
	g.sys.WatchTargets(g.targets)
}

// pollTargets records the outcome of the target load once it resolves.
func (g *Game) pollTargets() {
	if g.targets == nil {
		return
	}
	points, err, ok := g.targets.Poll()
	if !ok {
		return
	}
	g.targets = nil

	ev := telemetry.Event{Type: telemetry.EventTargetsReady, Tick: g.sys.Tick(), Count: len(points)}
	if err != nil || len(points) == 0 {
		ev.Type = telemetry.EventTargetsFailed
	}
	g.collector.Record(ev)

	if g.outputManager != nil && err == nil {
		if err := g.outputManager.WritePoints("targets.csv", points); err != nil {
			slog.Error("failed to write targets", "error", err)
		}
	}
}
