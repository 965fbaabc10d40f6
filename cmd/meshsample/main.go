// Mesh sampling tool - writes area-weighted surface points to CSV.
//
// Usage: go run ./cmd/meshsample -mesh gear.glb -n 5000 -out points.csv
//
// The output can be fed back to the simulation with -targets.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/halo/config"
	"github.com/pthm-cable/halo/game"
	"github.com/pthm-cable/halo/mesh"
	"github.com/pthm-cable/halo/surface"
	"github.com/pthm-cable/halo/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	meshPath := flag.String("mesh", "", "glTF/GLB mesh to sample (empty = config / torus)")
	count := flag.Int("n", 0, "Number of points (0 = morph.sample_count or particle total)")
	seed := flag.Int64("seed", 1, "RNG seed")
	out := flag.String("out", "points.csv", "Output CSV path")
	timeout := flag.Duration("timeout", time.Minute, "Maximum load and sample time")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.TargetOptions(cfg, *seed)
	if *count > 0 {
		opts.Count = *count
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	points, err := mesh.BuildTargets(ctx, game.TargetSource(cfg, *meshPath), opts)
	if err != nil {
		slog.Error("failed to sample mesh", "error", err)
		os.Exit(1)
	}

	if err := telemetry.WriteCSVFile(*out, telemetry.PointRecords(points)); err != nil {
		slog.Error("failed to write points", "error", err)
		os.Exit(1)
	}

	bounds := surface.PointBounds(points)
	slog.Info("points written",
		"path", *out,
		"points", len(points),
		"elapsed", time.Since(start).String(),
		"min", bounds.Min,
		"max", bounds.Max,
	)
}
