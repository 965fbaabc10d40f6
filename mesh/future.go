package mesh

import (
	"context"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/halo/surface"
)

// TargetOptions controls how a loaded mesh becomes morph target points.
type TargetOptions struct {
	Count       int          // number of points to sample
	FitDiameter float64      // 0 disables fit-to-diameter
	Pose        surface.Pose // applied after sampling
	Seed        int64        // seed for the loader's own generator
}

// Future is a single-assignment result of an asynchronous load+sample.
// It is written once by the loader goroutine and only read afterwards.
type Future struct {
	done   chan struct{}
	points []r3.Vec
	err    error
}

// Resolved returns an already-completed future.
func Resolved(points []r3.Vec, err error) *Future {
	f := &Future{done: make(chan struct{}), points: points, err: err}
	close(f.done)
	return f
}

// Poll reports the result without blocking. ok is false until the load finishes.
func (f *Future) Poll() (points []r3.Vec, err error, ok bool) {
	select {
	case <-f.done:
		return f.points, f.err, true
	default:
		return nil, nil, false
	}
}

// LoadTargets starts loading src in the background and samples opts.Count
// surface points from it. The simulation polls the returned future per tick.
func LoadTargets(ctx context.Context, src Source, opts TargetOptions) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.points, f.err = BuildTargets(ctx, src, opts)
		if f.err != nil {
			slog.Warn("morph target load failed", "error", f.err)
			return
		}
		slog.Info("morph targets ready", "points", len(f.points))
	}()
	return f
}

// BuildTargets loads and samples synchronously.
func BuildTargets(ctx context.Context, src Source, opts TargetOptions) ([]r3.Vec, error) {
	tris, err := src.Triangles(ctx)
	if err != nil {
		return nil, err
	}
	if opts.FitDiameter > 0 {
		tris = surface.FitTriangles(tris, opts.FitDiameter)
	}
	sampler, err := surface.NewSampler(tris, opts.Pose)
	if err != nil {
		return nil, err
	}
	slog.Debug("mesh sampler built", "triangles", len(tris), "area", sampler.TotalArea())
	return sampler.Sample(rand.New(rand.NewSource(opts.Seed)), opts.Count), nil
}
