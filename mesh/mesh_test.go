package mesh

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/halo/surface"
)

func TestFromIndexed(t *testing.T) {
	positions := []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}}
	tris, err := FromIndexed(positions, []uint32{0, 1, 2, 1, 3, 2}, Scaled(2, r3.Vec{Z: 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(tris))
	}
	if tris[1][1] != (r3.Vec{X: 2, Y: 2, Z: 1}) {
		t.Errorf("expected transformed vertex (2,2,1), got %v", tris[1][1])
	}

	if _, err := FromIndexed(positions, []uint32{0, 1}, nil); err == nil {
		t.Error("expected error for partial index triple")
	}
	if _, err := FromIndexed(positions, []uint32{0, 1, 9}, nil); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestFromSoup(t *testing.T) {
	positions := []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}
	tris := FromSoup(positions, nil)
	if len(tris) != 1 {
		t.Fatalf("expected trailing vertex to be dropped, got %d triangles", len(tris))
	}
}

func TestTorusArea(t *testing.T) {
	tor := Torus{Radius: 5, TubeRadius: 1, RadialSegs: 64, TubeSegs: 64}
	tris, err := tor.Triangles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tris) != 64*64*2 {
		t.Fatalf("expected %d triangles, got %d", 64*64*2, len(tris))
	}

	var area float64
	for _, tr := range tris {
		area += surface.TriangleArea(tr)
	}
	want := 4 * math.Pi * math.Pi * 5 * 1
	if math.Abs(area-want)/want > 0.01 {
		t.Errorf("expected area near %.2f, got %.2f", want, area)
	}
}

// awaitFuture polls f until it resolves.
func awaitFuture(t *testing.T, f *Future) ([]r3.Vec, error) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if pts, err, ok := f.Poll(); ok {
			return pts, err
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("target load did not finish")
	return nil, nil
}

func TestLoadTargetsFuture(t *testing.T) {
	src := Torus{Radius: 3, TubeRadius: 1, RadialSegs: 16, TubeSegs: 16}
	f := LoadTargets(context.Background(), src, TargetOptions{Count: 250, FitDiameter: 8, Seed: 4})

	pts, err := awaitFuture(t, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 250 {
		t.Fatalf("expected 250 points, got %d", len(pts))
	}
	for _, p := range pts {
		if math.Abs(p.X) > 4+1e-9 || math.Abs(p.Y) > 4+1e-9 {
			t.Fatalf("point %v outside fitted diameter", p)
		}
	}

	got, err, ok := f.Poll()
	if !ok || err != nil || len(got) != 250 {
		t.Errorf("expected completed poll, got ok=%v err=%v n=%d", ok, err, len(got))
	}
}

type failingSource struct{}

func (failingSource) Triangles(context.Context) ([]r3.Triangle, error) {
	return nil, errors.New("network down")
}

func TestLoadTargetsFailure(t *testing.T) {
	f := LoadTargets(context.Background(), failingSource{}, TargetOptions{Count: 10})
	pts, err := awaitFuture(t, f)
	if err == nil || len(pts) != 0 {
		t.Errorf("expected failure with no points, got %d points, err=%v", len(pts), err)
	}
}

func TestPollPending(t *testing.T) {
	f := &Future{done: make(chan struct{})}
	if _, _, ok := f.Poll(); ok {
		t.Error("expected pending future to report not ok")
	}
	r := Resolved(nil, surface.ErrNoSurface)
	if _, err, ok := r.Poll(); !ok || !errors.Is(err, surface.ErrNoSurface) {
		t.Errorf("expected resolved future with ErrNoSurface, got ok=%v err=%v", ok, err)
	}
}

func TestBuildTargetsMatchesLoader(t *testing.T) {
	src := Torus{Radius: 3, TubeRadius: 1, RadialSegs: 12, TubeSegs: 12}
	opts := TargetOptions{Count: 40, FitDiameter: 6, Seed: 21}

	direct, err := BuildTargets(context.Background(), src, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	async, err := awaitFuture(t, LoadTargets(context.Background(), src, opts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(direct) != 40 || len(async) != len(direct) {
		t.Fatalf("expected 40 points from both paths, got %d and %d", len(direct), len(async))
	}
	for i := range direct {
		if direct[i] != async[i] {
			t.Fatalf("point %d differs: %v vs %v", i, direct[i], async[i])
		}
	}
}
