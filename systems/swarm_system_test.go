package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/halo/components"
	"github.com/pthm-cable/halo/mesh"
	"github.com/pthm-cable/halo/surface"
)

func testOptions() SwarmOptions {
	return SwarmOptions{
		TimeStep:     0.005,
		FrameSeconds: 1.0 / 60,
		MorphRate:    0.002,
		Physics:      quietParams(),
	}
}

func testSpecs(counts ...uint32) []components.RingSpec {
	specs := make([]components.RingSpec, len(counts))
	for i, n := range counts {
		specs[i] = components.RingSpec{
			Radius:          8,
			RadiusVariation: 0.03,
			WaveAmplitude:   1.2,
			OrbitSpeed:      0.0004,
			ScatterFactor:   0.05,
			ParticleCount:   n,
		}
	}
	return specs
}

// gridTargets returns n distinct points away from the ring.
func gridTargets(n int) []r3.Vec {
	pts := make([]r3.Vec, n)
	for i := range pts {
		pts[i] = r3.Vec{X: float64(i%10) - 5, Y: float64(i/10) - 5, Z: 1}
	}
	return pts
}

func TestBuildSwarmPlacement(t *testing.T) {
	spec := testSpecs(500)[0]
	swarm := BuildSwarm(spec, rand.New(rand.NewSource(2)))

	if swarm.Len() != 500 {
		t.Fatalf("expected 500 particles, got %d", swarm.Len())
	}
	maxR := spec.Radius + spec.WaveAmplitude + 0.5*spec.Radius*spec.ScatterFactor
	minR := spec.Radius - spec.WaveAmplitude - 0.5*spec.Radius*spec.ScatterFactor
	for i := range swarm.Positions {
		p := swarm.Positions[i]
		if p != swarm.Initial[i] {
			t.Fatalf("particle %d: position and anchor differ at construction", i)
		}
		r := planarLen(p)
		if r < minR || r > maxR {
			t.Errorf("particle %d: radius %v outside [%v, %v]", i, r, minR, maxR)
		}
		if math.Abs(p.Z) > 0.025 {
			t.Errorf("particle %d: z %v outside jitter band", i, p.Z)
		}
		v := swarm.Velocities[i]
		if v.Z != 0 || math.Abs(r3.Dot(v, p)) > 1e-9 {
			t.Errorf("particle %d: velocity %v is not tangential", i, v)
		}
		speed := r3.Norm(v) / r
		if speed < 0.8*spec.OrbitSpeed-1e-12 || speed > 1.2*spec.OrbitSpeed+1e-12 {
			t.Errorf("particle %d: angular speed %v outside jitter range", i, speed)
		}
		if swarm.PhaseSeeds[i] != float64(i)*0.05 {
			t.Errorf("particle %d: phase seed %v", i, swarm.PhaseSeeds[i])
		}
	}
}

func TestEndToEndRadiusPreserved(t *testing.T) {
	sys := NewSwarmSystem(testOptions(), rand.New(rand.NewSource(11)))
	sys.Rebuild([]components.RingSpec{{
		Radius:          8,
		OrbitSpeed:      0.002,
		WobbleAmplitude: 0,
		ParticleCount:   100,
	}})

	_, swarm, _ := sys.Ring(0)
	before := make([]float64, swarm.Len())
	for i, p := range swarm.Positions {
		before[i] = planarLen(p)
	}

	sys.Update(Pointer{})

	_, swarm, _ = sys.Ring(0)
	for i, p := range swarm.Positions {
		if d := math.Abs(planarLen(p) - before[i]); d > 1e-3 {
			t.Errorf("particle %d: radius changed by %v", i, d)
		}
	}
}

func TestRebuildOffsets(t *testing.T) {
	sys := NewSwarmSystem(testOptions(), rand.New(rand.NewSource(5)))
	specs := testSpecs(120, 80, 200)

	for round := 0; round < 2; round++ {
		sys.Rebuild(specs)

		if sys.ParticleCount() != 400 {
			t.Fatalf("round %d: expected 400 particles, got %d", round, sys.ParticleCount())
		}
		if sys.RingCount() != 3 {
			t.Fatalf("round %d: expected 3 rings, got %d", round, sys.RingCount())
		}
		offsets := sys.Offsets()
		want := []int{0, 120, 200}
		for i := range want {
			if offsets[i] != want[i] {
				t.Errorf("round %d: offset[%d] = %d, want %d", round, i, offsets[i], want[i])
			}
		}
		if sys.Morph.Progress() != 0 || sys.Morph.State() != MorphIdle {
			t.Errorf("round %d: morph not reset", round)
		}
	}
}

func TestRebuildResetsMorph(t *testing.T) {
	sys := NewSwarmSystem(testOptions(), rand.New(rand.NewSource(5)))
	sys.Rebuild(testSpecs(30))
	sys.SetTargets(gridTargets(30))
	if !sys.RequestMorph() {
		t.Fatal("expected morph to start")
	}
	for i := 0; i < 10; i++ {
		sys.Update(Pointer{})
	}
	if sys.Morph.Progress() == 0 {
		t.Fatal("expected progress after 10 ticks")
	}

	sys.Rebuild(testSpecs(30))
	if sys.Morph.State() != MorphIdle || sys.Morph.Progress() != 0 {
		t.Errorf("expected idle after rebuild, got %v at %v", sys.Morph.State(), sys.Morph.Progress())
	}
	if !sys.TargetsReady() {
		t.Error("targets should survive a rebuild")
	}
}

func TestZeroParticleRing(t *testing.T) {
	sys := NewSwarmSystem(testOptions(), rand.New(rand.NewSource(5)))
	sys.Rebuild(testSpecs(0, 10, 0))

	offsets := sys.Offsets()
	if offsets[0] != 0 || offsets[1] != 0 || offsets[2] != 10 {
		t.Errorf("unexpected offsets %v", offsets)
	}
	for i := 0; i < 5; i++ {
		sys.Update(Pointer{})
	}
	if sys.ParticleCount() != 10 {
		t.Errorf("expected 10 particles, got %d", sys.ParticleCount())
	}
}

func TestMorphConvergesAndFreezes(t *testing.T) {
	sys := NewSwarmSystem(testOptions(), rand.New(rand.NewSource(9)))
	sys.Rebuild(testSpecs(40, 60))
	targets := gridTargets(100)
	sys.SetTargets(targets)

	if !sys.RequestMorph() {
		t.Fatal("expected morph to start")
	}
	prev := 0.0
	for i := 0; i < 500; i++ {
		sys.Update(Pointer{})
		if p := sys.Morph.Progress(); p < prev {
			t.Fatalf("tick %d: progress decreased from %v to %v", i, prev, p)
		} else {
			prev = p
		}
	}
	if sys.Morph.Progress() < 1 {
		t.Fatalf("expected progress >= 1 after 500 ticks, got %v", sys.Morph.Progress())
	}
	if sys.Morph.State() != MorphFrozen {
		t.Fatalf("expected frozen, got %v", sys.Morph.State())
	}

	snapshot := func() []r3.Vec {
		var out []r3.Vec
		sys.EachRing(func(_ components.RingSlot, _ *components.RingSpec, swarm *components.Swarm) {
			out = append(out, swarm.Positions...)
		})
		return out
	}
	frozen := snapshot()
	for i, p := range frozen {
		if p != targets[i] {
			t.Fatalf("particle %d at %v, want target %v", i, p, targets[i])
		}
	}

	for i := 0; i < 50; i++ {
		sys.Update(Pointer{})
	}
	for i, p := range snapshot() {
		if p != frozen[i] {
			t.Fatalf("particle %d moved while frozen", i)
		}
	}

	if sys.RequestMorph() {
		t.Error("frozen swarm should not restart a morph")
	}
}

func TestMorphOverflowSkipped(t *testing.T) {
	sys := NewSwarmSystem(testOptions(), rand.New(rand.NewSource(9)))
	sys.Rebuild(testSpecs(10, 10))
	sys.SetTargets(gridTargets(15))

	_, second, _ := sys.Ring(1)
	untouched := append([]r3.Vec(nil), second.Positions[5:]...)

	if !sys.RequestMorph() {
		t.Fatal("expected morph to start")
	}
	for sys.Morph.State() == MorphMorphing {
		sys.Update(Pointer{})
	}

	_, second, _ = sys.Ring(1)
	for i, p := range second.Positions[5:] {
		if p != untouched[i] {
			t.Errorf("overflow particle %d moved", i+15)
		}
	}
	for i, p := range second.Positions[:5] {
		if p != gridTargets(15)[10+i] {
			t.Errorf("particle %d did not reach its target", 10+i)
		}
	}
}

func TestMorphRequestWithoutTargets(t *testing.T) {
	sys := NewSwarmSystem(testOptions(), rand.New(rand.NewSource(1)))
	sys.Rebuild(testSpecs(10))

	if sys.RequestMorph() {
		t.Fatal("morph should not start without targets")
	}
	sys.Update(Pointer{})
	if sys.Morph.State() != MorphIdle {
		t.Errorf("request must not be latched, state %v", sys.Morph.State())
	}
}

func TestWatchTargetsPolled(t *testing.T) {
	sys := NewSwarmSystem(testOptions(), rand.New(rand.NewSource(1)))
	sys.Rebuild(testSpecs(10))

	sys.WatchTargets(mesh.Resolved(nil, surface.ErrNoSurface))
	sys.Update(Pointer{})
	if sys.TargetsReady() {
		t.Fatal("failed load must leave targets empty")
	}

	sys.WatchTargets(mesh.Resolved(gridTargets(10), nil))
	sys.Update(Pointer{})
	if !sys.TargetsReady() {
		t.Fatal("expected targets after resolved future was polled")
	}
}

func TestClockAdvances(t *testing.T) {
	sys := NewSwarmSystem(testOptions(), rand.New(rand.NewSource(1)))
	sys.Rebuild(testSpecs(5))
	for i := 0; i < 60; i++ {
		sys.Update(Pointer{})
	}
	if sys.Tick() != 60 {
		t.Errorf("tick = %d, want 60", sys.Tick())
	}
	if math.Abs(sys.Now()-1) > 1e-9 {
		t.Errorf("now = %v, want 1s", sys.Now())
	}
	if math.Abs(sys.Time()-0.3) > 1e-9 {
		t.Errorf("time base = %v, want 0.3", sys.Time())
	}
}
