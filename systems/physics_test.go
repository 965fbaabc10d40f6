package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/halo/components"
	"github.com/pthm-cable/halo/config"
)

func init() {
	config.MustInit("")
}

func quietParams() PhysicsParams {
	return PhysicsParams{Friction: 0.98, ReturnSpeed: 1}
}

func TestSpringEquilibrium(t *testing.T) {
	spec := components.RingSpec{Radius: 8, ParticleCount: 3}
	swarm := components.NewSwarm(3)
	for i, a := range []float64{0, 2, 4} {
		p := r3.Vec{X: 8 * math.Cos(a), Y: 8 * math.Sin(a)}
		swarm.Positions[i] = p
		swarm.Initial[i] = p
	}

	s := &PhysicsStepper{Params: quietParams(), rng: rand.New(rand.NewSource(1))}
	for tick := 0; tick < 1000; tick++ {
		s.Step(&spec, &swarm, float64(tick)*0.005, 0, Pointer{})
	}
	for i, p := range swarm.Positions {
		if math.Abs(planarLen(p)-8) > 1e-12 {
			t.Errorf("particle %d drifted to radius %v", i, planarLen(p))
		}
	}
}

func TestSpringPullsBack(t *testing.T) {
	spec := components.RingSpec{Radius: 8, ParticleCount: 1}
	swarm := components.NewSwarm(1)
	swarm.Initial[0] = r3.Vec{X: 8}
	swarm.Positions[0] = r3.Vec{X: 10}

	s := &PhysicsStepper{Params: quietParams(), rng: rand.New(rand.NewSource(1))}
	prev := 2.0
	for tick := 0; tick < 200; tick++ {
		s.Step(&spec, &swarm, 0, 0, Pointer{})
		d := math.Abs(planarLen(swarm.Positions[0]) - 8)
		if d > prev {
			t.Fatalf("tick %d: displacement grew from %v to %v", tick, prev, d)
		}
		prev = d
	}
	if prev > 0.01 {
		t.Errorf("expected particle near rest radius after 200 ticks, off by %v", prev)
	}
}

func TestOriginGuard(t *testing.T) {
	spec := components.RingSpec{Radius: 8, OrbitSpeed: 0.002, ParticleCount: 1}
	swarm := components.NewSwarm(1)
	swarm.Initial[0] = r3.Vec{X: 8}

	params := quietParams()
	params.PointerEnabled = true
	params.PointerForce = 0.05
	params.PointerRadius = 2
	params.PointerTimeout = 5
	s := &PhysicsStepper{Params: params, rng: rand.New(rand.NewSource(1))}

	ptr := Pointer{}
	ptr.Move(r2.Vec{}, 0)
	s.Step(&spec, &swarm, 0, 0, ptr)

	p := swarm.Positions[0]
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		t.Fatalf("position at origin became non-finite: %v", p)
	}
	if p != (r3.Vec{}) {
		t.Errorf("expected guarded forces to be zero at origin, got %v", p)
	}
}

func TestPointerRepelAttract(t *testing.T) {
	spec := components.RingSpec{Radius: 8, ParticleCount: 1}
	start := r3.Vec{X: 8}

	run := func(repel bool) float64 {
		swarm := components.NewSwarm(1)
		swarm.Initial[0] = start
		swarm.Positions[0] = start
		params := quietParams()
		params.PointerEnabled = true
		params.PointerForce = 0.05
		params.PointerRadius = 2
		params.PointerTimeout = 5
		params.Repel = repel
		s := &PhysicsStepper{Params: params, rng: rand.New(rand.NewSource(3))}

		ptr := Pointer{}
		ptr.Move(r2.Vec{X: 7}, 0)
		s.Step(&spec, &swarm, 0, 1, ptr)
		return swarm.Positions[0].X
	}

	// force = (1 - 1/2) * 0.05 = 0.025, jitter in [0.8, 1.2]
	if x := run(true); x < 8+0.025*0.8-1e-12 || x > 8+0.025*1.2+1e-12 {
		t.Errorf("repel: expected x in [8.02, 8.03], got %v", x)
	}
	if x := run(false); x > 8-0.025*0.8+1e-12 || x < 8-0.025*1.2-1e-12 {
		t.Errorf("attract: expected x in [7.97, 7.98], got %v", x)
	}
}

func TestPointerTimeout(t *testing.T) {
	ptr := Pointer{}
	ptr.Move(r2.Vec{X: 1}, 10)

	tests := []struct {
		name string
		now  float64
		want bool
	}{
		{"fresh", 10, true},
		{"within timeout", 14.9, true},
		{"at timeout", 15, false},
		{"stale", 20, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ptr.Live(tt.now, 5); got != tt.want {
				t.Errorf("Live(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}

	ptr.Leave()
	if ptr.Live(10, 5) {
		t.Error("expected pointer inactive after Leave")
	}
}

func TestVelocityStaysPlanar(t *testing.T) {
	spec := components.RingSpec{Radius: 8, OrbitSpeed: 0.002, WobblePeriod: 0.05, WobbleAmplitude: 0.01, ParticleCount: 50}
	rng := rand.New(rand.NewSource(7))
	swarm := BuildSwarm(spec, rng)
	s := &PhysicsStepper{Params: quietParams(), rng: rng}

	zs := make([]float64, swarm.Len())
	for i, p := range swarm.Positions {
		zs[i] = p.Z
	}
	for tick := 0; tick < 100; tick++ {
		s.Step(&spec, &swarm, float64(tick)*0.005, 0, Pointer{})
	}
	for i := range swarm.Positions {
		if swarm.Velocities[i].Z != 0 {
			t.Fatalf("particle %d velocity has z=%v", i, swarm.Velocities[i].Z)
		}
		if swarm.Positions[i].Z != zs[i] {
			t.Fatalf("particle %d z changed from %v to %v", i, zs[i], swarm.Positions[i].Z)
		}
	}
}

func TestStepModulationAndWobble(t *testing.T) {
	tests := []struct {
		name        string
		modAmp      float64
		modFreq     float64
		wobAmp      float64
		wobPeriod   float64
		t           float64
		pos, anchor r3.Vec
		vel         r3.Vec
	}{
		{"modulation only", 0.4, 1.7, 0, 0, 2.5, r3.Vec{X: 6, Y: 5, Z: 0.02}, r3.Vec{X: 8}, r3.Vec{X: -0.01, Y: 0.03}},
		{"wobble only", 0, 0, 0.05, 0.8, 11, r3.Vec{X: -3, Y: 7.5}, r3.Vec{Y: 8}, r3.Vec{}},
		{"both", 0.25, 0.9, 0.08, 1.3, 7.25, r3.Vec{X: 4.5, Y: -6, Z: -0.01}, r3.Vec{X: 5, Y: -5}, r3.Vec{X: 0.02, Y: 0.015}},
	}

	const idx = 2
	params := PhysicsParams{Friction: 0.97, ReturnSpeed: 1.5}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := components.RingSpec{
				Radius:                   8,
				OrbitSpeed:               0.004,
				OrbitModulationAmplitude: tt.modAmp,
				OrbitModulationFrequency: tt.modFreq,
				WobbleAmplitude:          tt.wobAmp,
				WobblePeriod:             tt.wobPeriod,
				ParticleCount:            3,
			}
			swarm := components.NewSwarm(3)
			swarm.Positions[idx] = tt.pos
			swarm.Initial[idx] = tt.anchor
			swarm.Velocities[idx] = tt.vel
			swarm.PhaseSeeds[idx] = 0.1
			swarm.WobbleSpeeds[idx] = 1.3

			p, a, v := tt.pos, tt.anchor, tt.vel
			fi := float64(idx)
			ideal := math.Hypot(a.X, a.Y)
			target := ideal + math.Sin(tt.t*tt.modFreq+math.Atan2(p.Y, p.X))*tt.modAmp
			dist := math.Hypot(p.X, p.Y)
			pull := (target - dist) * 0.03 * params.ReturnSpeed / dist
			phase := math.Sin(tt.t*tt.wobPeriod+fi*0.3) * 0.5
			wx := math.Sin(tt.t*1.3+0.1+phase) * tt.wobAmp
			wy := math.Cos(tt.t*1.3*1.1+0.1) * tt.wobAmp
			want := r3.Vec{
				X: p.X + v.X + p.X*pull + wx,
				Y: p.Y + v.Y + p.Y*pull + wy,
				Z: p.Z,
			}
			k := spec.OrbitSpeed * (1 + math.Sin(tt.t*0.3+fi*0.02)*0.05) * params.Friction
			wantVel := r3.Vec{X: -want.Y * k, Y: want.X * k}

			s := &PhysicsStepper{Params: params, rng: rand.New(rand.NewSource(1))}
			s.Step(&spec, &swarm, tt.t, 0, Pointer{})

			if got := swarm.Positions[idx]; r3.Norm(r3.Sub(got, want)) > 1e-12 {
				t.Errorf("position: expected %v, got %v", want, got)
			}
			if got := swarm.Velocities[idx]; r3.Norm(r3.Sub(got, wantVel)) > 1e-14 {
				t.Errorf("velocity: expected %v, got %v", wantVel, got)
			}
		})
	}
}

func BenchmarkPhysicsStep(b *testing.B) {
	spec := SpecFromConfig(config.Cfg().Derived.Rings[0])
	rng := rand.New(rand.NewSource(1))
	swarm := BuildSwarm(spec, rng)
	s := &PhysicsStepper{Params: PhysicsParamsFromConfig(config.Cfg()), rng: rng}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step(&spec, &swarm, float64(i)*0.005, 0, Pointer{})
	}
}
