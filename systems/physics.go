// Package systems contains the swarm construction, physics and morph systems.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/halo/components"
	"github.com/pthm-cable/halo/config"
)

// Motion constants shared by every ring.
const (
	springGain      = 0.03
	wobblePhaseStep = 0.3
	wobbleYRatio    = 1.1
	speedVarFreq    = 0.3
	speedVarStep    = 0.02
	speedVarAmp     = 0.05
	pointerJitterLo = 0.8
	pointerJitterHi = 1.2
)

// PhysicsParams holds the global motion parameters.
type PhysicsParams struct {
	Friction    float64
	ReturnSpeed float64

	PointerEnabled bool
	PointerForce   float64
	PointerRadius  float64
	Repel          bool
	PointerTimeout float64 // seconds
}

// PhysicsParamsFromConfig reads physics parameters from cfg.
func PhysicsParamsFromConfig(cfg *config.Config) PhysicsParams {
	return PhysicsParams{
		Friction:       cfg.Sim.Friction,
		ReturnSpeed:    cfg.Sim.ReturnSpeed,
		PointerEnabled: cfg.Pointer.Enabled,
		PointerForce:   cfg.Pointer.Force,
		PointerRadius:  cfg.Pointer.Radius,
		Repel:          cfg.Pointer.Repel,
		PointerTimeout: cfg.Pointer.Timeout,
	}
}

// pointerInput is the per-tick pointer state after the timeout check.
type pointerInput struct {
	pos  r2.Vec
	live bool
}

// PhysicsStepper advances every ring's particles by one tick.
type PhysicsStepper struct {
	filter *ecs.Filter3[components.RingSpec, components.Swarm, components.RingSlot]
	Params PhysicsParams
	rng    Rand
}

// NewPhysicsStepper creates a stepper over the rings in w.
func NewPhysicsStepper(w *ecs.World, params PhysicsParams, rng Rand) *PhysicsStepper {
	return &PhysicsStepper{
		filter: ecs.NewFilter3[components.RingSpec, components.Swarm, components.RingSlot](w),
		Params: params,
		rng:    rng,
	}
}

// Update steps every ring. t is the accumulated time base, now is the
// simulation clock in seconds used for the pointer timeout.
func (s *PhysicsStepper) Update(t, now float64, ptr Pointer) {
	in := pointerInput{
		pos:  ptr.Position,
		live: s.Params.PointerEnabled && ptr.Live(now, s.Params.PointerTimeout),
	}
	query := s.filter.Query()
	for query.Next() {
		spec, swarm, _ := query.Get()
		s.step(spec, swarm, t, in)
	}
}

// Step advances a single swarm. It is exported for tools and tests that
// drive one ring without a world.
func (s *PhysicsStepper) Step(spec *components.RingSpec, swarm *components.Swarm, t, now float64, ptr Pointer) {
	s.step(spec, swarm, t, pointerInput{
		pos:  ptr.Position,
		live: s.Params.PointerEnabled && ptr.Live(now, s.Params.PointerTimeout),
	})
}

func (s *PhysicsStepper) step(spec *components.RingSpec, swarm *components.Swarm, t float64, in pointerInput) {
	gain := springGain * s.Params.ReturnSpeed

	for i := range swarm.Positions {
		p := swarm.Positions[i]
		v := swarm.Velocities[i]
		fi := float64(i)

		// Spring toward the (modulated) ideal radius
		ideal := planarLen(swarm.Initial[i])
		angle := math.Atan2(p.Y, p.X)
		target := ideal + math.Sin(t*spec.OrbitModulationFrequency+angle)*spec.OrbitModulationAmplitude
		dist := planarLen(p)
		var ret r2.Vec
		if dist >= minRadius {
			ret = r2.Scale((target-dist)*gain/dist, xy(p))
		}

		var wob r2.Vec
		if spec.WobbleAmplitude != 0 {
			ws := swarm.WobbleSpeeds[i]
			seed := swarm.PhaseSeeds[i]
			phase := math.Sin(t*spec.WobblePeriod+fi*wobblePhaseStep) * 0.5
			wob = r2.Vec{
				X: math.Sin(t*ws+seed+phase) * spec.WobbleAmplitude,
				Y: math.Cos(t*ws*wobbleYRatio+seed) * spec.WobbleAmplitude,
			}
		}

		var push r2.Vec
		if in.live {
			push = s.pointerDelta(xy(p), in.pos)
		}

		p.X += v.X + ret.X + wob.X + push.X
		p.Y += v.Y + ret.Y + wob.Y + push.Y
		swarm.Positions[i] = p

		speedVar := 1 + math.Sin(t*speedVarFreq+fi*speedVarStep)*speedVarAmp
		k := spec.OrbitSpeed * speedVar * s.Params.Friction
		swarm.Velocities[i].X = -p.Y * k
		swarm.Velocities[i].Y = p.X * k
		swarm.Velocities[i].Z = 0
	}
}

// pointerDelta returns the displacement the pointer applies to a particle at p.
func (s *PhysicsStepper) pointerDelta(p, ptr r2.Vec) r2.Vec {
	radius := s.Params.PointerRadius
	if radius <= 0 {
		return r2.Vec{}
	}
	d := r2.Sub(p, ptr)
	dist := r2.Norm(d)
	if dist >= radius {
		return r2.Vec{}
	}

	force := (1 - dist/radius) * s.Params.PointerForce
	var dir r2.Vec
	if dist >= minRadius {
		dir = r2.Scale(1/dist, d)
	}
	sign := 1.0
	if !s.Params.Repel {
		sign = -1
	}
	jitter := uniform(s.rng, pointerJitterLo, pointerJitterHi)
	return r2.Scale(force*jitter*sign, dir)
}
