package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/halo/components"
	"github.com/pthm-cable/halo/config"
	"github.com/pthm-cable/halo/mesh"
)

// SwarmOptions configures a SwarmSystem.
type SwarmOptions struct {
	TimeStep     float64 // time base advance per tick
	FrameSeconds float64 // simulation clock advance per tick
	MorphRate    float64
	Physics      PhysicsParams
}

// SwarmOptionsFromConfig reads swarm options from cfg.
func SwarmOptionsFromConfig(cfg *config.Config) SwarmOptions {
	return SwarmOptions{
		TimeStep:     cfg.Sim.TimeStep,
		FrameSeconds: cfg.Sim.FrameSeconds,
		MorphRate:    cfg.Morph.Rate,
		Physics:      PhysicsParamsFromConfig(cfg),
	}
}

// SwarmSystem owns every ring, their global offsets, the morph state and
// the shared target points.
type SwarmSystem struct {
	world   *ecs.World
	ringMap *ecs.Map3[components.RingSpec, components.Swarm, components.RingSlot]

	Physics *PhysicsStepper
	Morph   *MorphController

	rings     []ecs.Entity // ring order defines global offsets
	particles int

	targets []r3.Vec
	pending *mesh.Future

	rng          Rand
	timeStep     float64
	frameSeconds float64
	t            float64
	tick         int32
}

// NewSwarmSystem creates an empty system. Call Rebuild to add rings.
func NewSwarmSystem(opts SwarmOptions, rng Rand) *SwarmSystem {
	w := ecs.NewWorld()
	return &SwarmSystem{
		world:        w,
		ringMap:      ecs.NewMap3[components.RingSpec, components.Swarm, components.RingSlot](w),
		Physics:      NewPhysicsStepper(w, opts.Physics, rng),
		Morph:        NewMorphController(w, opts.MorphRate),
		rng:          rng,
		timeStep:     opts.TimeStep,
		frameSeconds: opts.FrameSeconds,
	}
}

// Rebuild discards every ring and regenerates them from specs in order.
// Offsets are recomputed and the morph returns to Idle. Target points are kept.
func (s *SwarmSystem) Rebuild(specs []components.RingSpec) {
	for _, e := range s.rings {
		s.world.RemoveEntity(e)
	}
	s.rings = s.rings[:0]

	offset := 0
	for i := range specs {
		spec := specs[i]
		swarm := BuildSwarm(spec, s.rng)
		slot := components.RingSlot{Index: i, Offset: offset}
		s.rings = append(s.rings, s.ringMap.NewEntity(&spec, &swarm, &slot))
		offset += int(spec.ParticleCount)
	}
	s.particles = offset
	s.Morph.Reset()

	slog.Info("rings rebuilt", "rings", len(specs), "particles", s.particles)
}

// SetTargets installs morph target points directly.
func (s *SwarmSystem) SetTargets(points []r3.Vec) {
	s.targets = points
	s.pending = nil
}

// WatchTargets polls f once per tick until it resolves.
func (s *SwarmSystem) WatchTargets(f *mesh.Future) {
	s.pending = f
}

// pollTargets checks the pending load without blocking.
func (s *SwarmSystem) pollTargets() {
	if s.pending == nil {
		return
	}
	points, err, ok := s.pending.Poll()
	if !ok {
		return
	}
	s.pending = nil
	if err != nil {
		// Morph stays unavailable; the error was logged by the loader.
		return
	}
	s.targets = points
}

// TargetsReady reports whether a morph can start.
func (s *SwarmSystem) TargetsReady() bool {
	return len(s.targets) > 0
}

// Targets returns the shared target points. Callers must not modify them.
func (s *SwarmSystem) Targets() []r3.Vec {
	return s.targets
}

// RequestMorph starts the morph if targets are ready and the swarm is idle.
// Requests that cannot start are dropped.
func (s *SwarmSystem) RequestMorph() bool {
	s.pollTargets()
	if !s.TargetsReady() {
		slog.Warn("morph requested before targets are ready")
		return false
	}
	if s.Morph.State() != MorphIdle {
		return false
	}
	if len(s.targets) < s.particles {
		slog.Info("fewer targets than particles, extra particles keep their positions",
			"targets", len(s.targets), "particles", s.particles)
	}
	return s.Morph.Start(s.targets)
}

// Update runs one tick: morph while morphing, physics while idle, nothing
// once frozen.
func (s *SwarmSystem) Update(ptr Pointer) {
	s.pollTargets()

	switch s.Morph.State() {
	case MorphMorphing:
		s.Morph.Update(s.targets)
	case MorphIdle:
		s.Physics.Update(s.t, s.Now(), ptr)
	}

	s.t += s.timeStep
	s.tick++
}

// Time returns the accumulated time base.
func (s *SwarmSystem) Time() float64 { return s.t }

// Now returns the simulation clock in seconds.
func (s *SwarmSystem) Now() float64 { return float64(s.tick) * s.frameSeconds }

// Tick returns the number of completed ticks.
func (s *SwarmSystem) Tick() int32 { return s.tick }

// RingCount returns the number of rings.
func (s *SwarmSystem) RingCount() int { return len(s.rings) }

// ParticleCount returns the total particle count across rings.
func (s *SwarmSystem) ParticleCount() int { return s.particles }

// Offsets returns each ring's global index offset in ring order.
func (s *SwarmSystem) Offsets() []int {
	out := make([]int, len(s.rings))
	for i, e := range s.rings {
		_, _, slot := s.ringMap.Get(e)
		out[i] = slot.Offset
	}
	return out
}

// Ring returns the components of ring i.
func (s *SwarmSystem) Ring(i int) (*components.RingSpec, *components.Swarm, components.RingSlot) {
	spec, swarm, slot := s.ringMap.Get(s.rings[i])
	return spec, swarm, *slot
}

// EachRing calls fn for every ring in order. fn must not mutate particle state.
func (s *SwarmSystem) EachRing(fn func(slot components.RingSlot, spec *components.RingSpec, swarm *components.Swarm)) {
	for _, e := range s.rings {
		spec, swarm, slot := s.ringMap.Get(e)
		fn(*slot, spec, swarm)
	}
}

// Radii appends the planar radius of every particle to dst.
func (s *SwarmSystem) Radii(dst []float64) []float64 {
	s.EachRing(func(_ components.RingSlot, _ *components.RingSpec, swarm *components.Swarm) {
		for _, p := range swarm.Positions {
			dst = append(dst, planarLen(p))
		}
	})
	return dst
}
