// Package components defines ECS components for the swarm simulation.
// Each ring is one entity carrying a RingSpec, its Swarm arena and a RingSlot.
package components

import (
	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

// RingSpec is the immutable motion configuration of one ring.
type RingSpec struct {
	Radius float64 // base orbit radius

	// Periodic positional jitter
	WobblePeriod    float64
	WobbleAmplitude float64

	// Sinusoidal perturbation of placement radius by angle
	RadiusVariation float64
	WaveAmplitude   float64

	OrbitSpeed float64 // base tangential rate

	// Modulation of the spring's target radius
	OrbitModulationAmplitude float64
	OrbitModulationFrequency float64

	ScatterFactor float64 // fraction of radius used as placement noise
	ParticleCount uint32
}

// Swarm is the per-ring particle arena. All slices have the same length
// and are indexed by the ring-local particle id.
type Swarm struct {
	Positions    []r3.Vec
	Initial      []r3.Vec // spring anchors, read-only after construction
	Velocities   []r3.Vec // z is always 0
	PhaseSeeds   []float64
	WobbleSpeeds []float64
	Colors       []colorful.Color
}

// NewSwarm allocates an arena for n particles.
func NewSwarm(n int) Swarm {
	return Swarm{
		Positions:    make([]r3.Vec, n),
		Initial:      make([]r3.Vec, n),
		Velocities:   make([]r3.Vec, n),
		PhaseSeeds:   make([]float64, n),
		WobbleSpeeds: make([]float64, n),
		Colors:       make([]colorful.Color, n),
	}
}

// Len returns the particle count.
func (s *Swarm) Len() int {
	return len(s.Positions)
}

// PositionBuffer writes positions as packed xyz float32 triples into dst,
// growing it as needed, and returns the result.
func (s *Swarm) PositionBuffer(dst []float32) []float32 {
	dst = dst[:0]
	for _, p := range s.Positions {
		dst = append(dst, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return dst
}

// ColorBuffer writes colors as packed rgb float32 triples into dst.
func (s *Swarm) ColorBuffer(dst []float32) []float32 {
	dst = dst[:0]
	for _, c := range s.Colors {
		dst = append(dst, float32(c.R), float32(c.G), float32(c.B))
	}
	return dst
}

// RingSlot records a ring's position in the system ordering.
type RingSlot struct {
	Index  int // order among rings
	Offset int // global index of this ring's first particle
}
