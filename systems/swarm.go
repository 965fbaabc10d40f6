package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/halo/components"
	"github.com/pthm-cable/halo/config"
)

// Placement constants.
const (
	zJitter         = 0.05 // total z spread, centred on the plane
	speedJitterLo   = 0.8
	speedJitterHi   = 1.2
	wobbleJitterLo  = 0.95
	wobbleJitterHi  = 1.05
	phaseSeedFactor = 0.05
)

// SpecFromConfig converts a resolved ring config into a RingSpec.
func SpecFromConfig(rc config.RingConfig) components.RingSpec {
	n := rc.ParticleCount
	if n < 0 {
		n = 0
	}
	return components.RingSpec{
		Radius:                   rc.Radius,
		WobblePeriod:             rc.WobblePeriod,
		WobbleAmplitude:          rc.WobbleAmplitude,
		RadiusVariation:          rc.RadiusVariation,
		WaveAmplitude:            rc.WaveAmplitude,
		OrbitSpeed:               rc.OrbitSpeed,
		OrbitModulationAmplitude: rc.OrbitModulationAmplitude,
		OrbitModulationFrequency: rc.OrbitModulationFrequency,
		ScatterFactor:            rc.ScatterFactor,
		ParticleCount:            uint32(n),
	}
}

// SpecsFromConfig returns the ordered ring list for cfg.
func SpecsFromConfig(cfg *config.Config) []components.RingSpec {
	specs := make([]components.RingSpec, len(cfg.Derived.Rings))
	for i, rc := range cfg.Derived.Rings {
		specs[i] = SpecFromConfig(rc)
	}
	return specs
}

// BuildSwarm places spec.ParticleCount particles around the ring.
func BuildSwarm(spec components.RingSpec, rng Rand) components.Swarm {
	n := int(spec.ParticleCount)
	s := components.NewSwarm(n)

	for i := 0; i < n; i++ {
		theta := rng.Float64() * 2 * math.Pi

		wave := math.Sin(theta*spec.RadiusVariation) * spec.WaveAmplitude
		scatter := (rng.Float64() - 0.5) * spec.Radius * spec.ScatterFactor
		r := spec.Radius + wave + scatter

		p := r3.Vec{
			X: r * math.Cos(theta),
			Y: r * math.Sin(theta),
			Z: (rng.Float64() - 0.5) * zJitter,
		}
		s.Positions[i] = p
		s.Initial[i] = p
		s.Velocities[i] = r3.Scale(spec.OrbitSpeed*uniform(rng, speedJitterLo, speedJitterHi), tangent(p))
		s.WobbleSpeeds[i] = spec.WobblePeriod * uniform(rng, wobbleJitterLo, wobbleJitterHi)
		s.PhaseSeeds[i] = float64(i) * phaseSeedFactor
		s.Colors[i] = RingGradient.AtAngle(theta)
	}
	return s
}
