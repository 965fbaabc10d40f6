// Package config provides configuration loading and access for the swarm.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Sim       SimConfig       `yaml:"sim"`
	Rings     RingsConfig     `yaml:"rings"`
	Pointer   PointerConfig   `yaml:"pointer"`
	Morph     MorphConfig     `yaml:"morph"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	TargetFPS     int     `yaml:"target_fps"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"` // world units to screen pixels
	PointSize     float64 `yaml:"point_size"`      // particle radius in pixels
}

// SimConfig holds the simulation clock and global motion parameters.
type SimConfig struct {
	TimeStep     float64 `yaml:"time_step"`     // wobble/orbit time base advance per tick
	FrameSeconds float64 `yaml:"frame_seconds"` // simulated seconds per tick (pointer timeout clock)
	Friction     float64 `yaml:"friction"`
	ReturnSpeed  float64 `yaml:"return_speed"` // spring gain multiplier
	Seed         int64   `yaml:"seed"`         // 0 = time-based
}

// RingPreset holds the per-ring values that vary between rings.
type RingPreset struct {
	WobblePeriod    float64 `yaml:"wobble_period"`
	RadiusVariation float64 `yaml:"radius_variation"`
	WobbleAmplitude float64 `yaml:"wobble_amplitude"` // multiplied by rings.wobble_strength
}

// RingsConfig describes the ring layout. Presets are cycled when Count
// exceeds their number.
type RingsConfig struct {
	Count                    int          `yaml:"count"`
	BaseRadius               float64      `yaml:"base_radius"`
	TotalParticles           int          `yaml:"total_particles"`
	OrbitSpeed               float64      `yaml:"orbit_speed"`
	WobbleStrength           float64      `yaml:"wobble_strength"`
	WaveAmplitude            float64      `yaml:"wave_amplitude"` // fraction of radius
	ScatterFactor            float64      `yaml:"scatter_factor"`
	OrbitModulationAmplitude float64      `yaml:"orbit_modulation_amplitude"`
	OrbitModulationFrequency float64      `yaml:"orbit_modulation_frequency"`
	Presets                  []RingPreset `yaml:"presets"`
}

// PointerConfig holds pointer interaction parameters.
type PointerConfig struct {
	Enabled bool    `yaml:"enabled"`
	Force   float64 `yaml:"force"`
	Radius  float64 `yaml:"radius"`  // world units
	Repel   bool    `yaml:"repel"`   // false = attract
	Timeout float64 `yaml:"timeout"` // seconds of inactivity before the pointer is ignored
}

// RotationConfig is an axis-angle rotation.
type RotationConfig struct {
	Axis     [3]float64 `yaml:"axis"`
	AngleDeg float64    `yaml:"angle_deg"`
}

// TorusConfig describes the procedural morph target.
type TorusConfig struct {
	Radius     float64 `yaml:"radius"`
	TubeRadius float64 `yaml:"tube_radius"`
	RadialSegs int     `yaml:"radial_segs"`
	TubeSegs   int     `yaml:"tube_segs"`
}

// MorphConfig holds morph target and timing parameters.
type MorphConfig struct {
	Rate        float64        `yaml:"rate"`         // progress per tick
	MeshPath    string         `yaml:"mesh_path"`    // .glb/.gltf file; empty = procedural torus
	SampleCount int            `yaml:"sample_count"` // 0 = one point per particle
	FitDiameter float64        `yaml:"fit_diameter"` // 0 = keep mesh size
	Scale       float64        `yaml:"scale"`        // model-space scale applied on load
	Rotation    RotationConfig `yaml:"rotation"`
	Translation [3]float64     `yaml:"translation"`
	Torus       TorusConfig    `yaml:"torus"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// RingConfig is one fully resolved ring.
type RingConfig struct {
	Radius                   float64
	WobblePeriod             float64
	WobbleAmplitude          float64
	RadiusVariation          float64
	WaveAmplitude            float64
	OrbitSpeed               float64
	OrbitModulationAmplitude float64
	OrbitModulationFrequency float64
	ScatterFactor            float64
	ParticleCount            int
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ParticlesPerRing int          // floor(total_particles / count)
	Rings            []RingConfig // one entry per ring, in order
	ScreenW32        float32
	ScreenH32        float32
	AngleRad         float64 // Morph.Rotation.AngleDeg in radians
}

// defaultPresets are used when the config supplies none.
var defaultPresets = []RingPreset{
	{WobblePeriod: 0.02, RadiusVariation: 0.031, WobbleAmplitude: 1.2},
	{WobblePeriod: 0.03, RadiusVariation: 0.043, WobbleAmplitude: 0.8},
	{WobblePeriod: 0.05, RadiusVariation: 0.059, WobbleAmplitude: 1.5},
	{WobblePeriod: 0.07, RadiusVariation: 0.067, WobbleAmplitude: 0.7},
	{WobblePeriod: 0.11, RadiusVariation: 0.071, WobbleAmplitude: 1.0},
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	// A started morph only freezes once rate*ticks reaches 1.
	if !(c.Morph.Rate > 0) || math.IsInf(c.Morph.Rate, 0) {
		return fmt.Errorf("morph.rate must be positive, got %v", c.Morph.Rate)
	}
	return nil
}

// Recompute refreshes derived values after fields were edited in place
// (for example by the ring controls).
func (c *Config) Recompute() {
	c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.AngleRad = c.Morph.Rotation.AngleDeg * math.Pi / 180

	if c.Rings.Count < 0 {
		c.Rings.Count = 0
	}
	if len(c.Rings.Presets) == 0 {
		c.Rings.Presets = append([]RingPreset(nil), defaultPresets...)
	}

	c.Derived.ParticlesPerRing = 0
	if c.Rings.Count > 0 && c.Rings.TotalParticles > 0 {
		c.Derived.ParticlesPerRing = c.Rings.TotalParticles / c.Rings.Count
	}

	c.Derived.Rings = make([]RingConfig, c.Rings.Count)
	for i := range c.Derived.Rings {
		p := c.Rings.Presets[i%len(c.Rings.Presets)]
		c.Derived.Rings[i] = RingConfig{
			Radius:                   c.Rings.BaseRadius,
			WobblePeriod:             p.WobblePeriod,
			WobbleAmplitude:          c.Rings.WobbleStrength * p.WobbleAmplitude,
			RadiusVariation:          p.RadiusVariation,
			WaveAmplitude:            c.Rings.BaseRadius * c.Rings.WaveAmplitude,
			OrbitSpeed:               c.Rings.OrbitSpeed,
			OrbitModulationAmplitude: c.Rings.OrbitModulationAmplitude,
			OrbitModulationFrequency: c.Rings.OrbitModulationFrequency,
			ScatterFactor:            c.Rings.ScatterFactor,
			ParticleCount:            c.Derived.ParticlesPerRing,
		}
	}
}

// TotalParticles returns the sum of per-ring particle counts.
func (c *Config) TotalParticles() int {
	n := 0
	for _, r := range c.Derived.Rings {
		n += r.ParticleCount
	}
	return n
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
