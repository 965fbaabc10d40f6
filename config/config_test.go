package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Sim.TimeStep != 0.005 {
		t.Errorf("time_step = %v, want 0.005", cfg.Sim.TimeStep)
	}
	if cfg.Morph.Rate != 0.002 {
		t.Errorf("morph.rate = %v, want 0.002", cfg.Morph.Rate)
	}
	if cfg.Rings.WobbleStrength != 0 {
		t.Errorf("wobble should be disabled by default, got %v", cfg.Rings.WobbleStrength)
	}
	if len(cfg.Derived.Rings) != 5 {
		t.Fatalf("expected 5 derived rings, got %d", len(cfg.Derived.Rings))
	}
	if cfg.Derived.ParticlesPerRing != 600 {
		t.Errorf("particles per ring = %d, want 600", cfg.Derived.ParticlesPerRing)
	}
	if got := cfg.TotalParticles(); got != 3000 {
		t.Errorf("TotalParticles = %d, want 3000", got)
	}
	if got := cfg.Derived.Rings[0].WaveAmplitude; got != 8*0.15 {
		t.Errorf("wave amplitude = %v, want %v", got, 8*0.15)
	}
}

func TestPresetsCycle(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Rings.Count = 7
	cfg.Rings.TotalParticles = 700
	cfg.Recompute()

	if len(cfg.Derived.Rings) != 7 {
		t.Fatalf("expected 7 rings, got %d", len(cfg.Derived.Rings))
	}
	if cfg.Derived.Rings[5].WobblePeriod != cfg.Derived.Rings[0].WobblePeriod {
		t.Errorf("ring 5 should reuse preset 0")
	}
	if cfg.Derived.Rings[6].RadiusVariation != cfg.Derived.Rings[1].RadiusVariation {
		t.Errorf("ring 6 should reuse preset 1")
	}
}

func TestZeroRings(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Rings.Count = 0
	cfg.Recompute()
	if len(cfg.Derived.Rings) != 0 || cfg.Derived.ParticlesPerRing != 0 {
		t.Errorf("expected no rings, got %d rings with %d particles",
			len(cfg.Derived.Rings), cfg.Derived.ParticlesPerRing)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := "rings:\n  count: 2\n  total_particles: 101\npointer:\n  repel: false\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rings.Count != 2 || cfg.Derived.ParticlesPerRing != 50 {
		t.Errorf("count=%d per_ring=%d, want 2 and 50", cfg.Rings.Count, cfg.Derived.ParticlesPerRing)
	}
	if cfg.Pointer.Repel {
		t.Error("expected repel overridden to false")
	}
	// Untouched fields keep defaults
	if cfg.Rings.BaseRadius != 8 {
		t.Errorf("base_radius = %v, want default 8", cfg.Rings.BaseRadius)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Rings.Count = 3

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Rings.Count != 3 || len(back.Derived.Rings) != 3 {
		t.Errorf("snapshot lost ring count: %d", back.Rings.Count)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadRejectsNonPositiveMorphRate(t *testing.T) {
	for _, rate := range []string{"0", "-0.002"} {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("morph:\n  rate: "+rate+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("rate %s: expected error", rate)
		}
	}
}
