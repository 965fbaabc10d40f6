package game

import (
	"log/slog"

	"github.com/pthm-cable/halo/components"
	"github.com/pthm-cable/halo/telemetry"
)

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	tick := g.sys.Tick()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	g.radii = g.sys.Radii(g.radii[:0])
	stats := g.collector.Flush(tick, telemetry.SwarmSample{
		Rings:         g.sys.RingCount(),
		Particles:     g.sys.ParticleCount(),
		MorphState:    g.sys.Morph.State().String(),
		MorphProgress: g.sys.Morph.Progress(),
		TargetPoints:  len(g.sys.Targets()),
		Radii:         g.radii,
	})
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// writeSwarmSnapshot dumps every particle to name in the output directory.
func (g *Game) writeSwarmSnapshot(name string) {
	if g.outputManager == nil {
		return
	}

	recs := make([]telemetry.ParticleRecord, 0, g.sys.ParticleCount())
	g.sys.EachRing(func(slot components.RingSlot, _ *components.RingSpec, swarm *components.Swarm) {
		recs = telemetry.AppendSwarm(recs, slot, swarm)
	})

	if err := g.outputManager.WriteSnapshot(name, recs); err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "file", name, "tick", g.sys.Tick(), "particles", len(recs))
}
