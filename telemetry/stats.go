package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Swarm composition at window end
	Rings     int `csv:"rings"`
	Particles int `csv:"particles"`

	// Morph lifecycle at window end
	MorphState    string  `csv:"morph_state"`
	MorphProgress float64 `csv:"morph_progress"`
	TargetPoints  int     `csv:"target_points"`

	// Events during window
	Rebuilds        int `csv:"rebuilds"`
	MorphRequests   int `csv:"morph_requests"`
	MorphIgnored    int `csv:"morph_ignored"`
	PointerActiveTk int `csv:"pointer_ticks"`

	// Planar radius distribution (sampled at window end)
	RadiusMean float64 `csv:"radius_mean"`
	RadiusStd  float64 `csv:"radius_std"`
	RadiusP10  float64 `csv:"radius_p10"`
	RadiusP50  float64 `csv:"radius_p50"`
	RadiusP90  float64 `csv:"radius_p90"`
}

// Percentile returns the p-th quantile of a sorted slice with linear
// interpolation. p is clamped to [0, 1]. Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	idx := p * float64(n-1)
	lo := int(idx)
	if lo+1 >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// ComputeRadiusStats calculates mean, std and percentiles of radius values.
func ComputeRadiusStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = stat.PopStdDev(values, nil)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("rings", s.Rings),
		slog.Int("particles", s.Particles),
		slog.String("morph_state", s.MorphState),
		slog.Float64("morph_progress", s.MorphProgress),
		slog.Int("target_points", s.TargetPoints),
		slog.Int("rebuilds", s.Rebuilds),
		slog.Int("morph_requests", s.MorphRequests),
		slog.Int("morph_ignored", s.MorphIgnored),
		slog.Int("pointer_ticks", s.PointerActiveTk),
		slog.Float64("radius_mean", s.RadiusMean),
		slog.Float64("radius_std", s.RadiusStd),
		slog.Float64("radius_p10", s.RadiusP10),
		slog.Float64("radius_p50", s.RadiusP50),
		slog.Float64("radius_p90", s.RadiusP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
