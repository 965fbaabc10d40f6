package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies a timed section of a simulation tick.
type Phase uint8

// Phases in the order a tick runs them.
const (
	PhaseInput Phase = iota
	PhaseRebuild
	PhaseTargets
	PhasePhysics
	PhaseMorph
	PhaseTelemetry
	phaseCount
)

var phaseNames = [phaseCount]string{"input", "rebuild", "targets", "physics", "morph", "telemetry"}

func (p Phase) String() string {
	if p >= phaseCount {
		return "unknown"
	}
	return phaseNames[p]
}

// Clock reports the current time.
type Clock func() time.Time

// tickTiming is one tick's total and per-phase durations.
type tickTiming struct {
	total  time.Duration
	phases [phaseCount]time.Duration
	seen   [phaseCount]bool
}

// PerfCollector keeps per-phase tick timings over a ring of recent ticks.
type PerfCollector struct {
	now    Clock
	window []tickTiming
	next   int
	filled int

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	open       bool
}

// NewPerfCollector creates a collector over the last windowSize ticks
// using the wall clock.
func NewPerfCollector(windowSize int) *PerfCollector {
	return NewPerfCollectorWithClock(windowSize, time.Now)
}

// NewPerfCollectorWithClock is NewPerfCollector with an explicit clock.
func NewPerfCollectorWithClock(windowSize int, now Clock) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{now: now, window: make([]tickTiming, windowSize)}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.cur = tickTiming{}
	p.tickStart = p.now()
	p.open = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
// Re-entering a phase within a tick adds to its total.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.open = true
	p.cur.seen[phase] = true
}

// EndTick closes the running phase and stores the tick in the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.window[p.next] = p.cur
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.open {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
		p.open = false
	}
}

// PerfStats are window averages of tick and phase durations.
type PerfStats struct {
	AvgTick        time.Duration
	TicksPerSecond float64

	avg  [phaseCount]time.Duration
	pct  [phaseCount]float64
	seen [phaseCount]bool
}

// Stats averages the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var sums [phaseCount]time.Duration
	for _, tk := range p.window[:p.filled] {
		total += tk.total
		for ph := range sums {
			sums[ph] += tk.phases[ph]
			s.seen[ph] = s.seen[ph] || tk.seen[ph]
		}
	}

	n := time.Duration(p.filled)
	s.AvgTick = total / n
	for ph := range sums {
		s.avg[ph] = sums[ph] / n
		if total > 0 {
			s.pct[ph] = float64(sums[ph]) / float64(total) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// Phases returns the phases timed in the window, in tick order.
func (s PerfStats) Phases() []Phase {
	var out []Phase
	for ph := Phase(0); ph < phaseCount; ph++ {
		if s.seen[ph] {
			out = append(out, ph)
		}
	}
	return out
}

// Avg returns the mean duration of phase per tick.
func (s PerfStats) Avg(phase Phase) time.Duration { return s.avg[phase] }

// Pct returns the share of tick time spent in phase, in percent.
func (s PerfStats) Pct(phase Phase) float64 { return s.pct[phase] }

// LogStats logs the window averages.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for _, ph := range s.Phases() {
		attrs = append(attrs, ph.String()+"_pct", float64(int(s.pct[ph]*10))/10)
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	InputPct     float64 `csv:"input_pct"`
	RebuildPct   float64 `csv:"rebuild_pct"`
	TargetsPct   float64 `csv:"targets_pct"`
	PhysicsPct   float64 `csv:"physics_pct"`
	MorphPct     float64 `csv:"morph_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		InputPct:     s.pct[PhaseInput],
		RebuildPct:   s.pct[PhaseRebuild],
		TargetsPct:   s.pct[PhaseTargets],
		PhysicsPct:   s.pct[PhasePhysics],
		MorphPct:     s.pct[PhaseMorph],
		TelemetryPct: s.pct[PhaseTelemetry],
	}
}
