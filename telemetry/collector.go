package telemetry

// SwarmSample is the end-of-window swarm state supplied by the caller.
type SwarmSample struct {
	Rings         int
	Particles     int
	MorphState    string
	MorphProgress float64
	TargetPoints  int
	Radii         []float64 // planar radius per particle
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	rebuilds      int
	morphRequests int
	morphIgnored  int
	pointerTicks  int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 {
		ticksPerWindow = int32(windowDurationSec / dt)
	}
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts an event in the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventRebuild:
		c.rebuilds++
	case EventMorphRequested:
		c.morphRequests++
	case EventMorphIgnored:
		c.morphRequests++
		c.morphIgnored++
	}
}

// RecordPointerTick counts a tick during which the pointer was live.
func (c *Collector) RecordPointerTick() {
	c.pointerTicks++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s SwarmSample) WindowStats {
	mean, std, p10, p50, p90 := ComputeRadiusStats(s.Radii)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Rings:     s.Rings,
		Particles: s.Particles,

		MorphState:    s.MorphState,
		MorphProgress: s.MorphProgress,
		TargetPoints:  s.TargetPoints,

		Rebuilds:        c.rebuilds,
		MorphRequests:   c.morphRequests,
		MorphIgnored:    c.morphIgnored,
		PointerActiveTk: c.pointerTicks,

		RadiusMean: mean,
		RadiusStd:  std,
		RadiusP10:  p10,
		RadiusP50:  p50,
		RadiusP90:  p90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.rebuilds = 0
	c.morphRequests = 0
	c.morphIgnored = 0
	c.pointerTicks = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
