package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/halo/components"
)

// MorphState is the morph lifecycle state.
type MorphState uint8

const (
	MorphIdle MorphState = iota
	MorphMorphing
	MorphFrozen
)

func (s MorphState) String() string {
	switch s {
	case MorphIdle:
		return "idle"
	case MorphMorphing:
		return "morphing"
	case MorphFrozen:
		return "frozen"
	}
	return "unknown"
}

// progressSnap absorbs rounding in ticks*rate near completion.
const progressSnap = 1e-9

// MorphController blends every ring toward the shared target points and
// freezes the swarm once progress reaches 1.
type MorphController struct {
	filter *ecs.Filter3[components.RingSpec, components.Swarm, components.RingSlot]
	Rate   float64

	state    MorphState
	ticks    int
	progress float64
}

// NewMorphController creates an idle controller over the rings in w.
func NewMorphController(w *ecs.World, rate float64) *MorphController {
	return &MorphController{
		filter: ecs.NewFilter3[components.RingSpec, components.Swarm, components.RingSlot](w),
		Rate:   rate,
	}
}

// State returns the current state.
func (m *MorphController) State() MorphState { return m.state }

// Progress returns the blend factor in [0, 1].
func (m *MorphController) Progress() float64 { return m.progress }

// Start moves Idle to Morphing. It returns false in any other state or when
// there are no targets.
func (m *MorphController) Start(targets []r3.Vec) bool {
	if m.state != MorphIdle || len(targets) == 0 {
		return false
	}
	m.state = MorphMorphing
	m.ticks = 0
	m.progress = 0
	slog.Info("morph started", "targets", len(targets), "rate", m.Rate)
	return true
}

// Reset returns to Idle. Only a full rebuild calls this.
func (m *MorphController) Reset() {
	m.state = MorphIdle
	m.ticks = 0
	m.progress = 0
}

// advance increments progress by one tick.
func (m *MorphController) advance() {
	m.ticks++
	p := float64(m.ticks) * m.Rate
	if p >= 1-progressSnap {
		p = 1
	}
	m.progress = p
}

// Update runs one morph tick over every ring. Particles whose global index
// has no target are left where they are.
func (m *MorphController) Update(targets []r3.Vec) {
	if m.state != MorphMorphing {
		return
	}
	m.advance()

	query := m.filter.Query()
	for query.Next() {
		_, swarm, slot := query.Get()
		blendSwarm(swarm, slot.Offset, targets, m.progress)
	}

	if m.progress >= 1 {
		m.state = MorphFrozen
		slog.Info("morph complete", "ticks", m.ticks)
	}
}

// blendSwarm lerps each particle toward targets[offset+i] by t.
func blendSwarm(swarm *components.Swarm, offset int, targets []r3.Vec, t float64) {
	for i := range swarm.Positions {
		gi := offset + i
		if gi >= len(targets) {
			break
		}
		p := &swarm.Positions[i]
		tg := targets[gi]
		p.X = lerp(p.X, tg.X, t)
		p.Y = lerp(p.Y, tg.Y, t)
		p.Z = lerp(p.Z, tg.Z, t)
	}
}
