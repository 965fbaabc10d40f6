// Package game glues the swarm simulation to input, rendering and telemetry.
package game

import (
	"context"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/halo/camera"
	"github.com/pthm-cable/halo/config"
	"github.com/pthm-cable/halo/mesh"
	"github.com/pthm-cable/halo/renderer"
	"github.com/pthm-cable/halo/systems"
	"github.com/pthm-cable/halo/telemetry"
	"github.com/pthm-cable/halo/ui"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	StepsPerUpdate int

	MorphAt     int32  // request a morph at this tick (0 = never)
	MeshPath    string // overrides morph.mesh_path
	TargetsPath string // precomputed points CSV; replaces mesh loading

	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete application state.
type Game struct {
	cfg *config.Config
	sys *systems.SwarmSystem
	rng *rand.Rand

	pointer     systems.Pointer
	pointerLive bool

	// Morph target loading
	ctx          context.Context
	cancel       context.CancelFunc
	targets      *mesh.Future
	morphAt      int32
	lastMorph    systems.MorphState
	morphPending bool

	// Control edits applied at the start of the next step
	rebuildPending bool
	paramsPending  bool

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	radii         []float64

	// Rendering (nil when headless)
	camera           *camera.Camera
	particleRenderer *renderer.ParticleRenderer
	uiHUD            *ui.HUD
	uiPerfPanel      *ui.PerfPanel
	uiControls       *ui.ControlsPanel
	uiOverlays       *ui.OverlayRegistry
	legend           []rl.Color

	// State
	paused         bool
	headless       bool
	stepsPerUpdate int
	screenWidth    float32
	screenHeight   float32
}

// NewGameWithOptions creates a game from the global config.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	rng := systems.NewRand(opts.Seed)
	ctx, cancel := context.WithCancel(context.Background())

	g := &Game{
		cfg:            cfg,
		rng:            rng,
		ctx:            ctx,
		cancel:         cancel,
		morphAt:        opts.MorphAt,
		collector:      telemetry.NewCollector(statsWindow, cfg.Sim.FrameSeconds),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
		headless:       opts.Headless,
		stepsPerUpdate: steps,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}

	g.sys = systems.NewSwarmSystem(systems.SwarmOptionsFromConfig(cfg), rng)
	g.rebuild()

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	}
	g.outputManager = om
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	g.startTargets(opts)

	if !opts.Headless {
		g.camera = camera.New(g.screenWidth, g.screenHeight, float32(cfg.Screen.PixelsPerUnit))
		g.particleRenderer = renderer.NewParticleRenderer(g.camera, float32(cfg.Screen.PointSize))
		g.uiHUD = ui.NewHUD()
		g.uiPerfPanel = ui.NewPerfPanel(int32(g.screenWidth)-300, 10)
		g.uiControls = ui.NewControlsPanel(int32(g.screenWidth)-300, 140, 290)
		g.uiOverlays = ui.NewOverlayRegistry()
		g.legend = renderer.GradientLegend(systems.RingGradient, 64)
	}

	return g
}

// rebuild regenerates every ring from the current config.
func (g *Game) rebuild() {
	g.sys.Rebuild(systems.SpecsFromConfig(g.cfg))
	g.lastMorph = g.sys.Morph.State()
	g.collector.Record(telemetry.Event{
		Type:  telemetry.EventRebuild,
		Tick:  g.sys.Tick(),
		Count: g.sys.ParticleCount(),
	})
}

// requestMorph asks for a morph on the next step.
func (g *Game) requestMorph() {
	g.morphPending = true
}

// Update handles input and runs the configured number of steps.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// UpdateHeadless runs steps without any raylib calls.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs a single simulation tick.
func (g *Game) step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	if g.paramsPending {
		g.paramsPending = false
		g.sys.Physics.Params = systems.PhysicsParamsFromConfig(g.cfg)
	}
	if g.rebuildPending {
		g.rebuildPending = false
		g.perfCollector.StartPhase(telemetry.PhaseRebuild)
		g.rebuild()
	}

	g.perfCollector.StartPhase(telemetry.PhaseTargets)
	g.pollTargets()

	// A scheduled morph waits for its targets instead of being dropped.
	if g.morphAt > 0 && g.sys.Tick() >= g.morphAt && g.sys.TargetsReady() {
		g.morphAt = 0
		g.morphPending = true
	}
	if g.morphPending {
		g.morphPending = false
		g.startMorph()
	}

	phase := telemetry.PhasePhysics
	if g.sys.Morph.State() != systems.MorphIdle {
		phase = telemetry.PhaseMorph
	}
	g.perfCollector.StartPhase(phase)

	g.pointerLive = g.cfg.Pointer.Enabled && g.pointer.Live(g.sys.Now(), g.cfg.Pointer.Timeout)
	if g.pointerLive && g.sys.Morph.State() == systems.MorphIdle {
		g.collector.RecordPointerTick()
	}
	g.sys.Update(g.pointer)
	g.trackMorph()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// startMorph forwards a pending request to the swarm and records the outcome.
func (g *Game) startMorph() {
	ev := telemetry.Event{Type: telemetry.EventMorphRequested, Tick: g.sys.Tick()}
	if !g.sys.RequestMorph() {
		ev.Type = telemetry.EventMorphIgnored
	}
	g.collector.Record(ev)
}

// trackMorph records morph state transitions.
func (g *Game) trackMorph() {
	state := g.sys.Morph.State()
	if state == g.lastMorph {
		return
	}
	switch state {
	case systems.MorphMorphing:
		g.collector.Record(telemetry.Event{Type: telemetry.EventMorphStarted, Tick: g.sys.Tick()})
	case systems.MorphFrozen:
		g.collector.Record(telemetry.Event{Type: telemetry.EventMorphFrozen, Tick: g.sys.Tick()})
		g.writeSwarmSnapshot("frozen.csv")
	}
	g.lastMorph = state
}

// System returns the swarm system.
func (g *Game) System() *systems.SwarmSystem {
	return g.sys
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.sys.Tick()
}

// Unload releases all resources.
func (g *Game) Unload() {
	g.cancel()
	g.writeSwarmSnapshot("final.csv")
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
