package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayTargets    OverlayID = "targets"
	OverlayAnchors    OverlayID = "anchors"
	OverlayRingGuides OverlayID = "ring_guides"
	OverlayPointer    OverlayID = "pointer"
	OverlayVelocities OverlayID = "velocities"
	OverlayGradient   OverlayID = "gradient"
	OverlayPerf       OverlayID = "perf"
	OverlayControls   OverlayID = "controls"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "T", "A")
	Category    string      // Grouping (e.g., "swarm", "debug")
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
	Default     bool        // Enabled on creation
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
	order       []OverlayID // Maintains insertion order for display
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds standard overlays.
func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayTargets,
		Name:        "Morph Targets",
		Description: "Show sampled surface points",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "swarm",
		Exclusive:   []OverlayID{OverlayAnchors},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayAnchors,
		Name:        "Anchors",
		Description: "Show each particle's spring anchor",
		Key:         rl.KeyA,
		KeyLabel:    "A",
		Category:    "swarm",
		Exclusive:   []OverlayID{OverlayTargets},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayRingGuides,
		Name:        "Ring Guides",
		Description: "Draw each ring's base radius",
		Key:         rl.KeyR,
		KeyLabel:    "R",
		Category:    "swarm",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPointer,
		Name:        "Pointer Radius",
		Description: "Show the pointer's influence radius",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "swarm",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayVelocities,
		Name:        "Velocities",
		Description: "Draw velocity vectors",
		Key:         rl.KeyV,
		KeyLabel:    "V",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayGradient,
		Name:        "Gradient",
		Description: "Show the ring color legend",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Perf",
		Description: "Show tick phase timings",
		Key:         rl.KeyF3,
		KeyLabel:    "F3",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayControls,
		Name:        "Controls",
		Description: "Show the ring controls panel",
		Key:         rl.KeyTab,
		KeyLabel:    "TAB",
		Category:    "panels",
		Default:     true,
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	desc, ok := r.byID[id]
	if !ok {
		return false
	}

	newState := !r.enabled[id]
	r.enabled[id] = newState

	// If enabling, disable exclusive overlays
	if newState {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}

	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Get returns an overlay descriptor by ID.
func (r *OverlayRegistry) Get(id OverlayID) (OverlayDescriptor, bool) {
	desc, ok := r.byID[id]
	return desc, ok
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// EnabledOverlays returns a list of currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, id := range r.order {
		if r.enabled[id] {
			result = append(result, id)
		}
	}
	return result
}
