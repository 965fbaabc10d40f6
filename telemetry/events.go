// Package telemetry provides swarm statistics, performance timing and CSV output.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventRebuild EventType = iota
	EventMorphRequested
	EventMorphIgnored
	EventMorphStarted
	EventMorphFrozen
	EventTargetsReady
	EventTargetsFailed
)

func (t EventType) String() string {
	switch t {
	case EventRebuild:
		return "rebuild"
	case EventMorphRequested:
		return "morph_requested"
	case EventMorphIgnored:
		return "morph_ignored"
	case EventMorphStarted:
		return "morph_started"
	case EventMorphFrozen:
		return "morph_frozen"
	case EventTargetsReady:
		return "targets_ready"
	case EventTargetsFailed:
		return "targets_failed"
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type  EventType
	Tick  int32
	Count int // particles on rebuild, target points when ready
}
