// Package telemetry provides navigation run tracking, bookmarking, and snapshots.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSolve EventType = iota
	EventRebuild
	EventTeleport
	EventTerrainEdit
	EventDestinationChange
	EventArrival
)

var eventNames = [...]string{"solve", "rebuild", "teleport", "terrain_edit", "destination_change", "arrival"}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type    EventType
	Tick    int32
	AgentID uint32

	// Optional fields depending on event type
	Node   int // destination, arrival node, edited cell, or teleport source
	Target int // teleport exit node
}

// NewSolveEvent creates a cost field solve event.
func NewSolveEvent(tick int32, dest int) Event {
	return Event{Type: EventSolve, Tick: tick, Node: dest}
}

// NewRebuildEvent creates a flow field rebuild event.
func NewRebuildEvent(tick int32, dest int) Event {
	return Event{Type: EventRebuild, Tick: tick, Node: dest}
}

// NewTeleportEvent creates an event for an agent crossing from one teleporter endpoint to the other.
func NewTeleportEvent(tick int32, agentID uint32, from, to int) Event {
	return Event{
		Type:    EventTeleport,
		Tick:    tick,
		AgentID: agentID,
		Node:    from,
		Target:  to,
	}
}

// NewTerrainEditEvent creates a terrain paint event.
func NewTerrainEditEvent(tick int32, node int) Event {
	return Event{Type: EventTerrainEdit, Tick: tick, Node: node}
}

// NewDestinationChangeEvent creates a destination change event.
func NewDestinationChangeEvent(tick int32, dest int) Event {
	return Event{Type: EventDestinationChange, Tick: tick, Node: dest}
}

// NewArrivalEvent creates an arrival event.
func NewArrivalEvent(tick int32, agentID uint32, node int) Event {
	return Event{
		Type:    EventArrival,
		Tick:    tick,
		AgentID: agentID,
		Node:    node,
	}
}
