package ui

import "github.com/dshills/termtree/internal/input/mouse"

// EventKind identifies the kind of a pointer event.
type EventKind uint8

const (
	// EventDown is dispatched on button press.
	EventDown EventKind = iota
	// EventUp is dispatched on button release.
	EventUp
	// EventMove is dispatched on pointer movement.
	EventMove
	// EventClick is synthesized from a LEFT press/release without movement.
	EventClick
	// EventScroll is dispatched on a wheel tick.
	EventScroll
	// EventOver is dispatched when the pointer starts hovering a node.
	EventOver
	// EventOut is dispatched when the pointer stops hovering a node.
	EventOut
	// EventDragEnd is dispatched after EventUp when the gesture moved.
	EventDragEnd
)

var eventKindNames = [...]string{
	EventDown:    "mousedown",
	EventUp:      "mouseup",
	EventMove:    "mousemove",
	EventClick:   "click",
	EventScroll:  "scroll",
	EventOver:    "mouseover",
	EventOut:     "mouseout",
	EventDragEnd: "dragend",
}

// String returns the DOM-style name of the event kind.
func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// ParseEventKind maps a DOM-style name ("click", "mousedown", ...) to a kind.
func ParseEventKind(s string) (EventKind, bool) {
	for i, name := range eventKindNames {
		if name == s {
			return EventKind(i), true
		}
	}
	return 0, false
}

// Handler handles an event. Returning an error stops the bubble walk.
type Handler func(ev *Event) error

// Event is one logical pointer event. A single *Event is shared by every
// handler along the bubble path, so PreventDefault is seen by all of them.
type Event struct {
	Kind   EventKind
	X, Y   int
	Button mouse.Button

	// DX and DY are set for EventScroll.
	DX, DY int

	// Target is the node the event was dispatched to.
	Target *Node
	// CurrentTarget is the node whose handler is running.
	CurrentTarget *Node

	prevented bool
	stopped   bool
}

// PreventDefault suppresses the default action. Bubbling continues.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether any handler called PreventDefault.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// StopPropagation ends the bubble walk after the current node.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.stopped
}
