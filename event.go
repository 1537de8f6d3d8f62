package edi

// EventType tags the variant of an Event's Payload.
type EventType int

const (
	EventInput EventType = iota
	EventCharWritten
	EventCharDeleted
	EventModeSwitched
)

// EventPayload is one notification variant carried by an Event.
type EventPayload struct {
	Type EventType

	Input Input // EventInput

	BufferID BundleID      // EventCharWritten, EventCharDeleted, EventModeSwitched
	Offset   int           // EventCharWritten, EventCharDeleted
	Ch       rune          // EventCharWritten
	Mode     Mode          // EventModeSwitched
}

// Event is a notification about something that happened, plus the id of
// the handler that originated it, if any.
type Event struct {
	Payload EventPayload
	Source  *HandlerID
}

// NewInputEvent wraps a decoded Input as an event with no originating
// handler (it comes from the input source, not a handler).
func NewInputEvent(in Input) Event {
	return Event{Payload: EventPayload{Type: EventInput, Input: in}}
}
