package sim

// VTick is a point in simulated time, measured in whole logical clock ticks
// since the start of the run.
type VTick int64

// An Event is something that will happen in the future.
type Event interface {
	// Time returns the tick at which the event should happen.
	Time() VTick

	// Handler returns the handler that handles the event.
	Handler() Handler

	// IsSecondary tells if the event is a secondary event. Secondary events
	// are handled after all same-tick primary events are handled.
	IsSecondary() bool
}

// EventBase provides the basic fields and getters for other events.
type EventBase struct {
	ID        string
	tick      VTick
	handler   Handler
	secondary bool
}

// NewEventBase creates a new EventBase.
func NewEventBase(t VTick, handler Handler) *EventBase {
	e := new(EventBase)
	e.ID = GetIDGenerator().Generate()
	e.tick = t
	e.handler = handler
	e.secondary = false

	return e
}

// Time returns the tick at which the event is going to happen.
func (e EventBase) Time() VTick {
	return e.tick
}

// SetHandler sets which handler handles the event.
//
// Components can only schedule events for themselves, so the handler must be
// the component that schedules the event. The only exception is kick-starting
// the run, where the starter may schedule to any component.
func (e *EventBase) SetHandler(h Handler) {
	e.handler = h
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary returns true if the event is a secondary event.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}

// A Handler defines a domain for events.
//
// An event is always constrained to one Handler. It can only be scheduled by
// that handler and can only directly modify that handler.
type Handler interface {
	Handle(e Event) error
}
