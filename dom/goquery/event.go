package goquery

import (
	"github.com/gowade/view/dom"
)

// Event is a synthetic native event.
type Event struct {
	typ       string
	target    dom.Element
	current   dom.Element
	stopped   bool
	prevented bool

	// Data carries backend specific details (key codes, pointer positions).
	Data any
}

// NewEvent creates a new event
func NewEvent(eventType string) *Event {
	return &Event{typ: eventType}
}

func (e *Event) Type() string {
	return e.typ
}

func (e *Event) Target() dom.Element {
	return e.target
}

func (e *Event) CurrentTarget() dom.Element {
	return e.current
}

func (e *Event) StopPropagation() {
	e.stopped = true
}

func (e *Event) PropagationStopped() bool {
	return e.stopped
}

func (e *Event) PreventDefault() {
	e.prevented = true
}

func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// Trigger dispatches a new event of the given type on el and returns it.
func Trigger(el dom.Element, eventType string) *Event {
	ev := NewEvent(eventType)
	el.Dispatch(ev)
	return ev
}
