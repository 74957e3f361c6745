package template

import (
	"github.com/gowade/view/dom"
)

// Action is what a listener declaration does when its native event fires:
// FireEvent, InvokeCallback or a Sequence of those.
type Action interface {
	action()
}

type (
	// FireEvent re-fires the native event on the view as an application
	// event called Name.
	FireEvent struct {
		Name string
	}

	// InvokeCallback calls Fn with the native event.
	InvokeCallback struct {
		Fn dom.EventHandler
	}

	// Sequence runs every action in order for one native event.
	Sequence []Action
)

func (FireEvent) action()      {}
func (InvokeCallback) action() {}
func (Sequence) action()       {}

func Fire(name string) Action {
	return FireEvent{Name: name}
}

func Call(fn dom.EventHandler) Action {
	return InvokeCallback{Fn: fn}
}

func Seq(actions ...Action) Action {
	return Sequence(actions)
}

// Flatten resolves nested sequences into the ordered list of single actions.
func Flatten(a Action) []Action {
	switch a := a.(type) {
	case nil:
		return nil
	case Sequence:
		list := []Action{}
		for _, item := range a {
			list = append(list, Flatten(item)...)
		}
		return list
	default:
		return []Action{a}
	}
}
