package model

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var ErrOwnerNotComparable = errors.New("subscription owner is not comparable")

type (
	// Handler receives a fired event.
	Handler func(Event)

	Event struct {
		Name    string
		Payload any
	}

	subscription struct {
		owner   any
		name    string
		handler Handler
		revoked bool
	}
)

// Emitter is a named-event dispatcher whose subscriptions are grouped by
// owner, so everything an owner subscribed can be revoked at once.
//
// Handlers run synchronously, in subscription order, on a snapshot of the
// subscriber list; the lock is never held while a handler runs, so handlers
// may subscribe, unsubscribe or fire again.
type Emitter struct {
	mu   sync.Mutex
	subs map[string][]*subscription
}

// Subscribe registers handler for name under owner. Owners are told apart
// with ==, so maps, slices and funcs (or structs holding them) are refused.
func (e *Emitter) Subscribe(owner any, name string, handler Handler) error {
	if !comparableOwner(owner) {
		return fmt.Errorf("%w: %T", ErrOwnerNotComparable, owner)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.subs == nil {
		e.subs = make(map[string][]*subscription)
	}

	e.subs[name] = append(e.subs[name], &subscription{
		owner:   owner,
		name:    name,
		handler: handler,
	})
	return nil
}

func comparableOwner(owner any) bool {
	return owner == nil || reflect.ValueOf(owner).Comparable()
}

// UnsubscribeAll revokes every subscription made by owner. A revoked handler
// never runs again, even when a dispatch that included it is in flight.
func (e *Emitter) UnsubscribeAll(owner any) {
	if !comparableOwner(owner) {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for name, list := range e.subs {
		kept := make([]*subscription, 0, len(list))
		for _, sub := range list {
			if sub.owner == owner {
				sub.revoked = true
				continue
			}

			kept = append(kept, sub)
		}

		if len(kept) == 0 {
			delete(e.subs, name)
		} else {
			e.subs[name] = kept
		}
	}
}

func (e *Emitter) Fire(name string, payload any) {
	e.mu.Lock()
	snapshot := append([]*subscription(nil), e.subs[name]...)
	e.mu.Unlock()

	evt := Event{Name: name, Payload: payload}
	for _, sub := range snapshot {
		if e.isRevoked(sub) {
			continue
		}

		sub.handler(evt)
	}
}

func (e *Emitter) isRevoked(sub *subscription) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sub.revoked
}

// Subscribers returns the number of live subscriptions for name.
func (e *Emitter) Subscribers(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs[name])
}

// Reset revokes every subscription of every owner.
func (e *Emitter) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, list := range e.subs {
		for _, sub := range list {
			sub.revoked = true
		}
	}

	e.subs = nil
}
