// Package model provides the observable state container views bind to.
//
// A Model holds named properties. Every effective mutation fires
// "change:<name>" with the new value as payload, followed by a generic
// "change" event carrying the property name.
package model

import (
	"reflect"
	"sort"
	"sync"
)

const (
	ChangeAll    = "change"
	changePrefix = "change:"
)

// ChangeEvent returns the name of the event fired when prop changes.
func ChangeEvent(prop string) string {
	return changePrefix + prop
}

type Model struct {
	Emitter

	mu       sync.RWMutex
	attrs    map[string]any
	previous map[string]any
}

// New wraps a copy of state.
func New(state map[string]any) *Model {
	m := &Model{
		attrs:    make(map[string]any, len(state)),
		previous: make(map[string]any),
	}

	for k, v := range state {
		m.attrs[k] = v
	}

	return m
}

func (m *Model) Get(name string) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attrs[name]
}

func (m *Model) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.attrs[name]
	return ok
}

// Previous returns the value name held before its last change.
func (m *Model) Previous(name string) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous[name]
}

// Attributes returns a copy of the current state.
func (m *Model) Attributes() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	attrs := make(map[string]any, len(m.attrs))
	for k, v := range m.attrs {
		attrs[k] = v
	}

	return attrs
}

// Set assigns value to name and fires the change events if the value differs
// from the current one.
func (m *Model) Set(name string, value any) {
	if m.assign(name, value, false) {
		m.notify(name, value)
	}
}

// SetAll assigns every entry of values, then fires change events for the
// ones that changed, in key order.
func (m *Model) SetAll(values map[string]any) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	changed := names[:0]
	for _, name := range names {
		if m.assign(name, values[name], false) {
			changed = append(changed, name)
		}
	}

	for _, name := range changed {
		m.notify(name, values[name])
	}
}

// Unset removes name; listeners receive nil as the new value.
func (m *Model) Unset(name string) {
	if m.assign(name, nil, true) {
		m.notify(name, nil)
	}
}

func (m *Model) assign(name string, value any, remove bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, exists := m.attrs[name]
	if remove {
		if !exists {
			return false
		}

		m.previous[name] = old
		delete(m.attrs, name)
		return true
	}

	if exists && reflect.DeepEqual(old, value) {
		return false
	}

	m.previous[name] = old
	m.attrs[name] = value
	return true
}

func (m *Model) notify(name string, value any) {
	m.Fire(ChangeEvent(name), value)
	m.Fire(ChangeAll, name)
}
