// Package region keeps named child items in insertion order.
package region

import (
	"errors"
	"fmt"
)

var ErrExists = errors.New("region already exists")

type Collection[T any] struct {
	names []string
	items map[string]T
}

func New[T any]() *Collection[T] {
	return &Collection[T]{items: make(map[string]T)}
}

func (c *Collection[T]) Add(name string, item T) error {
	if _, ok := c.items[name]; ok {
		return fmt.Errorf("%w: %q", ErrExists, name)
	}

	c.names = append(c.names, name)
	c.items[name] = item
	return nil
}

func (c *Collection[T]) Get(name string) (item T, ok bool) {
	item, ok = c.items[name]
	return
}

// Remove takes the named item out of the collection and returns it, so the
// caller can dispose of it.
func (c *Collection[T]) Remove(name string) (item T, ok bool) {
	item, ok = c.items[name]
	if !ok {
		return
	}

	delete(c.items, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i:i], c.names[i+1:]...)
			break
		}
	}

	return
}

// RemoveAll empties the collection, returning the items in insertion order.
func (c *Collection[T]) RemoveAll() []T {
	list := make([]T, 0, len(c.names))
	for _, name := range c.names {
		list = append(list, c.items[name])
	}

	c.names = nil
	c.items = make(map[string]T)
	return list
}

func (c *Collection[T]) Names() []string {
	return append([]string(nil), c.names...)
}

func (c *Collection[T]) Each(fn func(name string, item T)) {
	for _, name := range c.Names() {
		if item, ok := c.items[name]; ok {
			fn(name, item)
		}
	}
}

func (c *Collection[T]) Len() int {
	return len(c.names)
}
