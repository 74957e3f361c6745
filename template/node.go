// Package template describes view templates and compiles them into dom
// element trees.
//
// A template is a tree of Node values. Besides static tag, attributes and
// text, a node declares bindings (bind key -> Binding) and native event
// listeners (event[@selector] -> Action). Compile materializes the tree and
// hands each element to its bindings and listeners; it never modifies the
// description, so one description can back any number of renders.
package template

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gowade/view/dom"
)

var (
	ErrEmptyEvent = errors.New("listener key has no event name")
	ErrNoAction   = errors.New("listener has no action")
)

type (
	Node struct {
		// Tag is the element name. A node without a tag is a text node.
		Tag      string
		Attrs    map[string]string
		Text     string
		Bind     map[string]Binding
		On       map[string]Action
		Children []Node
	}

	// Updater writes a value into an element: an attribute, its text, a
	// class toggle. The compiler picks one per bind key.
	Updater func(el dom.Element, value any)

	// Binding is either an Attachment or a Prop.
	Binding interface {
		binding()
	}

	// Attachment is invoked by the compiler once per element it is bound
	// to, with the updater matching the bind key.
	Attachment func(el dom.Element, update Updater)

	// Prop binds the named model property with no transformation. The
	// compiler hands it to Compiler.Prop to get an Attachment.
	Prop string
)

func (Attachment) binding() {}
func (Prop) binding()       {}

// IsText reports whether the node renders as a text node.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// ParseKey splits a listener key "event" or "event@selector".
func ParseKey(key string) (event, selector string, err error) {
	event, selector, _ = strings.Cut(key, "@")
	event = strings.TrimSpace(event)
	selector = strings.TrimSpace(selector)
	if event == "" {
		return "", "", fmt.Errorf("%w: %q", ErrEmptyEvent, key)
	}

	return event, selector, nil
}

// Path addresses a node by child indexes from the root; the root is the
// empty path.
type Path []int

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}

	return "/" + strings.Join(parts, "/")
}

// Child returns a new path pointing at the i-th child of p.
func (p Path) Child(i int) Path {
	child := make(Path, len(p)+1)
	copy(child, p)
	child[len(p)] = i
	return child
}

// Walk visits root and its descendants depth-first, parents before children.
// Returning an error stops the walk.
func Walk(root *Node, fn func(p Path, n *Node) error) error {
	return walk(Path{}, root, fn)
}

func walk(p Path, n *Node, fn func(Path, *Node) error) error {
	if err := fn(p, n); err != nil {
		return err
	}

	for i := range n.Children {
		if err := walk(p.Child(i), &n.Children[i], fn); err != nil {
			return err
		}
	}

	return nil
}
