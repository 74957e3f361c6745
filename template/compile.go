package template

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gowade/view/dom"
)

var ErrUnresolvedProp = errors.New("no resolver for property binding")

type (
	// ListenerFunc attaches one native listener for event to el, filtered
	// by selector when it is not empty.
	ListenerFunc func(el dom.Element, event, selector string) error

	Listener struct {
		Event    string
		Selector string
		Attach   ListenerFunc
	}

	// Listeners holds prepared listeners keyed by Path.String() of the node
	// that declared them.
	Listeners map[string][]Listener

	Compiler struct {
		Document  dom.Document
		Listeners Listeners
		// Prop turns declarative property bindings into attachments.
		Prop func(Prop) Attachment
	}
)

// Compile materializes root into a new element tree. Per node it sets the
// static attributes and text, compiles the children, runs the bindings in
// key order and finally attaches the prepared listeners.
func (c *Compiler) Compile(root *Node) (dom.Element, error) {
	return c.compile(Path{}, root)
}

func (c *Compiler) compile(p Path, n *Node) (dom.Element, error) {
	if n.IsText() {
		el := c.Document.CreateText(n.Text)
		if err := c.bind(el, n); err != nil {
			return nil, err
		}

		return el, c.listen(el, p)
	}

	el := c.Document.CreateElement(n.Tag)
	for _, name := range sortedKeys(n.Attrs) {
		el.SetAttr(name, n.Attrs[name])
	}

	if n.Text != "" {
		el.SetText(n.Text)
	}

	for i := range n.Children {
		child, err := c.compile(p.Child(i), &n.Children[i])
		if err != nil {
			return nil, err
		}

		el.Append(child)
	}

	if err := c.bind(el, n); err != nil {
		return nil, err
	}

	return el, c.listen(el, p)
}

func (c *Compiler) bind(el dom.Element, n *Node) error {
	for _, key := range sortedKeys(n.Bind) {
		var attach Attachment
		switch b := n.Bind[key].(type) {
		case Attachment:
			attach = b
		case Prop:
			if c.Prop == nil {
				return dom.ElementError(el, fmt.Errorf("%w %q", ErrUnresolvedProp, string(b)))
			}
			attach = c.Prop(b)
		default:
			return dom.ElementError(el, fmt.Errorf("unsupported binding %T for %q", b, key))
		}

		if attach != nil {
			attach(el, UpdaterFor(key))
		}
	}

	return nil
}

func (c *Compiler) listen(el dom.Element, p Path) error {
	for _, l := range c.Listeners[p.String()] {
		if err := l.Attach(el, l.Event, l.Selector); err != nil {
			return err
		}
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
