// Package dom defines the element tree contract the view engine renders into.
// Backends (see dom/goquery) provide the concrete nodes.
package dom

import (
	"errors"
	"fmt"
)

var (
	ErrorNotElement = errors.New("not an element node")
	ErrorDetached   = errors.New("element has no parent")
)

type (
	// EventHandler handles a native event.
	EventHandler func(Event)

	// Unlisten removes a listener added with Element.Listen. Calling it more
	// than once is a no-op.
	Unlisten func()

	Event interface {
		Type() string
		// Target is the element the event was dispatched on.
		Target() Element
		// CurrentTarget is the element whose listener is running.
		CurrentTarget() Element
		StopPropagation()
		PropagationStopped() bool
		PreventDefault()
		DefaultPrevented() bool
	}

	// Matcher is a compiled CSS selector.
	Matcher interface {
		Match(Element) bool
	}

	Document interface {
		CreateElement(tag string) Element
		CreateText(text string) Element
		Parse(html string) ([]Element, error)
		Compile(selector string) (Matcher, error)
	}

	Element interface {
		IsElement() bool
		TagName() string
		Attr(name string) (string, bool)
		SetAttr(name, value string)
		RemoveAttr(name string)
		HasClass(class string) bool
		SetClass(class string, on bool)
		Text() string
		SetText(text string)
		Html() string
		SetHtml(html string) error
		OuterHtml() string

		Parent() Element
		Children() []Element
		Append(children ...Element)
		ReplaceWith(Element)
		// Remove detaches the element from its parent. Detached elements are left as is.
		Remove()
		Find(selector string) []Element

		Listen(event string, handler EventHandler) Unlisten
		// Dispatch delivers the event to the element's listeners and then to
		// its ancestors', until propagation is stopped.
		Dispatch(Event)

		Document() Document
	}
)

// DebugInfo prints debug information for the element, including
// tag name, id, classes and parent tree
func DebugInfo(el Element) string {
	if el == nil {
		return "<nil>"
	}

	if !el.IsElement() {
		return fmt.Sprintf("#text %q", el.Text())
	}

	str := el.TagName()
	if id, ok := el.Attr("id"); ok {
		str += "#" + id
	}
	if class, ok := el.Attr("class"); ok && class != "" {
		str += "." + class
	}

	path := ""
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.IsElement() {
			path = p.TagName() + ">" + path
		}
	}

	return str + " (" + path + ")"
}

// ElementError returns an error with DebugInfo on the element
func ElementError(el Element, err error) error {
	return fmt.Errorf("error on element {%v}: %w", DebugInfo(el), err)
}
