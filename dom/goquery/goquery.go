// Package goquery is an in-memory dom backend over golang.org/x/net/html
// nodes. Queries go through goquery, selectors are compiled by cascadia.
package goquery

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"weak"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gowade/view/dom"
	"github.com/gowade/view/utils/htmlutils"
)

var (
	gDom = NewDocument()
)

type (
	// Document creates elements and keeps the native listener registry for
	// every node it has handed out. Wrappers are held weakly: a wrapper
	// nobody references is dropped, and the node gets a new one on its next
	// access.
	Document struct {
		mu        sync.Mutex
		elements  map[*html.Node]weak.Pointer[Element]
		listeners map[*html.Node][]*listener
	}

	Element struct {
		doc  *Document
		node *html.Node
	}

	listener struct {
		event   string
		handler dom.EventHandler
		removed bool
	}

	matcher struct {
		sel cascadia.Sel
	}
)

// GetDom returns the package-level document.
func GetDom() *Document {
	return gDom
}

func NewDocument() *Document {
	return &Document{
		elements:  make(map[*html.Node]weak.Pointer[Element]),
		listeners: make(map[*html.Node][]*listener),
	}
}

// Wrap returns the canonical element for node.
func (d *Document) Wrap(node *html.Node) *Element {
	if node == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if wp, ok := d.elements[node]; ok {
		if el := wp.Value(); el != nil {
			return el
		}
	}

	el := &Element{doc: d, node: node}
	d.elements[node] = weak.Make(el)
	runtime.AddCleanup(el, d.forget, node)
	return el
}

func (d *Document) forget(node *html.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if wp, ok := d.elements[node]; ok && wp.Value() == nil {
		delete(d.elements, node)
	}
}

// Wrapped returns how many nodes currently have a wrapper.
func (d *Document) Wrapped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.elements)
}

func (d *Document) CreateElement(tag string) dom.Element {
	tag = strings.ToLower(tag)
	return d.Wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

func (d *Document) CreateText(text string) dom.Element {
	return d.Wrap(&html.Node{
		Type: html.TextNode,
		Data: text,
	})
}

func parseHTML(source string, context *html.Node) ([]*html.Node, error) {
	return htmlutils.ParseFragment(bytes.NewBufferString(strings.TrimSpace(source)), context)
}

// Parse parses an html fragment into detached elements.
func (d *Document) Parse(source string) ([]dom.Element, error) {
	nodes, err := parseHTML(source, nil)
	if err != nil {
		return nil, err
	}

	list := make([]dom.Element, len(nodes))
	for i, node := range nodes {
		list[i] = d.Wrap(node)
	}

	return list, nil
}

func (d *Document) Compile(selector string) (dom.Matcher, error) {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return nil, err
	}

	return matcher{sel}, nil
}

// ListenerCount returns how many listeners are registered on el.
func (d *Document) ListenerCount(el dom.Element) int {
	e, ok := el.(*Element)
	if !ok {
		return 0
	}

	return len(d.listeners[e.node])
}

func (m matcher) Match(el dom.Element) bool {
	e, ok := el.(*Element)
	if !ok || e.node.Type != html.ElementNode {
		return false
	}

	return m.sel.Match(e.node)
}

// Node returns the underlying html node.
func (e *Element) Node() *html.Node {
	return e.node
}

func (e *Element) selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(e.node).Selection
}

func (e *Element) Document() dom.Document {
	return e.doc
}

func (e *Element) IsElement() bool {
	return e.node.Type == html.ElementNode
}

func (e *Element) TagName() string {
	if !e.IsElement() {
		return ""
	}

	return strings.ToLower(e.node.Data)
}

func (e *Element) Attr(name string) (string, bool) {
	return e.selection().Attr(strings.ToLower(name))
}

func (e *Element) SetAttr(name, value string) {
	name = strings.ToLower(name)
	for i, attr := range e.node.Attr {
		if attr.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}

	e.node.Attr = append(e.node.Attr, html.Attribute{
		Key: name,
		Val: value,
	})
}

func (e *Element) RemoveAttr(name string) {
	name = strings.ToLower(name)
	for i, attr := range e.node.Attr {
		if attr.Key == name {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

func (e *Element) HasClass(class string) bool {
	return e.selection().HasClass(class)
}

func (e *Element) SetClass(class string, on bool) {
	if e.HasClass(class) == on {
		return
	}

	current, _ := e.Attr("class")
	if on {
		e.SetAttr("class", strings.TrimSpace(current+" "+class))
		return
	}

	classes := strings.Fields(current)
	kept := classes[:0]
	for _, c := range classes {
		if c != class {
			kept = append(kept, c)
		}
	}

	e.SetAttr("class", strings.Join(kept, " "))
}

func (e *Element) Text() string {
	return e.selection().Text()
}

func (e *Element) SetText(text string) {
	if !e.IsElement() {
		e.node.Data = text
		return
	}

	e.clear()
	e.node.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: text,
	})
}

func (e *Element) clear() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
}

func (e *Element) Html() string {
	contents, _ := e.selection().Html()
	return contents
}

func (e *Element) SetHtml(source string) error {
	if !e.IsElement() {
		return dom.ElementError(e, dom.ErrorNotElement)
	}

	nodes, err := parseHTML(source, e.node)
	if err != nil {
		return dom.ElementError(e, err)
	}

	e.clear()
	for _, node := range nodes {
		e.node.AppendChild(node)
	}

	return nil
}

func (e *Element) OuterHtml() string {
	contents, _ := goquery.OuterHtml(e.selection())
	return contents
}

func (e *Element) Parent() dom.Element {
	if e.node.Parent == nil {
		return nil
	}

	return e.doc.Wrap(e.node.Parent)
}

// Children returns the child elements, text nodes are skipped.
func (e *Element) Children() []dom.Element {
	nodes := e.selection().Children().Nodes
	list := make([]dom.Element, len(nodes))
	for i, node := range nodes {
		list[i] = e.doc.Wrap(node)
	}

	return list
}

func (e *Element) Append(children ...dom.Element) {
	for _, child := range children {
		c := e.doc.native(child)
		if c.node.Parent != nil {
			c.node.Parent.RemoveChild(c.node)
		}

		e.node.AppendChild(c.node)
	}
}

func (e *Element) ReplaceWith(other dom.Element) {
	parent := e.node.Parent
	if parent == nil {
		return
	}

	o := e.doc.native(other)
	if o.node.Parent != nil {
		o.node.Parent.RemoveChild(o.node)
	}

	parent.InsertBefore(o.node, e.node)
	parent.RemoveChild(e.node)
}

func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

func (e *Element) Find(selector string) []dom.Element {
	nodes := e.selection().Find(selector).Nodes
	list := make([]dom.Element, len(nodes))
	for i, node := range nodes {
		list[i] = e.doc.Wrap(node)
	}

	return list
}

func (d *Document) native(el dom.Element) *Element {
	e, ok := el.(*Element)
	if !ok {
		panic(fmt.Sprintf("goquery: foreign element %T", el))
	}

	if e.doc != d {
		panic("goquery: element belongs to another document")
	}

	return e
}

func (e *Element) Listen(event string, handler dom.EventHandler) dom.Unlisten {
	l := &listener{event: event, handler: handler}
	e.doc.listeners[e.node] = append(e.doc.listeners[e.node], l)

	return func() {
		if l.removed {
			return
		}

		l.removed = true
		list := e.doc.listeners[e.node]
		for i, item := range list {
			if item == l {
				list = append(list[:i:i], list[i+1:]...)
				break
			}
		}

		if len(list) == 0 {
			delete(e.doc.listeners, e.node)
		} else {
			e.doc.listeners[e.node] = list
		}
	}
}

func (e *Element) Dispatch(evt dom.Event) {
	ev, ok := evt.(*Event)
	if !ok {
		ev = NewEvent(evt.Type())
	}

	if ev.target == nil {
		ev.target = e
	}

	// the propagation path is fixed before any listener runs
	path := []*html.Node{}
	for n := e.node; n != nil; n = n.Parent {
		path = append(path, n)
	}

	for _, n := range path {
		current := e.doc.Wrap(n)
		snapshot := append([]*listener(nil), e.doc.listeners[n]...)
		for _, l := range snapshot {
			if l.removed || l.event != ev.typ {
				continue
			}

			ev.current = current
			l.handler(ev)
		}

		if ev.stopped {
			break
		}
	}

	ev.current = nil
}
