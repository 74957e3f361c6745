// Package view provides views: widgets whose markup is declared as a
// template and whose state lives in an observable model.
//
// A view renders lazily. The first call to Element prepares the template's
// listeners, compiles the template and caches the root element. Model
// properties reach the element through bindings created with Bind, and
// native events come back as application events through delegated
// listeners declared in the template's On maps. Destroy detaches the
// element, destroys the regions and revokes every subscription the view
// made.
package view

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gowade/view/dom"
	"github.com/gowade/view/dom/goquery"
	"github.com/gowade/view/internal/log"
	"github.com/gowade/view/model"
	"github.com/gowade/view/region"
	"github.com/gowade/view/template"
)

const tracerName = "github.com/gowade/view"

type State int

const (
	Dormant State = iota
	Rendered
	Destroyed
)

func (s State) String() string {
	switch s {
	case Dormant:
		return "dormant"
	case Rendered:
		return "rendered"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Region is a child owned by a view; destroying the view destroys it.
type Region interface {
	Destroy()
}

type View struct {
	id      string
	model   *model.Model
	regions *region.Collection[Region]
	events  model.Emitter

	doc    dom.Document
	tmpl   TemplateFunc
	tracer trace.Tracer

	state    State
	element  dom.Element
	unlisten []dom.Unlisten
}

// New creates a dormant view whose model wraps a copy of state.
func New(state map[string]any, opts ...Option) *View {
	v := &View{
		id:      uuid.NewString(),
		model:   model.New(state),
		regions: region.New[Region](),
		doc:     goquery.GetDom(),
		tracer:  otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(v)
	}

	log.Debug(log.CatLifecycle, "created", "view", v.id)
	return v
}

func (v *View) ID() string {
	return v.id
}

func (v *View) State() State {
	return v.state
}

// Model returns the view's model, nil once the view is destroyed.
func (v *View) Model() *model.Model {
	return v.model
}

func (v *View) Regions() *region.Collection[Region] {
	return v.regions
}

func (v *View) Document() dom.Document {
	return v.doc
}

// HasTemplate reports whether the view can render.
func (v *View) HasTemplate() bool {
	return v.tmpl != nil
}

// Element returns the root element, rendering it on first access. Later
// calls return the same element.
func (v *View) Element() (dom.Element, error) {
	switch v.state {
	case Rendered:
		return v.element, nil
	case Destroyed:
		return nil, ErrDestroyed
	}

	return v.Render()
}

// MustElement is Element for views known to have a template; it panics
// otherwise.
func (v *View) MustElement() dom.Element {
	el, err := v.Element()
	if err != nil {
		panic(err)
	}

	return el
}

// Render builds the element tree from scratch and caches it. When a
// previously rendered element is attached somewhere, the new one takes its
// place.
func (v *View) Render() (dom.Element, error) {
	if v.state == Destroyed {
		return nil, ErrDestroyed
	}

	_, span := v.tracer.Start(context.Background(), "view.Render",
		trace.WithAttributes(attribute.String("view.id", v.id)))
	defer span.End()

	el, err := v.render()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatRender, "render failed", err, "view", v.id)
		return nil, err
	}

	if v.element != nil && v.element.Parent() != nil {
		v.element.ReplaceWith(el)
	}

	v.element = el
	v.state = Rendered
	log.Debug(log.CatRender, "rendered", "view", v.id, "tag", el.TagName())
	return el, nil
}

func (v *View) render() (dom.Element, error) {
	if v.tmpl == nil {
		return nil, &MissingTemplateError{View: v}
	}

	root := v.tmpl(v)
	if root == nil {
		return nil, &MissingTemplateError{View: v}
	}

	listeners, err := v.prepareListeners(root)
	if err != nil {
		return nil, err
	}

	c := &template.Compiler{
		Document:  v.doc,
		Listeners: listeners,
		Prop: func(p template.Prop) template.Attachment {
			return v.Bind(string(p), nil)
		},
	}

	return c.Compile(root)
}

// Destroy tears the view down: the model is dropped, a rendered element is
// removed from its parent, regions are destroyed depth-first and then every
// native listener and subscription the view made is revoked. A view that
// was never rendered is not rendered by Destroy. Destroying twice is a
// no-op, and Destroy may run from inside one of the view's own handlers.
func (v *View) Destroy() {
	if v.state == Destroyed {
		return
	}

	_, span := v.tracer.Start(context.Background(), "view.Destroy",
		trace.WithAttributes(
			attribute.String("view.id", v.id),
			attribute.String("view.state", v.state.String()),
		))
	defer span.End()

	wasRendered := v.state == Rendered
	v.state = Destroyed

	m := v.model
	v.model = nil

	if v.tmpl != nil && v.element != nil {
		v.element.Remove()
	}
	v.element = nil

	for _, r := range v.regions.RemoveAll() {
		r.Destroy()
	}

	for _, unlisten := range v.unlisten {
		unlisten()
	}
	v.unlisten = nil

	if m != nil {
		m.UnsubscribeAll(v)
	}
	v.events.Reset()

	log.Debug(log.CatLifecycle, "destroyed", "view", v.id, "rendered", wasRendered)
}

// AddRegion makes child a region of the view under name.
func (v *View) AddRegion(name string, child Region) error {
	return v.regions.Add(name, child)
}

func (v *View) Region(name string) (Region, bool) {
	return v.regions.Get(name)
}

// RemoveRegion takes the named region out and destroys it.
func (v *View) RemoveRegion(name string) bool {
	r, ok := v.regions.Remove(name)
	if ok {
		r.Destroy()
	}

	return ok
}

// On subscribes h to the view's application event name. Subscriptions are
// grouped by owner for Off; owners must be comparable with ==. On is a
// no-op once the view is destroyed.
func (v *View) On(owner any, name string, h model.Handler) error {
	if v.state == Destroyed {
		return nil
	}

	return v.events.Subscribe(owner, name, h)
}

func (v *View) Off(owner any) {
	v.events.UnsubscribeAll(owner)
}

// Fire emits an application event on the view.
func (v *View) Fire(name string, payload any) {
	v.events.Fire(name, payload)
}

// ListenTo adds a native listener on el that lives as long as the view.
func (v *View) ListenTo(el dom.Element, event string, h dom.EventHandler) dom.Unlisten {
	if v.state == Destroyed {
		return func() {}
	}

	unlisten := el.Listen(event, h)
	v.unlisten = append(v.unlisten, unlisten)
	return unlisten
}
