package view

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/gowade/view/dom"
	"github.com/gowade/view/template"
)

// TemplateFunc builds the template of a view. It runs on every render, so
// bindings it creates with v.Bind belong to that render.
type TemplateFunc func(v *View) *template.Node

type Option func(*View)

func WithTemplate(fn TemplateFunc) Option {
	return func(v *View) {
		v.tmpl = fn
	}
}

// WithTemplateNode uses a fixed description, typically one loaded with
// template.Loader. The node is only read.
func WithTemplateNode(n *template.Node) Option {
	return func(v *View) {
		if n == nil {
			v.tmpl = nil
			return
		}

		v.tmpl = func(*View) *template.Node { return n }
	}
}

// WithDocument renders into doc instead of the package-level goquery document.
func WithDocument(doc dom.Document) Option {
	return func(v *View) {
		v.doc = doc
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(v *View) {
		v.tracer = tracer
	}
}

// WithID overrides the generated view id.
func WithID(id string) Option {
	return func(v *View) {
		v.id = id
	}
}
