package view

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gowade/view/dom"
	"github.com/gowade/view/dom/goquery"
	"github.com/gowade/view/model"
	"github.com/gowade/view/region"
	"github.com/gowade/view/template"
)

type DestroyTestSuite struct {
	suite.Suite
	doc       *goquery.Document
	container dom.Element
}

func TestDestroy(t *testing.T) {
	suite.Run(t, new(DestroyTestSuite))
}

func (s *DestroyTestSuite) SetupTest() {
	s.doc = goquery.NewDocument()
	s.container = s.doc.CreateElement("main")
}

func (s *DestroyTestSuite) newView(state map[string]any) *View {
	return New(state, WithDocument(s.doc), WithTemplate(func(v *View) *template.Node {
		return &template.Node{
			Tag:  "ul",
			Bind: map[string]template.Binding{"title": v.Bind("title", nil)},
			On:   map[string]template.Action{"click@li": template.Fire("pick")},
			Children: []template.Node{
				{Tag: "li", Text: "one"},
			},
		}
	}))
}

func (s *DestroyTestSuite) TestDestroyRendered() {
	v := s.newView(map[string]any{"title": "t"})
	el := v.MustElement()
	s.container.Append(el)

	child := s.newView(nil)
	childEl := child.MustElement()
	el.Append(childEl)
	grandchild := s.newView(nil)
	s.Require().NoError(child.AddRegion("inner", grandchild))
	s.Require().NoError(v.AddRegion("child", child))

	m := v.Model()
	picks := 0
	v.On(s, "pick", func(model.Event) { picks++ })

	li := el.Find("li")[0]
	goquery.Trigger(li, "click")
	s.Equal(1, picks)

	v.Destroy()

	s.Equal(Destroyed, v.State())
	s.Nil(v.Model())
	s.Nil(el.Parent())
	s.Equal("<main></main>", s.container.OuterHtml())

	s.Equal(0, v.Regions().Len())
	s.Equal(Destroyed, child.State())
	s.Equal(Destroyed, grandchild.State())
	s.Equal(0, child.Regions().Len())

	goquery.Trigger(li, "click")
	s.Equal(1, picks)
	s.Equal(0, s.doc.ListenerCount(el))

	m.Set("title", "changed")
	title, _ := el.Attr("title")
	s.Equal("t", title)
	s.Equal(0, m.Subscribers(model.ChangeEvent("title")))

	_, err := v.Element()
	s.ErrorIs(err, ErrDestroyed)
	_, err = v.Render()
	s.ErrorIs(err, ErrDestroyed)
}

func (s *DestroyTestSuite) TestDestroyNeverRendered() {
	calls := 0
	v := New(nil, WithDocument(s.doc), WithTemplate(func(*View) *template.Node {
		calls++
		return &template.Node{Tag: "div"}
	}))

	s.NotPanics(v.Destroy)
	s.Equal(0, calls)
	s.Equal(Destroyed, v.State())
	s.Nil(v.Model())

	noTemplate := New(nil, WithDocument(s.doc))
	s.NotPanics(noTemplate.Destroy)
}

func (s *DestroyTestSuite) TestDestroyTwice() {
	v := s.newView(nil)
	s.container.Append(v.MustElement())

	v.Destroy()
	s.NotPanics(v.Destroy)
	s.Equal(Destroyed, v.State())
}

func (s *DestroyTestSuite) TestDestroyFromHandler() {
	var v *View
	ran := []string{}
	v = New(nil, WithDocument(s.doc), WithTemplate(func(*View) *template.Node {
		return &template.Node{
			Tag: "button",
			On: map[string]template.Action{
				"click": template.Seq(
					template.Call(func(dom.Event) {
						ran = append(ran, "destroy")
						v.Destroy()
					}),
					template.Call(func(dom.Event) { ran = append(ran, "after") }),
				),
			},
		}
	}))
	el := v.MustElement()
	s.container.Append(el)

	s.NotPanics(func() { goquery.Trigger(el, "click") })
	s.Equal([]string{"destroy"}, ran)
	s.Nil(el.Parent())

	goquery.Trigger(el, "click")
	s.Equal([]string{"destroy"}, ran)
}

func (s *DestroyTestSuite) TestDestroyFromModelChange() {
	v := New(map[string]any{"gone": false}, WithDocument(s.doc), WithTemplate(func(v *View) *template.Node {
		return &template.Node{
			Tag: "p",
			Bind: map[string]template.Binding{
				"a": v.Bind("gone", func(_ dom.Element, value any) (any, bool) {
					if value == true {
						v.Destroy()
					}
					return value, true
				}),
				"b": v.Bind("gone", nil),
			},
		}
	}))
	el := v.MustElement()
	m := v.Model()

	s.NotPanics(func() { m.Set("gone", true) })
	s.Equal(Destroyed, v.State())

	b, _ := el.Attr("b")
	s.Equal("", b)
	_, hasB := el.Attr("b")
	s.False(hasB)
}

func (s *DestroyTestSuite) TestRemoveRegion() {
	v := s.newView(nil)
	child := s.newView(nil)
	s.Require().NoError(v.AddRegion("c", child))
	s.Require().ErrorIs(v.AddRegion("c", child), region.ErrExists)

	r, ok := v.Region("c")
	s.True(ok)
	s.Same(child, r)

	s.True(v.RemoveRegion("c"))
	s.False(v.RemoveRegion("c"))
	s.Equal(Destroyed, child.State())
}

func (s *DestroyTestSuite) TestListenToAfterDestroy() {
	v := s.newView(nil)
	v.Destroy()

	el := s.doc.CreateElement("div")
	unlisten := v.ListenTo(el, "click", func(dom.Event) {})
	s.NotPanics(func() { unlisten() })
	s.Equal(0, s.doc.ListenerCount(el))

	v.On(s, "x", func(model.Event) { s.Fail("handler ran after destroy") })
	v.Fire("x", nil)
}

func (s *DestroyTestSuite) TestDestroyReleasesElements() {
	for i := 0; i < 1000; i++ {
		v := s.newView(map[string]any{"title": i})
		s.container.Append(v.MustElement())
		v.Destroy()
	}

	s.Eventually(func() bool {
		runtime.GC()
		return s.doc.Wrapped() < 100
	}, 5*time.Second, 20*time.Millisecond)
}
