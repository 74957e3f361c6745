package goquery

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gowade/view/dom"
)

const (
	Awesome = "Awesome!"
	HaiNT   = "<chmk>HaiNT</chmk>"
	P       = "<p>:D</p>"
)

func parseOne(t *testing.T, d *Document, src string) dom.Element {
	els, err := d.Parse(src)
	require.NoError(t, err)
	require.Len(t, els, 1)
	return els[0]
}

func TestEverything(t *testing.T) {
	d := NewDocument()
	s := parseOne(t, d, "<div><wade>"+Awesome+"</wade></div>")

	require.Equal(t, "div", s.TagName())

	wade := s.Find("wade")
	require.Len(t, wade, 1)
	require.Equal(t, Awesome, wade[0].Html())

	haint := parseOne(t, d, HaiNT)
	wade[0].ReplaceWith(haint)
	require.Equal(t, HaiNT, s.Html())

	tf := parseOne(t, d, "<div>"+P+"</div>")
	p := tf.Find("p")
	s.Append(p...)

	require.Equal(t, "<div>"+HaiNT+P+"</div>", s.OuterHtml())
	require.Equal(t, "", tf.Html())
}

func TestCanonicalElements(t *testing.T) {
	d := NewDocument()
	root := parseOne(t, d, `<ul><li class="a">1</li></ul>`)
	li := root.Find("li")[0]

	require.Same(t, li, root.Children()[0])
	require.Same(t, root, li.Parent())
	require.Same(t, li, root.Find(".a")[0])
}

func TestAttrsAndClasses(t *testing.T) {
	d := NewDocument()
	el := d.CreateElement("SPAN")
	require.Equal(t, "span", el.TagName())

	el.SetAttr("Title", "x")
	v, ok := el.Attr("title")
	require.True(t, ok)
	require.Equal(t, "x", v)

	el.RemoveAttr("title")
	_, ok = el.Attr("title")
	require.False(t, ok)

	el.SetClass("on", true)
	el.SetClass("big", true)
	el.SetClass("on", true)
	require.True(t, el.HasClass("on"))
	cl, _ := el.Attr("class")
	require.Equal(t, "on big", cl)

	el.SetClass("on", false)
	require.False(t, el.HasClass("on"))
	require.True(t, el.HasClass("big"))

	el.SetText("<b>")
	require.Equal(t, "<b>", el.Text())
	require.Equal(t, `<span class="big">&lt;b&gt;</span>`, el.OuterHtml())

	require.NoError(t, el.SetHtml("<b>bold</b>"))
	require.Equal(t, "bold", el.Text())
	require.Len(t, el.Children(), 1)
}

func TestSetHtmlContext(t *testing.T) {
	d := NewDocument()

	tbody := d.CreateElement("tbody")
	require.NoError(t, tbody.SetHtml("<tr><td>x</td></tr>"))
	require.Equal(t, "<tbody><tr><td>x</td></tr></tbody>", tbody.OuterHtml())

	custom := d.CreateElement("wade")
	require.NoError(t, custom.SetHtml("<b>y</b>"))
	require.Equal(t, "<wade><b>y</b></wade>", custom.OuterHtml())

	text := d.CreateText("t")
	require.ErrorIs(t, text.SetHtml("<b></b>"), dom.ErrorNotElement)
}

func TestWrappersAreReleased(t *testing.T) {
	d := NewDocument()
	for i := 0; i < 1000; i++ {
		root := parseOne(t, d, "<ul><li>a</li></ul>")
		unlisten := root.Listen("click", func(dom.Event) {})
		root.Find("li")[0].Remove()
		unlisten()
	}

	require.Eventually(t, func() bool {
		runtime.GC()
		return d.Wrapped() < 100
	}, 5*time.Second, 20*time.Millisecond)

	kept := parseOne(t, d, "<p></p>")
	runtime.GC()
	require.Same(t, kept, d.Wrap(kept.(*Element).Node()))
}

func TestRemove(t *testing.T) {
	d := NewDocument()
	root := parseOne(t, d, `<div><p>a</p></div>`)
	p := root.Find("p")[0]

	p.Remove()
	require.Nil(t, p.Parent())
	require.Equal(t, "", root.Html())

	require.NotPanics(t, p.Remove)
}

func TestCompile(t *testing.T) {
	d := NewDocument()
	root := parseOne(t, d, `<ul><li class="item">1</li><li>2</li></ul>`)

	m, err := d.Compile("li.item")
	require.NoError(t, err)
	require.True(t, m.Match(root.Children()[0]))
	require.False(t, m.Match(root.Children()[1]))
	require.False(t, m.Match(d.CreateText("li")))

	_, err = d.Compile("li[")
	require.Error(t, err)
}

func TestDispatchBubbles(t *testing.T) {
	d := NewDocument()
	root := parseOne(t, d, `<div><ul><li>1</li></ul></div>`)
	li := root.Find("li")[0]
	ul := root.Find("ul")[0]

	var order []string
	root.Listen("click", func(e dom.Event) {
		order = append(order, "div")
		require.Same(t, li, e.Target())
		require.Same(t, root, e.CurrentTarget())
	})
	ul.Listen("click", func(e dom.Event) { order = append(order, "ul") })
	li.Listen("click", func(e dom.Event) { order = append(order, "li") })
	li.Listen("keyup", func(e dom.Event) { order = append(order, "keyup") })

	Trigger(li, "click")
	require.Equal(t, []string{"li", "ul", "div"}, order)
}

func TestStopPropagation(t *testing.T) {
	d := NewDocument()
	root := parseOne(t, d, `<div><p>x</p></div>`)
	p := root.Find("p")[0]

	fired := 0
	root.Listen("click", func(dom.Event) { fired++ })
	p.Listen("click", func(e dom.Event) { e.StopPropagation() })

	ev := Trigger(p, "click")
	require.True(t, ev.PropagationStopped())
	require.Equal(t, 0, fired)
}

func TestUnlistenDuringDispatch(t *testing.T) {
	d := NewDocument()
	el := d.CreateElement("button")

	var second dom.Unlisten
	calls := []string{}
	el.Listen("click", func(dom.Event) {
		calls = append(calls, "first")
		second()
	})
	second = el.Listen("click", func(dom.Event) { calls = append(calls, "second") })

	Trigger(el, "click")
	require.Equal(t, []string{"first"}, calls)
	require.Equal(t, 1, d.ListenerCount(el))

	second()
	require.Equal(t, 1, d.ListenerCount(el))
}

func TestDebugInfo(t *testing.T) {
	d := NewDocument()
	root := parseOne(t, d, `<section><b id="x" class="y">t</b></section>`)
	b := root.Find("b")[0]

	require.Equal(t, "b#x.y (section>)", dom.DebugInfo(b))
	require.Contains(t, dom.ElementError(b, dom.ErrorDetached).Error(), "b#x.y")
	require.ErrorIs(t, dom.ElementError(b, dom.ErrorDetached), dom.ErrorDetached)
}
