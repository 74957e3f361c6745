package template

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/gowade/view/utils/htmlutils"
)

const (
	BindAttrPrefix = "bind:"
	OnAttrPrefix   = "on:"
)

var (
	ErrSingleRoot    = errors.New("template markup must have exactly one root element")
	ErrAmbiguousCase = errors.New("directive attribute spelled with different letter cases")
)

// directiveAttr finds bind: and on: attribute names inside a raw start tag.
var directiveAttr = regexp.MustCompile(`\s((?i:` + BindAttrPrefix + `|` + OnAttrPrefix + `)[^\s=/>]+)`)

// ParseHTML converts markup into a template. Attributes named
// bind:<key>="prop" become Prop bindings and on:<event>[@selector]="a b"
// become FireEvent actions, several space separated names making a
// Sequence. Whitespace-only text and comments are dropped.
//
// The html tokenizer lowercases attribute names, so the letter case of
// directive keys (selectors, class names) is taken from the raw markup.
func ParseHTML(source string) (*Node, error) {
	names, err := directiveNames(source)
	if err != nil {
		return nil, err
	}

	nodes, err := htmlutils.FragmentFromString(source)
	if err != nil {
		return nil, err
	}

	var root *html.Node
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			if root != nil {
				return nil, ErrSingleRoot
			}
			root = n
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				return nil, ErrSingleRoot
			}
		}
	}

	if root == nil {
		return nil, ErrSingleRoot
	}

	node, err := fromHTML(root, names)
	if err != nil {
		return nil, err
	}

	return &node, nil
}

// directiveNames maps the lowercased name of every directive attribute in
// source to its spelling in the markup.
func directiveNames(source string) (map[string]string, error) {
	names := map[string]string{}

	z := html.NewTokenizer(strings.NewReader(source))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return names, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			for _, m := range directiveAttr.FindAllStringSubmatch(string(z.Raw()), -1) {
				lower := strings.ToLower(m[1])
				if prev, ok := names[lower]; ok && prev != m[1] {
					return nil, fmt.Errorf("%w: %q and %q", ErrAmbiguousCase, prev, m[1])
				}
				names[lower] = m[1]
			}
		}
	}
}

func fromHTML(hn *html.Node, names map[string]string) (Node, error) {
	n := Node{Tag: hn.Data}

	for _, attr := range hn.Attr {
		if original, ok := names[attr.Key]; ok {
			prefix, rest, _ := strings.Cut(original, ":")
			attr.Key = strings.ToLower(prefix) + ":" + rest
		}

		switch {
		case strings.HasPrefix(attr.Key, BindAttrPrefix):
			if n.Bind == nil {
				n.Bind = map[string]Binding{}
			}
			n.Bind[strings.TrimPrefix(attr.Key, BindAttrPrefix)] = Prop(strings.TrimSpace(attr.Val))

		case strings.HasPrefix(attr.Key, OnAttrPrefix):
			key := strings.TrimPrefix(attr.Key, OnAttrPrefix)
			action, err := fireActions(key, strings.Fields(attr.Val))
			if err != nil {
				return n, err
			}

			if n.On == nil {
				n.On = map[string]Action{}
			}
			n.On[key] = action

		default:
			if n.Attrs == nil {
				n.Attrs = map[string]string{}
			}
			n.Attrs[attr.Key] = attr.Val
		}
	}

	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			child, err := fromHTML(c, names)
			if err != nil {
				return n, err
			}
			n.Children = append(n.Children, child)
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				n.Children = append(n.Children, Node{Text: c.Data})
			}
		}
	}

	// a lone text child is kept as the node's own text
	if len(n.Children) == 1 && n.Children[0].IsText() {
		n.Text = n.Children[0].Text
		n.Children = nil
	}

	return n, nil
}

func fireActions(key string, names []string) (Action, error) {
	if _, _, err := ParseKey(key); err != nil {
		return nil, err
	}

	switch len(names) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrNoAction, key)
	case 1:
		return Fire(names[0]), nil
	}

	seq := make(Sequence, len(names))
	for i, name := range names {
		seq[i] = Fire(name)
	}

	return seq, nil
}
