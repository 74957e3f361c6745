package htmlutils

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses source in the context of a body element, or of
// context when it is an element node. The returned nodes are detached.
func ParseFragment(source io.Reader, context *html.Node) ([]*html.Node, error) {
	if context == nil || context.Type != html.ElementNode {
		context = &html.Node{
			Type:     html.ElementNode,
			Data:     "body",
			DataAtom: atom.Body,
		}
	}

	nodes, err := html.ParseFragment(source, context)
	if err != nil {
		return nil, err
	}

	for _, node := range nodes {
		node.Parent = nil
		node.PrevSibling = nil
		node.NextSibling = nil
	}

	return nodes, nil
}

func FragmentFromString(htmlCode string) ([]*html.Node, error) {
	return ParseFragment(bytes.NewBufferString(strings.TrimSpace(htmlCode)), nil)
}
