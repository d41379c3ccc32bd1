// Package render turns custom cluster marker markup into opaque visual
// handles the host map can attach to a marker.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrMalformedMarkerContent is returned when marker markup does not parse to
// exactly one root element.
var ErrMalformedMarkerContent = errors.New("malformed marker content")

// Element is a parsed marker visual with a single root element.
type Element struct {
	Node *html.Node
}

// Tag returns the root element's tag name.
func (e *Element) Tag() string {
	return e.Node.Data
}

// Attr returns the value of the named attribute on the root element.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Node.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// String renders the element back to markup.
func (e *Element) String() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, e.Node); err != nil {
		return ""
	}
	return buf.String()
}

// HTMLRenderer parses marker markup as an HTML fragment in a <div> context.
type HTMLRenderer struct{}

// Render parses markup and returns its single root element. Whitespace and
// comments around the root are allowed; anything else is rejected.
func (HTMLRenderer) Render(markup string) (*Element, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMarkerContent, err)
	}

	var root *html.Node
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			if root != nil {
				return nil, fmt.Errorf("%w: more than one root element", ErrMalformedMarkerContent)
			}
			root = n
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				return nil, fmt.Errorf("%w: text outside the root element", ErrMalformedMarkerContent)
			}
		case html.CommentNode:
		default:
			return nil, fmt.Errorf("%w: unexpected node type %d", ErrMalformedMarkerContent, n.Type)
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedMarkerContent)
	}
	return &Element{Node: root}, nil
}
