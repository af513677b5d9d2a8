// element.go defines the node tree built by the parser.
package rdml

import "strings"

// Node is either an *Element or a Text.
type Node interface {
	node()
}

// Text is decoded character data.
type Text string

func (Text) node() {}

// Element is a markup element with attributes and child nodes.
type Element struct {
	Name  string            `json:"name"`
	Attrs map[string]string `json:"attrs,omitempty"`
	Nodes []Node            `json:"nodes,omitempty"`
	Line  int               `json:"line"` // line of the start tag
}

func (*Element) node() {}

// voidElements are always childless no matter how they are written.
var voidElements = map[string]bool{
	"br": true,
}

// IsVoid reports whether the element never has children.
func (e *Element) IsVoid() bool {
	return voidElements[e.Name]
}

// Children returns the child elements, skipping text.
func (e *Element) Children() []*Element {
	var els []*Element
	for _, n := range e.Nodes {
		if el, ok := n.(*Element); ok {
			els = append(els, el)
		}
	}
	return els
}

// Data concatenates the direct text children.
func (e *Element) Data() string {
	var sb strings.Builder
	for _, n := range e.Nodes {
		if t, ok := n.(Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

// Attr returns the named attribute and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}
