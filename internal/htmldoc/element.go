package htmldoc

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/roach88/focusnav/internal/dom"
)

// Element implements dom.Element over a parsed node.
type Element struct {
	node      *html.Node
	doc       *Document
	parent    *Element
	frame     *Element
	host      *Element
	scope     *scope
	shadow    *scope
	delegates bool
	index     int
	last      int // index of the last composed descendant
	decls     map[string]string
}

var _ dom.Element = (*Element)(nil)

// Tag implements dom.Element.
func (e *Element) Tag() string {
	return strings.ToLower(e.node.Data)
}

// Attr implements dom.Element.
func (e *Element) Attr(name string) (string, bool) {
	return lookupAttr(e.node, name)
}

// Parent implements dom.Element.
func (e *Element) Parent() dom.Element {
	return wrap(e.parent)
}

// Children implements dom.Element.
func (e *Element) Children() []dom.Element {
	var out []dom.Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if child, ok := e.doc.byNode[c]; ok && child.parent == e {
			out = append(out, child)
		}
	}
	return out
}

// Frame implements dom.Element.
func (e *Element) Frame() dom.Element {
	return wrap(e.frame)
}

// Host implements dom.Element.
func (e *Element) Host() dom.Element {
	return wrap(e.host)
}

// HasShadowRoot implements dom.Element.
func (e *Element) HasShadowRoot() bool {
	return e.shadow != nil
}

// DelegatesFocus implements dom.Element.
func (e *Element) DelegatesFocus() bool {
	return e.shadow != nil && e.delegates
}

// OwnerSVG implements dom.Element.
func (e *Element) OwnerSVG() dom.Element {
	if e.node.Namespace != "svg" {
		return nil
	}
	for p := e.parent; p != nil; p = p.parent {
		if p.node.Namespace == "svg" && p.Tag() == "svg" {
			return p
		}
	}
	return nil
}

// Index implements dom.Element.
func (e *Element) Index() int {
	return e.index
}

// Scope implements dom.Element.
func (e *Element) Scope() dom.Scope {
	return e.scope
}

// String returns the element label.
func (e *Element) String() string {
	return dom.Label(e)
}

// contains reports whether other is e or one of its composed descendants,
// including content of nested documents.
func (e *Element) contains(other *Element) bool {
	return other.index >= e.index && other.index <= e.last
}

func wrap(e *Element) dom.Element {
	if e == nil {
		return nil
	}
	return e
}
