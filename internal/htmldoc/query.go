package htmldoc

import (
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/roach88/focusnav/internal/dom"
)

// quickXPath matches the element types and attributes that commonly make an
// element focus relevant. Elements focusable only through layout (scroll
// containers, flex children) are not matched.
const quickXPath = `//a[@href] | //area[@href] | //audio[@controls] | //video[@controls] | //button | //details/summary` +
	` | //embed | //iframe | //input[not(@type='hidden')] | //keygen | //label | //legend | //object | //select | //textarea` +
	` | //img[@usemap] | //table | //td | //fieldset | //*[@contenteditable] | //*[@tabindex] | //*[@focusable]` +
	` | //*[local-name()='svg'] | //*[local-name()='a' and @*[local-name()='href']]`

var _ dom.Querier = (*Document)(nil)

// Candidates implements dom.Querier. Candidates never cross into a nested
// browsing context: a frame has its own navigation scope.
func (d *Document) Candidates(root dom.Element, strategy dom.Strategy, includeRoot bool) []dom.Element {
	r, ok := root.(*Element)
	if !ok || r.doc != d {
		return nil
	}

	var quick map[*html.Node]bool
	if strategy == dom.Quick || strategy == "" {
		quick = d.quickMatches(r)
	}

	var out []dom.Element
	for i := r.index; i <= r.last; i++ {
		e := d.elements[i]
		if e == r && !includeRoot {
			continue
		}
		if e.frame != r.frame {
			continue
		}
		if quick != nil && !quick[e.node] && !e.HasShadowRoot() {
			continue
		}
		out = append(out, e)
	}
	return out
}

// quickMatches evaluates the quick selector on the document that owns root.
func (d *Document) quickMatches(root *Element) map[*html.Node]bool {
	nodes, err := htmlquery.QueryAll(root.scope.doc, quickXPath)
	if err != nil {
		// constant expression
		panic(err)
	}
	out := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		out[n] = true
	}
	return out
}
