package htmldoc

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/roach88/focusnav/internal/dom"
)

// Document is a parsed, read-only HTML document.
type Document struct {
	root     *html.Node
	docs     []*html.Node // top-level document first, then nested frame documents
	elements []*Element   // composed preorder
	byNode   map[*html.Node]*Element
	ids      map[string]*Element
}

// Parse reads HTML markup.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	d := &Document{
		root:   root,
		byNode: make(map[*html.Node]*Element),
		ids:    make(map[string]*Element),
	}
	d.addDocument(root, nil)
	return d, nil
}

// ParseString parses HTML held in a string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// ParseFile parses an HTML file.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// addDocument registers a (possibly nested) document under frame.
func (d *Document) addDocument(root *html.Node, frame *Element) {
	d.docs = append(d.docs, root)
	sc := &scope{doc: root}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		d.walk(c, nil, sc, frame, nil)
	}
}

func (d *Document) walk(n *html.Node, parent *Element, sc *scope, frame, host *Element) {
	if n.Type != html.ElementNode {
		return
	}
	if n.Data == "template" && n.Namespace == "" {
		// template content is inert; shadow root templates are claimed by
		// their parent below
		return
	}

	e := &Element{
		node:   n,
		doc:    d,
		parent: parent,
		frame:  frame,
		host:   host,
		scope:  sc,
		index:  len(d.elements),
		decls:  parseDeclarations(attr(n, "style")),
	}
	d.elements = append(d.elements, e)
	d.byNode[n] = e
	sc.elements = append(sc.elements, e)
	if id := attr(n, "id"); id != "" {
		if _, dup := d.ids[id]; !dup {
			d.ids[id] = e
		}
	}

	var shadowTemplate *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isShadowRootTemplate(c) {
			shadowTemplate = c
			break
		}
	}
	if shadowTemplate != nil {
		e.shadow = &scope{doc: sc.doc}
		e.delegates = hasAttr(shadowTemplate, "shadowrootdelegatesfocus")
		for c := shadowTemplate.FirstChild; c != nil; c = c.NextSibling {
			d.walk(c, nil, e.shadow, frame, e)
		}
	}

	if nested := nestedDocument(n); nested != nil {
		d.addDocument(nested, e)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c == shadowTemplate {
			continue
		}
		d.walk(c, e, sc, frame, host)
	}
	e.last = len(d.elements) - 1
}

func isShadowRootTemplate(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != "template" || n.Namespace != "" {
		return false
	}
	mode := strings.ToLower(attr(n, "shadowrootmode"))
	return mode == "open" || mode == "closed"
}

// DocumentElement returns the <html> element of the top-level document.
func (d *Document) DocumentElement() dom.Element {
	for _, e := range d.elements {
		if e.frame == nil && e.parent == nil && e.host == nil {
			return e
		}
	}
	return nil
}

// Elements returns every registered element in composed preorder.
func (d *Document) Elements() []dom.Element {
	out := make([]dom.Element, len(d.elements))
	for i, e := range d.elements {
		out[i] = e
	}
	return out
}

// ByID returns the first element carrying the id, searching nested
// documents and shadow trees as well.
func (d *Document) ByID(id string) (dom.Element, bool) {
	e, ok := d.ids[id]
	if !ok {
		return nil, false
	}
	return e, true
}

// Select evaluates an XPath expression against the top-level document and
// every nested document and returns the matching elements in composed order.
// Matches inside inert templates are dropped.
func (d *Document) Select(expr string) ([]dom.Element, error) {
	seen := make(map[*Element]bool)
	var matched []*Element
	for _, root := range d.docs {
		nodes, err := htmlquery.QueryAll(root, expr)
		if err != nil {
			return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
		}
		for _, n := range nodes {
			e, ok := d.byNode[n]
			if !ok || seen[e] {
				continue
			}
			seen[e] = true
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].index < matched[j].index })

	out := make([]dom.Element, len(matched))
	for i, e := range matched {
		out[i] = e
	}
	return out, nil
}

// Selector returns a context resolving the XPath expression against d.
func (d *Document) Selector(expr string) dom.Context {
	return selector{doc: d, expr: expr}
}

type selector struct {
	doc  *Document
	expr string
}

func (s selector) Elements() ([]dom.Element, error) {
	return s.doc.Select(s.expr)
}

// scope is a document or shadow tree.
type scope struct {
	doc      *html.Node
	elements []*Element
}

// ImagesUsingMap implements dom.Scope.
func (s *scope) ImagesUsingMap(name string) []dom.Element {
	if name == "" {
		return nil
	}
	var out []dom.Element
	for _, e := range s.elements {
		if e.Tag() != "img" {
			continue
		}
		if strings.TrimSpace(attr(e.node, "usemap")) == "#"+name {
			out = append(out, e)
		}
	}
	return out
}

func attr(n *html.Node, name string) string {
	v, _ := lookupAttr(n, name)
	return v
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := lookupAttr(n, name)
	return ok
}

func lookupAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		if strings.EqualFold(key, name) {
			return a.Val, true
		}
	}
	return "", false
}
