package dom

import "fmt"

// Element is a borrowed reference to a tree element.
//
// Implementations must return comparable values (pointers) so that the same
// element obtained twice compares equal with ==.
type Element interface {
	// Tag returns the lowercase element name.
	Tag() string

	// Attr returns the attribute value and whether it is present. Namespaced
	// attributes use their qualified name, e.g. "xlink:href".
	Attr(name string) (string, bool)

	// ComputedStyle returns the value of a CSS property, "" when unset.
	// Inherited properties resolve through ancestors.
	ComputedStyle(property string) string

	// Parent returns the parent element in the same tree, nil at the root of
	// a document or shadow tree.
	Parent() Element

	// Children returns the child elements in tree order. Shadow tree and
	// nested document content is not included.
	Children() []Element

	// Frame returns the iframe or object element hosting the browsing
	// context this element lives in, nil in the top-level document.
	Frame() Element

	// Host returns the shadow host when the element lives in a shadow tree.
	Host() Element

	// HasShadowRoot reports whether the element hosts a shadow tree.
	HasShadowRoot() bool

	// DelegatesFocus reports whether the element's shadow root delegates focus.
	DelegatesFocus() bool

	// OwnerSVG returns the nearest ancestor <svg> for SVG content, nil for
	// the outermost <svg> and for non-SVG elements.
	OwnerSVG() Element

	// Index returns the element's position in composed document order.
	// Shadow tree content follows its host, nested browsing context content
	// follows its frame element.
	Index() int

	// Scope returns the tree (document or shadow root) the element belongs to.
	Scope() Scope
}

// Scope exposes tree-local lookups.
type Scope interface {
	// ImagesUsingMap returns the <img> elements whose usemap references the
	// named map, in document order.
	ImagesUsingMap(name string) []Element
}

// HasAttr reports whether the attribute is present.
func HasAttr(el Element, name string) bool {
	_, ok := el.Attr(name)
	return ok
}

// AttrValue returns the attribute value or "" when absent.
func AttrValue(el Element, name string) string {
	v, _ := el.Attr(name)
	return v
}

// ComposedParent returns the parent, crossing from a shadow tree root to its host.
func ComposedParent(el Element) Element {
	if p := el.Parent(); p != nil {
		return p
	}
	return el.Host()
}

// Ancestors returns the composed ancestors of el, nearest first. The walk
// stops at the root of el's browsing context.
func Ancestors(el Element) []Element {
	var out []Element
	for p := ComposedParent(el); p != nil; p = ComposedParent(p) {
		out = append(out, p)
	}
	return out
}

// Label renders a short human readable reference: tag#id when the element
// has an id, tag@index otherwise.
func Label(el Element) string {
	if el == nil {
		return "<nil>"
	}
	if id, ok := el.Attr("id"); ok && id != "" {
		return el.Tag() + "#" + id
	}
	return fmt.Sprintf("%s@%d", el.Tag(), el.Index())
}

// FirstChild returns the first child element of el with the tag, nil when
// there is none.
func FirstChild(el Element, tag string) Element {
	for _, c := range el.Children() {
		if c.Tag() == tag {
			return c
		}
	}
	return nil
}

// ImageOfArea returns the first <img> using the <map> that contains area,
// nil when the area is outside a map or no image references it.
func ImageOfArea(area Element) Element {
	var m Element
	for p := area.Parent(); p != nil; p = p.Parent() {
		if p.Tag() == "map" {
			m = p
			break
		}
	}
	if m == nil {
		return nil
	}
	name := AttrValue(m, "name")
	if name == "" {
		name = AttrValue(m, "id")
	}
	if name == "" {
		return nil
	}
	images := area.Scope().ImagesUsingMap(name)
	if len(images) == 0 {
		return nil
	}
	return images[0]
}
