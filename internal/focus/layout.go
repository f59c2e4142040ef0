package focus

import (
	"strings"

	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/quirks"
)

// Without layout, "content overflows" is approximated by a declared
// overflow of auto or scroll.

func hasCSSOverflowScroll(el dom.Element) bool {
	for _, prop := range []string{"overflow", "overflow-x", "overflow-y"} {
		switch el.ComputedStyle(prop) {
		case "auto", "scroll":
			return true
		}
	}
	return false
}

func hasCSSDisplayFlex(el dom.Element) bool {
	return strings.Contains(el.ComputedStyle("display"), "flex")
}

func userModifyWritable(el dom.Element) bool {
	return strings.Contains(el.ComputedStyle("-webkit-user-modify"), "write")
}

func isDivOrSpan(tag string) bool {
	return tag == "div" || tag == "span"
}

// isScrollableContainer reports whether el scrolls its content. With a
// child tag, el is checked as the scroll parent of that child.
func isScrollableContainer(el dom.Element, childTag string) bool {
	if childTag != "" {
		if !isDivOrSpan(childTag) {
			return false
		}
		if !isDivOrSpan(el.Tag()) && !hasCSSOverflowScroll(el) {
			return false
		}
	} else if !isDivOrSpan(el.Tag()) {
		return false
	}
	return hasCSSOverflowScroll(el)
}

func isSVG(el dom.Element) bool {
	return el.Tag() == "svg" || el.OwnerSVG() != nil
}

func isSVGLink(el dom.Element) bool {
	return el.Tag() == "a" && el.OwnerSVG() != nil && dom.HasAttr(el, "xlink:href")
}

// hasFocusMethod reports whether script can call focus() on el.
func (c *Classifier) hasFocusMethod(el dom.Element) bool {
	if !isSVG(el) {
		return true
	}
	return !c.env.Quirks.Has(quirks.SvgNoFocusMethod) && !c.env.Quirks.Has(quirks.SvgNoTabindexProperty)
}

func isBrokenImage(img dom.Element) bool {
	src, ok := img.Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return true
	}
	return dom.AttrValue(img, "width") == "0" || dom.AttrValue(img, "height") == "0"
}

func isTextInput(el dom.Element) bool {
	if el.Tag() != "input" {
		return false
	}
	switch strings.ToLower(dom.AttrValue(el, "type")) {
	case "", "text", "password":
		return true
	}
	return false
}
