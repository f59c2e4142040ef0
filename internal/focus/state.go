package focus

import (
	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/platform"
	"github.com/roach88/focusnav/internal/quirks"
	"github.com/roach88/focusnav/internal/supports"
)

// visible reports whether el is rendered within its own browsing context.
// An <area> is as visible as the image using its map.
func (c *Classifier) visible(el dom.Element) bool {
	if el.Tag() == "area" {
		img := dom.ImageOfArea(el)
		if img == nil {
			return false
		}
		el = img
	}
	switch el.ComputedStyle("visibility") {
	case "hidden", "collapse":
		return false
	}
	for n := el; n != nil; n = dom.ComposedParent(n) {
		if n.ComputedStyle("display") == "none" {
			return false
		}
		p := n.Parent()
		// a closed details renders only its first summary
		if p != nil && p.Tag() == "details" && !dom.HasAttr(p, "open") && n != dom.FirstChild(p, "summary") {
			return false
		}
	}
	return true
}

// framesVisible reports whether every frame element hosting el is rendered.
func (c *Classifier) framesVisible(el dom.Element) bool {
	for f := el.Frame(); f != nil; f = f.Frame() {
		if !c.visible(f) {
			return false
		}
	}
	return true
}

var formControls = map[string]bool{
	"input":    true,
	"select":   true,
	"textarea": true,
	"button":   true,
	"fieldset": true,
	"optgroup": true,
	"option":   true,
}

// disabled reports inert elements and disabled form controls.
func (c *Classifier) disabled(el dom.Element) bool {
	for n := el; n != nil; n = dom.ComposedParent(n) {
		if dom.HasAttr(n, "inert") {
			return true
		}
	}
	if c.env.Caps.Has(supports.FocusFormDisabled) || !formControls[el.Tag()] {
		return false
	}
	if dom.HasAttr(el, "disabled") {
		return true
	}
	var legend dom.Element
	for p := el.Parent(); p != nil; p = p.Parent() {
		switch p.Tag() {
		case "legend":
			legend = p
		case "optgroup":
			if el.Tag() == "option" && dom.HasAttr(p, "disabled") {
				return true
			}
		case "fieldset":
			if !dom.HasAttr(p, "disabled") {
				continue
			}
			// content of the fieldset's first legend stays enabled
			if legend != nil && legend == dom.FirstChild(p, "legend") {
				continue
			}
			return true
		}
	}
	return false
}

// validArea reports whether an <area> can take focus in this environment.
func (c *Classifier) validArea(el dom.Element) bool {
	if el.Tag() != "area" {
		return false
	}
	caps := c.env.Caps
	hasTabindex := dom.HasAttr(el, "tabindex")
	if !caps.Has(supports.FocusAreaTabindex) && hasTabindex {
		return false
	}
	img := dom.ImageOfArea(el)
	if img == nil || !c.visible(img) {
		return false
	}
	if !caps.Has(supports.FocusBrokenImageMap) && isBrokenImage(img) {
		return false
	}
	if !caps.Has(supports.FocusAreaWithoutHref) && !dom.HasAttr(el, "href") {
		return caps.Has(supports.FocusAreaTabindex) && hasTabindex
	}
	for p := dom.ComposedParent(img); p != nil; p = dom.ComposedParent(p) {
		if p.Tag() == "a" || p.Tag() == "button" {
			return false
		}
	}
	return true
}

// onlyTabbable reports elements reachable by Tab that script cannot focus.
func (c *Classifier) onlyTabbable(el dom.Element, ex Exceptions) bool {
	if !ex.Visible && !c.visible(el) {
		return false
	}
	q := c.env.Quirks
	if f := el.Frame(); f != nil && c.env.Platform.Is(platform.Gecko, platform.Trident, platform.Edge) {
		if c.tabindex(f).Negative() {
			return false
		}
	}
	ti := c.tabindex(el)
	if el.Tag() == "label" && q.Has(quirks.LabelOnlyTabbable) {
		return ti.NonNegative()
	}
	if isSVG(el) && !c.hasFocusMethod(el) {
		return isSVGLink(el) || dom.AttrValue(el, "focusable") == "true" || ti.NonNegative()
	}
	return false
}
