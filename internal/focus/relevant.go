package focus

import (
	"strings"

	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/supports"
)

// relevant reports whether the element type or state can ever take focus,
// ignoring visibility and disabled state.
func (c *Classifier) relevant(el dom.Element, ex Exceptions) bool {
	caps := c.env.Caps
	tag := el.Tag()
	ti := c.tabindex(el)

	if !ex.Shadow && el.DelegatesFocus() {
		return true
	}

	switch tag {
	case "input":
		return !strings.EqualFold(dom.AttrValue(el, "type"), "hidden")
	case "select", "button", "textarea":
		return true
	case "legend":
		if caps.Has(supports.FocusRedirectLegend) {
			return true
		}
	case "label":
		return true
	case "area":
		return c.validArea(el)
	case "object":
		if dom.HasAttr(el, "usemap") {
			return false
		}
		switch dom.AttrValue(el, "type") {
		case "image/svg+xml":
			return caps.Has(supports.FocusObjectSvg)
		case "application/x-shockwave-flash":
			return caps.Has(supports.FocusObjectSwf)
		}
		return true
	case "iframe", "embed", "keygen":
		return true
	case "audio":
		if dom.HasAttr(el, "controls") || caps.Has(supports.FocusAudioWithoutControls) {
			return true
		}
	case "video":
		if dom.HasAttr(el, "controls") || caps.Has(supports.FocusVideoWithoutControls) {
			return true
		}
	case "summary":
		if caps.Has(supports.FocusSummary) {
			return true
		}
	case "img":
		if dom.HasAttr(el, "usemap") {
			return (ti.IsValue() && caps.Has(supports.FocusImgUsemapTabindex)) || caps.Has(supports.FocusRedirectImgUsemap)
		}
	case "table", "td":
		if caps.Has(supports.FocusTable) {
			return true
		}
	case "fieldset":
		if caps.Has(supports.FocusFieldset) {
			return true
		}
	}

	if tag == "a" && el.OwnerSVG() == nil && dom.HasAttr(el, "href") {
		return true
	}
	if dom.HasAttr(el, "contenteditable") {
		return true
	}

	if isSVG(el) {
		if r, ok := c.svgRelevant(el, ti); ok {
			return r
		}
	}

	if ti.IsValue() {
		return true
	}
	if userModifyWritable(el) {
		return true
	}

	if tag == "img" && dom.HasAttr(el, "ismap") && caps.Has(supports.FocusImgIsmap) {
		for p := el.Parent(); p != nil; p = p.Parent() {
			if p.Tag() == "a" && dom.HasAttr(p, "href") {
				return true
			}
		}
	}

	if !ex.Scrollable && caps.Has(supports.FocusScrollContainer) {
		if caps.Has(supports.FocusScrollContainerWithoutOverflow) {
			if isScrollableContainer(el, "") {
				return true
			}
		} else if hasCSSOverflowScroll(el) {
			return true
		}
	}

	if !ex.Flexbox && caps.Has(supports.FocusFlexboxContainer) && hasCSSDisplayFlex(el) {
		return true
	}

	if p := el.Parent(); p != nil {
		if !ex.Scrollable && caps.Has(supports.FocusScrollBody) && isScrollableContainer(p, tag) {
			return true
		}
		if caps.Has(supports.FocusChildrenOfFocusableFlexbox) && hasCSSDisplayFlex(p) {
			return true
		}
	}

	return false
}

// svgRelevant decides SVG elements. ok is false when the generic tabindex
// rules should decide.
func (c *Classifier) svgRelevant(el dom.Element, ti Tabindex) (relevant, ok bool) {
	caps := c.env.Caps
	tag := el.Tag()

	switch {
	case tag == "use" && ti.Kind != TabindexAbsent && !caps.Has(supports.FocusSvgUseTabindex):
		return false, true
	case tag == "foreignobject":
		return ti.Kind != TabindexAbsent && caps.Has(supports.FocusSvgForeignobjectTabindex), true
	case isSVGLink(el):
		return true, true
	}

	if c.hasFocusMethod(el) && !caps.Has(supports.FocusSvgNegativeTabindexAttribute) && ti.Negative() {
		return false, true
	}

	focusableAttr := caps.Has(supports.FocusSvgFocusableAttribute) && dom.AttrValue(el, "focusable") == "true"
	if tag == "svg" {
		return ti.IsValue() || caps.Has(supports.FocusSvg) || caps.Has(supports.FocusSvgInIframe) || focusableAttr, true
	}
	return (caps.Has(supports.FocusSvgTabindexAttribute) && ti.IsValue()) || focusableAttr, true
}
