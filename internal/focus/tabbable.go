package focus

import (
	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/quirks"
	"github.com/roach88/focusnav/internal/supports"
)

// outcome is the verdict of one tabbable rule.
type outcome int

const (
	pass outcome = iota // not decisive, continue with the next rule
	accept
	reject
)

func decide(ok bool) outcome {
	if ok {
		return accept
	}
	return reject
}

// subject carries what every rule needs about the element under test.
type subject struct {
	el    dom.Element
	tag   string
	frame dom.Element
	ti    Tabindex
	ex    Exceptions
}

type tabbableRule struct {
	name     string
	evaluate func(c *Classifier, s subject) outcome
}

// tabbableRules run in order; the first rule that does not pass decides.
// The fallback accepts elements whose effective tabindex is not negative.
var tabbableRules []tabbableRule

func init() {
	tabbableRules = []tabbableRule{
		{"no-keyboard-navigation", ruleNoKeyboardNavigation},
		{"browsing-context", ruleBrowsingContext},
		{"nested-svg-negative", ruleNestedSvgNegative},
		{"contenteditable", ruleContentEditable},
		{"structural-container", ruleStructuralContainer},
		{"restricted-types", ruleRestrictedTypes},
		{"use-element", ruleUseElement},
		{"svg-link", ruleSvgLink},
		{"svg-in-iframe", ruleSvgInIframe},
		{"svg-focusable-attribute", ruleSvgFocusableAttribute},
		{"svg-tabindex-property", ruleSvgTabindexProperty},
		{"audio", ruleAudio},
		{"video", ruleVideo},
		{"object", ruleObject},
		{"iframe", ruleIframe},
		{"scroll-container", ruleScrollContainer},
		{"image-map", ruleImageMap},
		{"user-modify", ruleUserModify},
		{"flexbox", ruleFlexbox},
		{"scrollable-container", ruleScrollableContainer},
		{"scrollable-parent", ruleScrollableParent},
		{"flexbox-parent", ruleFlexboxParent},
	}
}

// tabbable runs the rule cascade. It assumes el is focusable or that the
// caller deliberately skipped that check.
func (c *Classifier) tabbable(el dom.Element, ex Exceptions) bool {
	s := subject{el: el, tag: el.Tag(), frame: el.Frame(), ti: c.tabindex(el), ex: ex}
	for _, rule := range tabbableRules {
		switch rule.evaluate(c, s) {
		case accept:
			c.trace(el, rule.name, true)
			return true
		case reject:
			c.trace(el, rule.name, false)
			return false
		}
	}
	ok := c.effectiveTabindex(el) >= 0
	c.trace(el, "tabindex", ok)
	return ok
}

func (c *Classifier) trace(el dom.Element, rule string, tabbable bool) {
	c.logger.Debug("tabbable rule decided", "element", dom.Label(el), "rule", rule, "tabbable", tabbable)
}

func ruleNoKeyboardNavigation(c *Classifier, s subject) outcome {
	if c.env.Quirks.Has(quirks.NoKeyboardNavigation) {
		return reject
	}
	return pass
}

func ruleBrowsingContext(c *Classifier, s subject) outcome {
	if s.frame == nil {
		return pass
	}
	q := c.env.Quirks
	if q.Has(quirks.ForeignContextInert) {
		return reject
	}
	if c.tabindex(s.frame).Negative() {
		return reject
	}
	if !s.ex.Visible && q.Has(quirks.HiddenFrameDemotes) && !c.framesVisible(s.el) {
		return reject
	}
	if s.frame.Tag() == "object" && q.Has(quirks.ObjectFrameOpaque) {
		return reject
	}
	return pass
}

func ruleNestedSvgNegative(c *Classifier, s subject) outcome {
	if s.frame != nil && c.env.Quirks.Has(quirks.NestedSvgNegativeTabbable) && s.el.OwnerSVG() != nil && s.ti.Negative() {
		return accept
	}
	return pass
}

func ruleContentEditable(c *Classifier, s subject) outcome {
	if dom.HasAttr(s.el, "contenteditable") {
		return decide(s.ti.TabbableOrNone())
	}
	return pass
}

func ruleStructuralContainer(c *Classifier, s subject) outcome {
	switch s.tag {
	case "fieldset", "table", "td", "body":
		if !s.ti.NonNegative() {
			return reject
		}
	}
	return pass
}

func ruleRestrictedTypes(c *Classifier, s subject) outcome {
	if !c.env.Quirks.Has(quirks.RestrictedTabbableTypes) {
		return pass
	}
	switch {
	case isTextInput(s.el), s.tag == "select", s.tag == "textarea", userModifyWritable(s.el):
		return pass
	}
	return reject
}

func ruleUseElement(c *Classifier, s subject) outcome {
	if s.tag == "use" && s.ti.IsValue() && c.env.Quirks.Has(quirks.UseNegativeTabindexTabbable) {
		return accept
	}
	return pass
}

func ruleSvgLink(c *Classifier, s subject) outcome {
	if !isSVGLink(s.el) {
		return pass
	}
	if s.ti.TabbableOrNone() {
		return accept
	}
	if c.hasFocusMethod(s.el) && !c.env.Caps.Has(supports.FocusSvgNegativeTabindexAttribute) {
		return accept
	}
	return pass
}

func ruleSvgInIframe(c *Classifier, s subject) outcome {
	if s.tag == "svg" && c.env.Caps.Has(supports.FocusSvgInIframe) && s.ti.TabbableOrNone() {
		return accept
	}
	return pass
}

func ruleSvgFocusableAttribute(c *Classifier, s subject) outcome {
	if !c.env.Quirks.Has(quirks.SvgFocusViaAttribute) {
		return pass
	}
	caps := c.env.Caps
	focusableAttr := dom.HasAttr(s.el, "focusable")
	if s.tag == "svg" {
		if caps.Has(supports.FocusSvg) {
			return accept
		}
		return decide(focusableAttr || s.ti.NonNegative())
	}
	if s.el.OwnerSVG() != nil {
		if caps.Has(supports.FocusSvgTabindexAttribute) && s.ti.NonNegative() {
			return accept
		}
		return decide(focusableAttr)
	}
	return pass
}

func ruleSvgTabindexProperty(c *Classifier, s subject) outcome {
	if c.env.Quirks.Has(quirks.SvgNoTabindexProperty) && isSVG(s.el) {
		// keyboard focus works, script focus does not
		return decide(s.ex.OnlyTabbable)
	}
	return pass
}

func ruleAudio(c *Classifier, s subject) outcome {
	if s.tag != "audio" {
		return pass
	}
	if !dom.HasAttr(s.el, "controls") {
		return reject
	}
	if c.env.Quirks.Has(quirks.AudioControlsKeepTabbable) {
		return accept
	}
	return pass
}

func ruleVideo(c *Classifier, s subject) outcome {
	if s.tag != "video" {
		return pass
	}
	q := c.env.Quirks
	if !dom.HasAttr(s.el, "controls") {
		if q.Has(quirks.VideoWithoutControlsScriptOnly) {
			return reject
		}
	} else if q.Has(quirks.VideoControlsKeepTabbable) {
		return accept
	}
	return pass
}

func ruleObject(c *Classifier, s subject) outcome {
	if s.tag == "object" && c.env.Quirks.Has(quirks.ObjectNeverTabbable) {
		return reject
	}
	return pass
}

func ruleIframe(c *Classifier, s subject) outcome {
	if s.tag == "iframe" {
		// the frame's content takes keyboard focus, never the frame itself
		return reject
	}
	return pass
}

func ruleScrollContainer(c *Classifier, s subject) outcome {
	if !s.ex.Scrollable && c.env.Quirks.Has(quirks.ScrollContainerTabbable) && hasCSSOverflowScroll(s.el) {
		return decide(s.ti.TabbableOrNone())
	}
	return pass
}

func ruleImageMap(c *Classifier, s subject) outcome {
	if s.tag != "area" || !c.env.Quirks.Has(quirks.LayoutScriptFocusOnly) {
		return pass
	}
	if img := dom.ImageOfArea(s.el); img != nil && c.tabindex(img).Negative() {
		return reject
	}
	return pass
}

func ruleUserModify(c *Classifier, s subject) outcome {
	if c.env.Quirks.Has(quirks.LayoutScriptFocusOnly) && userModifyWritable(s.el) {
		return decide(c.effectiveTabindex(s.el) >= 0)
	}
	return pass
}

func ruleFlexbox(c *Classifier, s subject) outcome {
	if s.ex.Flexbox || !c.env.Quirks.Has(quirks.LayoutScriptFocusOnly) || !hasCSSDisplayFlex(s.el) {
		return pass
	}
	if s.ti.IsValue() {
		return decide(s.ti.NonNegative())
	}
	// decide as if the element were not a flex container
	ex := s.ex
	ex.Flexbox = true
	return decide(c.relevant(s.el, ex) && c.tabbable(s.el, ex))
}

func ruleScrollableContainer(c *Classifier, s subject) outcome {
	if c.env.Quirks.Has(quirks.LayoutScriptFocusOnly) && isScrollableContainer(s.el, "") {
		return reject
	}
	return pass
}

func ruleScrollableParent(c *Classifier, s subject) outcome {
	if !c.env.Quirks.Has(quirks.LayoutScriptFocusOnly) {
		return pass
	}
	if p := s.el.Parent(); p != nil && isScrollableContainer(p, s.tag) {
		return reject
	}
	return pass
}

func ruleFlexboxParent(c *Classifier, s subject) outcome {
	if !c.env.Quirks.Has(quirks.LayoutScriptFocusOnly) {
		return pass
	}
	if p := s.el.Parent(); p != nil && hasCSSDisplayFlex(p) {
		return decide(s.ti.NonNegative())
	}
	return pass
}
