package focus

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/supports"
)

// TabindexKind distinguishes the three states of the tabindex attribute.
type TabindexKind int

const (
	// TabindexAbsent means the attribute is not present.
	TabindexAbsent TabindexKind = iota
	// TabindexInvalid means the attribute is present but not an integer.
	TabindexInvalid
	// TabindexValue means the attribute holds an integer.
	TabindexValue
)

// Tabindex is the parsed tabindex attribute.
type Tabindex struct {
	Kind  TabindexKind
	Value int // meaningful for TabindexValue only
}

var (
	validTabindex         = regexp.MustCompile(`^\s*[-+]?[0-9]+\s*$`)
	validTabindexTrailing = regexp.MustCompile(`^\s*[-+]?[0-9]+`)
)

// ParseTabindex parses a raw attribute. When trailing is set, characters
// after the leading integer are ignored ("3x" is 3), as some engines do.
func ParseTabindex(raw string, present, trailing bool) Tabindex {
	if !present {
		return Tabindex{Kind: TabindexAbsent}
	}
	pattern := validTabindex
	if trailing {
		pattern = validTabindexTrailing
	}
	m := pattern.FindString(raw)
	if m == "" {
		return Tabindex{Kind: TabindexInvalid}
	}
	n, err := strconv.Atoi(trimSpaceAndPlus(m))
	if err != nil {
		// out of range
		return Tabindex{Kind: TabindexInvalid}
	}
	return Tabindex{Kind: TabindexValue, Value: n}
}

func trimSpaceAndPlus(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	if start < end && s[start] == '+' {
		start++
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// IsValue reports whether the attribute holds an integer.
func (t Tabindex) IsValue() bool {
	return t.Kind == TabindexValue
}

// Negative reports an explicit negative value. Absent and invalid are not
// negative.
func (t Tabindex) Negative() bool {
	return t.Kind == TabindexValue && t.Value < 0
}

// NonNegative reports an explicit value >= 0.
func (t Tabindex) NonNegative() bool {
	return t.Kind == TabindexValue && t.Value >= 0
}

// TabbableOrNone is true unless the value is explicitly negative.
func (t Tabindex) TabbableOrNone() bool {
	return !t.Negative()
}

func (t Tabindex) String() string {
	switch t.Kind {
	case TabindexAbsent:
		return "absent"
	case TabindexInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("%d", t.Value)
	}
}

// tabindex parses the element's attribute for the environment. Engines
// that focus elements with an unparseable tabindex treat it as -1.
func (c *Classifier) tabindex(el dom.Element) Tabindex {
	raw, present := el.Attr("tabindex")
	t := ParseTabindex(raw, present, c.env.Caps.Has(supports.FocusTabindexTrailingCharacters))
	if t.Kind == TabindexInvalid && c.env.Caps.Has(supports.FocusInvalidTabindex) {
		return Tabindex{Kind: TabindexValue, Value: -1}
	}
	return t
}

// effectiveTabindex mirrors the tabIndex property: the attribute value when
// it holds one, the element type's default otherwise.
func (c *Classifier) effectiveTabindex(el dom.Element) int {
	if t := c.tabindex(el); t.IsValue() {
		return t.Value
	}
	if nativelyTabbable(el) {
		return 0
	}
	return -1
}

// nativelyTabbable reports element types with a default tabIndex of 0.
func nativelyTabbable(el dom.Element) bool {
	switch el.Tag() {
	case "a":
		if el.OwnerSVG() != nil {
			return dom.HasAttr(el, "xlink:href")
		}
		return dom.HasAttr(el, "href")
	case "area":
		return dom.HasAttr(el, "href")
	case "button", "select", "textarea", "iframe", "object", "embed", "keygen":
		return true
	case "input":
		return dom.AttrValue(el, "type") != "hidden"
	case "summary":
		p := el.Parent()
		return p != nil && p.Tag() == "details"
	case "audio", "video":
		return dom.HasAttr(el, "controls")
	}
	return dom.HasAttr(el, "contenteditable")
}
