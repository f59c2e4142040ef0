package supports

import (
	"fmt"
	"sort"
)

// Capability names one probed engine behaviour.
type Capability string

const (
	FocusAreaTabindex                   Capability = "focusAreaTabindex"
	FocusAreaWithoutHref                Capability = "focusAreaWithoutHref"
	FocusAudioWithoutControls           Capability = "focusAudioWithoutControls"
	FocusBrokenImageMap                 Capability = "focusBrokenImageMap"
	FocusChildrenOfFocusableFlexbox     Capability = "focusChildrenOfFocusableFlexbox"
	FocusFieldset                       Capability = "focusFieldset"
	FocusFlexboxContainer               Capability = "focusFlexboxContainer"
	FocusFormDisabled                   Capability = "focusFormDisabled"
	FocusImgIsmap                       Capability = "focusImgIsmap"
	FocusImgUsemapTabindex              Capability = "focusImgUsemapTabindex"
	FocusInHiddenIframe                 Capability = "focusInHiddenIframe"
	FocusInvalidTabindex                Capability = "focusInvalidTabindex"
	FocusObjectSvg                      Capability = "focusObjectSvg"
	FocusObjectSwf                      Capability = "focusObjectSwf"
	FocusRedirectImgUsemap              Capability = "focusRedirectImgUsemap"
	FocusRedirectLegend                 Capability = "focusRedirectLegend"
	FocusScrollBody                     Capability = "focusScrollBody"
	FocusScrollContainer                Capability = "focusScrollContainer"
	FocusScrollContainerWithoutOverflow Capability = "focusScrollContainerWithoutOverflow"
	FocusSummary                        Capability = "focusSummary"
	FocusSvg                            Capability = "focusSvg"
	FocusSvgFocusableAttribute          Capability = "focusSvgFocusableAttribute"
	FocusSvgForeignobjectTabindex       Capability = "focusSvgForeignobjectTabindex"
	FocusSvgInIframe                    Capability = "focusSvgInIframe"
	FocusSvgNegativeTabindexAttribute   Capability = "focusSvgNegativeTabindexAttribute"
	FocusSvgTabindexAttribute           Capability = "focusSvgTabindexAttribute"
	FocusSvgUseTabindex                 Capability = "focusSvgUseTabindex"
	FocusTabindexTrailingCharacters     Capability = "focusTabindexTrailingCharacters"
	FocusTable                          Capability = "focusTable"
	FocusVideoWithoutControls           Capability = "focusVideoWithoutControls"
	ShadowRoot                          Capability = "shadowRoot"
	TabsequenceAreaAtImgPosition        Capability = "tabsequenceAreaAtImgPosition"
)

// Set maps capabilities to their probed value. A Set handed out by Cache is
// a snapshot; mutating it does not affect the cache.
type Set map[Capability]bool

// Has reports whether the capability is supported. Unknown capabilities are
// unsupported.
func (s Set) Has(c Capability) bool {
	return s[c]
}

// Names returns the capabilities present in the set in name order.
func (s Set) Names() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Supported returns the supported capabilities in name order.
func (s Set) Supported() []Capability {
	var out []Capability
	for _, c := range s.Names() {
		if s[c] {
			out = append(out, c)
		}
	}
	return out
}

// Known reports whether a capability has a registered probe.
func Known(c Capability) bool {
	_, ok := probeIndex[c]
	return ok
}

// ParseSet converts a name-keyed table into a Set, rejecting unknown names.
func ParseSet(table map[string]bool) (Set, error) {
	out := make(Set, len(table))
	for name, v := range table {
		c := Capability(name)
		if !Known(c) {
			return nil, fmt.Errorf("unknown capability %q", name)
		}
		out[c] = v
	}
	return out, nil
}
