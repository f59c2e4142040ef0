package sequence

import (
	"sort"

	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/focus"
	"github.com/roach88/focusnav/internal/quirks"
	"github.com/roach88/focusnav/internal/supports"
)

// sorter carries the environment-dependent parts of sorting.
type sorter struct {
	classifier *focus.Classifier
	areaAtImg  bool
	shadowed   bool
}

func newSorter(c *focus.Classifier) sorter {
	env := c.Environment()
	return sorter{
		classifier: c,
		areaAtImg:  env.Caps.Has(supports.TabsequenceAreaAtImgPosition),
		shadowed:   env.Caps.Has(supports.ShadowRoot) && env.Quirks.Has(quirks.ShadowScopedSequence),
	}
}

// Sort orders elements for env. The input must be in document order.
func Sort(elements []dom.Element, env focus.Environment) []dom.Element {
	return newSorter(focus.New(env)).sort(elements)
}

func (s sorter) sort(elements []dom.Element) []dom.Element {
	if s.shadowed {
		return s.sortShadowed(elements, nil)
	}
	return s.sortElements(elements)
}

func (s sorter) sortElements(elements []dom.Element) []dom.Element {
	if s.areaAtImg {
		elements = sortArea(elements)
	}
	return s.sortTabindex(elements)
}

// sortTabindex moves positive tabindex elements to the front, ascending and
// stable. The remaining elements keep their relative order.
func (s sorter) sortTabindex(elements []dom.Element) []dom.Element {
	type keyed struct {
		el       dom.Element
		tabindex int
	}
	var positive []keyed
	rest := make([]dom.Element, 0, len(elements))
	for _, el := range elements {
		if ti := s.classifier.EffectiveTabindex(el); ti > 0 {
			positive = append(positive, keyed{el, ti})
			continue
		}
		rest = append(rest, el)
	}
	sort.SliceStable(positive, func(i, j int) bool {
		return positive[i].tabindex < positive[j].tabindex
	})
	out := make([]dom.Element, 0, len(elements))
	for _, k := range positive {
		out = append(out, k.el)
	}
	return append(out, rest...)
}

// sortArea moves each <area> to the document position of the image using
// its map. An image that is itself in the list is replaced by its areas.
func sortArea(elements []dom.Element) []dom.Element {
	type positioned struct {
		el  dom.Element
		pos int
	}
	imagesWithAreas := make(map[dom.Element]bool)
	items := make([]positioned, 0, len(elements))
	for _, el := range elements {
		pos := el.Index()
		if el.Tag() == "area" {
			if img := dom.ImageOfArea(el); img != nil {
				pos = img.Index()
				imagesWithAreas[img] = true
			}
		}
		items = append(items, positioned{el, pos})
	}
	if len(imagesWithAreas) == 0 {
		return elements
	}

	kept := items[:0]
	for _, it := range items {
		if it.el.Tag() == "img" && imagesWithAreas[it.el] {
			continue
		}
		kept = append(kept, it)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].pos < kept[j].pos
	})
	out := make([]dom.Element, len(kept))
	for i, it := range kept {
		out[i] = it.el
	}
	return out
}

// sortShadowed sorts the elements of host's tree (the document when host
// is nil). Each nested shadow tree is sorted on its own and expanded in
// place of its host; the host precedes its content when it is itself part
// of the sequence.
func (s sorter) sortShadowed(elements []dom.Element, host dom.Element) []dom.Element {
	groups := make(map[dom.Element][]dom.Element)
	members := make(map[dom.Element]bool)
	var units []dom.Element
	for _, el := range elements {
		unit := unitHost(el, host)
		if unit == nil {
			members[el] = true
			units = append(units, el)
			continue
		}
		if _, seen := groups[unit]; !seen && !members[unit] {
			units = append(units, unit)
		}
		groups[unit] = append(groups[unit], el)
	}
	if len(groups) == 0 {
		return s.sortElements(elements)
	}

	// a host precedes its shadow content in document order
	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Index() < units[j].Index()
	})

	var out []dom.Element
	for _, unit := range s.sortElements(units) {
		group, isHost := groups[unit]
		if !isHost {
			out = append(out, unit)
			continue
		}
		if members[unit] {
			out = append(out, unit)
		}
		out = append(out, s.sortShadowed(group, unit)...)
	}
	return out
}

// unitHost returns the host directly inside host's tree that el belongs
// to, nil when el itself lives in host's tree.
func unitHost(el, host dom.Element) dom.Element {
	h := el.Host()
	if h == host {
		return nil
	}
	for h != nil && h.Host() != host {
		h = h.Host()
	}
	return h
}

// moveContextToBeginning puts ctx first when it is part of the sequence.
func moveContextToBeginning(elements []dom.Element, ctx dom.Element) []dom.Element {
	pos := -1
	for i, el := range elements {
		if el == ctx {
			pos = i
			break
		}
	}
	if pos <= 0 {
		return elements
	}
	out := make([]dom.Element, 0, len(elements))
	out = append(out, ctx)
	out = append(out, elements[:pos]...)
	return append(out, elements[pos+1:]...)
}
