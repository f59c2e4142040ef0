package supports

import "fmt"

// Probe is a micro-test resolving one capability. Script is a JavaScript
// function expression returning a boolean, or a promise of one. It must only
// touch nodes it creates itself.
type Probe struct {
	Capability Capability
	Script     string
}

// harness wraps a probe body. run(markup, pick, check) mounts markup in a
// detached-from-layout wrapper, focuses pick(wrapper) and reports whether
// it became the active element, or the result of check(wrapper, target).
const harness = `async () => {
  const gif = 'data:image/gif;base64,R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7';
  const settle = (wrapper) => Promise.race([
    new Promise((resolve) => setTimeout(resolve, 250)),
    Promise.all([...wrapper.querySelectorAll('iframe, img, object')].map((el) =>
      new Promise((resolve) => { el.addEventListener('load', resolve, { once: true }); el.addEventListener('error', resolve, { once: true }); }))),
  ]);
  const run = async (markup, pick, check) => {
    const wrapper = document.createElement('div');
    wrapper.setAttribute('style', 'position:fixed;top:0;left:0;width:300px;height:300px;overflow:hidden;opacity:0');
    wrapper.innerHTML = markup.split('GIF').join(gif);
    document.body.appendChild(wrapper);
    await settle(wrapper);
    try {
      const target = pick(wrapper);
      if (!target) {
        return false;
      }
      const focus = target.focus || HTMLElement.prototype.focus;
      focus.call(target);
      if (check) {
        return Boolean(check(wrapper, target));
      }
      return document.activeElement === target;
    } finally {
      if (document.activeElement && document.activeElement.blur) {
        document.activeElement.blur();
      }
      wrapper.remove();
    }
  };
  %s
}`

const scrollMarkup = `<div style="width:100px;height:50px;%s"><div style="width:100px;height:500px">scroll</div></div>`

var probeBodies = []struct {
	capability Capability
	body       string
}{
	{FocusAreaTabindex, `return run('<map name="probe-map"><area shape="rect" coords="0,0,1,1" href="#void" tabindex="-1"></map><img usemap="#probe-map" src="GIF" width="1" height="1">', (w) => w.querySelector('area'));`},
	{FocusAreaWithoutHref, `return run('<map name="probe-map"><area shape="rect" coords="0,0,1,1"></map><img usemap="#probe-map" src="GIF" width="1" height="1">', (w) => w.querySelector('area'));`},
	{FocusAudioWithoutControls, `return run('<audio></audio>', (w) => w.querySelector('audio'));`},
	{FocusBrokenImageMap, `return run('<map name="probe-map"><area shape="rect" coords="0,0,1,1" href="#void"></map><img usemap="#probe-map" src="">', (w) => w.querySelector('area'));`},
	{FocusChildrenOfFocusableFlexbox, `return run('<div tabindex="-1" style="display:flex"><span style="display:block">hello</span></div>', (w) => w.querySelector('span'));`},
	{FocusFieldset, `return run('<fieldset><legend>legend</legend><p>content</p></fieldset>', (w) => w.querySelector('fieldset'));`},
	{FocusFlexboxContainer, `return run('<span style="display:flex"><span>hello</span></span>', (w) => w.firstElementChild);`},
	{FocusFormDisabled, `return run('<input disabled>', (w) => w.querySelector('input'));`},
	{FocusImgIsmap, `return run('<a href="#void"><img ismap src="GIF" width="1" height="1"></a>', (w) => w.querySelector('img'));`},
	{FocusImgUsemapTabindex, `return run('<map name="probe-map"><area shape="rect" coords="0,0,1,1" href="#void"></map><img usemap="#probe-map" tabindex="-1" src="GIF" width="1" height="1">', (w) => w.querySelector('img'));`},
	{FocusInHiddenIframe, `return run('<iframe style="visibility:hidden" srcdoc="<input>"></iframe>', (w) => { const d = w.querySelector('iframe').contentDocument; return d && d.querySelector('input'); }, (w, t) => t.ownerDocument.activeElement === t);`},
	{FocusInvalidTabindex, `return run('<div tabindex="invalid-value">x</div>', (w) => w.firstElementChild);`},
	{FocusObjectSvg, `return run('<object type="image/svg+xml" data="data:image/svg+xml,%3Csvg xmlns=%22http://www.w3.org/2000/svg%22 width=%221%22 height=%221%22/%3E" width="1" height="1"></object>', (w) => w.querySelector('object'));`},
	{FocusObjectSwf, `return run('<object type="application/x-shockwave-flash" width="1" height="1"></object>', (w) => w.querySelector('object'));`},
	{FocusRedirectImgUsemap, `return run('<map name="probe-map"><area shape="rect" coords="0,0,1,1" href="#void"></map><img usemap="#probe-map" src="GIF" width="1" height="1">', (w) => w.querySelector('img'), (w) => document.activeElement === w.querySelector('area'));`},
	{FocusRedirectLegend, `return run('<fieldset><legend>legend</legend><input></fieldset>', (w) => w.querySelector('legend'), (w) => document.activeElement === w.querySelector('input'));`},
	{FocusScrollBody, fmt.Sprintf(`return run('%s', (w) => w.firstElementChild.firstElementChild);`, fmt.Sprintf(scrollMarkup, "overflow:auto"))},
	{FocusScrollContainer, fmt.Sprintf(`return run('%s', (w) => w.firstElementChild);`, fmt.Sprintf(scrollMarkup, "overflow:auto"))},
	{FocusScrollContainerWithoutOverflow, fmt.Sprintf(`return run('%s', (w) => w.firstElementChild);`, fmt.Sprintf(scrollMarkup, "overflow:hidden"))},
	{FocusSummary, `return run('<details><summary>summary</summary><p>details</p></details>', (w) => w.querySelector('summary'));`},
	{FocusSvg, `return run('<svg width="10" height="10"></svg>', (w) => w.querySelector('svg'));`},
	{FocusSvgFocusableAttribute, `return run('<svg width="10" height="10" focusable="true"></svg>', (w) => w.querySelector('svg'));`},
	{FocusSvgForeignobjectTabindex, `return run('<svg width="10" height="10"><foreignObject tabindex="-1" width="10" height="10"></foreignObject></svg>', (w) => w.querySelector('foreignObject'));`},
	{FocusSvgInIframe, `return run('<iframe srcdoc="<svg width=10 height=10></svg>"></iframe>', (w) => { const d = w.querySelector('iframe').contentDocument; return d && d.querySelector('svg'); }, (w, t) => t.ownerDocument.activeElement === t);`},
	{FocusSvgNegativeTabindexAttribute, `return run('<svg width="10" height="10" tabindex="-1"></svg>', (w) => w.querySelector('svg'));`},
	{FocusSvgTabindexAttribute, `return run('<svg width="10" height="10"><rect tabindex="0" width="10" height="10"></rect></svg>', (w) => w.querySelector('rect'));`},
	{FocusSvgUseTabindex, `return run('<svg width="10" height="10"><defs><rect id="probe-rect" width="10" height="10"></rect></defs><use href="#probe-rect" tabindex="-1"></use></svg>', (w) => w.querySelector('use'));`},
	{FocusTabindexTrailingCharacters, `return run('<div tabindex="3x">x</div>', (w) => w.firstElementChild);`},
	{FocusTable, `return run('<table><tr><td>cell</td></tr></table>', (w) => w.querySelector('table'));`},
	{FocusVideoWithoutControls, `return run('<video></video>', (w) => w.querySelector('video'));`},
	{ShadowRoot, `return typeof document.body.attachShadow === 'function';`},
	// keyboard order cannot be observed from script; the engines placing
	// areas at their image position are identified directly
	{TabsequenceAreaAtImgPosition, `return /Gecko\/|Trident\/|Edge\//.test(navigator.userAgent);`},
}

var (
	probes     []Probe
	probeIndex = make(map[Capability]int)
)

func init() {
	for i, p := range probeBodies {
		probes = append(probes, Probe{
			Capability: p.capability,
			Script:     fmt.Sprintf(harness, p.body),
		})
		probeIndex[p.capability] = i
	}
}

// Probes returns every registered probe in declaration order.
func Probes() []Probe {
	out := make([]Probe, len(probes))
	copy(out, probes)
	return out
}

// Capabilities returns every probed capability in declaration order.
func Capabilities() []Capability {
	out := make([]Capability, len(probes))
	for i, p := range probes {
		out[i] = p.Capability
	}
	return out
}

// ProbeFor returns the probe of a capability.
func ProbeFor(c Capability) (Probe, bool) {
	i, ok := probeIndex[c]
	if !ok {
		return Probe{}, false
	}
	return probes[i], true
}
