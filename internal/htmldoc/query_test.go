package htmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/focusnav/internal/dom"
)

const candidateMarkup = `<body>
<div id="root">
	<a id="link" href="#">l</a>
	<a id="anchor">not a link</a>
	<div id="scroll" style="overflow:scroll">s</div>
	<span id="ti" tabindex="-1">t</span>
	<x-host id="host"><template shadowrootmode="open"><button id="shadow-btn">s</button></template></x-host>
	<iframe id="frame" srcdoc="<button id='framed'>x</button>"></iframe>
</div>
</body>`

func ids(els []dom.Element) []string {
	out := make([]string, 0, len(els))
	for _, el := range els {
		out = append(out, dom.AttrValue(el, "id"))
	}
	return out
}

func TestCandidatesQuick(t *testing.T) {
	doc := mustParse(t, candidateMarkup)
	root := mustID(t, doc, "root")

	got := doc.Candidates(root, dom.Quick, false)
	assert.Equal(t, []string{"link", "ti", "host", "shadow-btn", "frame"}, ids(got))
}

func TestCandidatesStrict(t *testing.T) {
	doc := mustParse(t, candidateMarkup)
	root := mustID(t, doc, "root")

	got := doc.Candidates(root, dom.Strict, true)
	assert.Equal(t, []string{"root", "link", "anchor", "scroll", "ti", "host", "shadow-btn", "frame"}, ids(got))
	assert.Equal(t, ids(got), ids(doc.Candidates(root, dom.All, true)))
}

func TestCandidatesInsideFrame(t *testing.T) {
	doc := mustParse(t, candidateMarkup)
	framed := mustID(t, doc, "framed")

	body := dom.ComposedParent(framed)
	got := doc.Candidates(body, dom.Quick, false)
	assert.Equal(t, []string{"framed"}, ids(got))
}

func TestCandidatesForeignRoot(t *testing.T) {
	doc := mustParse(t, candidateMarkup)
	other := mustParse(t, `<button id="x">x</button>`)
	assert.Nil(t, doc.Candidates(mustID(t, other, "x"), dom.All, true))
}
