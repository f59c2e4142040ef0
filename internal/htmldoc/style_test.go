package htmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDeclarations(t *testing.T) {
	decls := parseDeclarations(" Display : Flex ; overflow:auto !important;; broken; color: red")
	assert.Equal(t, map[string]string{
		"display":  "flex",
		"overflow": "auto",
		"color":    "red",
	}, decls)
	assert.Nil(t, parseDeclarations("  "))
}

func TestComputedStyle(t *testing.T) {
	doc := mustParse(t, `<div id="outer" style="visibility: hidden; -webkit-user-modify: read-write">
		<span id="inner">x</span>
		<span id="visible" style="visibility: visible">y</span>
	</div>
	<p id="hidden" hidden>h</p>
	<p id="shown" hidden style="display:block">s</p>
	<div id="scroller" style="overflow: hidden scroll"></div>
	<div id="both" style="overflow-x: auto; overflow-y: auto"></div>
	<x-host id="host" style="visibility:hidden"><template shadowrootmode="open"><b id="shadowed">b</b></template></x-host>`)

	inner := mustID(t, doc, "inner")
	assert.Equal(t, "hidden", inner.ComputedStyle("visibility"))
	assert.Equal(t, "read-write", inner.ComputedStyle("-webkit-user-modify"))
	assert.Equal(t, "visible", mustID(t, doc, "visible").ComputedStyle("visibility"))
	assert.Equal(t, "", inner.ComputedStyle("display"), "display is not inherited")

	assert.Equal(t, "none", mustID(t, doc, "hidden").ComputedStyle("display"))
	assert.Equal(t, "block", mustID(t, doc, "shown").ComputedStyle("display"))

	scroller := mustID(t, doc, "scroller")
	assert.Equal(t, "hidden", scroller.ComputedStyle("overflow-x"))
	assert.Equal(t, "scroll", scroller.ComputedStyle("overflow-y"))
	assert.Equal(t, "auto", mustID(t, doc, "both").ComputedStyle("overflow"))

	assert.Equal(t, "hidden", mustID(t, doc, "shadowed").ComputedStyle("visibility"))

	head, err := doc.Select("//head")
	if assert.NoError(t, err) && assert.Len(t, head, 1) {
		assert.Equal(t, "none", head[0].ComputedStyle("display"))
	}
}
