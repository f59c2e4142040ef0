package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/htmldoc"
)

// MustParse parses HTML markup or fails the test.
func MustParse(t testing.TB, markup string) *htmldoc.Document {
	t.Helper()
	doc, err := htmldoc.ParseString(markup)
	require.NoError(t, err)
	return doc
}

// MustID returns the element with the id or fails the test.
func MustID(t testing.TB, doc *htmldoc.Document, id string) dom.Element {
	t.Helper()
	el, ok := doc.ByID(id)
	require.True(t, ok, "element #%s not found", id)
	return el
}

// IDs maps elements to their id attribute, falling back to the label.
func IDs(elements []dom.Element) []string {
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		if id := dom.AttrValue(el, "id"); id != "" {
			out = append(out, id)
			continue
		}
		out = append(out, dom.Label(el))
	}
	return out
}
