package dom

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubElement struct {
	tag      string
	parent   *stubElement
	host     *stubElement
	children []*stubElement
}

func (s *stubElement) Tag() string                 { return s.tag }
func (s *stubElement) Attr(string) (string, bool)  { return "", false }
func (s *stubElement) ComputedStyle(string) string { return "" }
func (s *stubElement) Frame() Element              { return nil }
func (s *stubElement) HasShadowRoot() bool         { return false }
func (s *stubElement) DelegatesFocus() bool        { return false }
func (s *stubElement) OwnerSVG() Element           { return nil }
func (s *stubElement) Index() int                  { return 0 }
func (s *stubElement) Scope() Scope                { return nil }

func (s *stubElement) Parent() Element {
	if s.parent == nil {
		return nil
	}
	return s.parent
}

func (s *stubElement) Children() []Element {
	out := make([]Element, len(s.children))
	for i, c := range s.children {
		out[i] = c
	}
	return out
}

func (s *stubElement) Host() Element {
	if s.host == nil {
		return nil
	}
	return s.host
}

func TestResolve(t *testing.T) {
	el := &stubElement{tag: "div"}

	got, err := Resolve("test", Single{Element: el})
	require.NoError(t, err)
	assert.Same(t, el, got)

	got, err = Resolve("test", List{el, &stubElement{tag: "span"}})
	require.NoError(t, err)
	assert.Same(t, el, got)
}

func TestResolveInvalidContext(t *testing.T) {
	for name, ctx := range map[string]Context{
		"nil context":  nil,
		"empty single": Single{},
		"empty list":   List{},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve("is/tabbable", ctx)
			require.Error(t, err)
			assert.True(t, IsInvalidContext(err))
			assert.True(t, IsInvalidContext(fmt.Errorf("wrapped: %w", err)))
		})
	}
}

func TestIsInvalidContextOtherErrors(t *testing.T) {
	assert.False(t, IsInvalidContext(errors.New("boom")))
	assert.False(t, IsInvalidContext(nil))
}

func TestComposedParentCrossesShadowBoundary(t *testing.T) {
	host := &stubElement{tag: "x-widget"}
	inner := &stubElement{tag: "button", host: host}
	child := &stubElement{tag: "span", parent: inner, host: host}

	assert.Same(t, inner, ComposedParent(child))
	assert.Same(t, host, ComposedParent(inner))
	assert.Nil(t, ComposedParent(host))

	ancestors := Ancestors(child)
	require.Len(t, ancestors, 2)
	assert.Same(t, inner, ancestors[0])
	assert.Same(t, host, ancestors[1])
}

func TestFirstChild(t *testing.T) {
	first := &stubElement{tag: "legend"}
	second := &stubElement{tag: "legend"}
	fieldset := &stubElement{tag: "fieldset", children: []*stubElement{{tag: "input"}, first, second}}

	assert.Same(t, first, FirstChild(fieldset, "legend"))
	assert.Nil(t, FirstChild(fieldset, "summary"))
	assert.Nil(t, FirstChild(first, "legend"))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, Quick, s)

	s, err = ParseStrategy("strict")
	require.NoError(t, err)
	assert.Equal(t, Strict, s)

	_, err = ParseStrategy("fast")
	assert.Error(t, err)
}
