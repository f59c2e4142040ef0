package focus

import (
	"context"

	"github.com/roach88/focusnav/internal/platform"
	"github.com/roach88/focusnav/internal/quirks"
	"github.com/roach88/focusnav/internal/supports"
)

// Environment is everything the classifiers know about the runtime. It is
// passed explicitly; there is no process-wide environment.
type Environment struct {
	Platform platform.Descriptor
	Quirks   quirks.Set
	Caps     supports.Set
}

// NewEnvironment resolves the built-in quirk table for d.
func NewEnvironment(d platform.Descriptor, caps supports.Set) Environment {
	if caps == nil {
		caps = supports.Set{}
	}
	return Environment{Platform: d, Quirks: quirks.For(d), Caps: caps}
}

// EnvironmentFromCache snapshots the cache, probing whatever is missing.
func EnvironmentFromCache(ctx context.Context, d platform.Descriptor, cache *supports.Cache) Environment {
	return NewEnvironment(d, cache.Set(ctx))
}

// Exceptions disable individual rules. The zero value applies every rule.
type Exceptions struct {
	// Flexbox ignores flex layout demotion.
	Flexbox bool
	// Scrollable ignores scroll container rules.
	Scrollable bool
	// Shadow ignores the shadow host rule.
	Shadow bool
	// Visible skips visibility checks, including frame visibility.
	Visible bool
	// OnlyTabbable accepts elements that are tabbable but not script focusable.
	OnlyTabbable bool
	// Disabled accepts disabled form controls.
	Disabled bool
}

// Result is the combined classification of one element.
type Result int

const (
	NotFocusable Result = iota
	// FocusOnly elements are focusable by script or pointer but skipped by Tab.
	FocusOnly
	Tabbable
)

func (r Result) String() string {
	switch r {
	case FocusOnly:
		return "focus-only"
	case Tabbable:
		return "tabbable"
	default:
		return "not-focusable"
	}
}

// ParseResult is the inverse of Result.String.
func ParseResult(s string) (Result, bool) {
	switch s {
	case "not-focusable":
		return NotFocusable, true
	case "focus-only":
		return FocusOnly, true
	case "tabbable":
		return Tabbable, true
	}
	return NotFocusable, false
}
