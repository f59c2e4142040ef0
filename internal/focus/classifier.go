package focus

import (
	"log/slog"

	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/supports"
)

// Classifier answers focus questions for one Environment. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	env    Environment
	logger *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger that receives rule decisions at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = l
	}
}

// New creates a Classifier for env.
func New(env Environment, opts ...Option) *Classifier {
	if env.Caps == nil {
		env.Caps = supports.Set{}
	}
	c := &Classifier{env: env, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Environment returns the environment the classifier evaluates against.
func (c *Classifier) Environment() Environment {
	return c.env
}

// Relevant reports whether el can ever take focus in this environment.
func (c *Classifier) Relevant(el dom.Element, ex Exceptions) bool {
	return c.relevant(el, ex)
}

// Focusable reports whether script can focus el right now.
func (c *Classifier) Focusable(el dom.Element, ex Exceptions) bool {
	if !c.relevant(el, ex) {
		return false
	}
	if !ex.Disabled && c.disabled(el) {
		return false
	}
	if !ex.OnlyTabbable && c.onlyTabbable(el, ex) {
		return false
	}
	if !ex.Visible {
		if !c.visible(el) {
			return false
		}
		if !c.env.Caps.Has(supports.FocusInHiddenIframe) && !c.framesVisible(el) {
			return false
		}
	}
	return true
}

// Tabbable reports whether el is focusable and reachable with Tab.
func (c *Classifier) Tabbable(el dom.Element, ex Exceptions) bool {
	return c.Focusable(el, ex) && c.tabbable(el, ex)
}

// Classify combines Focusable and Tabbable.
func (c *Classifier) Classify(el dom.Element, ex Exceptions) Result {
	if !c.Focusable(el, ex) {
		return NotFocusable
	}
	if c.tabbable(el, ex) {
		return Tabbable
	}
	return FocusOnly
}

// OnlyTabbable reports whether el is reachable with Tab but cannot be
// focused by script.
func (c *Classifier) OnlyTabbable(el dom.Element, ex Exceptions) bool {
	return c.onlyTabbable(el, ex)
}

// IsFocusRelevant resolves ctx to its first element and calls Relevant.
func (c *Classifier) IsFocusRelevant(ctx dom.Context, ex Exceptions) (bool, error) {
	el, err := dom.Resolve("is/focus-relevant", ctx)
	if err != nil {
		return false, err
	}
	return c.Relevant(el, ex), nil
}

// IsFocusable resolves ctx to its first element and calls Focusable.
func (c *Classifier) IsFocusable(ctx dom.Context, ex Exceptions) (bool, error) {
	el, err := dom.Resolve("is/focusable", ctx)
	if err != nil {
		return false, err
	}
	return c.Focusable(el, ex), nil
}

// IsTabbable resolves ctx to its first element and calls Tabbable.
func (c *Classifier) IsTabbable(ctx dom.Context, ex Exceptions) (bool, error) {
	el, err := dom.Resolve("is/tabbable", ctx)
	if err != nil {
		return false, err
	}
	return c.Tabbable(el, ex), nil
}

// ClassifyContext resolves ctx to its first element and calls Classify.
func (c *Classifier) ClassifyContext(ctx dom.Context, ex Exceptions) (Result, error) {
	el, err := dom.Resolve("classify", ctx)
	if err != nil {
		return NotFocusable, err
	}
	return c.Classify(el, ex), nil
}

// Tabindex returns the element's tabindex as this environment parses it.
func (c *Classifier) Tabindex(el dom.Element) Tabindex {
	return c.tabindex(el)
}

// EffectiveTabindex returns the element's tabIndex as script would read it.
func (c *Classifier) EffectiveTabindex(el dom.Element) int {
	return c.effectiveTabindex(el)
}
