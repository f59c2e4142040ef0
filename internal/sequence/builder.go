package sequence

import (
	"log/slog"

	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/focus"
)

// Options control a tab sequence query.
type Options struct {
	// IncludeContext adds the context element itself, first, when it is
	// tabbable.
	IncludeContext bool
	// IncludeOnlyTabbable keeps elements that Tab reaches but script
	// cannot focus.
	IncludeOnlyTabbable bool
	// Strategy selects the candidate query; "" is dom.Quick.
	Strategy dom.Strategy
}

// Builder computes tab sequences over one document.
type Builder struct {
	classifier *focus.Classifier
	querier    dom.Querier
	sorter     sorter
}

// NewBuilder creates a Builder classifying with c and querying candidates
// from q.
func NewBuilder(c *focus.Classifier, q dom.Querier) *Builder {
	return &Builder{classifier: c, querier: q, sorter: newSorter(c)}
}

// TabSequence returns the tabbable elements below the context in Tab order.
// A nil context starts at the document element. Nothing is cached between
// calls.
func (b *Builder) TabSequence(ctx dom.Context, opts Options) ([]dom.Element, error) {
	root := b.querier.DocumentElement()
	if ctx != nil {
		el, err := dom.Resolve("query/tabsequence", ctx)
		if err != nil {
			return nil, err
		}
		root = el
	}
	if root == nil {
		return nil, &dom.ContextError{Code: dom.ErrCodeInvalidContext, Label: "query/tabsequence", Message: "document has no root element"}
	}

	strategy := opts.Strategy
	if strategy == "" {
		strategy = dom.Quick
	}
	candidates := b.querier.Candidates(root, strategy, opts.IncludeContext)
	ex := focus.Exceptions{OnlyTabbable: opts.IncludeOnlyTabbable}
	if strategy == dom.All {
		ex.Visible, ex.Disabled = true, true
	}
	tabbable := make([]dom.Element, 0, len(candidates))
	for _, el := range candidates {
		if b.classifier.Tabbable(el, ex) {
			tabbable = append(tabbable, el)
		}
	}
	slog.Debug("tab sequence candidates",
		"context", dom.Label(root),
		"strategy", string(strategy),
		"candidates", len(candidates),
		"tabbable", len(tabbable),
	)
	return b.Build(root, tabbable, opts), nil
}

// Build orders already filtered elements, given in document order.
func (b *Builder) Build(root dom.Element, elements []dom.Element, opts Options) []dom.Element {
	out := b.sorter.sort(elements)
	if opts.IncludeContext && root != nil {
		out = moveContextToBeginning(out, root)
	}
	return out
}
