package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/focus"
	"github.com/roach88/focusnav/internal/htmldoc"
	"github.com/roach88/focusnav/internal/platform"
	"github.com/roach88/focusnav/internal/profile"
	"github.com/roach88/focusnav/internal/sequence"
	"github.com/roach88/focusnav/internal/store"
	"github.com/roach88/focusnav/internal/supports"
)

// Harness is the test execution engine for one scenario.
type Harness struct {
	store      *store.Store
	doc        *htmldoc.Document
	classifier *focus.Classifier
	builder    *sequence.Builder
	logger     *slog.Logger
	seq        int64
}

// Options configure Run.
type Options struct {
	// Profiles resolves scenario profile names; nil uses the built-in set.
	Profiles *profile.Registry
	// Logger receives harness and classifier logs; nil discards them.
	Logger *slog.Logger
}

// Run executes a scenario with the built-in profiles.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithOptions(context.Background(), scenario, Options{})
}

// RunWithOptions executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Resolve the environment and record its capabilities in the store
// 2. Read the capabilities back through the capability cache
// 3. Parse the document
// 4. Execute flow steps with expect validation
// 5. Evaluate assertions
func RunWithOptions(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	registry := opts.Profiles
	if registry == nil {
		registry = profile.Builtin()
	}

	d, caps, source, err := resolveEnvironment(scenario, registry)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:", store.WithIDGenerator(&store.SequentialIDGenerator{}))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if _, err := st.SaveRun(ctx, d, source, caps); err != nil {
		return nil, fmt.Errorf("failed to record capabilities: %w", err)
	}
	host, err := st.Host(ctx, d.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to load capabilities: %w", err)
	}
	env := focus.EnvironmentFromCache(ctx, d, supports.NewCache(host))

	doc, err := loadDocument(scenario)
	if err != nil {
		return nil, err
	}

	classifier := focus.New(env, focus.WithLogger(logger))
	h := &Harness{
		store:      st,
		doc:        doc,
		classifier: classifier,
		builder:    sequence.NewBuilder(classifier, doc),
		logger:     logger,
	}

	result := NewResult()
	if err := h.executeFlow(scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// resolveEnvironment returns the descriptor and capability table a
// scenario runs against, and the source label recorded with them.
func resolveEnvironment(s *Scenario, registry *profile.Registry) (platform.Descriptor, supports.Set, string, error) {
	var (
		d      platform.Descriptor
		caps   = supports.Set{}
		source string
	)
	if s.Profile != "" {
		p, err := registry.Get(s.Profile)
		if err != nil {
			return d, nil, "", fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		d = p.Descriptor()
		for c, v := range p.Capabilities {
			caps[c] = v
		}
		source = "profile:" + p.Name
	} else {
		d = platform.Parse(s.UserAgent)
		source = "scenario:" + s.Name
	}

	overrides, err := supports.ParseSet(s.Capabilities)
	if err != nil {
		return d, nil, "", fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	for c, v := range overrides {
		caps[c] = v
	}
	return d, caps, source, nil
}

func loadDocument(s *Scenario) (*htmldoc.Document, error) {
	if s.DocumentFile != "" {
		doc, err := htmldoc.ParseFile(s.DocumentFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load document: %w", err)
		}
		return doc, nil
	}
	doc, err := htmldoc.ParseString(s.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

// executeFlow runs all flow steps and validates expect clauses.
// A step that does not meet its expectation is recorded as an error; only
// malformed steps abort the flow.
func (h *Harness) executeFlow(flow []FlowStep, result *Result) error {
	for i, step := range flow {
		var err error
		if step.Sequence != nil {
			err = h.executeSequence(i, step, result)
		} else {
			err = h.executeClassify(i, step, result)
		}
		if err != nil {
			return fmt.Errorf("flow step %d: %w", i, err)
		}
	}
	return nil
}

func (h *Harness) next() int64 {
	h.seq++
	return h.seq
}

func (h *Harness) executeClassify(i int, step FlowStep, result *Result) error {
	ctx := h.doc.Selector(step.Classify)
	outcome := ""
	element := ""
	r, err := h.classifier.ClassifyContext(ctx, step.Exceptions.exceptions())
	switch {
	case dom.IsInvalidContext(err):
		outcome = dom.ErrCodeInvalidContext
	case err != nil:
		return err
	default:
		outcome = r.String()
		el, _ := dom.Resolve("harness", ctx)
		element = elementID(el)
	}

	result.AddEvent(TraceEvent{
		Type:    EventClassify,
		Step:    i,
		Element: element,
		Context: step.Classify,
		Result:  outcome,
		Seq:     h.next(),
	})
	h.logger.Info("classify step completed", "step", i, "element", element, "result", outcome)

	if step.Expect != nil && step.Expect.Case != outcome {
		result.AddError(fmt.Sprintf("flow[%d]: classify %s: expected %s, got %s", i, step.Classify, step.Expect.Case, outcome))
	}
	return nil
}

func (h *Harness) executeSequence(i int, step FlowStep, result *Result) error {
	spec := step.Sequence
	strategy, err := dom.ParseStrategy(spec.Strategy)
	if err != nil {
		return err
	}
	var ctx dom.Context
	if spec.Context != "" {
		ctx = h.doc.Selector(spec.Context)
	}

	elements, err := h.builder.TabSequence(ctx, sequence.Options{
		IncludeContext:      spec.IncludeContext,
		IncludeOnlyTabbable: spec.OnlyTabbable,
		Strategy:            strategy,
	})
	outcome := CaseOK
	var ce *dom.ContextError
	switch {
	case errors.As(err, &ce):
		outcome = ce.Code
	case err != nil:
		return err
	}

	result.AddEvent(TraceEvent{
		Type:    EventSequence,
		Step:    i,
		Context: spec.Context,
		Result:  outcome,
		Seq:     h.next(),
	})
	ids := make([]string, 0, len(elements))
	for pos, el := range elements {
		id := elementID(el)
		ids = append(ids, id)
		result.AddEvent(TraceEvent{
			Type:     EventTabStop,
			Step:     i,
			Element:  id,
			Position: pos + 1,
			Seq:      h.next(),
		})
	}
	h.logger.Info("sequence step completed", "step", i, "stops", len(ids), "result", outcome)

	if step.Expect == nil {
		return nil
	}
	if step.Expect.Case != outcome {
		result.AddError(fmt.Sprintf("flow[%d]: sequence: expected %s, got %s", i, step.Expect.Case, outcome))
		return nil
	}
	if outcome == CaseOK && !slices.Equal(step.Expect.Elements, ids) {
		result.AddError(fmt.Sprintf("flow[%d]: sequence: expected [%s], got [%s]",
			i, strings.Join(step.Expect.Elements, " "), strings.Join(ids, " ")))
	}
	return nil
}

// elementID names an element by its id, falling back to its label.
func elementID(el dom.Element) string {
	if el == nil {
		return ""
	}
	if id := dom.AttrValue(el, "id"); id != "" {
		return id
	}
	return dom.Label(el)
}
