package harness

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/roach88/focusnav/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, event := range e.Trace {
			switch event.Type {
			case EventClassify:
				fmt.Fprintf(&buf, "  [%d] classify %s -> %s\n", i+1, event.Element, event.Result)
			case EventSequence:
				fmt.Fprintf(&buf, "  [%d] sequence %s -> %s\n", i+1, event.Context, event.Result)
			case EventTabStop:
				fmt.Fprintf(&buf, "  [%d]   %d. %s\n", i+1, event.Position, event.Element)
			}
		}
	}

	return buf.String()
}

// matching returns the events of the given type whose fields include every
// expected arg.
func matching(trace []TraceEvent, eventType string, args map[string]interface{}) []TraceEvent {
	var out []TraceEvent
	for _, event := range trace {
		if event.Type == eventType && matchArgs(event.fields(), args) {
			out = append(out, event)
		}
	}
	return out
}

// matchArgs reports whether fields holds every expected key with an equal
// value. YAML decodes integers as int, the same type the trace uses.
func matchArgs(fields map[string]any, expected map[string]interface{}) bool {
	for key, want := range expected {
		got, ok := fields[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	if len(matching(trace, assertion.Event, assertion.Args)) > 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("%s event with %v", assertion.Event, assertion.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	n := len(matching(trace, assertion.Event, assertion.Args))
	if n == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%d %s events", assertion.Count, assertion.Event),
		Actual:   fmt.Sprintf("%d events", n),
		Trace:    trace,
	}
}

// assertTraceOrder checks that the listed elements are reached by Tab in the
// given order. Other stops may come in between; only the first visit of an
// element counts.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	firstVisit := make(map[string]int, len(assertion.Elements))
	for i, event := range trace {
		if event.Type != EventTabStop || !slices.Contains(assertion.Elements, event.Element) {
			continue
		}
		if _, seen := firstVisit[event.Element]; !seen {
			firstVisit[event.Element] = i + 1
		}
	}

	last, lastName := 0, ""
	for _, name := range assertion.Elements {
		pos, ok := firstVisit[name]
		if !ok {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all elements visited: %v", assertion.Elements),
				Actual:   fmt.Sprintf("missing element: %s", name),
				Trace:    trace,
			}
		}
		if pos <= last {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("elements in order: %v", assertion.Elements),
				Actual:   fmt.Sprintf("%s (pos %d) should be before %s (pos %d)", lastName, last, name, pos),
				Trace:    trace,
			}
		}
		last, lastName = pos, name
	}
	return nil
}

// AssertionContext carries the store final_state assertions read from.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions runs every assertion against the result and returns
// one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for i, assertion := range assertions {
		var err error
		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: final_state requires database context", i)
			} else {
				err = assertFinalState(actx.Ctx, actx.Store, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}
