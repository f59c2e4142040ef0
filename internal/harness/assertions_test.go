package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/focusnav/internal/platform"
	"github.com/roach88/focusnav/internal/store"
	"github.com/roach88/focusnav/internal/supports"
	"github.com/roach88/focusnav/internal/testutil"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Type: EventClassify, Step: 0, Element: "link", Context: "//a", Result: "tabbable", Seq: 1},
		{Type: EventSequence, Step: 1, Result: CaseOK, Seq: 2},
		{Type: EventTabStop, Step: 1, Element: "first", Position: 1, Seq: 3},
		{Type: EventTabStop, Step: 1, Element: "second", Position: 2, Seq: 4},
		{Type: EventTabStop, Step: 1, Element: "third", Position: 3, Seq: 5},
	}
}

func TestAssertTraceContains_Found(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type:  AssertTraceContains,
		Event: EventClassify,
		Args:  map[string]interface{}{"element": "link", "result": "tabbable"},
	})
	assert.NoError(t, err)
}

func TestAssertTraceContains_MatchesIntFields(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type:  AssertTraceContains,
		Event: EventTabStop,
		Args:  map[string]interface{}{"element": "second", "position": 2, "step": 1},
	})
	assert.NoError(t, err)
}

func TestAssertTraceContains_NotFound(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type:  AssertTraceContains,
		Event: EventClassify,
		Args:  map[string]interface{}{"element": "link", "result": "focus-only"},
	})
	require.Error(t, err)

	var assertErr *AssertionError
	require.True(t, errors.As(err, &assertErr))
	assert.Equal(t, "trace_contains", assertErr.Type)
	assert.Contains(t, assertErr.Expected, "classify event")
	assert.Equal(t, "not found in trace", assertErr.Actual)
}

func TestAssertTraceContains_MissingField(t *testing.T) {
	// sequence events carry no element
	err := assertTraceContains(sampleTrace(), Assertion{
		Type:  AssertTraceContains,
		Event: EventSequence,
		Args:  map[string]interface{}{"element": "first"},
	})
	assert.Error(t, err)
}

func TestAssertTraceOrder(t *testing.T) {
	tests := []struct {
		name     string
		elements []string
		wantErr  string
	}{
		{"full order", []string{"first", "second", "third"}, ""},
		{"gaps allowed", []string{"first", "third"}, ""},
		{"reversed", []string{"third", "first"}, "third (pos 5) should be before first (pos 3)"},
		{"missing", []string{"first", "fourth"}, "missing element: fourth"},
		{"classify events ignored", []string{"link"}, "missing element: link"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertTraceOrder(sampleTrace(), Assertion{Type: AssertTraceOrder, Elements: tt.elements})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var assertErr *AssertionError
			require.True(t, errors.As(err, &assertErr))
			assert.Equal(t, "trace_order", assertErr.Type)
			assert.Contains(t, assertErr.Actual, tt.wantErr)
		})
	}
}

func TestAssertTraceCount(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		wantErr   bool
	}{
		{"all tab stops", Assertion{Event: EventTabStop, Count: 3}, false},
		{"filtered", Assertion{Event: EventTabStop, Args: map[string]interface{}{"element": "second"}, Count: 1}, false},
		{"zero", Assertion{Event: EventTabStop, Args: map[string]interface{}{"element": "link"}, Count: 0}, false},
		{"wrong count", Assertion{Event: EventClassify, Count: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assertion.Type = AssertTraceCount
			err := assertTraceCount(sampleTrace(), tt.assertion)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Assertion failed: trace_count")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAssertionError_FormatsTrace(t *testing.T) {
	err := &AssertionError{
		Type:     "trace_order",
		Expected: "elements in order",
		Actual:   "out of order",
		Trace:    sampleTrace(),
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: trace_order")
	assert.Contains(t, msg, "[1] classify link -> tabbable")
	assert.Contains(t, msg, "[2] sequence  -> ok")
	assert.Contains(t, msg, "[4]   2. second")
}

func newAssertionStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.NewFixedIDGenerator("run-a", "run-b")))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	d := platform.Parse("Mozilla/5.0 (Windows NT 10.0; WOW64; Trident/7.0; rv:11.0) like Gecko")
	_, err = st.SaveRun(ctx, d, "profile:ie11", supports.Set{supports.FocusSvg: true, supports.FocusTable: false})
	require.NoError(t, err)
	_, err = st.SaveRun(ctx, d, "browser:manual", supports.Set{supports.FocusTable: true})
	require.NoError(t, err)
	return st
}

func TestAssertFinalState(t *testing.T) {
	st := newAssertionStore(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{
			name: "int supported",
			assertion: Assertion{
				Table:  "capabilities",
				Where:  map[string]interface{}{"name": "focusSvg"},
				Expect: map[string]interface{}{"supported": 1, "run_id": "run-a"},
			},
		},
		{
			name: "bool supported",
			assertion: Assertion{
				Table:  "capabilities",
				Where:  map[string]interface{}{"name": "focusTable"},
				Expect: map[string]interface{}{"supported": true, "run_id": "run-b"},
			},
		},
		{
			name: "run row",
			assertion: Assertion{
				Table:  "probe_runs",
				Where:  map[string]interface{}{"id": "run-b"},
				Expect: map[string]interface{}{"source": "browser:manual", "seq": 2, "engine": "trident"},
			},
		},
		{
			name: "value mismatch",
			assertion: Assertion{
				Table:  "capabilities",
				Where:  map[string]interface{}{"name": "focusSvg"},
				Expect: map[string]interface{}{"supported": 0},
			},
			wantErr: `field "supported" = 0`,
		},
		{
			name: "no row",
			assertion: Assertion{
				Table:  "capabilities",
				Where:  map[string]interface{}{"name": "focusSummary"},
				Expect: map[string]interface{}{"supported": 1},
			},
			wantErr: "row not found",
		},
		{
			name: "ambiguous",
			assertion: Assertion{
				Table:  "probe_runs",
				Expect: map[string]interface{}{"engine": "trident"},
			},
			wantErr: "multiple rows matched",
		},
		{
			name: "unknown column",
			assertion: Assertion{
				Table:  "capabilities",
				Where:  map[string]interface{}{"name": "focusSvg"},
				Expect: map[string]interface{}{"color": "blue"},
			},
			wantErr: `field "color" not present`,
		},
		{
			name: "unknown table",
			assertion: Assertion{
				Table:  "nowhere",
				Expect: map[string]interface{}{"x": 1},
			},
			wantErr: "query error",
		},
		{
			name: "injected table",
			assertion: Assertion{
				Table:  "capabilities; DROP TABLE probe_runs",
				Expect: map[string]interface{}{"x": 1},
			},
			wantErr: "invalid table name",
		},
		{
			name: "injected column",
			assertion: Assertion{
				Table:  "capabilities",
				Where:  map[string]interface{}{"name = name OR 1": 1},
				Expect: map[string]interface{}{"x": 1},
			},
			wantErr: "invalid column name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assertion.Type = AssertFinalState
			err := assertFinalState(ctx, st, tt.assertion)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRowFilter_SortedColumns(t *testing.T) {
	f, err := newRowFilter(map[string]interface{}{"name": "focusSvg", "env_key": "k", "supported": true})
	require.NoError(t, err)
	assert.Equal(t, "env_key = ? AND name = ? AND supported = ?", f.sql())
	assert.Equal(t, []any{"k", "focusSvg", true}, f.values)
	assert.Equal(t, "env_key=k AND name=focusSvg AND supported=true", f.String())

	f, err = newRowFilter(nil)
	require.NoError(t, err)
	assert.Empty(t, f.sql())
	assert.Nil(t, f.values)
	assert.Equal(t, "(no conditions)", f.String())
}

func TestRowFilter_StringifiesOtherValues(t *testing.T) {
	f, err := newRowFilter(map[string]interface{}{"seq": 1.5})
	require.NoError(t, err)
	assert.Equal(t, []any{"1.5"}, f.values)
}

func TestStateValuesEqual(t *testing.T) {
	assert.True(t, stateValuesEqual("x", []byte("x")))
	assert.True(t, stateValuesEqual(1, int64(1)))
	assert.True(t, stateValuesEqual(int64(2), int64(2)))
	assert.True(t, stateValuesEqual(true, int64(1)))
	assert.True(t, stateValuesEqual(false, int64(0)))
	assert.True(t, stateValuesEqual(nil, nil))
	assert.False(t, stateValuesEqual(nil, int64(0)))
	assert.False(t, stateValuesEqual("1", int64(1)))
	assert.False(t, stateValuesEqual(1, "1"))
	assert.True(t, stateValuesEqual(true, true))
}

func TestEvaluateAssertions(t *testing.T) {
	result := &Result{Pass: true, Trace: sampleTrace()}
	assertions := []Assertion{
		{Type: AssertTraceCount, Event: EventTabStop, Count: 3},
		{Type: AssertTraceOrder, Elements: []string{"second", "first"}},
		{Type: AssertFinalState, Table: "capabilities", Expect: map[string]interface{}{"supported": 1}},
		{Type: "trace_magic"},
	}

	errs := EvaluateAssertions(result, assertions, nil)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "trace_order")
	assert.Contains(t, errs[1], "assertion[2]: final_state requires database context")
	assert.Contains(t, errs[2], `assertion[3]: unknown assertion type "trace_magic"`)
}
