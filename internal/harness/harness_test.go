package harness

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/focusnav/internal/profile"
)

func TestRun_ClassifyStep(t *testing.T) {
	scenario := &Scenario{
		Name:        "classify",
		Description: "A link is tabbable",
		Profile:     "firefox52",
		Document:    `<a id="link" href="#top">top</a>`,
		Flow: []FlowStep{
			{Classify: "//*[@id='link']", Expect: &ExpectClause{Case: "tabbable"}},
		},
		Assertions: []Assertion{
			{Type: AssertTraceContains, Event: EventClassify, Args: map[string]interface{}{"element": "link"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, TraceEvent{
		Type:    EventClassify,
		Step:    0,
		Element: "link",
		Context: "//*[@id='link']",
		Result:  "tabbable",
		Seq:     1,
	}, result.Trace[0])
}

func TestRun_SequenceStep(t *testing.T) {
	scenario := &Scenario{
		Name:        "sequence",
		Description: "Positive tabindex first",
		Profile:     "chrome60",
		Document: `<input id="a"><button id="b" tabindex="2">b</button>
			<button id="c" tabindex="1">c</button><span id="d">d</span>`,
		Flow: []FlowStep{
			{Sequence: &SequenceStep{}, Expect: &ExpectClause{Case: CaseOK, Elements: []string{"c", "b", "a"}}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []string{"c", "b", "a"}, result.TabStops(0))
	require.Len(t, result.Trace, 4)
	assert.Equal(t, EventSequence, result.Trace[0].Type)
	assert.Equal(t, CaseOK, result.Trace[0].Result)
	for i, event := range result.Trace[1:] {
		assert.Equal(t, EventTabStop, event.Type)
		assert.Equal(t, i+1, event.Position)
		assert.Equal(t, int64(i+2), event.Seq)
	}
}

func TestRun_SequenceWithContext(t *testing.T) {
	scenario := &Scenario{
		Name:        "context",
		Description: "Sequence below a context element",
		Profile:     "firefox52",
		Document: `<button id="outside">o</button>
			<div id="panel" tabindex="0"><button id="one">1</button><button id="two">2</button></div>`,
		Flow: []FlowStep{
			{
				Sequence: &SequenceStep{Context: "//*[@id='panel']"},
				Expect:   &ExpectClause{Case: CaseOK, Elements: []string{"one", "two"}},
			},
			{
				Sequence: &SequenceStep{Context: "//*[@id='panel']", IncludeContext: true},
				Expect:   &ExpectClause{Case: CaseOK, Elements: []string{"panel", "one", "two"}},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "//*[@id='panel']", result.Trace[0].Context)
}

func TestRun_InvalidContext(t *testing.T) {
	scenario := &Scenario{
		Name:        "invalid",
		Description: "Unresolved contexts are reported as a case",
		Profile:     "chrome60",
		Document:    `<button id="b">b</button>`,
		Flow: []FlowStep{
			{Classify: "//*[@id='nope']", Expect: &ExpectClause{Case: "INVALID_CONTEXT"}},
			{Sequence: &SequenceStep{Context: "//*[@id='nope']"}, Expect: &ExpectClause{Case: "INVALID_CONTEXT"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 2)
	assert.Equal(t, "", result.Trace[0].Element)
	assert.Equal(t, "INVALID_CONTEXT", result.Trace[0].Result)
	assert.Equal(t, "INVALID_CONTEXT", result.Trace[1].Result)
}

func TestRun_ExpectationMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "Mismatches fail the result without aborting the flow",
		Profile:     "chrome60",
		Document:    `<span id="s">s</span><button id="b">b</button>`,
		Flow: []FlowStep{
			{Classify: "//*[@id='s']", Expect: &ExpectClause{Case: "tabbable"}},
			{Sequence: &SequenceStep{}, Expect: &ExpectClause{Case: CaseOK, Elements: []string{"s", "b"}}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "flow[0]: classify //*[@id='s']: expected tabbable, got not-focusable")
	assert.Contains(t, result.Errors[1], "flow[1]: sequence: expected [s b], got [b]")
}

func TestRun_CapabilityOverrides(t *testing.T) {
	markup := `<span id="s" tabindex="nonsense">s</span>`
	base := &Scenario{
		Name:        "override",
		Description: "Capability overrides change the environment",
		Profile:     "chrome60",
		Document:    markup,
		Flow: []FlowStep{
			{Classify: "//*[@id='s']"},
		},
	}

	result, err := Run(base)
	require.NoError(t, err)
	assert.Equal(t, "not-focusable", result.Trace[0].Result)

	base.Capabilities = map[string]bool{"focusInvalidTabindex": true}
	result, err = Run(base)
	require.NoError(t, err)
	assert.Equal(t, "focus-only", result.Trace[0].Result)
}

func TestRun_UnknownCapability(t *testing.T) {
	scenario := &Scenario{
		Name:         "bad_caps",
		Description:  "Unknown capabilities are rejected",
		Profile:      "chrome60",
		Capabilities: map[string]bool{"focusEverything": true},
		Document:     `<p></p>`,
		Flow:         []FlowStep{{Sequence: &SequenceStep{}}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown capability "focusEverything"`)
}

func TestRun_UnknownProfile(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_profile",
		Description: "Unknown profiles are rejected",
		Profile:     "netscape4",
		Document:    `<p></p>`,
		Flow:        []FlowStep{{Sequence: &SequenceStep{}}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.True(t, profile.IsUnknownProfile(err))
}

func TestRun_InvalidStrategyAborts(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_strategy",
		Description: "Malformed steps abort the run",
		Profile:     "chrome60",
		Document:    `<p></p>`,
		Flow:        []FlowStep{{Sequence: &SequenceStep{Strategy: "fast"}}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow step 0")
}

func TestRun_FinalStateRecordsProfileRun(t *testing.T) {
	scenario := &Scenario{
		Name:        "final_state",
		Description: "The profile run is recorded in the store",
		Profile:     "firefox52",
		Document:    `<p></p>`,
		Flow:        []FlowStep{{Sequence: &SequenceStep{}}},
		Assertions: []Assertion{
			{
				Type:   AssertFinalState,
				Table:  "probe_runs",
				Where:  map[string]interface{}{"id": "run-1"},
				Expect: map[string]interface{}{"engine": "gecko", "source": "profile:firefox52", "seq": 1},
			},
			{
				Type:   AssertFinalState,
				Table:  "capabilities",
				Where:  map[string]interface{}{"name": "focusSummary"},
				Expect: map[string]interface{}{"supported": 1},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRunWithOptions_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	scenario := &Scenario{
		Name:        "logged",
		Description: "Steps and rule decisions are logged",
		Profile:     "chrome60",
		Document:    `<iframe id="f"></iframe>`,
		Flow:        []FlowStep{{Classify: "//*[@id='f']"}},
	}

	_, err := RunWithOptions(context.Background(), scenario, Options{Logger: logger})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "classify step completed")
	assert.Contains(t, out, "rule=iframe")
}

func TestRunWithOptions_CustomProfiles(t *testing.T) {
	registry, err := profile.LoadDir(filepath.Join("testdata", "profiles"))
	require.NoError(t, err)

	scenario := &Scenario{
		Name:        "custom",
		Description: "A loaded profile enables summary focus",
		Profile:     "kiosk",
		Document:    `<details><summary id="sum">more</summary></details>`,
		Flow: []FlowStep{
			{Classify: "//*[@id='sum']", Expect: &ExpectClause{Case: "tabbable"}},
		},
	}

	result, err := RunWithOptions(context.Background(), scenario, Options{Profiles: registry})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	_, err = Run(scenario)
	require.Error(t, err, "kiosk is not a built-in profile")
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "shadow_sequence.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
}

func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}
