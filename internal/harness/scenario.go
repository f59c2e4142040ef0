package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/focusnav/internal/dom"
	"github.com/roach88/focusnav/internal/focus"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Profile names a built-in or loaded environment profile.
	Profile string `yaml:"profile,omitempty"`

	// UserAgent describes the environment when no profile is given.
	UserAgent string `yaml:"user_agent,omitempty"`

	// Capabilities override the profile's capability table.
	Capabilities map[string]bool `yaml:"capabilities,omitempty"`

	// Document is inline HTML markup.
	Document string `yaml:"document,omitempty"`

	// DocumentFile is an HTML file, relative to the scenario file.
	DocumentFile string `yaml:"document_file,omitempty"`

	// Flow contains the steps to run, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and capability store.
	Assertions []Assertion `yaml:"assertions"`
}

// FlowStep is either a classification or a tab sequence query.
type FlowStep struct {
	// Classify is an XPath selecting the element to classify.
	Classify string `yaml:"classify,omitempty"`

	// Sequence queries the tab sequence.
	Sequence *SequenceStep `yaml:"sequence,omitempty"`

	// Exceptions apply to Classify steps.
	Exceptions *ExceptionSpec `yaml:"exceptions,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, the step is only traced.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// SequenceStep holds the options of a tab sequence query.
type SequenceStep struct {
	// Context is an XPath for the starting element; empty is the document.
	Context        string `yaml:"context,omitempty"`
	IncludeContext bool   `yaml:"include_context,omitempty"`
	OnlyTabbable   bool   `yaml:"only_tabbable,omitempty"`
	Strategy       string `yaml:"strategy,omitempty"`
}

// ExceptionSpec mirrors focus.Exceptions.
type ExceptionSpec struct {
	Flexbox      bool `yaml:"flexbox,omitempty"`
	Scrollable   bool `yaml:"scrollable,omitempty"`
	Shadow       bool `yaml:"shadow,omitempty"`
	Visible      bool `yaml:"visible,omitempty"`
	OnlyTabbable bool `yaml:"only_tabbable,omitempty"`
	Disabled     bool `yaml:"disabled,omitempty"`
}

func (e *ExceptionSpec) exceptions() focus.Exceptions {
	if e == nil {
		return focus.Exceptions{}
	}
	return focus.Exceptions{
		Flexbox:      e.Flexbox,
		Scrollable:   e.Scrollable,
		Shadow:       e.Shadow,
		Visible:      e.Visible,
		OnlyTabbable: e.OnlyTabbable,
		Disabled:     e.Disabled,
	}
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// Case is a classification result (tabbable, focus-only,
	// not-focusable), "ok" for a sequence, or an error code such as
	// INVALID_CONTEXT.
	Case string `yaml:"case"`

	// Elements is the expected tab sequence, as element ids.
	Elements []string `yaml:"elements,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an event of type Event whose fields contain Args
	// - "trace_order": tab stops visit Elements in order
	// - "trace_count": exactly Count events of type Event matching Args
	// - "final_state": query a store table and verify expected values
	Type string `yaml:"type"`

	// Event is the trace event type (trace_contains, trace_count).
	Event string `yaml:"event,omitempty"`

	// Args are the expected event fields. Subset match.
	Args map[string]interface{} `yaml:"args,omitempty"`

	// Elements lists element ids in expected order (trace_order).
	Elements []string `yaml:"elements,omitempty"`

	// Count is the expected number of events (trace_count).
	Count int `yaml:"count,omitempty"`

	// Table is the store table name (final_state).
	Table string `yaml:"table,omitempty"`

	// Where specifies query filters (final_state).
	// All fields must match exactly.
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Expect contains expected field values (final_state).
	Expect map[string]interface{} `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// Expected sequence case.
const CaseOK = "ok"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// DocumentFile is resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving DocumentFile relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.DocumentFile != "" && !filepath.IsAbs(scenario.DocumentFile) && basePath != "" {
		scenario.DocumentFile = filepath.Join(basePath, scenario.DocumentFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Profile == "" && s.UserAgent == "" {
		return fmt.Errorf("profile or user_agent is required")
	}

	switch {
	case s.Document == "" && s.DocumentFile == "":
		return fmt.Errorf("document or document_file is required")
	case s.Document != "" && s.DocumentFile != "":
		return fmt.Errorf("document and document_file are mutually exclusive")
	}
	if s.DocumentFile != "" {
		if _, err := os.Stat(s.DocumentFile); os.IsNotExist(err) {
			return fmt.Errorf("document file not found: %s", s.DocumentFile)
		}
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step *FlowStep) error {
	switch {
	case step.Classify == "" && step.Sequence == nil:
		return fmt.Errorf("flow[%d]: classify or sequence is required", index)
	case step.Classify != "" && step.Sequence != nil:
		return fmt.Errorf("flow[%d]: classify and sequence are mutually exclusive", index)
	}

	if step.Sequence != nil {
		if step.Exceptions != nil {
			return fmt.Errorf("flow[%d]: exceptions apply to classify steps only", index)
		}
		if _, err := dom.ParseStrategy(step.Sequence.Strategy); err != nil {
			return fmt.Errorf("flow[%d]: %w", index, err)
		}
	}

	if step.Expect == nil {
		return nil
	}
	if step.Expect.Case == "" {
		return fmt.Errorf("flow[%d].expect: case is required", index)
	}
	if step.Classify != "" {
		if len(step.Expect.Elements) > 0 {
			return fmt.Errorf("flow[%d].expect: elements apply to sequence steps only", index)
		}
		if _, ok := focus.ParseResult(step.Expect.Case); !ok && step.Expect.Case != dom.ErrCodeInvalidContext {
			return fmt.Errorf("flow[%d].expect: unknown case %q for classify", index, step.Expect.Case)
		}
	} else if step.Expect.Case != CaseOK && step.Expect.Case != dom.ErrCodeInvalidContext {
		return fmt.Errorf("flow[%d].expect: unknown case %q for sequence", index, step.Expect.Case)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Elements) == 0 {
			return fmt.Errorf("assertions[%d]: elements list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
