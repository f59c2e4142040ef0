package harness

// Trace event types.
const (
	EventClassify = "classify"
	EventSequence = "sequence"
	EventTabStop  = "tab_stop"
)

// TraceEvent is one observation made while running a flow.
type TraceEvent struct {
	Type     string `json:"type"`
	Step     int    `json:"step"`
	Element  string `json:"element,omitempty"`
	Context  string `json:"context,omitempty"`
	Result   string `json:"result,omitempty"`
	Position int    `json:"position,omitempty"` // 1-based, tab_stop only
	Seq      int64  `json:"seq"`
}

// fields exposes the event for subset matching.
func (e TraceEvent) fields() map[string]any {
	m := map[string]any{
		"type": e.Type,
		"step": e.Step,
	}
	if e.Element != "" {
		m["element"] = e.Element
	}
	if e.Context != "" {
		m["context"] = e.Context
	}
	if e.Result != "" {
		m["result"] = e.Result
	}
	if e.Position != 0 {
		m["position"] = e.Position
	}
	return m
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Trace contains every recorded event in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddEvent appends an event to the trace.
func (r *Result) AddEvent(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}

// TabStops returns the element labels of the tab_stop events of one step.
func (r *Result) TabStops(step int) []string {
	var out []string
	for _, e := range r.Trace {
		if e.Type == EventTabStop && e.Step == step {
			out = append(out, e.Element)
		}
	}
	return out
}
