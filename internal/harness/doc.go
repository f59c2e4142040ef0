// Package harness runs focus conformance scenarios.
//
// A scenario pins an environment (a named profile, or a user agent plus a
// capability table), a document, and a flow of classification and tab
// sequence steps with their expected outcomes. Every step is recorded in a
// trace that assertions inspect and golden files snapshot.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	profile: chrome60
//	capabilities:
//	  focusSvg: true
//	document: |
//	  <button id="b" tabindex="1">b</button>
//	flow:
//	  - classify: "//*[@id='b']"
//	    exceptions: { visible: true }
//	    expect:
//	      case: tabbable
//	  - sequence:
//	      context: "//body"
//	      include_context: false
//	      strategy: quick
//	    expect:
//	      case: ok
//	      elements: [b]
//	assertions:
//	  - type: trace_contains
//	    event: classify
//	    args: { element: b, result: tabbable }
//	  - type: trace_order
//	    elements: [b]
//	  - type: trace_count
//	    event: tab_stop
//	    count: 1
//	  - type: final_state
//	    table: capabilities
//	    where: { name: focusSvg }
//	    expect: { supported: 1 }
//
// # Assertion Types
//
//   - trace_contains: an event of the given type whose fields contain args
//   - trace_order: tab stops visit the elements in the given order
//   - trace_count: the number of events of a type, optionally filtered by args
//   - final_state: a row of the scenario's capability store
//
// # Determinism
//
// Each scenario runs against a fresh in-memory store with fixed run ids.
// The environment's capabilities are written to the store and read back
// through the capability cache, so a scenario exercises the same path as
// a recorded browser probe.
package harness
