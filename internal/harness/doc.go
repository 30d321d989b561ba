// Package harness runs conformance scenarios against machine definitions.
//
// A scenario names a machine definition and a list of cases. Each case
// traces one input with one budget and states what the search must report.
// The harness drives the real engine; nothing is simulated.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: zero_then_blank
//	description: "Accepts a single zero"
//	machine: machines/zero.txt      # relative to the scenario file
//	policy: expansions              # optional: expansions | dead-ends
//	cases:
//	  - input: "0"
//	    max_steps: 10
//	    expect:
//	      outcome: accept
//	      transitions: 2
//	      path_len: 3
//	      final: "0_,qa,_,"
//	  - input: "1"
//	    max_steps: 10
//	    expect:
//	      outcome: reject
//	      max_depth: 0
//
// # Expectations
//
// outcome is required; every other field is checked only when present:
//
//   - transitions: depth of the accepting node
//   - max_depth: deepest level dequeued
//   - steps: budget units consumed
//   - path_len: number of configurations on the accepting path
//   - final: last configuration on the accepting path, as left,state,head,right
//
// # Golden Files
//
// A scenario's transcript (every case rendered as the session output file
// renders it) can be compared with testdata/golden/<name>.golden using
// RunWithGolden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
