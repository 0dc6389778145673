// Package harness runs YAML scenarios against the certificate checker.
//
// A scenario lists certificate steps with expected outcomes, plus integer
// division cases, and optional assertions over the resulting trace and the
// check log.
//
// # Scenario Format
//
//	name: bound_contradiction
//	description: "x <= -1 and x >= 1 are jointly unsatisfiable"
//	declare: { r: Real }
//	steps:
//	  - name: bound
//	    rule: farkas
//	    params: [arith, farkas, "1", "1"]
//	    premises: ["(<= x (- 1))", "(>= x 1)"]
//	    expect:
//	      coefficients: ["1", "-1"]
//	      inequality: "(<= 0 -2)"
//	      contradiction: true
//	idiv:
//	  - term: "(+ (* 4 x) 3)"
//	    divisor: "2"
//	    expect: "(+ 1 (* 2 x))"
//	assertions:
//	  - type: trace_order
//	    steps: [bound]
//	  - type: final_state
//	    table: checks
//	    where: { step: bound }
//	    expect: { contradiction: 1 }
//
// # Assertion Types
//
//   - trace_contains: a step appears in the trace
//   - trace_order: steps appear in the given order
//   - trace_count: the trace holds exactly Count events of a kind
//   - final_state: one row of the check log matches the expected columns
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite log with a fixed run
// ID, so traces are identical across runs and can be compared against
// golden files with RunWithGolden.
package harness
