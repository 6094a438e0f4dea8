// Package harness runs conformance scenarios against the type model and
// the TAC builder.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: array_invariance
//	description: "Arrays are invariant in their element type"
//	package: bank                 # package type names resolve in
//	decls: [decls/]               # CUE declaration dirs, relative to the file
//	judgments:
//	  - {op: subtype, left: "int[,]", right: "int[][]", expect: false}
//	  - {op: can_accept, declared: [int], args: [long], expect: false}
//	program:
//	  params: [{name: x, type: int}]
//	  returns: [boolean]
//	  steps:
//	    - {op: literal, type: boolean, value: "true", as: t}
//	    - {op: not, args: [t], as: n}
//	    - {op: return, args: [n]}
//	  expect_error: ""            # or an error code such as operand_type
//	assertions:
//	  - {type: dump_contains, text: "not %1"}
//	  - {type: node_count, kind: not, count: 1}
//
// # Judgment Operations
//
//   - subtype, strict_subtype: left is a (strict) subtype of right
//   - equal: types.Equal
//   - same_package_and_name: the operand-check leniency
//   - can_accept, matches: sequence judgments over declared and args
//
// # Deterministic Testing
//
// Every scenario builds a fresh registry, so node numbering, label numbering
// and dumps are identical across runs. Results serialize to canonical JSON
// for golden comparison.
package harness
