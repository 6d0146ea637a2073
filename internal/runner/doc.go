// Package runner drives one user query through a bounded cycle of model
// inference and tool execution.
//
// Invariants:
//   - Every invocation request entering history is immediately followed by
//     its normalized result turn, before any further inference call.
//   - Total inference calls per query are capped; hitting the cap is a
//     defined terminal state, not an error.
//
// Flow:
//
//	user(text) -> model(tool call)* -> tool(result)* -> ... -> model(text)
package runner
