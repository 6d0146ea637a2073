// Package memory holds session-scoped conversation state.
//
// Ownership model:
//   - One Conversation per interactive session; history lives only for the
//     process lifetime and is never shared between sessions.
//   - Invariants: append-only ordering; an invocation request and its result
//     are appended together as a pair.
package memory
