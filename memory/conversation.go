package memory

import "github.com/quietfold/mcpchat/internal/llm"

// Conversation owns one session's ordered history. Turns are appended, never
// mutated or removed, except by Reset which clears the whole history
// atomically. A Conversation is owned by exactly one session and must not be
// shared between sessions.
type Conversation struct {
	turns []llm.Turn
}

// New returns an empty conversation.
func New() *Conversation {
	return &Conversation{}
}

// Append adds one turn to the end of the history.
func (c *Conversation) Append(t llm.Turn) {
	c.turns = append(c.turns, t)
}

// AppendExchange appends a model invocation turn and its normalized tool
// result turn as one unit, so a result never appears without its request
// even if the surrounding call is cancelled between them.
func (c *Conversation) AppendExchange(call, result llm.Turn) {
	c.turns = append(c.turns, call, result)
}

// Turns returns a copy of the history in append order.
func (c *Conversation) Turns() []llm.Turn {
	out := make([]llm.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len reports the number of turns.
func (c *Conversation) Len() int { return len(c.turns) }

// Reset clears the history for a fresh context.
func (c *Conversation) Reset() { c.turns = nil }
