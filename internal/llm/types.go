package llm

// Role tags a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

// ToolCall is the model's request to invoke a named tool with arguments.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// Turn is one role-tagged entry in session history. Exactly one content
// variant is set: Text for plain text, Call for a model's invocation request,
// or Result (with CallID/CallName) for a normalized tool result.
// Turns are appended, never mutated.
type Turn struct {
	Role     Role           `json:"role"`
	Text     string         `json:"text,omitempty"`
	Call     *ToolCall      `json:"call,omitempty"`
	CallID   string         `json:"call_id,omitempty"`
	CallName string         `json:"call_name,omitempty"`
	Result   map[string]any `json:"result,omitempty"`
}

// UserText builds a user turn carrying display text.
func UserText(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// ModelText builds a model turn carrying response text.
func ModelText(text string) Turn {
	return Turn{Role: RoleModel, Text: text}
}

// ModelCall builds a model turn recording a tool-invocation request, so the
// model's own action is part of its future context.
func ModelCall(call *ToolCall) Turn {
	return Turn{Role: RoleModel, Call: call}
}

// ToolResult builds a tool turn answering call with a canonical result map
// (a "result" key, or an "error" key plus a nil "result").
func ToolResult(call *ToolCall, result map[string]any) Turn {
	return Turn{Role: RoleTool, CallID: call.ID, CallName: call.Name, Result: result}
}

// IsError reports whether a tool turn carries an error-shaped result.
func (t Turn) IsError() bool {
	if t.Role != RoleTool || t.Result == nil {
		return false
	}
	_, ok := t.Result["error"]
	return ok
}

// ToolDecl is static metadata advertising a callable tool. Declarations are
// fetched once per server connection and immutable afterwards.
type ToolDecl struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Block is one element of an inference response: text or a tool call.
type Block struct {
	Text string
	Call *ToolCall
}

// Response is one inference result: zero or more text segments and zero or
// more tool-invocation requests, in provider order.
type Response struct {
	Blocks     []Block
	StopReason string
}

// Texts returns the response's text segments in order.
func (r *Response) Texts() []string {
	var out []string
	for _, b := range r.Blocks {
		if b.Call == nil && b.Text != "" {
			out = append(out, b.Text)
		}
	}
	return out
}

// Calls returns the response's tool-invocation requests in order.
func (r *Response) Calls() []*ToolCall {
	var out []*ToolCall
	for _, b := range r.Blocks {
		if b.Call != nil {
			out = append(out, b.Call)
		}
	}
	return out
}
