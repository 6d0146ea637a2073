// Package llm provides the canonical conversation model and a
// provider-agnostic inference interface. The orchestration loop never sees a
// specific backend's object shapes; adapters translate the canonical turns
// and declarations at this boundary.
package llm

import "context"

// Client is the model-inference capability. Given the full history and the
// advertised tool declarations it returns one response. Implementations wrap
// provider errors in *errors.InferenceError; the caller does not retry.
type Client interface {
	Infer(ctx context.Context, turns []Turn, decls []ToolDecl) (*Response, error)
}
