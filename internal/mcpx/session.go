// Package mcpx wraps the MCP Go SDK's stdio client behind the narrow
// tool-transport contract the rest of the program depends on: list the
// declarations once per connection, invoke one tool at a time.
package mcpx

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	mcperr "github.com/quietfold/mcpchat/internal/errors"
	"github.com/quietfold/mcpchat/internal/llm"
	"github.com/quietfold/mcpchat/internal/schema"
)

// Session is one live channel to a tool-providing subprocess.
type Session struct {
	cs *mcp.ClientSession
}

// Connect launches the tool-server program at serverPath and performs the
// MCP handshake over its standard streams.
func Connect(ctx context.Context, serverPath string) (*Session, error) {
	client := mcp.NewClient(&mcp.Implementation{Name: "mcpchat", Version: "v0.1.0"}, nil)
	transport := &mcp.CommandTransport{Command: ServerCommand(serverPath)}

	cs, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, &mcperr.TransportError{Op: "connect " + serverPath, Err: err}
	}
	return &Session{cs: cs}, nil
}

// ListToolDeclarations fetches the server's advertised tools and translates
// them into canonical declarations, stripping schema fields some inference
// backends reject. Called once at session start; declarations are immutable
// for the connection's lifetime.
func (s *Session) ListToolDeclarations(ctx context.Context) ([]llm.ToolDecl, error) {
	res, err := s.cs.ListTools(ctx, nil)
	if err != nil {
		return nil, &mcperr.TransportError{Op: "list tools", Err: err}
	}

	decls := make([]llm.ToolDecl, 0, len(res.Tools))
	for _, t := range res.Tools {
		var raw json.RawMessage
		if t.InputSchema != nil {
			raw, err = json.Marshal(t.InputSchema)
			if err != nil {
				return nil, fmt.Errorf("mcpx: marshal schema for %s: %w", t.Name, err)
			}
		}
		cleaned, err := schema.Clean(raw)
		if err != nil {
			return nil, fmt.Errorf("mcpx: clean schema for %s: %w", t.Name, err)
		}
		decls = append(decls, llm.ToolDecl{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: cleaned,
		})
	}
	return decls, nil
}

// Invoke executes one tool call and returns the raw result content in a
// neutral shape for the normalizer. A broken channel surfaces as a
// TransportError; a tool-level failure surfaces as a ToolError.
func (s *Session) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	res, err := s.cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, &mcperr.ToolError{Tool: name, Err: err}
	}
	if res.IsError {
		return nil, &mcperr.ToolError{Tool: name, Err: fmt.Errorf("%s", errorText(res))}
	}
	return rawContent(res), nil
}

// Close tears down the channel and the server subprocess.
func (s *Session) Close() error {
	if err := s.cs.Close(); err != nil {
		return &mcperr.TransportError{Op: "close", Err: err}
	}
	return nil
}

// rawContent converts a call result into normalizer input: a sequence of
// neutral content values (text-bearing maps, structured maps, or strings).
func rawContent(res *mcp.CallToolResult) any {
	if res.StructuredContent != nil {
		return res.StructuredContent
	}
	if len(res.Content) == 0 {
		return nil
	}
	out := make([]any, 0, len(res.Content))
	for _, c := range res.Content {
		out = append(out, contentValue(c))
	}
	return out
}

func contentValue(c mcp.Content) any {
	if tc, ok := c.(*mcp.TextContent); ok {
		return map[string]any{"type": "text", "text": tc.Text}
	}
	// Non-text content (images, resources): keep its structured form.
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%v", c)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return string(b)
	}
	return m
}

// errorText joins the text blocks of an error-flagged result into one
// description for the error-shaped tool result.
func errorText(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok && tc.Text != "" {
			parts = append(parts, tc.Text)
		}
	}
	if len(parts) == 0 {
		return "tool execution failed"
	}
	return strings.Join(parts, "\n")
}
