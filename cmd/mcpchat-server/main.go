// mcpchat-server is a small stdio MCP server exposing sandboxed file tools,
// bundled so the chat client can be exercised end to end:
//
//	mcpchat ./mcpchat-server
//
// Sandbox roots default to the working directory; override with
// MCPCHAT_READ_ROOT and MCPCHAT_WRITE_ROOT.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quietfold/mcpchat/tools"
)

func main() {
	server := mcp.NewServer(&mcp.Implementation{Name: "mcpchat-files", Version: "v0.1.0"}, nil)

	for _, def := range tools.Registry() {
		t, h, err := serverTool(def)
		if err != nil {
			fmt.Fprintf(os.Stderr, "register %s: %v\n", def.Name, err)
			os.Exit(1)
		}
		server.AddTool(t, h)
	}

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

// serverTool bridges a tool definition onto the MCP server surface. Handler
// errors become error-flagged results rather than protocol failures, so a
// failing tool never tears down the session.
func serverTool(def tools.ToolDefinition) (*mcp.Tool, mcp.ToolHandler, error) {
	var schema *jsonschema.Schema
	if err := json.Unmarshal(def.InputSchema, &schema); err != nil {
		return nil, nil, fmt.Errorf("decode input schema: %w", err)
	}

	t := &mcp.Tool{
		Name:        def.Name,
		Description: def.Description,
		InputSchema: schema,
	}

	h := func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Arguments arrive raw from the wire; re-marshal keeps this robust
		// to the SDK surfacing them as either raw bytes or a decoded map.
		args, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		out, err := def.Function(args)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: out}},
		}, nil
	}
	return t, h, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
