package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	mcperr "github.com/quietfold/mcpchat/internal/errors"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = string(anthropic.ModelClaude3_7SonnetLatest)

const anthropicMaxTokens = 8192

// Anthropic implements Client over the Anthropic Messages API.
type Anthropic struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropic returns an Anthropic-backed Client. The API key is read from
// the environment by the SDK; opts allow tests to inject a transport.
func NewAnthropic(model string, opts ...option.RequestOption) *Anthropic {
	if model == "" {
		model = DefaultAnthropicModel
	}
	c := anthropic.NewClient(opts...)
	return &Anthropic{client: &c, model: anthropic.Model(model)}
}

func (c *Anthropic) Infer(ctx context.Context, turns []Turn, decls []ToolDecl) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: int64(anthropicMaxTokens),
		Messages:  anthropicMessages(turns),
	}
	if len(decls) > 0 {
		params.Tools = anthropicTools(decls)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, &mcperr.InferenceError{Provider: "anthropic", Err: err}
	}

	resp := &Response{StopReason: string(msg.StopReason)}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			if v.Text != "" {
				resp.Blocks = append(resp.Blocks, Block{Text: v.Text})
			}
		case anthropic.ToolUseBlock:
			var args map[string]any
			if raw := v.JSON.Input.Raw(); raw != "" {
				_ = json.Unmarshal([]byte(raw), &args)
			}
			resp.Blocks = append(resp.Blocks, Block{Call: &ToolCall{ID: v.ID, Name: v.Name, Args: args}})
		}
	}
	return resp, nil
}

func anthropicTools(decls []ToolDecl) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(decls))
	for _, d := range decls {
		props, _ := d.InputSchema["properties"].(map[string]any)
		schema := anthropic.ToolInputSchemaParam{Properties: props}
		if req, ok := d.InputSchema["required"].([]any); ok {
			required := make([]string, 0, len(req))
			for _, r := range req {
				if s, ok := r.(string); ok {
					required = append(required, s)
				}
			}
			schema.Required = required
		}
		t := anthropic.ToolUnionParamOfTool(schema, d.Name)
		if d.Description != "" {
			t.OfTool.Description = param.NewOpt(d.Description)
		}
		out = append(out, t)
	}
	return out
}

// anthropicMessages translates canonical turns into SDK message params.
// The per-call pair layout (assistant tool_use immediately answered by a user
// tool_result) is preserved verbatim, which is exactly the alternation the
// Messages API requires.
func anthropicMessages(turns []Turn) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Text)))
		case RoleModel:
			if t.Call != nil {
				out = append(out, anthropic.NewAssistantMessage(
					anthropic.NewToolUseBlock(t.Call.ID, t.Call.Args, t.Call.Name)))
			} else if t.Text != "" {
				out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Text)))
			}
		case RoleTool:
			out = append(out, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(t.CallID, encodeResult(t.Result), t.IsError())))
		}
	}
	return out
}

// encodeResult renders a canonical result map as compact JSON for the
// tool_result content string. Marshal failure degrades to fmt; the result map
// is always built from JSON-compatible values so this is a safety net only.
func encodeResult(result map[string]any) string {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(b)
}
