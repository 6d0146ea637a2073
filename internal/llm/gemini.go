package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"os"
	"time"

	mcperr "github.com/quietfold/mcpchat/internal/errors"
)

// Gemini implements Client over Google's Gemini generateContent API.
// This is the provider the hand-written client it descends from used; the
// wire types below mirror that API directly.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	Tools            []geminiTool     `json:"tools,omitempty"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text             string              `json:"text,omitempty"`
	FunctionCall     *geminiFunctionCall `json:"functionCall,omitempty"`
	FunctionResponse *geminiFunctionResp `json:"functionResponse,omitempty"`
}

type geminiFunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

type geminiFunctionResp struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type geminiTool struct {
	FunctionDeclarations []geminiFuncDecl `json:"functionDeclarations"`
}

type geminiFuncDecl struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type geminiGenConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewGemini creates a Gemini-backed Client. If apiKey is empty it reads
// GEMINI_API_KEY (or GOOGLE_API_KEY) from the environment.
func NewGemini(apiKey, model string) *Gemini {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if model == "" {
		model = "gemini-2.0-flash-001"
	}
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Gemini) Infer(ctx context.Context, turns []Turn, decls []ToolDecl) (*Response, error) {
	req := geminiRequest{
		GenerationConfig: &geminiGenConfig{MaxOutputTokens: 8192},
	}

	if len(decls) > 0 {
		fdecls := make([]geminiFuncDecl, 0, len(decls))
		for _, d := range decls {
			var params map[string]any
			if d.InputSchema == nil {
				params = map[string]any{"type": "object", "properties": map[string]any{}}
			} else {
				// Copy before defaulting "type" so the fetched declaration
				// stays untouched.
				params = maps.Clone(d.InputSchema)
				if _, ok := params["type"]; !ok {
					params["type"] = "object"
				}
			}
			fdecls = append(fdecls, geminiFuncDecl{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  params,
			})
		}
		req.Tools = []geminiTool{{FunctionDeclarations: fdecls}}
	}

	for _, t := range turns {
		switch t.Role {
		case RoleUser:
			req.Contents = append(req.Contents, geminiContent{
				Role:  "user",
				Parts: []geminiPart{{Text: t.Text}},
			})
		case RoleModel:
			if t.Call != nil {
				req.Contents = append(req.Contents, geminiContent{
					Role:  "model",
					Parts: []geminiPart{{FunctionCall: &geminiFunctionCall{Name: t.Call.Name, Args: t.Call.Args}}},
				})
			} else if t.Text != "" {
				req.Contents = append(req.Contents, geminiContent{
					Role:  "model",
					Parts: []geminiPart{{Text: t.Text}},
				})
			}
		case RoleTool:
			// The canonical result map is exactly the functionResponse body
			// Gemini expects: a "result" key, or "error" plus a null result.
			req.Contents = append(req.Contents, geminiContent{
				Role:  "user",
				Parts: []geminiPart{{FunctionResponse: &geminiFunctionResp{Name: t.CallName, Response: t.Result}}},
			})
		}
	}

	resp, err := c.doRequest(ctx, req)
	if err != nil {
		return nil, &mcperr.InferenceError{Provider: "gemini", Err: err}
	}
	if len(resp.Candidates) == 0 {
		return nil, &mcperr.InferenceError{Provider: "gemini", Err: fmt.Errorf("no candidates in response")}
	}

	candidate := resp.Candidates[0]
	out := &Response{StopReason: "end_turn"}
	callSeq := 0 // Gemini supplies no call IDs; generate stable ones
	for _, p := range candidate.Content.Parts {
		if p.Text != "" {
			out.Blocks = append(out.Blocks, Block{Text: p.Text})
		}
		if p.FunctionCall != nil {
			out.Blocks = append(out.Blocks, Block{Call: &ToolCall{
				ID:   fmt.Sprintf("gemini-call-%d", callSeq),
				Name: p.FunctionCall.Name,
				Args: p.FunctionCall.Args,
			}})
			callSeq++
		}
	}
	if len(out.Calls()) > 0 {
		out.StopReason = "tool_use"
	} else if candidate.FinishReason == "MAX_TOKENS" {
		out.StopReason = "max_tokens"
	}
	return out, nil
}

func (c *Gemini) doRequest(ctx context.Context, body geminiRequest) (*geminiResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", httpResp.StatusCode, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("API error %d (%s): %s", resp.Error.Code, resp.Error.Status, resp.Error.Message)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", httpResp.StatusCode)
	}
	return &resp, nil
}
