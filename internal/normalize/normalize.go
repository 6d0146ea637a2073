// Package normalize reshapes heterogeneous raw tool output into one
// canonical value. Tool servers are independent processes and legitimately
// emit JSON-encoded text, raw text, or pre-structured objects; this is the
// only place that heterogeneity is absorbed.
package normalize

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// TextPayload is implemented by content blocks that expose a text payload.
type TextPayload interface {
	TextPayload() string
}

// Normalize maps any raw tool result to its canonical value. It is total:
// the worst case is passthrough as a string.
//
// Sequences of content blocks are normalized per element; a single-element
// sequence collapses to the element itself, and a sequence whose parts are
// all sequences is flattened one level. Text payloads are strictly parsed as
// JSON, keeping the literal text when parsing fails. An empty raw result
// normalizes to nil, not an empty string.
func Normalize(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case []any:
		if len(v) == 0 {
			return nil
		}
		parts := make([]any, 0, len(v))
		for _, block := range v {
			parts = append(parts, normalizeBlock(block))
		}
		if len(parts) == 1 {
			return parts[0]
		}
		if flat, ok := flatten(parts); ok {
			return flat
		}
		return parts
	case string:
		return parseText(v)
	case map[string]any:
		return v
	default:
		return fmt.Sprintf("%v", raw)
	}
}

// Result wraps a normalized value in the canonical success shape.
func Result(v any) map[string]any {
	return map[string]any{"result": v}
}

// ErrorResult builds the canonical error shape: an error description plus a
// nil result, mutually exclusive with a successful value.
func ErrorResult(msg string) map[string]any {
	return map[string]any{"error": msg, "result": nil}
}

func normalizeBlock(block any) any {
	switch b := block.(type) {
	case TextPayload:
		return parseText(b.TextPayload())
	case map[string]any:
		if text, ok := b["text"].(string); ok {
			return parseText(text)
		}
		// No text key: already-structured data, pass through.
		return b
	case string:
		return parseText(b)
	default:
		return fmt.Sprintf("%v", block)
	}
}

// parseText attempts strict JSON parsing of a text payload, keeping the
// literal text on failure.
func parseText(text string) any {
	if !gjson.Valid(text) {
		return text
	}
	return gjson.Parse(text).Value()
}

// flatten concatenates parts one level when every part is itself a sequence.
func flatten(parts []any) ([]any, bool) {
	total := 0
	for _, p := range parts {
		seq, ok := p.([]any)
		if !ok {
			return nil, false
		}
		total += len(seq)
	}
	flat := make([]any, 0, total)
	for _, p := range parts {
		flat = append(flat, p.([]any)...)
	}
	return flat, true
}
