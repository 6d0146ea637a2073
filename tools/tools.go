package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// ToolDefinition binds a tool's advertised metadata to its handler. The
// schema is a standalone JSON Schema document, so the same definition can be
// served over MCP or translated for an inference backend.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Function    func(input json.RawMessage) (string, error)
}

// GenerateSchema derives a JSON Schema document from a Go input struct,
// honouring json and jsonschema_description tags.
func GenerateSchema[T any]() json.RawMessage {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	s := reflector.Reflect(v)
	b, err := json.Marshal(s)
	if err != nil {
		// Reflect output is always marshalable; keep the zero-value contract anyway.
		return json.RawMessage(`{"type":"object","properties":{}}`)
	}
	return b
}
