package tools

import (
	"encoding/json"
	"strings"

	"github.com/quietfold/mcpchat/internal/fsops"
)

type ReadFileInput struct {
	Path   string `json:"path" jsonschema_description:"Relative file path."`
	Offset int    `json:"offset,omitempty" jsonschema_description:"Line offset (0-based) to start reading from."`
	Limit  int    `json:"limit,omitempty" jsonschema_description:"Maximum lines to return from offset (default 200)."`
}

// Output caps keep tool results predictably small for token heuristics.
const (
	defaultReadLimit   = 200
	maxLineRunes       = 2000
	maxOutputRunes     = 12_000
	truncationSentinel = "-- truncated; use offset/limit to fetch more --\n"
)

var ReadFileDefinition = ToolDefinition{
	Name:        "read_file",
	Description: "Read the contents of a file addressed by a relative file path within the workspace. Directory paths and unsafe paths are rejected.",
	InputSchema: ReadFileInputSchema,
	Function:    ReadFile,
}

var ReadFileInputSchema = GenerateSchema[ReadFileInput]()

// ReadFile reads through the sandbox and pages the content by lines. When
// anything was cut (line window, per-line clamp, or the overall cap) the
// output ends with a sentinel telling the model how to fetch the rest.
func ReadFile(input json.RawMessage) (string, error) {
	var in ReadFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}

	content, err := fsops.ReadFile(in.Path)
	if err != nil {
		return "", err
	}

	out, truncated := pageLines(content, in.Offset, in.Limit)
	if truncated {
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		out += truncationSentinel
	}
	return out, nil
}

// pageLines selects the [offset, offset+limit) line window of content and
// applies the per-line and overall rune caps. Negative offset reads from the
// start; limit <= 0 uses the default page size.
func pageLines(content string, offset, limit int) (string, bool) {
	if limit <= 0 {
		limit = defaultReadLimit
	}
	if offset < 0 {
		offset = 0
	}

	lines := strings.Split(content, "\n")
	if offset > len(lines) {
		offset = len(lines)
	}
	end := offset + limit
	if end > len(lines) {
		end = len(lines)
	}

	truncated := end < len(lines)
	window := lines[offset:end]
	for i, line := range window {
		if r := []rune(line); len(r) > maxLineRunes {
			window[i] = string(r[:maxLineRunes])
			truncated = true
		}
	}

	out := strings.Join(window, "\n")
	if r := []rune(out); len(r) > maxOutputRunes {
		out = string(r[:maxOutputRunes])
		truncated = true
	}
	return out, truncated
}
