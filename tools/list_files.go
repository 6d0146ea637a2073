package tools

import (
	"encoding/json"

	"github.com/quietfold/mcpchat/internal/fsops"
)

type ListFilesInput struct {
	Path     string `json:"path,omitempty" jsonschema_description:"Optional relative path to list files from (defaults to current directory)."`
	Page     int    `json:"page,omitempty" jsonschema_description:"1-based page number (default 1)."`
	PageSize int    `json:"page_size,omitempty" jsonschema_description:"Page size (default 200)."`
}

const defaultListPageSize = 200

var ListFilesDefinition = ToolDefinition{
	Name:        "list_files",
	Description: "List names of files in a directory within the workspace (non-recursive).",
	InputSchema: ListFilesInputSchema,
	Function:    ListFiles,
}

var ListFilesInputSchema = GenerateSchema[ListFilesInput]()

// ListFiles returns one page of a directory's sorted entry names as a JSON
// array; directories carry a trailing "/". Out-of-range pages yield an empty
// array rather than an error, so a model paging past the end sees a clean
// stop signal.
func ListFiles(input json.RawMessage) (string, error) {
	var in ListFilesInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	page := in.Page
	if page <= 0 {
		page = 1
	}
	size := in.PageSize
	if size <= 0 {
		size = defaultListPageSize
	}

	names, err := fsops.ListDir(in.Path)
	if err != nil {
		return "", err
	}

	start := (page - 1) * size
	if start >= len(names) {
		return "[]", nil
	}
	end := start + size
	if end > len(names) {
		end = len(names)
	}

	b, err := json.Marshal(names[start:end])
	if err != nil {
		return "", err
	}
	return string(b), nil
}
