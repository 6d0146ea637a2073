package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quietfold/mcpchat/internal/fsops"
)

type EditFileInput struct {
	Path   string `json:"path" jsonschema_description:"Target relative file path"`
	OldStr string `json:"old_str" jsonschema_description:"Exact text to replace; must be present when editing an existing file."`
	NewStr string `json:"new_str" jsonschema_description:"New text to write or replace old_str with"`
}

var EditFileDefinition = ToolDefinition{
	Name: "edit_file",
	Description: `Create or modify a text file addressed by a relative path within the workspace.

When old_str is empty and the file does not exist, a new file is created with new_str as its content.

When editing an existing file, all occurrences of old_str are replaced with new_str; old_str and new_str must be different.
`,
	InputSchema: EditFileInputSchema,
	Function:    EditFile,
}

var EditFileInputSchema = GenerateSchema[EditFileInput]()

func EditFile(input json.RawMessage) (string, error) {
	var in EditFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	if in.Path == "" || in.OldStr == in.NewStr {
		return "", fmt.Errorf("invalid edit parameters")
	}

	current, readErr := fsops.ReadFile(in.Path)
	if readErr != nil {
		// Missing file plus empty old_str means create.
		if in.OldStr == "" {
			if err := fsops.WriteFile(in.Path, in.NewStr); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully created file %s", in.Path), nil
		}
		return "", readErr
	}

	if in.OldStr == "" {
		return "", fmt.Errorf("old_str must be provided when editing an existing file")
	}
	edited := strings.ReplaceAll(current, in.OldStr, in.NewStr)
	if edited == current {
		return "", fmt.Errorf("old_str not found in file")
	}

	if err := fsops.WriteFile(in.Path, edited); err != nil {
		return "", err
	}
	return "OK", nil
}
