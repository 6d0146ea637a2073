package tools

// Registry returns all tool definitions served by the bundled tool server
func Registry() []ToolDefinition {
	return []ToolDefinition{ReadFileDefinition, ListFilesDefinition, EditFileDefinition}
}
