// Package tools defines the bundled tool server's tool contracts and
// implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - File tools: read_file, list_files (non-recursive), edit_file, all
//     confined to the sandbox roots enforced by internal/fsops.
package tools
