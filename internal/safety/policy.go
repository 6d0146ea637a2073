// Package safety enforces the sandbox policy for the bundled file tools:
// every path a tool touches must resolve inside a configured root, and a
// small denylist protects version-control and session-artifact state.
package safety

import "encoding/json"

// Policy violation codes surfaced to the model.
const (
	CodeOutsideSandbox = "ERR_PATH_OUTSIDE_SANDBOX"
	CodeDeniedRead     = "ERR_DENIED_READ"
	CodeDeniedWrite    = "ERR_DENIED_WRITE"
	CodeNotAFile       = "ERR_NOT_A_FILE"
)

// deniedDirs are top-level directories no tool may read or write:
// version-control internals and the session's own artifact directory.
var deniedDirs = []string{".git", ".mcpchat"}

// deniedWriteNames are basenames that may never be written at any depth.
var deniedWriteNames = []string{"go.mod", "go.sum"}

// PolicyError is a machine-readable violation. Its Error form is a compact
// JSON object so it can travel inside a tool result without re-encoding.
type PolicyError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e PolicyError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}
