// Package errors defines the error taxonomy for a chat session.
// It distinguishes failures that end the session (transport), failures that
// end one query (inference), and failures that are absorbed into the
// conversation as error-shaped tool results (tool execution).
package errors

import (
	"errors"
	"fmt"
)

// ConfigError reports a missing or invalid startup requirement, such as an
// absent API credential. It is fatal before any connection attempt.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("config: %s is not set", e.Key)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TransportError reports that the tool-server channel is unreachable or
// broken. No tool calls are possible once this occurs; the session is over.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// InferenceError reports a provider-side failure (rate limit, auth, malformed
// request). It fails the current query; the session and its history survive.
type InferenceError struct {
	Provider string
	Err      error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference (%s): %v", e.Provider, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// ToolError reports that one tool invocation failed. It never aborts a query:
// the orchestration loop converts it into an error-shaped result the model
// can see and adapt to.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsInference reports whether err is (or wraps) an InferenceError.
func IsInference(err error) bool {
	var ie *InferenceError
	return errors.As(err, &ie)
}

// IsTool reports whether err is (or wraps) a ToolError.
func IsTool(err error) bool {
	var te *ToolError
	return errors.As(err, &te)
}
