// Package provider constructs the configured model-inference client.
package provider

import (
	"fmt"
	"os"

	mcperr "github.com/quietfold/mcpchat/internal/errors"
	"github.com/quietfold/mcpchat/internal/llm"
)

// NewFromEnv builds the inference client selected by MCPCHAT_PROVIDER
// ("anthropic", the default, or "gemini") with the model from MCPCHAT_MODEL.
// The required credential is checked here, before any connection attempt.
func NewFromEnv() (llm.Client, error) {
	model := os.Getenv("MCPCHAT_MODEL")

	switch p := os.Getenv("MCPCHAT_PROVIDER"); p {
	case "", "anthropic":
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			return nil, &mcperr.ConfigError{Key: "ANTHROPIC_API_KEY"}
		}
		return llm.NewAnthropic(model), nil

	case "gemini":
		if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
			return nil, &mcperr.ConfigError{Key: "GEMINI_API_KEY"}
		}
		return llm.NewGemini("", model), nil

	default:
		return nil, &mcperr.ConfigError{
			Key: "MCPCHAT_PROVIDER",
			Err: fmt.Errorf("unknown provider %q (supported: anthropic, gemini)", p),
		}
	}
}
