package ai

import (
	"context"
)

// Completer sends a fully built prompt to a language model and returns the raw
// completion text. Implementations exist for a local Ollama server and for Gemini;
// tests substitute their own.
type Completer interface {
	// Complete returns the model output for prompt. Transport failures, non-success
	// responses and empty completions are all reported as errors.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider in logs and metrics ("ollama", "gemini").
	Name() string
}
