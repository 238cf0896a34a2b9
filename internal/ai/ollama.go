package ai

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// DefaultOllamaModel is used when no model is configured.
const DefaultOllamaModel = "llama3"

// OllamaCompleter implements Completer against a local Ollama server.
type OllamaCompleter struct {
	llm   *ollama.LLM
	model string
}

// NewOllamaCompleter connects to the Ollama server at serverURL (for example
// "http://localhost:11434").
func NewOllamaCompleter(serverURL, model string) (*OllamaCompleter, error) {
	u, err := url.Parse(strings.TrimSpace(serverURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("ollama: invalid server url %q", serverURL)
	}
	if model == "" {
		model = DefaultOllamaModel
	}

	llm, err := ollama.New(
		ollama.WithServerURL(u.String()),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama: create client: %w", err)
	}
	return &OllamaCompleter{llm: llm, model: model}, nil
}

func (c *OllamaCompleter) Name() string { return "ollama" }

// Complete runs a single non-streaming generation.
func (c *OllamaCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("ollama: generate (%s): %w", c.model, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("ollama: empty completion (%s)", c.model)
	}
	return out, nil
}
