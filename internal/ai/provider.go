package ai

import (
	"context"
	"fmt"
	"strings"
)

// ProviderConfig selects and configures a Completer.
type ProviderConfig struct {
	Provider     string // "ollama" or "gemini"
	OllamaURL    string
	OllamaModel  string
	GeminiAPIKey string
	GeminiModel  string
}

// NewCompleter builds the configured Completer. The returned close function is
// always non-nil.
func NewCompleter(ctx context.Context, cfg ProviderConfig) (Completer, func(), error) {
	noop := func() {}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "ollama":
		c, err := NewOllamaCompleter(cfg.OllamaURL, cfg.OllamaModel)
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil
	case "gemini":
		c, err := NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, noop, err
		}
		return c, c.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
