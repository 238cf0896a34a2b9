package service

import (
	"context"

	"mapchat/internal/ai"
)

// IntentExtractor turns a prompt into an Intent. It never fails.
type IntentExtractor interface {
	Extract(ctx context.Context, prompt string) ai.Intent
}

// Assistant runs a prompt through extraction and composition.
type Assistant struct {
	extractor IntentExtractor
	composer  *Composer
}

func NewAssistant(extractor IntentExtractor, composer *Composer) *Assistant {
	return &Assistant{extractor: extractor, composer: composer}
}

// Process answers prompt. Errors are UpstreamErrors from the mapping collaborator.
func (a *Assistant) Process(ctx context.Context, prompt string) (*FinalResponse, error) {
	intent := a.extractor.Extract(ctx, prompt)
	return a.composer.Compose(ctx, intent)
}
