package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrNoJSON is returned by DecodeIntent when the text holds no brace-delimited span.
var ErrNoJSON = errors.New("no json object in completion")

// Extractor turns a free-text prompt into an Intent using a Completer, falling
// back to the keyword heuristic on any failure.
type Extractor struct {
	completer Completer
	logger    *zap.Logger
}

// NewExtractor creates an Extractor. A nil completer makes every call use the
// heuristic; a nil logger discards logs.
func NewExtractor(completer Completer, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{completer: completer, logger: logger.Named("extractor")}
}

// Extract never fails: completion errors and undecodable output both degrade to
// Fallback, which keeps the raw completion text as the reply when there is one.
func (e *Extractor) Extract(ctx context.Context, prompt string) Intent {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ai.Extractor.Extract",
		trace.WithAttributes(attribute.Int("prompt.length", len(prompt))),
	)
	defer span.End()

	if e.completer == nil {
		return e.degrade(span, prompt, nil, reasonUnavailable, errors.New("no completer configured"))
	}

	start := time.Now()
	raw, err := e.completer.Complete(ctx, BuildPrompt(prompt))
	elapsed := time.Since(start)
	recordCompletion(e.completer.Name(), elapsed, err)
	if err != nil {
		return e.degrade(span, prompt, nil, reasonCompletionError, err)
	}
	e.logger.Debug("completion received",
		zap.String("provider", e.completer.Name()),
		zap.Duration("elapsed", elapsed),
		zap.Int("length", len(raw)),
	)

	intent, err := DecodeIntent(raw)
	if err != nil {
		reason := reasonDecodeError
		if errors.Is(err, ErrNoJSON) {
			reason = reasonNoJSON
		}
		return e.degrade(span, prompt, &raw, reason, err)
	}

	span.SetAttributes(attribute.String("intent.source", "completion"))
	intentsExtractedTotal.WithLabelValues("completion").Inc()
	return intent
}

func (e *Extractor) degrade(span trace.Span, prompt string, raw *string, reason string, err error) Intent {
	e.logger.Warn("intent extraction degraded to heuristic",
		zap.String("reason", reason),
		zap.Error(err),
	)
	span.SetAttributes(
		attribute.String("intent.source", "fallback"),
		attribute.String("intent.fallback_reason", reason),
	)
	intentFallbacksTotal.WithLabelValues(reason).Inc()
	intentsExtractedTotal.WithLabelValues("fallback").Inc()
	return Fallback(prompt, raw)
}

// DecodeIntent decodes the first brace-delimited span of text, taken greedily
// from the first '{' to the last '}'. Nested or multiple objects are not
// separated; the span must decode as a whole.
func DecodeIntent(text string) (Intent, error) {
	span, ok := jsonSpan(text)
	if !ok {
		return Intent{}, ErrNoJSON
	}
	var p intentPayload
	if err := json.Unmarshal([]byte(span), &p); err != nil {
		return Intent{}, fmt.Errorf("decode intent: %w", err)
	}
	return p.intent(), nil
}

func jsonSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}
