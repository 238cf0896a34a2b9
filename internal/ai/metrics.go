package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const tracerName = "mapchat.ai"

// Fallback reasons used as metric labels.
const (
	reasonUnavailable     = "unavailable"
	reasonCompletionError = "completion_error"
	reasonNoJSON          = "no_json"
	reasonDecodeError     = "decode_error"
)

var (
	completionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mapchat",
			Subsystem: "completion",
			Name:      "duration_seconds",
			Help:      "Duration of completion endpoint calls in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider", "status"},
	)

	intentFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapchat",
			Subsystem: "intent",
			Name:      "fallbacks_total",
			Help:      "Prompts resolved by the keyword heuristic, by reason.",
		},
		[]string{"reason"},
	)

	intentsExtractedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapchat",
			Subsystem: "intent",
			Name:      "extracted_total",
			Help:      "Intents produced, by source (completion or fallback).",
		},
		[]string{"source"},
	)
)

func recordCompletion(provider string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	completionDuration.WithLabelValues(provider, status).Observe(d.Seconds())
}
