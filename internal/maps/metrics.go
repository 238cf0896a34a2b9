package maps

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var providerRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "mapchat",
		Subsystem: "maps",
		Name:      "requests_total",
		Help:      "Maps provider calls by operation and resulting status.",
	},
	[]string{"op", "status"},
)
