// README: Sliding-window rate limiting keyed by client id.
package ratelimit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var decisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "mapchat",
		Subsystem: "ratelimit",
		Name:      "decisions_total",
		Help:      "Rate limiter decisions by result (allowed, rejected, store_error).",
	},
	[]string{"result"},
)

// Service admits or rejects requests per client over a sliding window.
type Service struct {
	store  Store
	cfg    Config
	now    func() time.Time
	logger *zap.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger used for store failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l.Named("ratelimit")
		}
	}
}

// NewService creates a Service backed by the given Store.
func NewService(store Store, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:  store,
		cfg:    cfg.withDefaults(),
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limit is the number of requests admitted per window.
func (s *Service) Limit() int { return s.cfg.MaxRequests }

// Window is the sliding window length.
func (s *Service) Window() time.Duration { return s.cfg.Window }

// Allow records a request from clientID if the client is under its limit.
// A rejected request is not recorded. When the store fails the request is
// admitted and the failure logged; only a done context returns an error.
func (s *Service) Allow(ctx context.Context, clientID string) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	now := s.now()

	usage, admitted, err := s.store.Admit(ctx, clientID, now, s.cfg.Window, s.cfg.MaxRequests)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Decision{}, ctxErr
		}
		s.logger.Warn("rate limit store failed, admitting request",
			zap.String("client", clientID),
			zap.Error(err),
		)
		decisionsTotal.WithLabelValues("store_error").Inc()
		return Decision{Allowed: true, Limit: s.cfg.MaxRequests, Remaining: s.cfg.MaxRequests}, nil
	}

	if admitted {
		decisionsTotal.WithLabelValues("allowed").Inc()
	} else {
		decisionsTotal.WithLabelValues("rejected").Inc()
	}
	return Decision{
		Allowed:   admitted,
		Limit:     s.cfg.MaxRequests,
		Remaining: s.remaining(usage),
		Reset:     s.reset(usage, now),
	}, nil
}

// Remaining reports how many requests clientID may still make and how long
// until the oldest recorded request leaves the window.
func (s *Service) Remaining(ctx context.Context, clientID string) (int, time.Duration, error) {
	now := s.now()
	usage, err := s.store.Usage(ctx, clientID, now, s.cfg.Window)
	if err != nil {
		return 0, 0, err
	}
	return s.remaining(usage), s.reset(usage, now), nil
}

func (s *Service) remaining(u Usage) int {
	return max(s.cfg.MaxRequests-u.Count, 0)
}

func (s *Service) reset(u Usage, now time.Time) time.Duration {
	if u.Count == 0 {
		return 0
	}
	return max(u.Oldest.Add(s.cfg.Window).Sub(now), 0)
}
