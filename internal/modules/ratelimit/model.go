package ratelimit

import (
	"errors"
	"time"
)

// ErrLimitExceeded is reported for a request rejected by the limiter.
var ErrLimitExceeded = errors.New("rate limit exceeded")

// Defaults used when Config leaves a field unset.
const (
	DefaultMaxRequests = 60
	DefaultWindow      = time.Minute
	DefaultMaxClients  = 10000
)

// Config sets the window and the number of requests admitted per client within it.
type Config struct {
	MaxRequests int
	Window      time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxRequests <= 0 {
		c.MaxRequests = DefaultMaxRequests
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	return c
}

// Usage is a snapshot of one client's window: how many requests it holds and
// when the oldest of them was recorded (zero when empty).
type Usage struct {
	Count  int
	Oldest time.Time
}

// Decision is the outcome of Allow.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// Reset is how long until the oldest recorded request leaves the window.
	Reset time.Duration
}

// Err returns ErrLimitExceeded for a rejected decision and nil otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return ErrLimitExceeded
}
