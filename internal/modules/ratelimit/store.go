package ratelimit

import (
	"context"
	"time"
)

// Store keeps per-client request timestamps. Admit must evict, count and
// record as one atomic step per key.
type Store interface {
	// Admit drops timestamps older than window (one exactly window old is kept)
	// and records now if fewer than limit remain. It returns the usage after
	// the call and whether now was recorded.
	Admit(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (Usage, bool, error)
	// Usage reports the timestamps within window without recording anything.
	Usage(ctx context.Context, key string, now time.Time, window time.Duration) (Usage, error)
}
