package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore keeps windows in process memory. Clients idle for longer than
// the window expire, and at most maxClients windows are held; evicting a busy
// client forgets its history.
type MemoryStore struct {
	mu      sync.Mutex
	windows *expirable.LRU[string, []time.Time]
}

// NewMemoryStore creates a MemoryStore. ttl should be the limiter window.
func NewMemoryStore(maxClients int, ttl time.Duration) *MemoryStore {
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}
	if ttl <= 0 {
		ttl = DefaultWindow
	}
	return &MemoryStore{windows: expirable.NewLRU[string, []time.Time](maxClients, nil, ttl)}
}

func (m *MemoryStore) Admit(_ context.Context, key string, now time.Time, window time.Duration, limit int) (Usage, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamps, _ := m.windows.Peek(key)
	stamps = within(stamps, now, window)

	admitted := len(stamps) < limit
	if admitted {
		stamps = append(stamps, now)
	}
	if len(stamps) > 0 {
		m.windows.Add(key, stamps)
	} else {
		m.windows.Remove(key)
	}
	return usageOf(stamps), admitted, nil
}

func (m *MemoryStore) Usage(_ context.Context, key string, now time.Time, window time.Duration) (Usage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamps, _ := m.windows.Peek(key)
	return usageOf(within(stamps, now, window)), nil
}

// Len reports how many client windows are held.
func (m *MemoryStore) Len() int {
	return m.windows.Len()
}

// within returns a new slice holding the timestamps no older than window.
func within(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	var kept []time.Time
	for _, ts := range stamps {
		if now.Sub(ts) <= window {
			kept = append(kept, ts)
		}
	}
	return kept
}

func usageOf(stamps []time.Time) Usage {
	if len(stamps) == 0 {
		return Usage{}
	}
	return Usage{Count: len(stamps), Oldest: stamps[0]}
}
