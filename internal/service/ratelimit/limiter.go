package ratelimit

import (
	"context"
	"log"
	"math"
	"strings"
	"sync"
	"time"
)

// AnonymousKey is the shared bucket for viewers who never set a username.
// All unauthenticated senders compete for the same cooldown slot; the
// product treats that as acceptable for an open stream chat.
const AnonymousKey = "anonymous"

// Limiter enforces a minimum interval between accepted messages per
// identity. Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	expiry   time.Duration
	last     map[string]time.Time
}

// New creates a limiter with the given cooldown. Entries idle longer than
// expiry are dropped by Sweep so the map cannot grow without bound.
func New(cooldown, expiry time.Duration) *Limiter {
	return &Limiter{
		cooldown: cooldown,
		expiry:   expiry,
		last:     make(map[string]time.Time),
	}
}

// Allow reports whether identity may send at instant now. On allow the
// stored stamp is updated immediately, before any downstream AI work, so a
// slow provider call cannot admit a burst. On reject the stamp is left
// untouched and the remaining wait is returned in whole seconds, rounded up
// for client display.
func (l *Limiter) Allow(identity string, now time.Time) (bool, int) {
	key := strings.TrimSpace(identity)
	if key == "" {
		key = AnonymousKey
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	last, seen := l.last[key]
	if seen {
		elapsed := now.Sub(last)
		if elapsed < l.cooldown {
			remaining := l.cooldown - elapsed
			return false, int(math.Ceil(remaining.Seconds()))
		}
	}

	l.last[key] = now
	return true, 0
}

// Sweep drops identities whose last accepted message is older than the
// expiry window and returns how many were removed.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, last := range l.last {
		if now.Sub(last) > l.expiry {
			delete(l.last, key)
			removed++
		}
	}
	return removed
}

// Janitor runs Sweep periodically until ctx is done.
func (l *Limiter) Janitor(ctx context.Context) {
	interval := l.expiry
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := l.Sweep(now); removed > 0 {
				log.Printf("[ratelimit] swept %d idle identities", removed)
			}
		}
	}
}

// Size returns the number of tracked identities.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}
