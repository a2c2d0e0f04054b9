package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinCooldown(t *testing.T) {
	limiter := New(5*time.Second, 10*time.Minute)
	base := time.Unix(1_700_000_000, 0)

	allowed, _ := limiter.Allow("satoshi", base)
	if !allowed {
		t.Fatal("first message should be allowed")
	}

	allowed, retryAfter := limiter.Allow("satoshi", base.Add(3*time.Second))
	if allowed {
		t.Fatal("message inside cooldown should be rejected")
	}
	if retryAfter != 2 {
		t.Fatalf("expected retryAfter=2, got %d", retryAfter)
	}
}

func TestAllowAfterCooldown(t *testing.T) {
	limiter := New(5*time.Second, 10*time.Minute)
	base := time.Unix(1_700_000_000, 0)

	limiter.Allow("satoshi", base)

	if allowed, _ := limiter.Allow("satoshi", base.Add(5*time.Second)); !allowed {
		t.Fatal("message at exactly the cooldown boundary should be allowed")
	}
}

func TestRejectDoesNotExtendCooldown(t *testing.T) {
	limiter := New(5*time.Second, 10*time.Minute)
	base := time.Unix(1_700_000_000, 0)

	limiter.Allow("satoshi", base)
	limiter.Allow("satoshi", base.Add(4*time.Second))

	// The reject at t=4s must not reset the stamp.
	if allowed, _ := limiter.Allow("satoshi", base.Add(5*time.Second)); !allowed {
		t.Fatal("rejected attempt should not push the cooldown forward")
	}
}

func TestRetryAfterRoundsUp(t *testing.T) {
	limiter := New(5*time.Second, 10*time.Minute)
	base := time.Unix(1_700_000_000, 0)

	limiter.Allow("satoshi", base)

	_, retryAfter := limiter.Allow("satoshi", base.Add(3500*time.Millisecond))
	if retryAfter != 2 {
		t.Fatalf("expected 1.5s remaining to round up to 2, got %d", retryAfter)
	}
}

func TestAnonymousSendersShareOneBucket(t *testing.T) {
	limiter := New(5*time.Second, 10*time.Minute)
	base := time.Unix(1_700_000_000, 0)

	if allowed, _ := limiter.Allow("", base); !allowed {
		t.Fatal("first anonymous message should be allowed")
	}
	if allowed, _ := limiter.Allow("  ", base.Add(time.Second)); allowed {
		t.Fatal("whitespace identity should share the anonymous bucket")
	}
}

func TestIdentitiesAreIndependent(t *testing.T) {
	limiter := New(5*time.Second, 10*time.Minute)
	base := time.Unix(1_700_000_000, 0)

	limiter.Allow("alice", base)
	if allowed, _ := limiter.Allow("bob", base); !allowed {
		t.Fatal("a different identity must not be throttled")
	}
}

func TestSweepDropsIdleIdentities(t *testing.T) {
	limiter := New(5*time.Second, time.Minute)
	base := time.Unix(1_700_000_000, 0)

	limiter.Allow("alice", base)
	limiter.Allow("bob", base.Add(30*time.Second))

	removed := limiter.Sweep(base.Add(90 * time.Second))
	if removed != 1 {
		t.Fatalf("expected 1 swept identity, got %d", removed)
	}
	if limiter.Size() != 1 {
		t.Fatalf("expected 1 tracked identity after sweep, got %d", limiter.Size())
	}

	// Alice was swept, so her next message is admitted immediately.
	if allowed, _ := limiter.Allow("alice", base.Add(91*time.Second)); !allowed {
		t.Fatal("swept identity should start fresh")
	}
}
