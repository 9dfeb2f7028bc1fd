package api

import (
	"testing"
	"time"
)

func TestAttemptLimiterWindowAndReset(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiterWithPolicy(1, time.Hour)
	key := "127.0.0.1"
	now := time.Now().UTC()

	limiter.addFailure(key, now.Add(-2*time.Hour))
	if limiter.blocked(key, now) {
		t.Fatal("expected old attempt to be pruned from active window")
	}

	limiter.addFailure(key, now.Add(-30*time.Minute))
	if !limiter.blocked(key, now) {
		t.Fatal("expected one recent attempt to hit limit 1")
	}
	if limiter.blocked("10.0.0.1", now) {
		t.Fatal("expected other keys to be unaffected")
	}

	limiter.reset(key)
	if limiter.blocked(key, now) {
		t.Fatal("expected no attempts after reset")
	}
}
