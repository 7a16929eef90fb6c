package solana

import (
	"context"
	"sync"
	"time"
)

// minIntervalLimiter enforces a minimum spacing between consecutive
// requests. Concurrent callers each reserve the next free slot, so
// spacing holds across goroutines, not just per caller.
type minIntervalLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

func newMinIntervalLimiter(interval time.Duration) *minIntervalLimiter {
	return &minIntervalLimiter{interval: interval}
}

// Wait blocks until the caller's reserved slot arrives or the context
// is cancelled. With a non-positive interval it only checks the context.
func (l *minIntervalLimiter) Wait(ctx context.Context) error {
	if l.interval <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	now := time.Now()
	slot := l.last.Add(l.interval)
	if slot.Before(now) {
		slot = now
	}
	l.last = slot
	l.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
