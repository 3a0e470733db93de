// Package quota paces outbound LLM calls. The evaluation harness uses it for
// its fixed inter-call delay; a daily cap is available for long batch runs.
package quota

import (
	"context"
	"sync"
	"time"
)

// Limiter applies a per-minute interval and an optional daily cap to LLM
// calls. It is in-memory and single-instance; counters reset on restart.
type Limiter struct {
	mu sync.Mutex

	dailyLimit int
	usedToday  int
	dayKey     string

	interval time.Duration
	lastCall time.Time
}

// New builds a limiter from requests-per-minute and requests-per-day values.
// Zero or negative values disable the respective limit.
func New(requestsPerMinute, requestsPerDay int) *Limiter {
	if requestsPerDay < 0 {
		requestsPerDay = 0
	}
	var interval time.Duration
	if requestsPerMinute > 0 {
		interval = time.Minute / time.Duration(requestsPerMinute)
	}
	return &Limiter{
		dailyLimit: requestsPerDay,
		interval:   interval,
	}
}

// WaitAndReserve blocks until the next call is allowed and reserves it.
// - Daily cap exhausted: returns (false, nil); the caller must skip the call.
// - Context cancelled while waiting: returns (false, ctx.Err()).
func (l *Limiter) WaitAndReserve(ctx context.Context) (bool, error) {
	for {
		l.mu.Lock()

		now := time.Now().UTC()
		todayKey := now.Format("2006-01-02")
		if l.dayKey != todayKey {
			l.dayKey = todayKey
			l.usedToday = 0
		}

		if l.dailyLimit > 0 && l.usedToday >= l.dailyLimit {
			l.mu.Unlock()
			return false, nil
		}

		var delay time.Duration
		if l.interval > 0 && !l.lastCall.IsZero() {
			nextAllowed := l.lastCall.Add(l.interval)
			delay = time.Until(nextAllowed)
		}

		if delay <= 0 {
			l.usedToday++
			l.lastCall = now
			l.mu.Unlock()
			return true, nil
		}

		l.mu.Unlock()
		select {
		case <-time.After(delay):
			// Re-evaluate state on the next loop iteration.
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}
