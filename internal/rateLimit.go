package contact

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of a single RateLimiter.Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter admits at most max requests per key within any trailing window.
// Only admitted requests are recorded, so a client hammering a full window
// does not push its own reset further out.
type RateLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:    max,
		window: window,
		now:    time.Now,
		hits:   map[string][]time.Time{},
	}
}

func (l *RateLimiter) Allow(key string) Decision {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := prune(l.hits[key], now.Add(-l.window))
	if len(recent) >= l.max {
		l.hits[key] = recent
		return Decision{
			Limit:      l.max,
			RetryAfter: recent[0].Add(l.window).Sub(now),
		}
	}
	recent = append(recent, now)
	l.hits[key] = recent
	return Decision{
		Allowed:   true,
		Limit:     l.max,
		Remaining: l.max - len(recent),
	}
}

// Sweep forgets keys whose window has fully elapsed.
func (l *RateLimiter) Sweep() {
	cutoff := l.now().Add(-l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, times := range l.hits {
		if recent := prune(times, cutoff); len(recent) == 0 {
			delete(l.hits, key)
		} else {
			l.hits[key] = recent
		}
	}
}

// Run sweeps once per window until ctx is done.
func (l *RateLimiter) Run(ctx context.Context) {
	t := time.NewTicker(l.window)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Sweep()
		}
	}
}

// prune drops timestamps at or before cutoff. times is sorted ascending.
func prune(times []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return times
	}
	return append(times[:0:0], times[i:]...)
}
