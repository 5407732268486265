package service

import (
	"context"
	"strings"
	"sync"
	"time"
)

// OTPRateLimiter limita la frecuencia de solicitudes de codigos por email.
type OTPRateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type otpRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
	now    func() time.Time
	swept  time.Time
}

// NewOTPRateLimiter crea un rate limiter en memoria de ventana deslizante.
func NewOTPRateLimiter(window time.Duration, max int) OTPRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &otpRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *otpRateLimiter) Allow(_ context.Context, key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	cutoff := now.Add(-l.window)
	l.sweep(now, cutoff)

	kept := recentHits(l.hits[key], cutoff)
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

// sweep elimina, como mucho una vez por ventana, las claves sin solicitudes recientes.
func (l *otpRateLimiter) sweep(now, cutoff time.Time) {
	if now.Sub(l.swept) < l.window {
		return
	}
	l.swept = now
	for key, entries := range l.hits {
		kept := recentHits(entries, cutoff)
		if len(kept) == 0 {
			delete(l.hits, key)
			continue
		}
		l.hits[key] = kept
	}
}

func recentHits(entries []time.Time, cutoff time.Time) []time.Time {
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
