// Package ratelimit wraps golang.org/x/time/rate with per-minute limits,
// the unit RPC providers quote their plans in.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles outbound requests to a shared upstream.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing requestsPerMinute sustained, with a
// burst of 10% of the limit (at least 1).
func New(requestsPerMinute int) *Limiter {
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(perMinute(requestsPerMinute), burst),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a request may go out right now without waiting.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// SetLimit updates the sustained rate.
func (l *Limiter) SetLimit(requestsPerMinute int) {
	l.limiter.SetLimit(perMinute(requestsPerMinute))
}

func perMinute(requests int) rate.Limit {
	return rate.Limit(float64(requests) / 60.0)
}
