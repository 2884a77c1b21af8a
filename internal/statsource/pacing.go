package statsource

import (
	"context"
	"time"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/internal/metrics"
	"github.com/huangsam/ballhog/schema"
	"golang.org/x/time/rate"
)

// FixedDelay sleeps for a flat duration after every request.
type FixedDelay struct {
	Delay time.Duration
}

var _ contract.Pacer = FixedDelay{} // Compile-time check

// Wait sleeps for Delay or until ctx is done.
func (p FixedDelay) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	start := time.Now()
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		metrics.RecordPacing(time.Since(start).Seconds())
		return nil
	}
}

// TokenBucket admits requests at a steady rate with a burst of one.
type TokenBucket struct {
	limiter *rate.Limiter
}

var _ contract.Pacer = &TokenBucket{} // Compile-time check

// NewTokenBucket creates a pacer allowing requestsPerMinute requests.
func NewTokenBucket(requestsPerMinute int) *TokenBucket {
	rps := float64(requestsPerMinute) / 60.0
	return &TokenBucket{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until the bucket has a token or ctx is done.
func (p *TokenBucket) Wait(ctx context.Context) error {
	start := time.Now()
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	metrics.RecordPacing(time.Since(start).Seconds())
	return nil
}

// NewPacer returns the pacer for a policy.
func NewPacer(policy schema.PacingPolicy, delay time.Duration, requestsPerMinute int) contract.Pacer {
	if policy == schema.TokenPacing {
		return NewTokenBucket(requestsPerMinute)
	}
	return FixedDelay{Delay: delay}
}
