package ratelimit

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const keySubmitProvider = "claims:submit:provider:%s"

// SubmitLimiter throttles claim submissions per provider. Unlike the
// eligibility gate, limiter failures fail open: when redis is down we would
// rather accept traffic than drop valid claims.
type SubmitLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
	log    *zap.Logger
}

func NewSubmitLimiter(bucket *TokenBucket, rate float64, burst int, log *zap.Logger) *SubmitLimiter {
	if bucket == nil {
		return nil
	}
	return &SubmitLimiter{
		bucket: bucket,
		rate:   rate,
		burst:  burst,
		log:    log.Named("ratelimit.submit"),
	}
}

// Allow reports whether the provider may submit another claim right now.
func (l *SubmitLimiter) Allow(ctx context.Context, providerID string) bool {
	if l == nil {
		return true
	}
	allowed, err := l.bucket.Allow(ctx, fmt.Sprintf(keySubmitProvider, providerID), l.rate, l.burst)
	if err != nil {
		l.log.Warn("submission rate limiter unavailable, failing open",
			zap.String("provider_id", providerID),
			zap.Error(err),
		)
		return true
	}
	return allowed
}
