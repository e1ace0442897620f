package ratelimiter

import (
	"context"
	"net/http"
	"testing"
	"time"

	"anoa.com/placementportal/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func TestLimiter_DisabledWithoutRedis(t *testing.T) {
	ctx := context.Background()

	for _, l := range []*Limiter{nil, New(nil)} {
		assert.NoError(t, l.Acquire(ctx, "student@college.edu", "support", time.Minute))
		assert.NoError(t, l.Acquire(ctx, "student@college.edu", "support", time.Minute))
		assert.NoError(t, l.Release(ctx, "student@college.edu", "support"))
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "rate_limit:apply:42", key("42", "apply"))
}

func TestRateLimitError_MapsTo429(t *testing.T) {
	err := &RateLimitError{Message: "too many requests, try again in 30s", RetryAfter: 30 * time.Second}

	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)
	assert.Equal(t, http.StatusTooManyRequests, apperror.MapErrorToStatus(err))
	assert.Equal(t, "too many requests, try again in 30s", err.Error())
}
