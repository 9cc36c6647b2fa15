package google

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestRateLimiter_AllowWithinBurst(t *testing.T) {
	rl := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 1.0, BurstSize: 2})

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow(), "burst exhausted")
}

func TestRateLimiter_BackoffBlocksAllow(t *testing.T) {
	rl := NewRateLimiter()
	require.True(t, rl.Allow())

	rl.RecordRateLimitError(30)
	assert.False(t, rl.Allow())
}

func TestRateLimiter_WaitHonoursContextDuringBackoff(t *testing.T) {
	rl := NewRateLimiter()
	rl.RecordRateLimitError(60)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected error
	}{
		{"unauthorised", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError(&googleapi.Error{Code: tt.code})
			assert.ErrorIs(t, err, tt.expected)
		})
	}

	assert.NoError(t, WrapError(nil))

	plain := errors.New("boom")
	assert.Equal(t, plain, WrapError(plain), "non-API errors pass through")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&googleapi.Error{Code: http.StatusNotFound}))
	assert.True(t, IsNotFound(ErrNotFound))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.False(t, IsRateLimited(&googleapi.Error{Code: http.StatusBadRequest}))
}
