package model

import (
	"context"
	"time"
)

// RateLimitRule caps how many hits a bucket may take per window.
type RateLimitRule struct {
	Action      string
	MaxAttempts int
	Window      time.Duration
}

// RateLimitStore records hits in a sliding window.
type RateLimitStore interface {
	// Hit serializes on bucket, counts hits newer than now-window and records a new hit
	// only when the count is below limit. It reports whether the hit was recorded.
	Hit(ctx context.Context, bucket []byte, action string, limit int, window time.Duration, now time.Time) (bool, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
}
