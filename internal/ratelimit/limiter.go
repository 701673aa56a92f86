package ratelimit

import "context"

// RateLimiter caps webhook ingestion throughput per channel.
type RateLimiter interface {
	Allow(ctx context.Context, channel string) (bool, error)
	Wait(ctx context.Context, channel string) error
}
