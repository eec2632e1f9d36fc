package port

import (
	"context"
	"time"
)

// AvailabilityCache stores the seats-remaining counter per movie for the read
// path. Entries may be stale relative to a concurrent allocation; the seat
// allocator never consults the cache for admission decisions.
type AvailabilityCache interface {
	GetSeatsLeft(ctx context.Context, movieID string) (int, error)
	SetSeatsLeft(ctx context.Context, movieID string, seats int, ttl time.Duration) error
	Invalidate(ctx context.Context, movieID string) error
}
