package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/arklim/cinema-booking/internal/core/port"
	"github.com/arklim/cinema-booking/internal/repository"
)

const defaultAvailabilityPrefix = "booking:availability"

// AvailabilityRepository caches seats-remaining counters for low-latency reads.
// The seat allocator never consults this cache for admission decisions; it only
// serves the availability read path and is invalidated on every allocation or
// cancellation.
type AvailabilityRepository struct {
	client *red.Client
	prefix string
}

// NewAvailabilityRepository constructs an availability cache helper.
func NewAvailabilityRepository(client *red.Client, keyPrefix string) *AvailabilityRepository {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultAvailabilityPrefix
	}

	return &AvailabilityRepository{client: client, prefix: prefix}
}

// GetSeatsLeft fetches the cached counter, returning ErrNotFound on cache miss.
func (r *AvailabilityRepository) GetSeatsLeft(ctx context.Context, movieID string) (int, error) {
	key := r.key(movieID)
	if key == "" {
		return 0, fmt.Errorf("movie id is required")
	}

	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return 0, repository.ErrNotFound
		}
		return 0, fmt.Errorf("redis get seats left: %w", err)
	}

	parsed, parseErr := strconv.Atoi(value)
	if parseErr != nil {
		return 0, fmt.Errorf("parse cached seats left: %w", parseErr)
	}

	return parsed, nil
}

// SetSeatsLeft stores the counter with the provided TTL.
func (r *AvailabilityRepository) SetSeatsLeft(ctx context.Context, movieID string, seats int, ttl time.Duration) error {
	key := r.key(movieID)
	if key == "" {
		return fmt.Errorf("movie id is required")
	}
	if seats < 0 {
		return fmt.Errorf("seats must not be negative")
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	if err := r.client.Set(ctx, key, strconv.Itoa(seats), ttl).Err(); err != nil {
		return fmt.Errorf("redis set seats left: %w", err)
	}
	return nil
}

// Invalidate removes the cached counter for a movie.
func (r *AvailabilityRepository) Invalidate(ctx context.Context, movieID string) error {
	key := r.key(movieID)
	if key == "" {
		return fmt.Errorf("movie id is required")
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete seats left: %w", err)
	}
	return nil
}

func (r *AvailabilityRepository) key(movieID string) string {
	trimmed := strings.TrimSpace(movieID)
	if trimmed == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", r.prefix, trimmed)
}

var _ port.AvailabilityCache = (*AvailabilityRepository)(nil)
