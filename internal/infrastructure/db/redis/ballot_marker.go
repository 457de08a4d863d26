package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
)

const (
	defaultMarkerTTL = time.Hour
	markerPrefix     = "ballot:"
	resetBatch       = 500
)

// BallotMarker remembers occupied (voter, position) slots in Redis.
// Key format: ballot:<voter_id>:<position>
type BallotMarker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBallotMarker creates a BallotMarker wrapping the given Redis client.
// A non-positive ttl falls back to one hour.
func NewBallotMarker(client *redis.Client, ttl time.Duration) *BallotMarker {
	if ttl <= 0 {
		ttl = defaultMarkerTTL
	}
	return &BallotMarker{client: client, ttl: ttl}
}

// IsMarked reports whether a ballot for this slot was seen recently.
func (m *BallotMarker) IsMarked(ctx context.Context, voterID string, position domain.Position) (bool, error) {
	n, err := m.client.Exists(ctx, m.key(voterID, position)).Result()
	if err != nil {
		return false, fmt.Errorf("ballot marker check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this slot is taken (expires after the configured ttl).
func (m *BallotMarker) Mark(ctx context.Context, voterID string, position domain.Position) error {
	if err := m.client.Set(ctx, m.key(voterID, position), "1", m.ttl).Err(); err != nil {
		return fmt.Errorf("ballot marker set: %w", err)
	}
	return nil
}

// Reset deletes every ballot marker. SCAN keeps Redis responsive on large
// keyspaces.
func (m *BallotMarker) Reset(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := m.client.Scan(ctx, cursor, markerPrefix+"*", resetBatch).Result()
		if err != nil {
			return fmt.Errorf("ballot marker scan: %w", err)
		}
		if len(keys) > 0 {
			if err := m.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("ballot marker delete: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Ping reports whether Redis is reachable. Used by the readiness probe.
func (m *BallotMarker) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

func (m *BallotMarker) key(voterID string, position domain.Position) string {
	return fmt.Sprintf("%s%s:%s", markerPrefix, voterID, position)
}
