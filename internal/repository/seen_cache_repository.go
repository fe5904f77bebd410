package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenCacheRepository is the durable record of notification ids already
// surfaced to a business, preventing repeat alerts. Entries carry a sliding
// TTL so the set stays bounded; an evicted id may legitimately be surfaced
// again.
type SeenCacheRepository interface {
	AddSeen(ctx context.Context, businessID string, ids []string) error
	GetSeen(ctx context.Context, businessID string) (map[string]bool, error)
	Clear(ctx context.Context, businessID string) error
}

type seenCacheRepository struct {
	client     *redis.Client
	expiration time.Duration
}

// NewSeenCacheRepository creates a new seen-id cache repository
func NewSeenCacheRepository(client *redis.Client) SeenCacheRepository {
	return &seenCacheRepository{
		client:     client,
		expiration: 24 * time.Hour,
	}
}

func (r *seenCacheRepository) getSeenKey(businessID string) string {
	return fmt.Sprintf("plantcare:seen:%s", businessID)
}

func (r *seenCacheRepository) AddSeen(ctx context.Context, businessID string, ids []string) error {
	if businessID == "" {
		return fmt.Errorf("business ID cannot be empty")
	}
	if len(ids) == 0 {
		return nil
	}

	members := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		members = append(members, id)
	}

	seenKey := r.getSeenKey(businessID)
	if err := r.client.SAdd(ctx, seenKey, members...).Err(); err != nil {
		return fmt.Errorf("failed to add seen ids: %w", err)
	}

	// Sliding TTL keeps the set bounded.
	if err := r.client.Expire(ctx, seenKey, r.expiration).Err(); err != nil {
		return fmt.Errorf("failed to set expiration on seen ids: %w", err)
	}

	return nil
}

// GetSeen returns the set of already-surfaced notification ids. An
// unreadable cache degrades to an empty set so a corrupt store never
// blocks polling; only the dedup history is lost.
func (r *seenCacheRepository) GetSeen(ctx context.Context, businessID string) (map[string]bool, error) {
	if businessID == "" {
		return nil, fmt.Errorf("business ID cannot be empty")
	}

	ids, err := r.client.SMembers(ctx, r.getSeenKey(businessID)).Result()
	if err != nil {
		if err == redis.Nil {
			return map[string]bool{}, nil
		}
		log.Printf("seen cache unreadable for business %s, treating as empty: %v", businessID, err)
		return map[string]bool{}, nil
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	return seen, nil
}

func (r *seenCacheRepository) Clear(ctx context.Context, businessID string) error {
	if err := r.client.Del(ctx, r.getSeenKey(businessID)).Err(); err != nil {
		return fmt.Errorf("failed to clear seen ids: %w", err)
	}
	return nil
}
