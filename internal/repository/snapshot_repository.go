package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"plantcare-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// SnapshotRepository persists the last-known plant list and route so the
// service can serve an offline fallback when the inventory or routing
// collaborator is unreachable. Also holds the per-business auto-refresh
// preference flag.
type SnapshotRepository interface {
	SavePlants(ctx context.Context, businessID string, plants []models.Plant) error
	GetPlants(ctx context.Context, businessID string) ([]models.Plant, error)
	SaveRoute(ctx context.Context, businessID string, route *models.OptimizedRoute) error
	GetRoute(ctx context.Context, businessID string) (*models.OptimizedRoute, error)
	SetAutoRefresh(ctx context.Context, businessID string, enabled bool) error
	GetAutoRefresh(ctx context.Context, businessID string) (bool, error)
}

type snapshotRepository struct {
	client     *redis.Client
	expiration time.Duration
}

// NewSnapshotRepository creates a new offline snapshot repository
func NewSnapshotRepository(client *redis.Client) SnapshotRepository {
	return &snapshotRepository{
		client:     client,
		expiration: 7 * 24 * time.Hour,
	}
}

func (r *snapshotRepository) SavePlants(ctx context.Context, businessID string, plants []models.Plant) error {
	data, err := json.Marshal(plants)
	if err != nil {
		return fmt.Errorf("failed to marshal plant snapshot: %w", err)
	}
	key := fmt.Sprintf("plantcare:snapshot:plants:%s", businessID)
	if err := r.client.Set(ctx, key, data, r.expiration).Err(); err != nil {
		return fmt.Errorf("failed to store plant snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepository) GetPlants(ctx context.Context, businessID string) ([]models.Plant, error) {
	key := fmt.Sprintf("plantcare:snapshot:plants:%s", businessID)
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("no plant snapshot for business %s", businessID)
		}
		return nil, fmt.Errorf("failed to get plant snapshot: %w", err)
	}

	var plants []models.Plant
	if err := json.Unmarshal([]byte(data), &plants); err != nil {
		return nil, fmt.Errorf("plant snapshot unreadable: %w", models.ErrCacheCorrupted)
	}
	return plants, nil
}

func (r *snapshotRepository) SaveRoute(ctx context.Context, businessID string, route *models.OptimizedRoute) error {
	data, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("failed to marshal route snapshot: %w", err)
	}
	key := fmt.Sprintf("plantcare:snapshot:route:%s", businessID)
	if err := r.client.Set(ctx, key, data, r.expiration).Err(); err != nil {
		return fmt.Errorf("failed to store route snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepository) GetRoute(ctx context.Context, businessID string) (*models.OptimizedRoute, error) {
	key := fmt.Sprintf("plantcare:snapshot:route:%s", businessID)
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("no route snapshot for business %s", businessID)
		}
		return nil, fmt.Errorf("failed to get route snapshot: %w", err)
	}

	var route models.OptimizedRoute
	if err := json.Unmarshal([]byte(data), &route); err != nil {
		return nil, fmt.Errorf("route snapshot unreadable: %w", models.ErrCacheCorrupted)
	}
	return &route, nil
}

func (r *snapshotRepository) SetAutoRefresh(ctx context.Context, businessID string, enabled bool) error {
	key := fmt.Sprintf("plantcare:pref:auto_refresh:%s", businessID)
	if err := r.client.Set(ctx, key, enabled, 0).Err(); err != nil {
		return fmt.Errorf("failed to store auto-refresh preference: %w", err)
	}
	return nil
}

func (r *snapshotRepository) GetAutoRefresh(ctx context.Context, businessID string) (bool, error) {
	key := fmt.Sprintf("plantcare:pref:auto_refresh:%s", businessID)
	enabled, err := r.client.Get(ctx, key).Bool()
	if err != nil {
		if err == redis.Nil {
			// Polling defaults to on.
			return true, nil
		}
		return false, fmt.Errorf("failed to get auto-refresh preference: %w", err)
	}
	return enabled, nil
}
