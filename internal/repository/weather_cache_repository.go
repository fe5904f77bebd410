package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"plantcare-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// WeatherCacheRepository caches weather snapshots per rounded-coordinate
// key to bound collaborator call volume. Best-effort only: two
// near-simultaneous misses for the same key may both reach the network.
type WeatherCacheRepository interface {
	GetSnapshot(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error)
	SetSnapshot(ctx context.Context, lat, lon float64, snapshot *models.WeatherSnapshot) error
}

type weatherCacheRepository struct {
	client     *redis.Client
	expiration time.Duration
}

// NewWeatherCacheRepository creates a new weather cache repository
func NewWeatherCacheRepository(client *redis.Client) WeatherCacheRepository {
	return &weatherCacheRepository{
		client:     client,
		expiration: time.Hour,
	}
}

// getCacheKey rounds coordinates to 2 decimals (~1km) so nearby requests
// share a cache entry.
func (r *weatherCacheRepository) getCacheKey(lat, lon float64) string {
	return fmt.Sprintf("plantcare:weather:%.2f:%.2f", lat, lon)
}

func (r *weatherCacheRepository) GetSnapshot(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	data, err := r.client.Get(ctx, r.getCacheKey(lat, lon)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached weather: %w", err)
	}

	var snapshot models.WeatherSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		// Corrupt entry: behave like a miss.
		log.Printf("corrupt weather cache entry for key %s: %v", r.getCacheKey(lat, lon), err)
		return nil, nil
	}
	return &snapshot, nil
}

func (r *weatherCacheRepository) SetSnapshot(ctx context.Context, lat, lon float64, snapshot *models.WeatherSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal weather snapshot: %w", err)
	}

	if err := r.client.Set(ctx, r.getCacheKey(lat, lon), data, r.expiration).Err(); err != nil {
		return fmt.Errorf("failed to cache weather snapshot: %w", err)
	}
	return nil
}
