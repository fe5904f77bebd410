package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"plantcare-service/internal/config"
	"plantcare-service/internal/models"
	"plantcare-service/internal/repository"
)

type IWeatherService interface {
	// GetSnapshot returns current conditions at a coordinate, serving a
	// cached snapshot when one is fresh enough.
	GetSnapshot(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error)
}

type WeatherService struct {
	cfg    config.WeatherAPIConfig
	cache  repository.WeatherCacheRepository
	client *http.Client
	clock  Clock
}

func NewWeatherService(cfg config.WeatherAPIConfig, cache repository.WeatherCacheRepository, clock Clock) IWeatherService {
	return &WeatherService{
		cfg:    cfg,
		cache:  cache,
		client: &http.Client{Timeout: 30 * time.Second},
		clock:  clock,
	}
}

// onecallResponse mirrors the subset of the provider's one-call payload
// this service reads.
type onecallResponse struct {
	Current struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Rain     struct {
			OneHour float64 `json:"1h"`
		} `json:"rain"`
	} `json:"current"`
	Daily []struct {
		Dt   int64   `json:"dt"`
		Rain float64 `json:"rain"`
	} `json:"daily"`
}

func (w *WeatherService) GetSnapshot(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	if cached, err := w.cache.GetSnapshot(ctx, lat, lon); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("weather cache read failed, fetching fresh: %v", err)
	}

	snapshot, err := w.fetchWeatherData(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	if err := w.cache.SetSnapshot(ctx, lat, lon, snapshot); err != nil {
		log.Printf("failed to cache weather snapshot: %v", err)
	}
	return snapshot, nil
}

func (w *WeatherService) fetchWeatherData(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	appid := w.cfg.APIKey
	if appid == "" {
		log.Println("Weather API key not configured")
		return nil, fmt.Errorf("weather API key not configured")
	}

	url := fmt.Sprintf("%s/onecall?lat=%f&lon=%f&appid=%s&units=metric&exclude=minutely,hourly,alerts",
		w.cfg.BaseURL, lat, lon, appid)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request")
	}

	resp, err := w.client.Do(req)
	if err != nil {
		log.Printf("Error fetching weather data: %v", err)
		return nil, fmt.Errorf("failed to call weather API")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Error reading response body: %v", err)
		return nil, fmt.Errorf("failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Weather API returned non-200 status: %d, body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("weather API error")
	}

	var payload onecallResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Println("Error unmarshaling weather JSON:", err)
		return nil, fmt.Errorf("failed to parse weather response")
	}

	return w.toSnapshot(payload), nil
}

func (w *WeatherService) toSnapshot(payload onecallResponse) *models.WeatherSnapshot {
	now := w.clock.Now()

	snapshot := &models.WeatherSnapshot{
		Temperature: payload.Current.Temp,
		Humidity:    payload.Current.Humidity,
		// The provider reports the current rain rate per hour; scale to a
		// 24h figure when no accumulated value is available.
		PrecipitationLast24: payload.Current.Rain.OneHour * 24,
		FetchedAt:           now,
	}

	for _, day := range payload.Daily {
		snapshot.Forecast = append(snapshot.Forecast, models.ForecastEntry{
			Date:          time.Unix(day.Dt, 0),
			Precipitation: day.Rain,
		})
	}
	return snapshot
}
