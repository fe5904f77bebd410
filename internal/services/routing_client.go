package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"plantcare-service/internal/config"
	"plantcare-service/internal/models"
)

// RoutingStop is one candidate stop sent to the routing collaborator.
type RoutingStop struct {
	PlantID   string  `json:"plant_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Priority  string  `json:"priority"`
}

// RoutingRequest is the routing collaborator's request contract.
type RoutingRequest struct {
	Origin models.Coordinate `json:"origin"`
	Stops  []RoutingStop     `json:"stops"`
}

// RoutingResponse is the routing collaborator's response contract. The
// collaborator may or may not perform true distance minimization; this
// service only validates the shape.
type RoutingResponse struct {
	Route []struct {
		PlantID    string  `json:"plant_id"`
		DistanceKm float64 `json:"distance_km"`
	} `json:"route"`
	TotalDistance float64 `json:"total_distance"`
	EstimatedTime int     `json:"estimated_time"`
}

type IRoutingClient interface {
	// OptimizeRoute makes exactly one attempt against the routing
	// collaborator. Callers fall back to the local heuristic on any error.
	OptimizeRoute(ctx context.Context, request RoutingRequest) (*RoutingResponse, error)
}

type RoutingClient struct {
	cfg    config.RoutingAPIConfig
	client *http.Client
}

func NewRoutingClient(cfg config.RoutingAPIConfig) IRoutingClient {
	return &RoutingClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *RoutingClient) OptimizeRoute(ctx context.Context, request RoutingRequest) (*RoutingResponse, error) {
	if r.cfg.BaseURL == "" {
		return nil, fmt.Errorf("routing API not configured")
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to create request body")
	}

	url := fmt.Sprintf("%s/routes/optimize", r.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request")
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		log.Printf("Error calling routing API: %v", err)
		return nil, fmt.Errorf("routing API unreachable: %w", models.ErrOptimizationUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read routing response: %w", models.ErrOptimizationUnavailable)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Routing API returned non-200 status: %d, body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("routing API returned status %d: %w", resp.StatusCode, models.ErrOptimizationUnavailable)
	}

	var routingResp RoutingResponse
	if err := json.Unmarshal(body, &routingResp); err != nil {
		log.Println("Error unmarshaling routing JSON:", err)
		return nil, fmt.Errorf("failed to parse routing response: %w", models.ErrOptimizationUnavailable)
	}

	return &routingResp, nil
}
