package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"plantcare-service/internal/geo"
	"plantcare-service/internal/models"

	"github.com/stretchr/testify/assert"
)

// testPlant builds a plant whose priority tier is derived from how overdue
// it is at the fixture clock's now.
func testPlant(id string, lat, lon float64, tier models.PriorityTier, now time.Time) models.Plant {
	daysAgo := map[models.PriorityTier]int{
		models.PriorityLow:    2, // not overdue
		models.PriorityMedium: 6, // 1 day overdue
		models.PriorityHigh:   9, // 4 days overdue
	}[tier]

	return models.Plant{
		ID:                id,
		Name:              "plant " + id,
		Location:          models.PlantLocation{Latitude: lat, Longitude: lon},
		WaterIntervalDays: 5,
		LastWateredAt:     now.AddDate(0, 0, -daysAgo),
	}
}

func newRouteFixture(routing *fakeRoutingClient, now time.Time) IRouteService {
	return NewRouteService(routing, fixedClock{now: now})
}

func TestOptimize_ZeroStops(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	service := newRouteFixture(&fakeRoutingClient{err: fmt.Errorf("should not be called")}, now)

	route := service.Optimize(context.Background(), models.Coordinate{Latitude: 32, Longitude: 34}, nil)

	assert.Empty(t, route.Stops)
	assert.Equal(t, 0, route.Stats.TotalPlants)
	assert.Equal(t, 0.0, route.Stats.TotalDistanceKm)
	assert.Equal(t, 0, route.Stats.EstimatedTimeMinutes)
}

func TestOptimize_FallbackOrdersByPriorityTier(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	service := newRouteFixture(&fakeRoutingClient{err: fmt.Errorf("collaborator down")}, now)

	origin := models.Coordinate{Latitude: 32.08, Longitude: 34.78}
	plants := []models.Plant{
		testPlant("p-medium", 32.09, 34.79, models.PriorityMedium, now),
		testPlant("p-high", 32.10, 34.80, models.PriorityHigh, now),
		testPlant("p-low", 32.11, 34.81, models.PriorityLow, now),
	}

	route := service.Optimize(context.Background(), origin, plants)

	assert.True(t, route.Fallback)
	assert.Len(t, route.Stops, 3)
	assert.Equal(t, "p-high", route.Stops[0].PlantID)
	assert.Equal(t, "p-medium", route.Stops[1].PlantID)
	assert.Equal(t, "p-low", route.Stops[2].PlantID)
	for i, stop := range route.Stops {
		assert.Equal(t, i, stop.Order)
	}
	assert.Equal(t, 15, route.Stats.EstimatedTimeMinutes, "3 stops at 5 minutes each")
	assert.Equal(t, 1, route.Stats.HighPriorityCount)
}

func TestOptimize_FallbackStableWithinTier(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	service := newRouteFixture(&fakeRoutingClient{err: fmt.Errorf("collaborator down")}, now)

	origin := models.Coordinate{Latitude: 32.08, Longitude: 34.78}
	plants := []models.Plant{
		testPlant("m1", 32.09, 34.79, models.PriorityMedium, now),
		testPlant("m2", 32.10, 34.80, models.PriorityMedium, now),
		testPlant("m3", 32.11, 34.81, models.PriorityMedium, now),
	}

	route := service.Optimize(context.Background(), origin, plants)

	assert.Equal(t, "m1", route.Stops[0].PlantID)
	assert.Equal(t, "m2", route.Stops[1].PlantID)
	assert.Equal(t, "m3", route.Stops[2].PlantID)
}

func TestOptimize_FallbackCumulativeDistance(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	service := newRouteFixture(&fakeRoutingClient{err: fmt.Errorf("collaborator down")}, now)

	origin := models.Coordinate{Latitude: 32.08, Longitude: 34.78}
	plants := []models.Plant{
		testPlant("a", 32.10, 34.80, models.PriorityHigh, now),
		testPlant("b", 32.15, 34.85, models.PriorityHigh, now),
	}

	route := service.Optimize(context.Background(), origin, plants)

	first := geo.Haversine(32.08, 34.78, 32.10, 34.80)
	second := first + geo.Haversine(32.10, 34.80, 32.15, 34.85)

	assert.InDelta(t, first, route.Stops[0].CumulativeDistanceKm, 0.06)
	assert.InDelta(t, second, route.Stops[1].CumulativeDistanceKm, 0.06)
	assert.InDelta(t, second, route.Stats.TotalDistanceKm, 0.06)
}

func TestOptimize_ExcludesPlantsWithoutCoordinates(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	service := newRouteFixture(&fakeRoutingClient{err: fmt.Errorf("collaborator down")}, now)

	noLocation := testPlant("no-loc", 0, 0, models.PriorityHigh, now)
	noLocation.Location = models.PlantLocation{Section: "A", Aisle: "3"}

	plants := []models.Plant{
		noLocation,
		testPlant("ok", 32.10, 34.80, models.PriorityHigh, now),
	}

	route := service.Optimize(context.Background(), models.Coordinate{Latitude: 32.08, Longitude: 34.78}, plants)

	assert.Len(t, route.Stops, 1)
	assert.Equal(t, "ok", route.Stops[0].PlantID)
	assert.Len(t, route.Warnings, 1)
	assert.Equal(t, "missing_coordinates", route.Warnings[0].Code)
	assert.Equal(t, "no-loc", route.Warnings[0].PlantID)
}

func TestOptimize_ExternalRouteAccepted(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	routing := &fakeRoutingClient{
		response: &RoutingResponse{
			Route: []struct {
				PlantID    string  `json:"plant_id"`
				DistanceKm float64 `json:"distance_km"`
			}{
				{PlantID: "b", DistanceKm: 1.2},
				{PlantID: "a", DistanceKm: 3.4},
			},
			TotalDistance: 3.42,
			EstimatedTime: 25,
		},
	}
	service := newRouteFixture(routing, now)

	plants := []models.Plant{
		testPlant("a", 32.10, 34.80, models.PriorityHigh, now),
		testPlant("b", 32.15, 34.85, models.PriorityLow, now),
	}

	route := service.Optimize(context.Background(), models.Coordinate{Latitude: 32.08, Longitude: 34.78}, plants)

	assert.False(t, route.Fallback)
	assert.Equal(t, "b", route.Stops[0].PlantID)
	assert.Equal(t, "a", route.Stops[1].PlantID)
	assert.Equal(t, 3.4, route.Stats.TotalDistanceKm, "total distance reported to 1 decimal")
	assert.Equal(t, 25, route.Stats.EstimatedTimeMinutes)
	assert.Equal(t, 1, route.Stats.HighPriorityCount)
	assert.Equal(t, 1, routing.calls, "exactly one attempt, no retry")
}

func TestOptimize_MalformedExternalResponseFallsBack(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	routing := &fakeRoutingClient{
		response: &RoutingResponse{
			Route: []struct {
				PlantID    string  `json:"plant_id"`
				DistanceKm float64 `json:"distance_km"`
			}{
				{PlantID: "unknown", DistanceKm: 1.2},
				{PlantID: "a", DistanceKm: 3.4},
			},
		},
	}
	service := newRouteFixture(routing, now)

	plants := []models.Plant{
		testPlant("a", 32.10, 34.80, models.PriorityHigh, now),
		testPlant("b", 32.15, 34.85, models.PriorityLow, now),
	}

	route := service.Optimize(context.Background(), models.Coordinate{Latitude: 32.08, Longitude: 34.78}, plants)

	assert.True(t, route.Fallback, "malformed response must trigger the local heuristic")
	assert.Equal(t, "a", route.Stops[0].PlantID, "high priority first in fallback")
	assert.Equal(t, 1, routing.calls)
}
