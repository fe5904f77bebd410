package services

import (
	"context"
	"log"
	"math"
	"sort"

	"plantcare-service/internal/geo"
	"plantcare-service/internal/models"
)

// minutesPerStop is the fixed per-stop time estimate used by the local
// heuristic.
const minutesPerStop = 5

type IRouteService interface {
	// Optimize orders a watering round over the given plants. Collaborator
	// failure is never fatal; the deterministic local heuristic takes over.
	Optimize(ctx context.Context, origin models.Coordinate, plants []models.Plant) *models.OptimizedRoute
}

type RouteService struct {
	routing IRoutingClient
	clock   Clock
}

func NewRouteService(routing IRoutingClient, clock Clock) IRouteService {
	return &RouteService{
		routing: routing,
		clock:   clock,
	}
}

// routeCandidate pairs a plant with its derived priority so sorting stays
// stable against the original input order.
type routeCandidate struct {
	plant    models.Plant
	priority models.PriorityTier
}

func (s *RouteService) Optimize(ctx context.Context, origin models.Coordinate, plants []models.Plant) *models.OptimizedRoute {
	route := &models.OptimizedRoute{Stops: []models.RouteStop{}}

	now := s.clock.Now()
	candidates := make([]routeCandidate, 0, len(plants))
	for _, plant := range plants {
		if !plant.Location.HasCoordinates() {
			log.Printf("plant %s excluded from route: missing coordinates", plant.ID)
			route.Warnings = append(route.Warnings, models.RouteWarning{
				Code:    "missing_coordinates",
				Message: "plant excluded from route: no location coordinates",
				PlantID: plant.ID,
			})
			continue
		}
		candidates = append(candidates, routeCandidate{
			plant:    plant,
			priority: plant.Priority(now),
		})
	}

	if len(candidates) == 0 {
		return route
	}

	if external := s.tryExternal(ctx, origin, candidates); external != nil {
		external.Warnings = append(external.Warnings, route.Warnings...)
		return external
	}

	fallback := s.fallbackRoute(origin, candidates)
	fallback.Warnings = append(fallback.Warnings, route.Warnings...)
	return fallback
}

// tryExternal makes the single allowed attempt against the routing
// collaborator and validates the response shape. Any failure returns nil.
func (s *RouteService) tryExternal(ctx context.Context, origin models.Coordinate, candidates []routeCandidate) *models.OptimizedRoute {
	request := RoutingRequest{Origin: origin}
	byID := make(map[string]routeCandidate, len(candidates))
	for _, candidate := range candidates {
		byID[candidate.plant.ID] = candidate
		request.Stops = append(request.Stops, RoutingStop{
			PlantID:   candidate.plant.ID,
			Latitude:  candidate.plant.Location.Latitude,
			Longitude: candidate.plant.Location.Longitude,
			Priority:  string(candidate.priority),
		})
	}

	response, err := s.routing.OptimizeRoute(ctx, request)
	if err != nil {
		log.Printf("routing collaborator unavailable, using local heuristic: %v", err)
		return nil
	}

	if len(response.Route) != len(candidates) {
		log.Printf("routing response malformed: %d stops returned for %d requested", len(response.Route), len(candidates))
		return nil
	}

	stops := make([]models.RouteStop, 0, len(response.Route))
	seen := make(map[string]bool, len(response.Route))
	highPriority := 0
	for i, stop := range response.Route {
		candidate, ok := byID[stop.PlantID]
		if !ok || seen[stop.PlantID] {
			log.Printf("routing response malformed: unknown or duplicate plant id %s", stop.PlantID)
			return nil
		}
		seen[stop.PlantID] = true
		if candidate.priority == models.PriorityHigh {
			highPriority++
		}
		stops = append(stops, models.RouteStop{
			PlantID:              stop.PlantID,
			Order:                i,
			CumulativeDistanceKm: stop.DistanceKm,
		})
	}

	return &models.OptimizedRoute{
		Stops: stops,
		Stats: models.RouteStats{
			TotalPlants:          len(stops),
			TotalDistanceKm:      roundKm(response.TotalDistance),
			EstimatedTimeMinutes: response.EstimatedTime,
			HighPriorityCount:    highPriority,
		},
	}
}

// fallbackRoute is the deterministic local heuristic: stable sort by
// priority tier (high first, input order preserved within a tier), then
// walk the list accumulating great-circle distance from the origin.
func (s *RouteService) fallbackRoute(origin models.Coordinate, candidates []routeCandidate) *models.OptimizedRoute {
	ordered := make([]routeCandidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return tierRank(ordered[i].priority) < tierRank(ordered[j].priority)
	})

	stops := make([]models.RouteStop, 0, len(ordered))
	highPriority := 0
	total := 0.0
	prevLat, prevLon := origin.Latitude, origin.Longitude
	for i, candidate := range ordered {
		loc := candidate.plant.Location
		total += geo.Haversine(prevLat, prevLon, loc.Latitude, loc.Longitude)
		prevLat, prevLon = loc.Latitude, loc.Longitude

		if candidate.priority == models.PriorityHigh {
			highPriority++
		}
		stops = append(stops, models.RouteStop{
			PlantID:              candidate.plant.ID,
			Order:                i,
			CumulativeDistanceKm: roundKm(total),
		})
	}

	return &models.OptimizedRoute{
		Stops:    stops,
		Fallback: true,
		Stats: models.RouteStats{
			TotalPlants:          len(stops),
			TotalDistanceKm:      roundKm(total),
			EstimatedTimeMinutes: len(stops) * minutesPerStop,
			HighPriorityCount:    highPriority,
		},
	}
}

func tierRank(tier models.PriorityTier) int {
	switch tier {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	default:
		return 2
	}
}

func roundKm(km float64) float64 {
	return math.Round(km*10) / 10
}
