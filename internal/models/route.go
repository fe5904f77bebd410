package models

// RouteStop is one visit in an ordered watering round.
type RouteStop struct {
	PlantID              string  `json:"plant_id"`
	Order                int     `json:"order"` // 0-based
	CumulativeDistanceKm float64 `json:"cumulative_distance_km"`
}

// RouteStats summarizes a computed route.
type RouteStats struct {
	TotalPlants          int     `json:"total_plants"`
	TotalDistanceKm      float64 `json:"total_distance_km"` // rounded to 1 decimal
	EstimatedTimeMinutes int     `json:"estimated_time_minutes"`
	HighPriorityCount    int     `json:"high_priority_count"`
}

// RouteWarning flags a non-fatal issue found while building a route,
// such as a plant excluded for missing coordinates.
type RouteWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	PlantID string `json:"plant_id,omitempty"`
}

// OptimizedRoute is the route optimizer's full result.
type OptimizedRoute struct {
	Stops    []RouteStop    `json:"stops"`
	Stats    RouteStats     `json:"stats"`
	Warnings []RouteWarning `json:"warnings,omitempty"`
	Fallback bool           `json:"fallback"` // true when the local heuristic produced the order
}
