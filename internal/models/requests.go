package models

// CareCheckRequest asks the orchestrator to run a full care check.
type CareCheckRequest struct {
	BusinessID     string     `json:"business_id" binding:"required"`
	DeviceLocation Coordinate `json:"device_location" binding:"required"`
}

// ScheduleSeasonalRequest asks the seasonal scheduler to plan the current
// season's tasks for a business at a location.
type ScheduleSeasonalRequest struct {
	BusinessID string     `json:"business_id" binding:"required"`
	Location   Coordinate `json:"location" binding:"required"`
}

// CareCheckResult is the orchestrator's combined advisory output.
type CareCheckResult struct {
	Adjustment          *AdjustmentRecommendation `json:"adjustment,omitempty"`
	Route               *OptimizedRoute           `json:"route,omitempty"`
	ActiveNotifications []Notification            `json:"active_notifications"`
	HasNew              bool                      `json:"has_new"`
}
