package event

import "plantcare-service/internal/models"

const CareQueue string = "care_noti_events"

type CareEventType string

const (
	CareEventWeatherAlert CareEventType = "weather_alert"
	CareEventSeasonalTask CareEventType = "seasonal_task"
	CareEventReminder     CareEventType = "care_reminder"
)

// CareEvent is the message published for every dispatched notification.
type CareEvent struct {
	ID           string              `json:"id"`
	EventType    CareEventType       `json:"event_type"`
	BusinessID   string              `json:"business_id"`
	Notification models.Notification `json:"notification"`
	Additional   map[string]any      `json:"additional,omitempty"`
}
