package models

import "time"

// NotificationType categorizes how a notification originated.
type NotificationType string

const (
	NotificationWeatherAlert NotificationType = "weather_alert"
	NotificationSeasonalTask NotificationType = "seasonal_task"
	NotificationCareReminder NotificationType = "care_reminder"
)

// Notification is one reminder surfaced to staff.
// Unread until marked read; forgotten once its seen-cache entry is evicted.
type Notification struct {
	ID         string           `db:"id" json:"id"`
	Type       NotificationType `db:"type" json:"type"`
	Title      string           `db:"title" json:"title"`
	Body       string           `db:"body" json:"body"`
	Urgency    Urgency          `db:"urgency" json:"urgency"`
	BusinessID string           `db:"business_id" json:"business_id"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	DeliverAt  time.Time        `db:"deliver_at" json:"deliver_at"`
	ReadAt     *time.Time       `db:"read_at" json:"read_at,omitempty"`
}

// PollingStatus is the lifecycle state of a business's reminder session.
type PollingStatus string

const (
	PollingStopped PollingStatus = "stopped"
	PollingActive  PollingStatus = "polling"
)

// IsValidPollingStatus checks if a polling status is valid
func IsValidPollingStatus(status PollingStatus) bool {
	switch status {
	case PollingStopped, PollingActive:
		return true
	default:
		return false
	}
}

// PollingSessionState is a snapshot of one business's polling session.
type PollingSessionState struct {
	BusinessID  string        `json:"business_id"`
	Status      PollingStatus `json:"status"`
	LastPollAt  *time.Time    `json:"last_poll_at,omitempty"`
	SeenCount   int           `json:"seen_count"`
	ActiveCount int           `json:"active_count"`
	HasNew      bool          `json:"has_new"`
}
