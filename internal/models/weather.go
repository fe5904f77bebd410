package models

import "time"

// ForecastEntry is one day of forecast precipitation.
type ForecastEntry struct {
	Date          time.Time `json:"date"`
	Precipitation float64   `json:"precipitation"`
}

// WeatherSnapshot is the weather collaborator's view of current conditions
// at a coordinate.
type WeatherSnapshot struct {
	Temperature         float64         `json:"temperature"`            // celsius
	Humidity            float64         `json:"humidity"`               // percent
	PrecipitationLast24 float64         `json:"precipitation_last_24h"` // mm
	Forecast            []ForecastEntry `json:"forecast"`
	FetchedAt           time.Time       `json:"fetched_at"`
}

// AdjustmentKind classifies a watering-schedule change.
type AdjustmentKind string

const (
	AdjustmentDelay    AdjustmentKind = "delay"
	AdjustmentReduce   AdjustmentKind = "reduce"
	AdjustmentIncrease AdjustmentKind = "increase"
	AdjustmentNone     AdjustmentKind = "none"
)

// Urgency grades how quickly staff should act on a notification.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

// IsValidUrgency checks if an urgency value is valid
func IsValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyUrgent:
		return true
	default:
		return false
	}
}

// AdjustmentRecommendation is the rule engine's advisory output.
// Derived from a WeatherSnapshot only; never persisted.
type AdjustmentRecommendation struct {
	ShouldNotify bool           `json:"should_notify"`
	Kind         AdjustmentKind `json:"kind"`
	Message      string         `json:"message"`
	DelayDays    int            `json:"delay_days"` // negative advances the next watering
	Urgency      Urgency        `json:"urgency"`
}
