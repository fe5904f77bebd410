package services

import (
	"context"
	"log"
	"time"

	"plantcare-service/internal/event"
	"plantcare-service/internal/models"
	"plantcare-service/internal/repository"

	"github.com/google/uuid"
)

// Weather thresholds for the watering adjustment rules.
const (
	heavyRainMm     = 5.0
	highHumidityPct = 80.0
	hotTempCelsius  = 30.0
	coldTempCelsius = 10.0
	forecastWindow  = 48 * time.Hour
)

type IAdjustmentService interface {
	Evaluate(snapshot models.WeatherSnapshot) models.AdjustmentRecommendation
	EvaluateAndNotify(ctx context.Context, businessID string, snapshot models.WeatherSnapshot) models.AdjustmentRecommendation
}

type AdjustmentService struct {
	notifications repository.INotificationRepository
	publisher     EventPublisher
	clock         Clock
}

func NewAdjustmentService(notifications repository.INotificationRepository, publisher EventPublisher, clock Clock) IAdjustmentService {
	return &AdjustmentService{
		notifications: notifications,
		publisher:     publisher,
		clock:         clock,
	}
}

// Evaluate maps a weather snapshot to a watering adjustment. Rules are
// checked in fixed priority order and the first match wins; the evaluation
// is pure.
func (s *AdjustmentService) Evaluate(snapshot models.WeatherSnapshot) models.AdjustmentRecommendation {
	if snapshot.PrecipitationLast24 > heavyRainMm {
		return models.AdjustmentRecommendation{
			ShouldNotify: true,
			Kind:         models.AdjustmentDelay,
			Message:      "Recent rainfall detected. Watering can be delayed by 2 days.",
			DelayDays:    2,
			Urgency:      models.UrgencyLow,
		}
	}

	if s.rainExpected(snapshot) {
		return models.AdjustmentRecommendation{
			ShouldNotify: true,
			Kind:         models.AdjustmentDelay,
			Message:      "Rain expected within 48 hours. Watering can be delayed by 1 day.",
			DelayDays:    1,
			Urgency:      models.UrgencyNormal,
		}
	}

	// High humidity only matters when the hot rule below would not fire.
	if snapshot.Humidity > highHumidityPct && snapshot.Temperature <= hotTempCelsius {
		return models.AdjustmentRecommendation{
			ShouldNotify: true,
			Kind:         models.AdjustmentReduce,
			Message:      "High humidity. Watering can be reduced.",
			DelayDays:    1,
			Urgency:      models.UrgencyLow,
		}
	}

	if snapshot.Temperature > hotTempCelsius {
		return models.AdjustmentRecommendation{
			ShouldNotify: true,
			Kind:         models.AdjustmentIncrease,
			Message:      "High temperature. Water earlier than scheduled.",
			DelayDays:    -1,
			Urgency:      models.UrgencyHigh,
		}
	}

	if snapshot.Temperature < coldTempCelsius {
		return models.AdjustmentRecommendation{
			ShouldNotify: true,
			Kind:         models.AdjustmentDelay,
			Message:      "Low temperature. Watering can be delayed by 1 day.",
			DelayDays:    1,
			Urgency:      models.UrgencyNormal,
		}
	}

	return models.AdjustmentRecommendation{
		ShouldNotify: false,
		Kind:         models.AdjustmentNone,
		Urgency:      models.UrgencyLow,
	}
}

// rainExpected reports whether any forecast entry within the next 48 hours
// carries heavy precipitation. The snapshot's fetch time anchors the window.
func (s *AdjustmentService) rainExpected(snapshot models.WeatherSnapshot) bool {
	anchor := snapshot.FetchedAt
	if anchor.IsZero() {
		anchor = s.clock.Now()
	}
	cutoff := anchor.Add(forecastWindow)

	for _, entry := range snapshot.Forecast {
		if entry.Date.After(cutoff) {
			continue
		}
		if entry.Date.Before(anchor.Add(-24 * time.Hour)) {
			continue
		}
		if entry.Precipitation > heavyRainMm {
			return true
		}
	}
	return false
}

// EvaluateAndNotify evaluates the rules and, when the recommendation should
// notify, dispatches an immediate weather_alert notification. Dispatch
// failures are logged, never fatal; the recommendation is returned either way.
func (s *AdjustmentService) EvaluateAndNotify(ctx context.Context, businessID string, snapshot models.WeatherSnapshot) models.AdjustmentRecommendation {
	recommendation := s.Evaluate(snapshot)
	if !recommendation.ShouldNotify {
		return recommendation
	}

	now := s.clock.Now()
	notification := models.Notification{
		ID:         uuid.NewString(),
		Type:       models.NotificationWeatherAlert,
		Title:      "Watering adjustment",
		Body:       recommendation.Message,
		Urgency:    recommendation.Urgency,
		BusinessID: businessID,
		CreatedAt:  now,
		DeliverAt:  now,
	}

	if err := s.notifications.Create(&notification); err != nil {
		log.Printf("failed to store weather alert for business %s: %v", businessID, err)
		return recommendation
	}

	evt := event.CareEvent{
		ID:           uuid.NewString(),
		EventType:    event.CareEventWeatherAlert,
		BusinessID:   businessID,
		Notification: notification,
		Additional: map[string]any{
			"kind":       recommendation.Kind,
			"delay_days": recommendation.DelayDays,
		},
	}
	if err := s.publisher.PublishEvent(ctx, evt); err != nil {
		log.Printf("failed to publish weather alert event: %v", err)
	}

	return recommendation
}
