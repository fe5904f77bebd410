package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"plantcare-service/internal/event"
	"plantcare-service/internal/models"
	"plantcare-service/internal/repository"

	"github.com/google/uuid"
)

type ISeasonService interface {
	// Schedule plans the current season's care tasks for a business.
	// Idempotent per (business, task, season, year).
	Schedule(ctx context.Context, businessID string, location models.Coordinate) ([]models.SeasonalTask, error)
	CancelAll(ctx context.Context, businessID string) error
}

type SeasonService struct {
	tasks         repository.ISeasonalTaskRepository
	notifications repository.INotificationRepository
	publisher     EventPublisher
	clock         Clock
}

func NewSeasonService(
	tasks repository.ISeasonalTaskRepository,
	notifications repository.INotificationRepository,
	publisher EventPublisher,
	clock Clock,
) ISeasonService {
	return &SeasonService{
		tasks:         tasks,
		notifications: notifications,
		publisher:     publisher,
		clock:         clock,
	}
}

// SeasonFor resolves the season from a month and the hemisphere implied by
// the latitude sign. A southern latitude shifts the mapping by six months.
func SeasonFor(month time.Month, latitude float64) models.Season {
	if latitude < 0 {
		month = ((month + 5) % 12) + 1
	}

	switch month {
	case time.December, time.January, time.February:
		return models.SeasonWinter
	case time.March, time.April, time.May:
		return models.SeasonSpring
	case time.June, time.July, time.August:
		return models.SeasonSummer
	default:
		return models.SeasonAutumn
	}
}

// TasksForSeason returns the fixed task templates for a season. The switch
// is exhaustive over the Season variants.
func TasksForSeason(season models.Season) []models.SeasonalTask {
	switch season {
	case models.SeasonSummer:
		return []models.SeasonalTask{
			{
				ID: "summer-increase-watering", Season: season,
				Category:          models.TaskCategoryWatering,
				Title:             "Increase watering",
				Body:              "Hot season. Check soil moisture daily and increase watering frequency.",
				TriggerOffsetDays: 3, Urgency: models.UrgencyHigh,
			},
			{
				ID: "summer-humidity-misting", Season: season,
				Category:          models.TaskCategoryHumidity,
				Title:             "Mist humidity-loving plants",
				Body:              "Dry summer air. Mist tropical stock in the mornings.",
				TriggerOffsetDays: 4, Urgency: models.UrgencyNormal,
			},
			{
				ID: "summer-shade-check", Season: season,
				Category:          models.TaskCategoryLight,
				Title:             "Check for leaf scorch",
				Body:              "Move sensitive plants out of direct afternoon sun.",
				TriggerOffsetDays: 7, Urgency: models.UrgencyNormal,
			},
		}
	case models.SeasonWinter:
		return []models.SeasonalTask{
			{
				ID: "winter-minimal-watering", Season: season,
				Category:          models.TaskCategoryWatering,
				Title:             "Minimal watering",
				Body:              "Dormant season. Water only when soil is fully dry.",
				TriggerOffsetDays: 5, Urgency: models.UrgencyHigh,
			},
			{
				ID: "winter-light-reposition", Season: season,
				Category:          models.TaskCategoryLight,
				Title:             "Reposition for light",
				Body:              "Shorter days. Move stock closer to windows or grow lights.",
				TriggerOffsetDays: 7, Urgency: models.UrgencyNormal,
			},
			{
				ID: "winter-humidity-indoor", Season: season,
				Category:          models.TaskCategoryHumidity,
				Title:             "Raise indoor humidity",
				Body:              "Heating dries the air. Group plants or run a humidifier.",
				TriggerOffsetDays: 6, Urgency: models.UrgencyLow,
			},
		}
	case models.SeasonSpring:
		return []models.SeasonalTask{
			{
				ID: "spring-repotting", Season: season,
				Category:          models.TaskCategoryRepotting,
				Title:             "Repot root-bound plants",
				Body:              "Growth season starting. Repot anything root-bound.",
				TriggerOffsetDays: 7, Urgency: models.UrgencyNormal,
			},
			{
				ID: "spring-fertilizing", Season: season,
				Category:          models.TaskCategoryFertilizing,
				Title:             "Resume fertilizing",
				Body:              "Restart the fertilizing schedule for active growers.",
				TriggerOffsetDays: 5, Urgency: models.UrgencyHigh,
			},
			{
				ID: "spring-pruning", Season: season,
				Category:          models.TaskCategoryPruning,
				Title:             "Spring pruning",
				Body:              "Prune winter damage and shape before new growth.",
				TriggerOffsetDays: 10, Urgency: models.UrgencyLow,
			},
		}
	case models.SeasonAutumn:
		return []models.SeasonalTask{
			{
				ID: "autumn-pruning", Season: season,
				Category:          models.TaskCategoryPruning,
				Title:             "Autumn pruning",
				Body:              "Cut back spent growth before dormancy.",
				TriggerOffsetDays: 5, Urgency: models.UrgencyNormal,
			},
			{
				ID: "autumn-fertilizing-taper", Season: season,
				Category:          models.TaskCategoryFertilizing,
				Title:             "Taper fertilizing",
				Body:              "Reduce feeding as growth slows.",
				TriggerOffsetDays: 7, Urgency: models.UrgencyLow,
			},
			{
				ID: "autumn-light-management", Season: season,
				Category:          models.TaskCategoryLight,
				Title:             "Adjust light placement",
				Body:              "Days are shortening. Rebalance shelf placement for light.",
				TriggerOffsetDays: 10, Urgency: models.UrgencyNormal,
			},
		}
	default:
		return nil
	}
}

func (s *SeasonService) Schedule(ctx context.Context, businessID string, location models.Coordinate) ([]models.SeasonalTask, error) {
	if businessID == "" {
		return nil, fmt.Errorf("business ID cannot be empty")
	}

	now := s.clock.Now()
	season := SeasonFor(now.Month(), location.Latitude)
	year := now.Year()

	var scheduled []models.SeasonalTask
	for _, task := range TasksForSeason(season) {
		key := models.SeasonalTaskKey{
			BusinessID: businessID,
			TaskID:     task.ID,
			Season:     season,
			Year:       year,
		}

		claimed, err := s.tasks.ClaimKey(key)
		if err != nil {
			return scheduled, fmt.Errorf("failed to claim seasonal task key: %w", err)
		}
		if !claimed {
			// Already scheduled this season; re-scheduling is a no-op.
			continue
		}

		notification := models.Notification{
			ID:         uuid.NewString(),
			Type:       models.NotificationSeasonalTask,
			Title:      task.Title,
			Body:       task.Body,
			Urgency:    task.Urgency,
			BusinessID: businessID,
			CreatedAt:  now,
			DeliverAt:  now.AddDate(0, 0, task.TriggerOffsetDays),
		}
		if err := s.notifications.Create(&notification); err != nil {
			return scheduled, fmt.Errorf("failed to create seasonal notification: %w", err)
		}

		evt := event.CareEvent{
			ID:           uuid.NewString(),
			EventType:    event.CareEventSeasonalTask,
			BusinessID:   businessID,
			Notification: notification,
			Additional: map[string]any{
				"task_id": task.ID,
				"season":  season,
				"year":    year,
			},
		}
		if err := s.publisher.PublishEvent(ctx, evt); err != nil {
			log.Printf("failed to publish seasonal task event for %s: %v", task.ID, err)
		}

		scheduled = append(scheduled, task)
	}

	return scheduled, nil
}

func (s *SeasonService) CancelAll(ctx context.Context, businessID string) error {
	if businessID == "" {
		return fmt.Errorf("business ID cannot be empty")
	}
	return s.tasks.CancelAll(businessID)
}
