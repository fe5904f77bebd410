package services

import (
	"context"
	"log"
	"time"

	"plantcare-service/internal/models"
	"plantcare-service/internal/repository"
)

type ICareService interface {
	// RunCareCheck runs the full advisory pass for a business: weather
	// adjustment, watering route and active reminders. Each branch
	// degrades independently; no collaborator failure is fatal.
	RunCareCheck(ctx context.Context, businessID string, deviceLocation models.Coordinate) (*models.CareCheckResult, error)
}

type CareService struct {
	plants     repository.IPlantRepository
	snapshots  repository.SnapshotRepository
	weather    IWeatherService
	adjustment IAdjustmentService
	routes     IRouteService
	center     *NotificationCenter
	clock      Clock
}

func NewCareService(
	plants repository.IPlantRepository,
	snapshots repository.SnapshotRepository,
	weather IWeatherService,
	adjustment IAdjustmentService,
	routes IRouteService,
	center *NotificationCenter,
	clock Clock,
) ICareService {
	return &CareService{
		plants:     plants,
		snapshots:  snapshots,
		weather:    weather,
		adjustment: adjustment,
		routes:     routes,
		center:     center,
		clock:      clock,
	}
}

func (s *CareService) RunCareCheck(ctx context.Context, businessID string, deviceLocation models.Coordinate) (*models.CareCheckResult, error) {
	result := &models.CareCheckResult{}
	now := s.clock.Now()

	plants := s.loadPlants(ctx, businessID)

	if !deviceLocation.HasCoordinates() {
		// Location permission withheld: weather and routing are disabled
		// gracefully; the last-known route still serves if one exists.
		log.Printf("no device location for business %s, skipping weather and routing: %v", businessID, models.ErrPermissionDenied)
		if cached, err := s.snapshots.GetRoute(ctx, businessID); err == nil {
			result.Route = cached
		}
		result.ActiveNotifications, result.HasNew = s.center.ActiveFor(businessID)
		return result, nil
	}

	if snapshot, err := s.weather.GetSnapshot(ctx, deviceLocation.Latitude, deviceLocation.Longitude); err != nil {
		// Safe default: no adjustment.
		log.Printf("weather unavailable for business %s, skipping adjustment: %v", businessID, err)
	} else {
		recommendation := s.adjustment.EvaluateAndNotify(ctx, businessID, *snapshot)
		result.Adjustment = &recommendation
	}

	if refresh, err := s.snapshots.GetAutoRefresh(ctx, businessID); err == nil && !refresh {
		if cached, cacheErr := s.snapshots.GetRoute(ctx, businessID); cacheErr == nil {
			result.Route = cached
			result.ActiveNotifications, result.HasNew = s.center.ActiveFor(businessID)
			return result, nil
		}
	}

	needingCare := s.loadNeedingCare(businessID, plants, now)
	route := s.routes.Optimize(ctx, deviceLocation, needingCare)
	result.Route = route
	if err := s.snapshots.SaveRoute(ctx, businessID, route); err != nil {
		log.Printf("failed to save route snapshot for business %s: %v", businessID, err)
	}

	result.ActiveNotifications, result.HasNew = s.center.ActiveFor(businessID)
	return result, nil
}

// loadNeedingCare prefers the inventory's own overdue query; when the
// inventory is unreachable the already-loaded plant list is filtered
// locally instead.
func (s *CareService) loadNeedingCare(businessID string, plants []models.Plant, now time.Time) []models.Plant {
	overdue, err := s.plants.GetPlantsNeedingCare(businessID, now)
	if err == nil {
		return overdue
	}

	log.Printf("overdue query unavailable for business %s, filtering locally: %v", businessID, err)
	needingCare := make([]models.Plant, 0, len(plants))
	for _, plant := range plants {
		if plant.OverdueDays(now) > 0 {
			needingCare = append(needingCare, plant)
		}
	}
	return needingCare
}

// loadPlants reads the inventory, falling back to the last-known snapshot
// when the collaborator is unreachable. Both failing yields an empty list.
func (s *CareService) loadPlants(ctx context.Context, businessID string) []models.Plant {
	plants, err := s.plants.GetPlantsByBusiness(businessID)
	if err == nil {
		if saveErr := s.snapshots.SavePlants(ctx, businessID, plants); saveErr != nil {
			log.Printf("failed to save plant snapshot for business %s: %v", businessID, saveErr)
		}
		return plants
	}

	log.Printf("inventory unavailable for business %s, trying snapshot: %v", businessID, err)
	cached, cacheErr := s.snapshots.GetPlants(ctx, businessID)
	if cacheErr != nil {
		log.Printf("no plant snapshot for business %s: %v", businessID, cacheErr)
		return []models.Plant{}
	}
	return cached
}
