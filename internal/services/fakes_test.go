package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"plantcare-service/internal/event"
	"plantcare-service/internal/models"
)

// fixedClock pins time for deterministic scheduling tests.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// fakeTransport is an in-memory notification transport. An optional block
// channel lets tests hold a fetch in flight.
type fakeTransport struct {
	mu      sync.Mutex
	pending []models.Notification
	created []models.Notification
	readIDs []string
	fetches int

	fetchErr     error
	block        chan struct{}
	fetchStarted chan struct{}
}

func (f *fakeTransport) Create(notification *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, *notification)
	f.pending = append(f.pending, *notification)
	return nil
}

func (f *fakeTransport) FetchPending(businessID string, now time.Time) ([]models.Notification, error) {
	f.mu.Lock()
	f.fetches++
	block := f.block
	started := f.fetchStarted
	fetchErr := f.fetchErr
	pending := make([]models.Notification, len(f.pending))
	copy(pending, f.pending)
	f.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if block != nil {
		<-block
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	return pending, nil
}

func (f *fakeTransport) MarkRead(id string, readAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readIDs = append(f.readIDs, id)
	return nil
}

func (f *fakeTransport) setPending(notifications ...models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = notifications
}

func (f *fakeTransport) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

// fakeSeenCache is an in-memory seen-id store. An optional addBlock channel
// lets tests hold a persist in flight.
type fakeSeenCache struct {
	mu   sync.Mutex
	sets map[string]map[string]bool

	addBlock   chan struct{}
	addStarted chan struct{}
}

func newFakeSeenCache() *fakeSeenCache {
	return &fakeSeenCache{sets: make(map[string]map[string]bool)}
}

func (f *fakeSeenCache) AddSeen(ctx context.Context, businessID string, ids []string) error {
	f.mu.Lock()
	block := f.addBlock
	started := f.addStarted
	f.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sets[businessID] == nil {
		f.sets[businessID] = make(map[string]bool)
	}
	for _, id := range ids {
		f.sets[businessID][id] = true
	}
	return nil
}

func (f *fakeSeenCache) GetSeen(ctx context.Context, businessID string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool, len(f.sets[businessID]))
	for id := range f.sets[businessID] {
		seen[id] = true
	}
	return seen, nil
}

func (f *fakeSeenCache) Clear(ctx context.Context, businessID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sets, businessID)
	return nil
}

// fakePublisher records published care events.
type fakePublisher struct {
	mu     sync.Mutex
	events []event.CareEvent
}

func (f *fakePublisher) PublishEvent(ctx context.Context, evt event.CareEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

func (f *fakePublisher) published() []event.CareEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := make([]event.CareEvent, len(f.events))
	copy(events, f.events)
	return events
}

// fakeTaskRepository claims seasonal task keys in memory.
type fakeTaskRepository struct {
	mu      sync.Mutex
	claimed map[models.SeasonalTaskKey]bool
}

func newFakeTaskRepository() *fakeTaskRepository {
	return &fakeTaskRepository{claimed: make(map[models.SeasonalTaskKey]bool)}
}

func (f *fakeTaskRepository) ClaimKey(key models.SeasonalTaskKey) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimed[key] {
		return false, nil
	}
	f.claimed[key] = true
	return true, nil
}

func (f *fakeTaskRepository) CancelAll(businessID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.claimed {
		if key.BusinessID == businessID {
			delete(f.claimed, key)
		}
	}
	return nil
}

// fakePlantRepository serves a fixed inventory or a configured error.
type fakePlantRepository struct {
	plants []models.Plant
	err    error
}

func (f *fakePlantRepository) GetPlantsByBusiness(businessID string) ([]models.Plant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.plants, nil
}

func (f *fakePlantRepository) GetPlantsNeedingCare(businessID string, now time.Time) ([]models.Plant, error) {
	if f.err != nil {
		return nil, f.err
	}
	var overdue []models.Plant
	for _, plant := range f.plants {
		if plant.OverdueDays(now) > 0 {
			overdue = append(overdue, plant)
		}
	}
	return overdue, nil
}

// fakeSnapshotRepository is an in-memory offline snapshot store.
type fakeSnapshotRepository struct {
	mu          sync.Mutex
	plants      map[string][]models.Plant
	routes      map[string]*models.OptimizedRoute
	autoRefresh map[string]bool
}

func newFakeSnapshotRepository() *fakeSnapshotRepository {
	return &fakeSnapshotRepository{
		plants:      make(map[string][]models.Plant),
		routes:      make(map[string]*models.OptimizedRoute),
		autoRefresh: make(map[string]bool),
	}
}

func (f *fakeSnapshotRepository) SavePlants(ctx context.Context, businessID string, plants []models.Plant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plants[businessID] = plants
	return nil
}

func (f *fakeSnapshotRepository) GetPlants(ctx context.Context, businessID string) ([]models.Plant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	plants, ok := f.plants[businessID]
	if !ok {
		return nil, fmt.Errorf("no plant snapshot for business %s", businessID)
	}
	return plants, nil
}

func (f *fakeSnapshotRepository) SaveRoute(ctx context.Context, businessID string, route *models.OptimizedRoute) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[businessID] = route
	return nil
}

func (f *fakeSnapshotRepository) GetRoute(ctx context.Context, businessID string) (*models.OptimizedRoute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	route, ok := f.routes[businessID]
	if !ok {
		return nil, fmt.Errorf("no route snapshot for business %s", businessID)
	}
	return route, nil
}

func (f *fakeSnapshotRepository) SetAutoRefresh(ctx context.Context, businessID string, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autoRefresh[businessID] = enabled
	return nil
}

func (f *fakeSnapshotRepository) GetAutoRefresh(ctx context.Context, businessID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	enabled, ok := f.autoRefresh[businessID]
	if !ok {
		return true, nil
	}
	return enabled, nil
}

// fakeWeatherService returns a canned snapshot or error.
type fakeWeatherService struct {
	snapshot *models.WeatherSnapshot
	err      error
}

func (f *fakeWeatherService) GetSnapshot(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

// fakeRoutingClient returns a canned response or error.
type fakeRoutingClient struct {
	response *RoutingResponse
	err      error
	calls    int
}

func (f *fakeRoutingClient) OptimizeRoute(ctx context.Context, request RoutingRequest) (*RoutingResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.response == nil {
		return nil, fmt.Errorf("no response configured")
	}
	return f.response, nil
}
