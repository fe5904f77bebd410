package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"plantcare-service/internal/event"
	"plantcare-service/internal/models"
	"plantcare-service/internal/repository"
	"plantcare-service/internal/worker"

	"github.com/google/uuid"
)

// DefaultPollInterval is how often an active session checks for reminders.
const DefaultPollInterval = 60 * time.Second

type INotificationCenter interface {
	Start(ctx context.Context, businessID string) error
	Stop(businessID string) error
	Poll(ctx context.Context, businessID string) (*models.Notification, error)
	MarkAsRead(ctx context.Context, businessID, notificationID string) error
	OnForeground(ctx context.Context, businessID string)
	OnBackground(businessID string)
	ActiveFor(businessID string) ([]models.Notification, bool)
	State(businessID string) (*models.PollingSessionState, error)
}

// pollingSession is one business's reminder-polling state. Owned by a
// single logical timeline; the inFlight flag guards against a tick firing
// while the previous fetch has not resolved, and epoch invalidates fetch
// results that resolve after the session stopped or restarted.
type pollingSession struct {
	businessID string
	status     models.PollingStatus
	seenIDs    map[string]bool
	active     []models.Notification
	hasNew     bool
	inFlight   bool
	epoch      int
	lastPollAt *time.Time
	controller *worker.PollingController
	cancel     context.CancelFunc
}

type NotificationCenter struct {
	transport    repository.INotificationRepository
	seenCache    repository.SeenCacheRepository
	publisher    EventPublisher
	clock        Clock
	pollInterval time.Duration

	mu       sync.Mutex
	sessions map[string]*pollingSession
}

func NewNotificationCenter(
	transport repository.INotificationRepository,
	seenCache repository.SeenCacheRepository,
	publisher EventPublisher,
	clock Clock,
	pollInterval time.Duration,
) *NotificationCenter {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &NotificationCenter{
		transport:    transport,
		seenCache:    seenCache,
		publisher:    publisher,
		clock:        clock,
		pollInterval: pollInterval,
		sessions:     make(map[string]*pollingSession),
	}
}

// Start creates a polling session for a business and begins ticking.
// Starting an already-polling session is a no-op.
func (c *NotificationCenter) Start(ctx context.Context, businessID string) error {
	if businessID == "" {
		return fmt.Errorf("business ID cannot be empty")
	}

	c.mu.Lock()
	if existing, ok := c.sessions[businessID]; ok {
		if existing.status == models.PollingActive {
			c.mu.Unlock()
			return nil
		}
		// A backgrounded session keeps its controller goroutine alive.
		// Shut it down before installing the replacement, or every
		// background/start cycle leaks a ticker loop.
		existing.epoch++
		if existing.cancel != nil {
			existing.cancel()
		}
		delete(c.sessions, businessID)
	}

	// An unreadable seen cache degrades to an empty set.
	seen, err := c.seenCache.GetSeen(ctx, businessID)
	if err != nil {
		log.Printf("seen cache unavailable for business %s: %v", businessID, err)
		seen = map[string]bool{}
	}

	session := &pollingSession{
		businessID: businessID,
		status:     models.PollingActive,
		seenIDs:    seen,
	}
	session.controller = worker.NewPollingController(businessID, c.pollInterval, func(pollCtx context.Context) {
		if _, err := c.Poll(pollCtx, businessID); err != nil {
			log.Printf("poll failed for business %s: %v", businessID, err)
		}
	})

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	session.cancel = cancel
	c.sessions[businessID] = session
	c.mu.Unlock()

	go session.controller.Run(runCtx)

	// First fetch happens immediately, not on the first tick.
	if _, err := c.Poll(ctx, businessID); err != nil {
		log.Printf("initial poll failed for business %s: %v", businessID, err)
	}
	return nil
}

// Stop destroys a session. The seen cache stays durable.
func (c *NotificationCenter) Stop(businessID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[businessID]
	if !ok {
		return models.ErrSessionStopped
	}
	session.status = models.PollingStopped
	session.epoch++
	if session.cancel != nil {
		session.cancel()
	}
	delete(c.sessions, businessID)
	return nil
}

// Poll fetches pending reminders once. A call while a fetch is outstanding
// or while the session is stopped is a no-op. Returns the representative
// notification to surface immediately, if any.
func (c *NotificationCenter) Poll(ctx context.Context, businessID string) (*models.Notification, error) {
	c.mu.Lock()
	session, ok := c.sessions[businessID]
	if !ok || session.status != models.PollingActive {
		c.mu.Unlock()
		return nil, nil
	}
	if session.inFlight {
		c.mu.Unlock()
		return nil, nil
	}
	session.inFlight = true
	epoch := session.epoch
	c.mu.Unlock()

	now := c.clock.Now()
	fetched, fetchErr := c.transport.FetchPending(businessID, now)

	c.mu.Lock()
	session, ok = c.sessions[businessID]
	if !ok {
		// Session destroyed while the fetch was in flight; discard.
		c.mu.Unlock()
		return nil, nil
	}
	session.inFlight = false
	if session.epoch != epoch || session.status != models.PollingActive {
		// Stopped or restarted mid-fetch; result is stale, discard.
		c.mu.Unlock()
		return nil, nil
	}

	if fetchErr != nil {
		// Transient; the next tick retries naturally.
		c.mu.Unlock()
		return nil, fmt.Errorf("failed to fetch pending notifications: %w", fetchErr)
	}
	session.lastPollAt = &now

	var unseen []models.Notification
	for _, notification := range fetched {
		if !session.seenIDs[notification.ID] {
			unseen = append(unseen, notification)
		}
	}

	session.hasNew = len(unseen) > 0
	if len(unseen) == 0 {
		c.mu.Unlock()
		return nil, nil
	}

	// Union, never replace: replacing would resurface recurring ids on the
	// next fetch.
	unseenIDs := make([]string, 0, len(unseen))
	activeIDs := make(map[string]bool, len(session.active))
	for _, notification := range session.active {
		activeIDs[notification.ID] = true
	}
	for _, notification := range unseen {
		session.seenIDs[notification.ID] = true
		unseenIDs = append(unseenIDs, notification.ID)
		if !activeIDs[notification.ID] {
			session.active = append(session.active, notification)
		}
	}
	c.mu.Unlock()

	// Persistence and dispatch are network I/O; they run outside the lock
	// so a slow store never stalls other sessions' polls or state reads.
	if err := c.seenCache.AddSeen(ctx, businessID, unseenIDs); err != nil {
		log.Printf("failed to persist seen ids for business %s: %v", businessID, err)
	}

	representative := pickRepresentative(unseen)
	if representative != nil {
		c.dispatch(ctx, businessID, *representative)
	}
	return representative, nil
}

// pickRepresentative selects at most one notification to surface
// immediately: the first urgent one, else the first unseen in fetch order.
func pickRepresentative(unseen []models.Notification) *models.Notification {
	if len(unseen) == 0 {
		return nil
	}
	for i := range unseen {
		if unseen[i].Urgency == models.UrgencyUrgent {
			return &unseen[i]
		}
	}
	return &unseen[0]
}

func (c *NotificationCenter) dispatch(ctx context.Context, businessID string, notification models.Notification) {
	evt := event.CareEvent{
		ID:           uuid.NewString(),
		EventType:    event.CareEventReminder,
		BusinessID:   businessID,
		Notification: notification,
	}
	if err := c.publisher.PublishEvent(ctx, evt); err != nil {
		log.Printf("failed to publish reminder event for business %s: %v", businessID, err)
	}
}

// MarkAsRead removes a notification from the active list and acknowledges
// it to the transport. The id stays in the seen cache.
func (c *NotificationCenter) MarkAsRead(ctx context.Context, businessID, notificationID string) error {
	c.mu.Lock()
	session, ok := c.sessions[businessID]
	if !ok {
		c.mu.Unlock()
		return models.ErrSessionStopped
	}

	remaining := session.active[:0]
	for _, notification := range session.active {
		if notification.ID != notificationID {
			remaining = append(remaining, notification)
		}
	}
	session.active = remaining
	if len(session.active) == 0 {
		session.hasNew = false
	}
	c.mu.Unlock()

	if err := c.transport.MarkRead(notificationID, c.clock.Now()); err != nil {
		return fmt.Errorf("failed to acknowledge notification %s: %w", notificationID, err)
	}
	return nil
}

// OnBackground pauses polling. An in-flight fetch runs to completion but
// its result is discarded.
func (c *NotificationCenter) OnBackground(businessID string) {
	c.mu.Lock()
	session, ok := c.sessions[businessID]
	if !ok {
		c.mu.Unlock()
		return
	}
	session.status = models.PollingStopped
	session.epoch++
	controller := session.controller
	c.mu.Unlock()

	if controller != nil {
		controller.OnBackground()
	}
}

// OnForeground resumes polling and issues an immediate out-of-cycle fetch
// rather than waiting for the next tick.
func (c *NotificationCenter) OnForeground(ctx context.Context, businessID string) {
	c.mu.Lock()
	session, ok := c.sessions[businessID]
	if !ok {
		c.mu.Unlock()
		return
	}
	session.status = models.PollingActive
	controller := session.controller
	c.mu.Unlock()

	if controller != nil {
		controller.OnForeground()
	}
	if _, err := c.Poll(ctx, businessID); err != nil {
		log.Printf("foreground poll failed for business %s: %v", businessID, err)
	}
}

// ActiveFor returns a copy of the active list and the hasNew flag. A
// business without a session gets an empty list.
func (c *NotificationCenter) ActiveFor(businessID string) ([]models.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[businessID]
	if !ok {
		return []models.Notification{}, false
	}
	active := make([]models.Notification, len(session.active))
	copy(active, session.active)
	return active, session.hasNew
}

// State reports a session snapshot.
func (c *NotificationCenter) State(businessID string) (*models.PollingSessionState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[businessID]
	if !ok {
		return &models.PollingSessionState{
			BusinessID: businessID,
			Status:     models.PollingStopped,
		}, nil
	}
	return &models.PollingSessionState{
		BusinessID:  businessID,
		Status:      session.status,
		LastPollAt:  session.lastPollAt,
		SeenCount:   len(session.seenIDs),
		ActiveCount: len(session.active),
		HasNew:      session.hasNew,
	}, nil
}
