package worker

import (
	"context"
	"log"
	"sync"
	"time"
)

// PollFunc is the fetch callback a controller drives.
type PollFunc func(ctx context.Context)

// ControllerStatus represents the lifecycle state of a polling controller
type ControllerStatus string

const (
	ControllerCreated ControllerStatus = "created"
	ControllerPolling ControllerStatus = "polling"
	ControllerStopped ControllerStatus = "stopped"
)

// PollingController runs a poll callback on a fixed interval and reacts to
// application lifecycle transitions delivered as messages. A background
// signal pauses ticking; a foreground signal resumes it. The immediate
// out-of-cycle fetch on foreground is issued by the session owner, not the
// ticker, so the controller never double-fetches.
type PollingController struct {
	Name     string
	interval time.Duration
	poll     PollFunc

	foreground chan struct{}
	background chan struct{}

	mu     sync.RWMutex
	status ControllerStatus
}

// NewPollingController creates a controller. Run must be called to start it.
func NewPollingController(name string, interval time.Duration, poll PollFunc) *PollingController {
	return &PollingController{
		Name:       name,
		interval:   interval,
		poll:       poll,
		foreground: make(chan struct{}, 1),
		background: make(chan struct{}, 1),
		status:     ControllerCreated,
	}
}

// Status returns the controller's lifecycle state.
func (c *PollingController) Status() ControllerStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *PollingController) setStatus(status ControllerStatus) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
}

// OnForeground signals a transition to foreground. Non-blocking; a pending
// signal is collapsed into one.
func (c *PollingController) OnForeground() {
	select {
	case c.foreground <- struct{}{}:
	default:
	}
}

// OnBackground signals a transition to background.
func (c *PollingController) OnBackground() {
	select {
	case c.background <- struct{}{}:
	default:
	}
}

// Run drives the poll loop until the context is canceled.
func (c *PollingController) Run(ctx context.Context) {
	log.Printf("[Poller %s] Running every %v\n", c.Name, c.interval)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	c.setStatus(ControllerPolling)

	for {
		select {
		case <-ticker.C:
			if c.Status() != ControllerPolling {
				continue
			}
			c.poll(ctx)

		case <-c.foreground:
			if c.Status() == ControllerPolling {
				continue
			}
			log.Printf("[Poller %s] Foreground transition. Resuming.\n", c.Name)
			c.setStatus(ControllerPolling)
			ticker.Reset(c.interval)

		case <-c.background:
			log.Printf("[Poller %s] Background transition. Pausing.\n", c.Name)
			c.setStatus(ControllerStopped)

		case <-ctx.Done():
			log.Printf("[Poller %s] Shutting down.\n", c.Name)
			c.setStatus(ControllerStopped)
			return
		}
	}
}
