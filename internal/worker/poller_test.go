package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func waitForCount(t *testing.T, counter *atomic.Int32, want int32) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if counter.Load() >= want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("expected at least %d polls, got %d", want, counter.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRun_PollsOnInterval(t *testing.T) {
	var polls atomic.Int32
	controller := NewPollingController("test", 10*time.Millisecond, func(ctx context.Context) {
		polls.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go controller.Run(ctx)

	waitForCount(t, &polls, 3)
	assert.Equal(t, ControllerPolling, controller.Status())
}

func TestOnBackground_PausesTicking(t *testing.T) {
	var polls atomic.Int32
	controller := NewPollingController("test", 10*time.Millisecond, func(ctx context.Context) {
		polls.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go controller.Run(ctx)

	waitForCount(t, &polls, 1)
	controller.OnBackground()

	// Give the pause a moment to land, then confirm ticks stop firing.
	time.Sleep(50 * time.Millisecond)
	paused := polls.Load()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, paused, polls.Load())
	assert.Equal(t, ControllerStopped, controller.Status())
}

func TestOnForeground_ResumesTicking(t *testing.T) {
	var polls atomic.Int32
	controller := NewPollingController("test", 10*time.Millisecond, func(ctx context.Context) {
		polls.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go controller.Run(ctx)

	waitForCount(t, &polls, 1)
	controller.OnBackground()
	time.Sleep(50 * time.Millisecond)
	paused := polls.Load()

	controller.OnForeground()
	waitForCount(t, &polls, paused+2)
	assert.Equal(t, ControllerPolling, controller.Status())
}

func TestOnForeground_WhileAlreadyPollingIsNoOp(t *testing.T) {
	var polls atomic.Int32
	controller := NewPollingController("test", 10*time.Millisecond, func(ctx context.Context) {
		polls.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go controller.Run(ctx)

	waitForCount(t, &polls, 1)
	controller.OnForeground()
	waitForCount(t, &polls, 2)
	assert.Equal(t, ControllerPolling, controller.Status())
}

func TestRun_ContextCancelStops(t *testing.T) {
	var polls atomic.Int32
	controller := NewPollingController("test", 5*time.Millisecond, func(ctx context.Context) {
		polls.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		controller.Run(ctx)
		close(done)
	}()

	waitForCount(t, &polls, 1)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("controller did not shut down after context cancel")
	}
	assert.Equal(t, ControllerStopped, controller.Status())
}
