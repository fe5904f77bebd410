package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Counters are bumped from handlers and poll dispatch at the same time as
// metrics reads; this drives both sides concurrently.
func TestPublisherCountersConcurrent(t *testing.T) {
	p := NewCarePublisher(nil)

	const workers = 8
	const perWorker = 100

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				p.messagesPublished.Add(1)
				p.messagesFailed.Add(1)
				p.lastPublishTime.Store(time.Now().UnixNano())
				_ = p.GetMetrics()
				_ = p.HealthCheck()
			}
		}()
	}
	wg.Wait()

	metrics := p.GetMetrics()
	assert.Equal(t, int64(workers*perWorker), metrics["messages_published"])
	assert.Equal(t, int64(workers*perWorker), metrics["messages_failed"])
	assert.Equal(t, CareQueue, metrics["queue"])

	status := p.HealthCheck()
	assert.False(t, status.IsHealthy, "no connection means unhealthy")
	assert.Equal(t, int64(workers*perWorker), status.MessagesPublished)
	assert.False(t, status.LastPublishTime.IsZero())
}
