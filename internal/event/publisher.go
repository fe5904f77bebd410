package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// CarePublisher publishes care notification events to RabbitMQ. Counters
// are atomic: PublishEvent is called concurrently from handlers and poll
// dispatch.
type CarePublisher struct {
	conn              *RabbitMQConnection
	messagesPublished atomic.Int64
	messagesFailed    atomic.Int64
	lastPublishTime   atomic.Int64 // unix nanos
}

// NewCarePublisher creates a new care event publisher
func NewCarePublisher(conn *RabbitMQConnection) *CarePublisher {
	p := &CarePublisher{conn: conn}
	p.lastPublishTime.Store(time.Now().UnixNano())
	return p
}

// PublishEvent publishes a care event to the care_noti_events queue
func (p *CarePublisher) PublishEvent(ctx context.Context, event CareEvent) error {
	// Ensure the queue exists
	_, err := p.conn.Channel.QueueDeclare(
		CareQueue, // queue name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to marshal care event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",        // exchange
		CareQueue, // routing key (queue name)
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to publish care event: %w", err)
	}

	p.messagesPublished.Add(1)
	p.lastPublishTime.Store(time.Now().UnixNano())

	slog.Info("Care event published",
		"queue", CareQueue,
		"event_type", event.EventType,
		"business_id", event.BusinessID,
	)

	return nil
}

// GetMetrics returns publisher metrics
func (p *CarePublisher) GetMetrics() map[string]any {
	return map[string]any{
		"messages_published": p.messagesPublished.Load(),
		"messages_failed":    p.messagesFailed.Load(),
		"last_publish_time":  time.Unix(0, p.lastPublishTime.Load()),
		"queue":              CareQueue,
	}
}

// HealthCheck returns the health status of the publisher
func (p *CarePublisher) HealthCheck() PublisherHealthStatus {
	isHealthy := p.conn != nil && p.conn.Connection != nil && !p.conn.Connection.IsClosed()

	return PublisherHealthStatus{
		IsHealthy:         isHealthy,
		MessagesPublished: p.messagesPublished.Load(),
		MessagesFailed:    p.messagesFailed.Load(),
		LastPublishTime:   time.Unix(0, p.lastPublishTime.Load()),
		Queue:             CareQueue,
	}
}

// PublisherHealthStatus represents the health status of the publisher
type PublisherHealthStatus struct {
	IsHealthy         bool      `json:"is_healthy"`
	MessagesPublished int64     `json:"messages_published"`
	MessagesFailed    int64     `json:"messages_failed"`
	LastPublishTime   time.Time `json:"last_publish_time"`
	Queue             string    `json:"queue"`
}
