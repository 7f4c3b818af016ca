// Package event provides domain event publishing over RabbitMQ.
//
// Delivery is at-most-once: the publisher is not a transactional outbox,
// and events for committed writes can be lost if the broker is down.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/usersvc/usersvc/internal/model"
)

const (
	// QueueUserCreated is the durable queue for USER_CREATED events.
	QueueUserCreated = "user.created"

	// PublishTimeout bounds a single publish attempt.
	PublishTimeout = 2 * time.Second
)

// Publisher emits domain events to RabbitMQ. The connection and channel are
// established once at startup; a Publisher that never connected drops every
// event instead of blocking callers.
type Publisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *slog.Logger

	// amqp channels are not safe for concurrent publishes.
	mu sync.Mutex
}

// Connect dials the broker, opens a channel, and declares the durable
// user.created queue.
func Connect(amqpURL string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		QueueUserCreated,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Publisher{
		conn:   conn,
		ch:     ch,
		logger: logger.With("component", "event.publisher"),
	}, nil
}

// PublishUserCreated sends a USER_CREATED event for a committed record.
// The returned error is informational; callers log it and move on, it must
// never fail the request that produced the record.
func (p *Publisher) PublishUserCreated(ctx context.Context, user *model.User) error {
	if p == nil || p.ch == nil {
		return fmt.Errorf("broker not connected, event dropped")
	}

	evt := model.UserCreatedEvent{
		ID:        ulid.Make().String(),
		Event:     model.EventUserCreated,
		Data:      user,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, PublishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx,
		"",               // default exchange
		QueueUserCreated, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    evt.ID,
			Timestamp:    evt.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event published",
		"event", evt.Event,
		"message_id", evt.ID,
		"user_id", user.ID,
	)

	return nil
}

// Close shuts down the channel and connection.
func (p *Publisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			p.conn.Close()
			return fmt.Errorf("failed to close channel: %w", err)
		}
	}
	return p.conn.Close()
}
