// Package main runs a USER_CREATED event consumer for local development
// and smoke testing of the event pipeline.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/usersvc/usersvc/internal/event"
	"github.com/usersvc/usersvc/internal/model"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// The consumer only needs the broker; the full service config with its
	// required database and Redis URLs does not apply here.
	amqpURL := os.Getenv("AMQP_URL")
	if amqpURL == "" {
		amqpURL = "amqp://localhost"
	}

	consumer, err := event.NewConsumer(amqpURL, logger)
	if err != nil {
		logger.Error("failed to connect to broker", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = consumer.Run(ctx, func(evt model.UserCreatedEvent) {
		logger.Info("user created",
			"message_id", evt.ID,
			"user_id", evt.Data.ID,
			"email", evt.Data.Email,
			"timestamp", evt.Timestamp,
		)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
}
