// legtrack-events tails the tracker lifecycle events relayed to the AMQP
// exchange, for operational visibility into the fetch pipeline.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"legtrack/internal/amqp"
	"legtrack/internal/config"
	"legtrack/internal/log"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.ComponentEvents, log.ParseLevel(os.Getenv("LOG_LEVEL")))
	log.SetDefault(logger)

	cfg := config.Load()
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for legtrack-events")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Tailing tracker events",
		"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	err = client.ConsumeEvents(ctx, func(msg *amqp.EventMessage) error {
		logger.Info("Tracker event",
			log.FieldTopic, msg.Key,
			log.FieldCategoryID, msg.CategoryID,
			log.FieldCount, msg.Count,
			"at", msg.At)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption stopped", log.FieldError, err.Error())
		os.Exit(1)
	}
}
