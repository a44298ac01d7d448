package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"legtrack/internal/amqp"
	"legtrack/internal/config"
	"legtrack/internal/events"
	"legtrack/internal/feed"
	gfeed "legtrack/internal/feed/google"
	mfeed "legtrack/internal/feed/memory"
	apphttp "legtrack/internal/http"
	"legtrack/internal/legis"
	"legtrack/internal/log"
	"legtrack/internal/metrics"
	"legtrack/internal/store"
	"legtrack/internal/tracker"
)

func main() {
	// .env is for local development; absent in production.
	_ = godotenv.Load()

	logger := log.New(log.ComponentApp, log.ParseLevel(os.Getenv("LOG_LEVEL")))
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reader feed.BaseDataReader
	switch cfg.DataBackend {
	case "sheets":
		client, err := gfeed.New(ctx, cfg.SpreadsheetID)
		if err != nil {
			logger.Error("Failed to initialize Sheets feed", log.FieldError, err.Error())
			os.Exit(1)
		}
		reader = client
		logger.Info("Initialized Sheets feed", "spreadsheet_id", cfg.SpreadsheetID)
	default:
		reader = mfeed.NewFromCSVDir("data",
			[]string{cfg.CategoriesSheet, cfg.BillsSheet, cfg.EventsSheet})
		logger.Info("Initialized memory feed from ./data")
	}

	st := store.New()
	registry := prometheus.NewRegistry()
	m := metrics.New(registry, func() float64 { return float64(st.Size()) })
	bus := events.NewBus()

	if cfg.AMQPURL != "" {
		relay, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect AMQP relay", log.FieldError, err.Error())
			os.Exit(1)
		}
		defer relay.Close()
		relayLogger := logger.WithComponent(log.ComponentAMQP)
		bus.SubscribeAll(func(ctx context.Context, e events.Event) {
			if err := relay.PublishEvent(ctx, e); err != nil {
				relayLogger.WarnContext(ctx, "Failed to relay event",
					log.FieldTopic, e.Key(), log.FieldError, err.Error())
				return
			}
			m.EventsRelayed.Inc()
		})
		logger.Info("AMQP event relay enabled",
			"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	trk := tracker.New(tracker.Options{
		RecentDays:      cfg.RecentDays,
		MaxBills:        cfg.MaxBills,
		ConferenceBills: cfg.ConferenceBills,
		RecentImage:     cfg.RecentImage,
		Translations:    cfg.Translations,
		CategoriesSheet: cfg.CategoriesSheet,
		BillsSheet:      cfg.BillsSheet,
		EventsSheet:     cfg.EventsSheet,
	}, tracker.Deps{
		Store: st,
		Feed:  reader,
		Legis: legis.NewClient(legis.Config{
			BaseURL: cfg.LegisBaseURL,
			State:   cfg.State,
			Session: cfg.Session,
			APIKey:  cfg.LegisAPIKey,
			Timeout: cfg.LegisTimeout,
		}),
		Bus:     bus,
		Logger:  logger,
		Metrics: m,
	})

	// Warm the base data in the background; a failure here leaves the gate
	// re-triggerable and the first request retries it.
	go func() {
		if err := trk.LoadBaseData(ctx); err != nil {
			logger.WarnContext(ctx, "Initial base data load failed",
				log.FieldError, err.Error())
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, trk, logger, registry)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting legtrack server",
		"port", cfg.Port, "backend", cfg.DataBackend, "state", cfg.State)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err.Error())
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
