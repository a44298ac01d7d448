// Package http serves the assembled tracker state as JSON. Routes trigger
// the idempotent fetch stages, so hitting an endpoint twice never repeats
// a completed network stage.
package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"legtrack/internal/log"
	"legtrack/internal/tracker"
)

type Server struct {
	tracker *tracker.Tracker
	logger  *log.Logger
	started time.Time
}

// NewServer builds the HTTP server with routing and logging middleware
// attached. gatherer may be nil to disable the metrics endpoint.
func NewServer(addr string, trk *tracker.Tracker, logger *log.Logger, gatherer prometheus.Gatherer) *http.Server {
	s := &Server{
		tracker: trk,
		logger:  logger.WithComponent(log.ComponentHTTP),
		started: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/categories/{id}", s.handleCategory)
	mux.HandleFunc("GET /api/bills/{id}", s.handleBill)
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return &http.Server{
		Addr:           addr,
		Handler:        log.Middleware(s.logger)(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
}
