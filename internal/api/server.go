// Package api exposes the premium engine and the rate store over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rgehrsitz/hiquote/internal/calculation"
	"github.com/rgehrsitz/hiquote/internal/ratestore"
)

// maxBodyBytes bounds quote, CSV and rate table uploads
const maxBodyBytes = 4 << 20

// Options configures the router
type Options struct {
	AllowedOrigins []string
	// Quiet disables the request logger, mostly for tests
	Quiet bool
}

// Server holds the dependencies shared by the handlers
type Server struct {
	engine   *calculation.CalculationEngine
	resolver *ratestore.Resolver
	logger   calculation.Logger
	started  time.Time
}

// NewServer creates a server over engine and resolver
func NewServer(engine *calculation.CalculationEngine, resolver *ratestore.Resolver, logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Server{
		engine:   engine,
		resolver: resolver,
		logger:   logger,
		started:  time.Now(),
	}
}

// Router builds the HTTP handler with middleware and every route mounted
func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()

	if !opts.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/quotes/calculate", s.calculateQuote)
		r.Post("/quotes/import", s.importQuote)

		r.Get("/products", s.listProducts)
		r.Get("/products/{id}/rates", s.getRates)
		r.Put("/products/{id}/rates", s.putRates)
		r.Delete("/products/{id}/rates", s.deleteRates)

		r.Get("/rates/defaults", s.defaultRates)
	})

	return r
}

// HealthResponse reports liveness and uptime
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}
