package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/evka/tripledger/internal/adapter/http/handler"
	"github.com/evka/tripledger/internal/adapter/http/middleware"
	"github.com/evka/tripledger/internal/infrastructure/auth"
	"github.com/evka/tripledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TripHandler      *handler.TripHandler
	ExpenseHandler   *handler.ExpenseHandler
	BalanceHandler   *handler.BalanceHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	Verifier         *auth.Verifier
	Logger           zerolog.Logger
	RateLimit        float64
	RateBurst        int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Limit)
	}

	// Operational endpoints stay outside /api/v1 and outside auth
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Verifier != nil {
			r.Use(middleware.Auth(cfg.Verifier))
		}

		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).Wrap)
		}

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", cfg.TripHandler.Create)
			r.Get("/", cfg.TripHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.TripHandler.Get)
				r.Delete("/", cfg.TripHandler.Delete)
				r.Post("/travelers", cfg.TripHandler.AddTraveler)
				r.Put("/budget", cfg.TripHandler.SetBudget)
				r.Get("/summary", cfg.TripHandler.Summary)

				r.Post("/expenses", cfg.ExpenseHandler.Create)
				r.Get("/expenses", cfg.ExpenseHandler.List)
				r.Delete("/expenses/{expenseID}", cfg.ExpenseHandler.Delete)

				r.Get("/balances", cfg.BalanceHandler.Balances)
				r.Get("/settlement", cfg.BalanceHandler.Settlement)
			})
		})
	})

	return r
}
