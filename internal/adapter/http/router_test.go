package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/evka/tripledger/internal/adapter/http/handler"
	apimiddleware "github.com/evka/tripledger/internal/adapter/http/middleware"
	"github.com/evka/tripledger/internal/domain"
	"github.com/evka/tripledger/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimit = 1
		cfg.RateBurst = 1
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"name":"Goa 2026","travelers":[{"id":"a","name":"Asha"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/trips/",
		"GET /api/v1/trips/",
		"GET /api/v1/trips/{id}/",
		"DELETE /api/v1/trips/{id}/",
		"POST /api/v1/trips/{id}/travelers",
		"PUT /api/v1/trips/{id}/budget",
		"GET /api/v1/trips/{id}/summary",
		"POST /api/v1/trips/{id}/expenses",
		"GET /api/v1/trips/{id}/expenses",
		"DELETE /api/v1/trips/{id}/expenses/{expenseID}",
		"GET /api/v1/trips/{id}/balances",
		"GET /api/v1/trips/{id}/settlement",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		TripHandler:    handler.NewTripHandler(&stubTripService{}),
		ExpenseHandler: handler.NewExpenseHandler(&stubExpenseService{}),
		BalanceHandler: handler.NewBalanceHandler(&stubBalanceService{}),
		HealthHandler:  &handler.HealthHandler{},
		Logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubTripService struct{}

func (stubTripService) CreateTrip(ctx context.Context, input usecase.CreateTripInput) (*domain.Trip, error) {
	return &domain.Trip{ID: "trip"}, nil
}

func (stubTripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	return &domain.Trip{ID: tripID}, nil
}

func (stubTripService) ListTrips(ctx context.Context, participantID string) ([]*domain.Trip, error) {
	return []*domain.Trip{}, nil
}

func (stubTripService) DeleteTrip(ctx context.Context, tripID string) error {
	return nil
}

func (stubTripService) AddTraveler(ctx context.Context, tripID string, input usecase.TravelerInput) (*domain.Trip, error) {
	return &domain.Trip{ID: tripID}, nil
}

func (stubTripService) SetBudget(ctx context.Context, tripID string, budgetMinor int64) (*domain.Trip, error) {
	return &domain.Trip{ID: tripID, BudgetMinor: budgetMinor}, nil
}

func (stubTripService) GetSummary(ctx context.Context, tripID string) (*usecase.TripSummary, error) {
	return &usecase.TripSummary{TripID: tripID}, nil
}

type stubExpenseService struct{}

func (stubExpenseService) AddExpense(ctx context.Context, input usecase.AddExpenseInput) (*domain.Expense, error) {
	return &domain.Expense{ID: "expense"}, nil
}

func (stubExpenseService) RemoveExpense(ctx context.Context, tripID, expenseID string) error {
	return nil
}

func (stubExpenseService) ListExpenses(ctx context.Context, tripID string) ([]*domain.Expense, error) {
	return []*domain.Expense{}, nil
}

type stubBalanceService struct{}

func (stubBalanceService) GetBalances(ctx context.Context, tripID string) (domain.Balances, error) {
	return domain.Balances{}, nil
}

func (stubBalanceService) GetSettlement(ctx context.Context, tripID string) ([]domain.Transfer, error) {
	return []domain.Transfer{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
