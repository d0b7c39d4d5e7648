package usecase

import (
	"context"
	"time"

	"github.com/evka/tripledger/internal/domain"
)

// TripRepository defines data access for trips and their participant sets.
type TripRepository interface {
	CreateTx(ctx context.Context, tx Transaction, trip *domain.Trip) error
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Trip, error)
	AddParticipant(ctx context.Context, tx Transaction, tripID string, p domain.Participant, updatedAt time.Time) error
	UpdateBudget(ctx context.Context, tx Transaction, tripID string, budgetMinor int64, updatedAt time.Time) error
	UpdateLastSeq(ctx context.Context, tx Transaction, tripID string, seq int64, updatedAt time.Time) error
	Delete(ctx context.Context, tx Transaction, tripID string) (bool, error)
	ListByParticipant(ctx context.Context, participantID string) ([]*domain.Trip, error)
}

// ExpenseRepository defines data access for the expense ledger.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	// Delete removes an expense and reports whether a record existed.
	Delete(ctx context.Context, tx Transaction, tripID, expenseID string) (bool, error)
	// ListByTrip returns expenses ordered by seq ascending.
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Expense, error)
	TotalsByCategory(ctx context.Context, tripID string) (map[string]int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient store errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations. Trip documents are cached; balances and
// settlements never are, they are always recomputed from the ledger.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
