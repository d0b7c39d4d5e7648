package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evka/tripledger/internal/domain"
	"github.com/evka/tripledger/internal/usecase"
)

// TripRepository implements usecase.TripRepository. Participants live as a
// JSONB document on the trip row: the set is small, always read whole, and
// locking the trip row is what serializes writers per trip.
type TripRepository struct {
	pool *pgxpool.Pool
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

const tripColumns = `id, name, budget_minor, participants, last_seq, created_at, updated_at`

// CreateTx inserts a trip within a transaction.
func (r *TripRepository) CreateTx(ctx context.Context, tx usecase.Transaction, trip *domain.Trip) error {
	participants, err := json.Marshal(trip.Participants)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO trips (id, name, budget_minor, participants, last_seq, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.(*Tx).PgxTx().Exec(ctx, query,
		trip.ID,
		trip.Name,
		trip.BudgetMinor,
		participants,
		trip.LastSeq,
		trip.CreatedAt,
		trip.UpdatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	return scanTrip(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a trip by ID and locks its row for the rest of
// the transaction. All ledger writes for a trip go through this lock.
func (r *TripRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 FOR UPDATE`

	return scanTrip(tx.(*Tx).PgxTx().QueryRow(ctx, query, id))
}

// AddParticipant appends a participant to the trip document.
func (r *TripRepository) AddParticipant(ctx context.Context, tx usecase.Transaction, tripID string, p domain.Participant, updatedAt time.Time) error {
	participant, err := json.Marshal(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE trips
		SET participants = participants || $2::jsonb, updated_at = $3
		WHERE id = $1
	`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query, tripID, participant, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTripNotFound
	}

	return nil
}

// UpdateBudget sets the trip budget.
func (r *TripRepository) UpdateBudget(ctx context.Context, tx usecase.Transaction, tripID string, budgetMinor int64, updatedAt time.Time) error {
	query := `UPDATE trips SET budget_minor = $2, updated_at = $3 WHERE id = $1`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query, tripID, budgetMinor, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTripNotFound
	}

	return nil
}

// UpdateLastSeq advances the trip's expense sequence counter.
func (r *TripRepository) UpdateLastSeq(ctx context.Context, tx usecase.Transaction, tripID string, seq int64, updatedAt time.Time) error {
	query := `UPDATE trips SET last_seq = $2, updated_at = $3 WHERE id = $1`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query, tripID, seq, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTripNotFound
	}

	return nil
}

// Delete removes a trip and, through ON DELETE CASCADE, its expenses.
// Returns false when the trip was already gone.
func (r *TripRepository) Delete(ctx context.Context, tx usecase.Transaction, tripID string) (bool, error) {
	tag, err := tx.(*Tx).PgxTx().Exec(ctx, `DELETE FROM trips WHERE id = $1`, tripID)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// ListByParticipant lists trips containing the given participant.
func (r *TripRepository) ListByParticipant(ctx context.Context, participantID string) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE participants @> jsonb_build_array(jsonb_build_object('id', $1::text))
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

func scanTrip(row pgx.Row) (*domain.Trip, error) {
	var (
		trip         domain.Trip
		participants []byte
	)

	err := row.Scan(
		&trip.ID,
		&trip.Name,
		&trip.BudgetMinor,
		&participants,
		&trip.LastSeq,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(participants, &trip.Participants); err != nil {
		return nil, err
	}

	return &trip, nil
}
