package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evka/tripledger/internal/domain"
	"github.com/evka/tripledger/internal/usecase"
)

// ExpenseRepository implements usecase.ExpenseRepository. Expense rows are
// immutable once written; the only mutation is deletion.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create inserts an expense within a transaction.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	query := `
		INSERT INTO expenses (id, trip_id, category, amount_minor, paid_by, split_mode, split_participants, seq, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		expense.ID,
		expense.TripID,
		expense.Category,
		expense.AmountMinor,
		expense.PaidBy,
		string(expense.SplitMode),
		expense.SplitParticipants,
		expense.Seq,
		expense.CreatedAt,
	)

	return err
}

// Delete removes an expense. Returns false when it was already gone.
func (r *ExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, tripID, expenseID string) (bool, error) {
	query := `DELETE FROM expenses WHERE trip_id = $1 AND id = $2`

	tag, err := tx.(*Tx).PgxTx().Exec(ctx, query, tripID, expenseID)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// ListByTrip lists a trip's expenses in recording order.
func (r *ExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Expense, error) {
	query := `
		SELECT id, trip_id, category, amount_minor, paid_by, split_mode, split_participants, seq, created_at
		FROM expenses
		WHERE trip_id = $1
		ORDER BY seq ASC
	`

	rows, err := r.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		var (
			e    domain.Expense
			mode string
		)
		err := rows.Scan(
			&e.ID,
			&e.TripID,
			&e.Category,
			&e.AmountMinor,
			&e.PaidBy,
			&mode,
			&e.SplitParticipants,
			&e.Seq,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		e.SplitMode = domain.SplitMode(mode)
		expenses = append(expenses, &e)
	}

	return expenses, rows.Err()
}

// TotalsByCategory aggregates spend per category for the trip summary.
func (r *ExpenseRepository) TotalsByCategory(ctx context.Context, tripID string) (map[string]int64, error) {
	query := `
		SELECT category, SUM(amount_minor)
		FROM expenses
		WHERE trip_id = $1
		GROUP BY category
	`

	rows, err := r.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int64)
	for rows.Next() {
		var (
			category string
			total    int64
		)
		if err := rows.Scan(&category, &total); err != nil {
			return nil, err
		}
		totals[category] = total
	}

	return totals, rows.Err()
}
