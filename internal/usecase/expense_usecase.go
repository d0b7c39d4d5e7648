package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/evka/tripledger/internal/domain"
	"github.com/evka/tripledger/internal/infrastructure/metrics"
)

// ExpenseUseCase handles ledger writes and reads. Writes to the same trip
// serialize on the trip row lock, so two clients submitting expenses
// concurrently cannot lose updates. Reads run at read-committed isolation.
type ExpenseUseCase struct {
	txManager   TransactionManager
	tripRepo    TripRepository
	expenseRepo ExpenseRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
	timeout     time.Duration
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	txManager TransactionManager,
	tripRepo TripRepository,
	expenseRepo ExpenseRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
	timeout time.Duration,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:   txManager,
		tripRepo:    tripRepo,
		expenseRepo: expenseRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     m,
		timeout:     timeout,
	}
}

// AddExpenseInput represents input for recording an expense.
type AddExpenseInput struct {
	TripID            string
	Category          string
	AmountMinor       int64
	PaidBy            string
	SplitMode         string
	SplitParticipants []string
}

// AddExpense appends an immutable expense record. The trip's participant set
// is read inside the same transaction that locks the trip row, so validation
// cannot race a concurrent traveler change. Not idempotent: a retry after an
// ambiguous timeout may duplicate the expense, which is why mutating routes
// accept an Idempotency-Key header upstream.
func (uc *ExpenseUseCase) AddExpense(ctx context.Context, input AddExpenseInput) (*domain.Expense, error) {
	mode, err := domain.ParseSplitMode(input.SplitMode)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateAmountMinor(input.AmountMinor); err != nil {
		return nil, err
	}

	if err := domain.ValidateCategory(input.Category); err != nil {
		return nil, err
	}

	ctx, cancel := withStoreTimeout(ctx, uc.timeout)
	defer cancel()

	var created *domain.Expense

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		// Locks the trip row: the single-writer-per-trip discipline.
		trip, err := uc.tripRepo.GetByIDForUpdate(ctx, tx, input.TripID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		expense := &domain.Expense{
			ID:                uc.idGen.Generate(),
			TripID:            trip.ID,
			Category:          input.Category,
			AmountMinor:       input.AmountMinor,
			PaidBy:            input.PaidBy,
			SplitMode:         mode,
			SplitParticipants: input.SplitParticipants,
			Seq:               trip.LastSeq + 1,
			CreatedAt:         now,
		}

		if err := expense.Validate(trip); err != nil {
			return err
		}

		if err := uc.expenseRepo.Create(ctx, tx, expense); err != nil {
			return err
		}

		if err := uc.tripRepo.UpdateLastSeq(ctx, tx, trip.ID, expense.Seq, now); err != nil {
			return err
		}

		err = uc.outboxRepo.Create(ctx, tx, newOutboxEvent(domain.AggregateTypeExpense, expense.ID, domain.EventTypeExpenseAdded, domain.ExpenseAddedEvent{
			ExpenseID:   expense.ID,
			TripID:      expense.TripID,
			Category:    expense.Category,
			AmountMinor: expense.AmountMinor,
			PaidBy:      expense.PaidBy,
			SplitMode:   string(expense.SplitMode),
		}, now))
		if err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		created = expense

		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}

	if uc.metrics != nil {
		uc.metrics.ExpensesAdded.Inc()
		uc.metrics.ExpenseAmount.Observe(float64(created.AmountMinor))
	}

	return created, nil
}

// RemoveExpense deletes an expense by id. Idempotent: removing an absent id
// succeeds, and so does removing from an absent trip (its ledger is gone,
// expense included), so client retries after a dropped response never
// surface spurious failures.
func (uc *ExpenseUseCase) RemoveExpense(ctx context.Context, tripID, expenseID string) error {
	ctx, cancel := withStoreTimeout(ctx, uc.timeout)
	defer cancel()

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if _, err := uc.tripRepo.GetByIDForUpdate(ctx, tx, tripID); err != nil {
			if errors.Is(err, domain.ErrTripNotFound) {
				return nil
			}
			return err
		}

		deleted, err := uc.expenseRepo.Delete(ctx, tx, tripID, expenseID)
		if err != nil {
			return err
		}

		if deleted {
			now := time.Now().UTC()

			err = uc.outboxRepo.Create(ctx, tx, newOutboxEvent(domain.AggregateTypeExpense, expenseID, domain.EventTypeExpenseRemoved, domain.ExpenseRemovedEvent{
				ExpenseID: expenseID,
				TripID:    tripID,
			}, now))
			if err != nil {
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		if deleted && uc.metrics != nil {
			uc.metrics.ExpensesRemoved.Inc()
		}

		return nil
	})

	return storeErr(err)
}

// ListExpenses returns the trip's expenses ordered by createdAt ascending,
// ties broken by the per-trip sequence number assigned at write time.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, tripID string) ([]*domain.Expense, error) {
	ctx, cancel := withStoreTimeout(ctx, uc.timeout)
	defer cancel()

	if _, err := uc.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, storeErr(err)
	}

	expenses, err := uc.expenseRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, storeErr(err)
	}

	return expenses, nil
}
