package usecase

import (
	"context"
	"time"

	"github.com/evka/tripledger/internal/domain"
	"github.com/evka/tripledger/internal/infrastructure/metrics"
)

// BalanceUseCase derives net balances and settlement transfers from the
// ledger. Results are computed fresh from the expense list on every call,
// never cached, so a mutation can never leave a stale balance behind.
type BalanceUseCase struct {
	tripRepo    TripRepository
	expenseRepo ExpenseRepository
	metrics     *metrics.Metrics
	timeout     time.Duration
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(tripRepo TripRepository, expenseRepo ExpenseRepository, m *metrics.Metrics, timeout time.Duration) *BalanceUseCase {
	return &BalanceUseCase{
		tripRepo:    tripRepo,
		expenseRepo: expenseRepo,
		metrics:     m,
		timeout:     timeout,
	}
}

// GetBalances computes each participant's net position in minor units.
func (uc *BalanceUseCase) GetBalances(ctx context.Context, tripID string) (domain.Balances, error) {
	participants, expenses, err := uc.load(ctx, tripID)
	if err != nil {
		return nil, err
	}

	balances, err := domain.ComputeBalances(participants, expenses)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BalanceComputations.Inc()
	}

	return balances, nil
}

// GetSettlement computes a minimal transfer set that clears the trip's debts.
func (uc *BalanceUseCase) GetSettlement(ctx context.Context, tripID string) ([]domain.Transfer, error) {
	participants, expenses, err := uc.load(ctx, tripID)
	if err != nil {
		return nil, err
	}

	balances, err := domain.ComputeBalances(participants, expenses)
	if err != nil {
		return nil, err
	}

	transfers := domain.Settle(balances)

	if uc.metrics != nil {
		uc.metrics.SettlementSize.Observe(float64(len(transfers)))
	}

	return transfers, nil
}

func (uc *BalanceUseCase) load(ctx context.Context, tripID string) ([]domain.Participant, []*domain.Expense, error) {
	ctx, cancel := withStoreTimeout(ctx, uc.timeout)
	defer cancel()

	trip, err := uc.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, nil, storeErr(err)
	}

	expenses, err := uc.expenseRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, nil, storeErr(err)
	}

	return trip.Participants, expenses, nil
}
