package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/evka/tripledger/internal/domain"
	"github.com/evka/tripledger/internal/infrastructure/metrics"
)

// TripUseCase manages the trip directory: trips, travelers and budgets.
// The ledger core only ever consults it for participant-set validation.
type TripUseCase struct {
	txManager   TransactionManager
	tripRepo    TripRepository
	expenseRepo ExpenseRepository
	outboxRepo  OutboxRepository
	cache       Cache
	idGen       IDGenerator
	metrics     *metrics.Metrics
	timeout     time.Duration
}

// NewTripUseCase creates a new TripUseCase.
func NewTripUseCase(
	txManager TransactionManager,
	tripRepo TripRepository,
	expenseRepo ExpenseRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	m *metrics.Metrics,
	timeout time.Duration,
) *TripUseCase {
	return &TripUseCase{
		txManager:   txManager,
		tripRepo:    tripRepo,
		expenseRepo: expenseRepo,
		outboxRepo:  outboxRepo,
		cache:       cache,
		idGen:       idGen,
		metrics:     m,
		timeout:     timeout,
	}
}

// TravelerInput identifies a traveler joining a trip. The ID comes from the
// surrounding app's user directory; when absent a fresh one is assigned.
type TravelerInput struct {
	ID   string
	Name string
}

// CreateTripInput represents input for creating a trip.
type CreateTripInput struct {
	Name        string
	BudgetMinor int64
	Travelers   []TravelerInput
}

// TripSummary aggregates spend against the trip budget.
type TripSummary struct {
	TripID      string
	BudgetMinor int64
	SpentMinor  int64
	ByCategory  map[string]int64
}

// CreateTrip creates a trip with its initial traveler set.
func (uc *TripUseCase) CreateTrip(ctx context.Context, input CreateTripInput) (*domain.Trip, error) {
	if err := domain.ValidateTripName(input.Name); err != nil {
		return nil, err
	}

	if len(input.Travelers) == 0 {
		return nil, domain.ErrNoParticipants
	}

	if input.BudgetMinor < 0 {
		return nil, domain.ErrNegativeBudget
	}

	now := time.Now().UTC()

	trip := &domain.Trip{
		ID:          uc.idGen.Generate(),
		Name:        input.Name,
		BudgetMinor: input.BudgetMinor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	seen := make(map[string]bool, len(input.Travelers))

	for _, t := range input.Travelers {
		p := domain.Participant{ID: t.ID, Name: t.Name}
		if p.ID == "" {
			p.ID = uc.idGen.Generate()
		}

		if err := domain.ValidateParticipant(p); err != nil {
			return nil, err
		}

		if seen[p.ID] {
			return nil, domain.ErrDuplicateParticipant
		}
		seen[p.ID] = true

		trip.Participants = append(trip.Participants, p)
	}

	ctx, cancel := withStoreTimeout(ctx, uc.timeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	defer tx.Rollback(ctx)

	if err := uc.tripRepo.CreateTx(ctx, tx, trip); err != nil {
		return nil, storeErr(err)
	}

	err = uc.outboxRepo.Create(ctx, tx, newOutboxEvent(domain.AggregateTypeTrip, trip.ID, domain.EventTypeTripCreated, domain.TripCreatedEvent{
		TripID:       trip.ID,
		Name:         trip.Name,
		Participants: trip.ParticipantIDs(),
	}, now))
	if err != nil {
		return nil, storeErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr(err)
	}

	if uc.metrics != nil {
		uc.metrics.TripsCreated.Inc()
	}

	return trip, nil
}

// GetTrip fetches a trip, read-through cached. Only the trip document is
// cached; balances and settlements always bypass the cache.
func (uc *TripUseCase) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	ctx, cancel := withStoreTimeout(ctx, uc.timeout)
	defer cancel()

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, tripCacheKey(tripID)); err == nil && data != nil {
			var trip domain.Trip
			if err := json.Unmarshal(data, &trip); err == nil {
				return &trip, nil
			}
		}
	}

	trip, err := uc.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, storeErr(err)
	}

	if uc.cache != nil {
		if data, err := json.Marshal(trip); err == nil {
			_ = uc.cache.Set(ctx, tripCacheKey(tripID), data, TripCacheTTL)
		}
	}

	return trip, nil
}

// ListTrips lists all trips a participant belongs to.
func (uc *TripUseCase) ListTrips(ctx context.Context, participantID string) ([]*domain.Trip, error) {
	ctx, cancel := withStoreTimeout(ctx, uc.timeout)
	defer cancel()

	trips, err := uc.tripRepo.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, storeErr(err)
	}

	return trips, nil
}

// DeleteTrip removes a trip and its ledger. Idempotent like expense removal:
// deleting an absent trip succeeds.
func (uc *TripUseCase) DeleteTrip(ctx context.Context, tripID string) error {
	ctx, cancel := withStoreTimeout(ctx, uc.timeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return storeErr(err)
	}
	defer tx.Rollback(ctx)

	deleted, err := uc.tripRepo.Delete(ctx, tx, tripID)
	if err != nil {
		return storeErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storeErr(err)
	}

	uc.invalidate(ctx, tripID)

	if deleted && uc.metrics != nil {
		uc.metrics.TripsDeleted.Inc()
	}

	return nil
}

// AddTraveler adds a participant to the trip. Existing expense snapshots are
// untouched; the new traveler starts sharing EVERYONE-mode expenses recorded
// from this point on as well as any recorded before (balances are recomputed
// over the current participant set).
func (uc *TripUseCase) AddTraveler(ctx context.Context, tripID string, input TravelerInput) (*domain.Trip, error) {
	p := domain.Participant{ID: input.ID, Name: input.Name}
	if p.ID == "" {
		p.ID = uc.idGen.Generate()
	}

	if err := domain.ValidateParticipant(p); err != nil {
		return nil, err
	}

	ctx, cancel := withStoreTimeout(ctx, uc.timeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	defer tx.Rollback(ctx)

	trip, err := uc.tripRepo.GetByIDForUpdate(ctx, tx, tripID)
	if err != nil {
		return nil, storeErr(err)
	}

	if trip.Member(p.ID) {
		return nil, domain.ErrDuplicateParticipant
	}

	now := time.Now().UTC()

	if err := uc.tripRepo.AddParticipant(ctx, tx, tripID, p, now); err != nil {
		return nil, storeErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr(err)
	}

	uc.invalidate(ctx, tripID)

	if uc.metrics != nil {
		uc.metrics.TravelersJoined.Inc()
	}

	trip.Participants = append(trip.Participants, p)
	trip.UpdatedAt = now

	return trip, nil
}

// SetBudget updates the trip budget in minor units.
func (uc *TripUseCase) SetBudget(ctx context.Context, tripID string, budgetMinor int64) (*domain.Trip, error) {
	if budgetMinor < 0 {
		return nil, domain.ErrNegativeBudget
	}

	ctx, cancel := withStoreTimeout(ctx, uc.timeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	defer tx.Rollback(ctx)

	trip, err := uc.tripRepo.GetByIDForUpdate(ctx, tx, tripID)
	if err != nil {
		return nil, storeErr(err)
	}

	now := time.Now().UTC()

	if err := uc.tripRepo.UpdateBudget(ctx, tx, tripID, budgetMinor, now); err != nil {
		return nil, storeErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr(err)
	}

	uc.invalidate(ctx, tripID)

	trip.BudgetMinor = budgetMinor
	trip.UpdatedAt = now

	return trip, nil
}

// GetSummary aggregates spend per category against the budget.
func (uc *TripUseCase) GetSummary(ctx context.Context, tripID string) (*TripSummary, error) {
	trip, err := uc.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withStoreTimeout(ctx, uc.timeout)
	defer cancel()

	totals, err := uc.expenseRepo.TotalsByCategory(ctx, tripID)
	if err != nil {
		return nil, storeErr(err)
	}

	summary := &TripSummary{
		TripID:      trip.ID,
		BudgetMinor: trip.BudgetMinor,
		ByCategory:  totals,
	}

	for _, total := range totals {
		summary.SpentMinor += total
	}

	return summary, nil
}

func (uc *TripUseCase) invalidate(ctx context.Context, tripID string) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, tripCacheKey(tripID))
	}
}

func tripCacheKey(tripID string) string {
	return "trip:" + tripID
}
