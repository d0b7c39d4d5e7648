package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/evka/tripledger/internal/domain"
	"github.com/evka/tripledger/internal/usecase"
	"github.com/evka/tripledger/internal/usecase/mocks"
)

func newTripUseCase(tripRepo *mocks.MockTripRepository, expenseRepo *mocks.MockExpenseRepository, outboxRepo *mocks.MockOutboxRepository, cache *mocks.MockCache) *usecase.TripUseCase {
	return usecase.NewTripUseCase(
		mocks.NewMockTxManager(),
		tripRepo,
		expenseRepo,
		outboxRepo,
		cache,
		mocks.NewMockIDGenerator(),
		nil,
		0,
	)
}

func TestTripUseCase_CreateTrip(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)

	var created *domain.Trip
	tripRepo.EXPECT().CreateTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, tx usecase.Transaction, trip *domain.Trip) error {
			created = trip
			return nil
		})

	outboxRepo := mocks.NewMockOutboxRepository()

	uc := newTripUseCase(tripRepo, mocks.NewMockExpenseRepository(ctrl), outboxRepo, mocks.NewMockCache())

	trip, err := uc.CreateTrip(context.Background(), usecase.CreateTripInput{
		Name:        "Goa 2026",
		BudgetMinor: 500000,
		Travelers: []usecase.TravelerInput{
			{ID: "a", Name: "Asha"},
			{Name: "Ben"}, // no id: one gets assigned
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil || created.ID != trip.ID {
		t.Fatal("expected trip persisted through repository")
	}

	if len(trip.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(trip.Participants))
	}

	if trip.Participants[1].ID == "" {
		t.Error("expected generated id for traveler without one")
	}

	if len(outboxRepo.Events) != 1 || outboxRepo.Events[0].EventType != domain.EventTypeTripCreated {
		t.Errorf("expected trip.created outbox event, got %+v", outboxRepo.Events)
	}
}

func TestTripUseCase_CreateTrip_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)

	uc := newTripUseCase(mocks.NewMockTripRepository(ctrl), mocks.NewMockExpenseRepository(ctrl), mocks.NewMockOutboxRepository(), mocks.NewMockCache())

	tests := []struct {
		name    string
		input   usecase.CreateTripInput
		wantErr error
	}{
		{
			name:    "empty name",
			input:   usecase.CreateTripInput{Name: " ", Travelers: []usecase.TravelerInput{{ID: "a", Name: "Asha"}}},
			wantErr: domain.ErrInvalidTripName,
		},
		{
			name:    "no travelers",
			input:   usecase.CreateTripInput{Name: "Goa"},
			wantErr: domain.ErrNoParticipants,
		},
		{
			name:    "negative budget",
			input:   usecase.CreateTripInput{Name: "Goa", BudgetMinor: -1, Travelers: []usecase.TravelerInput{{ID: "a", Name: "Asha"}}},
			wantErr: domain.ErrNegativeBudget,
		},
		{
			name: "duplicate traveler",
			input: usecase.CreateTripInput{Name: "Goa", Travelers: []usecase.TravelerInput{
				{ID: "a", Name: "Asha"},
				{ID: "a", Name: "Asha again"},
			}},
			wantErr: domain.ErrDuplicateParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateTrip(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTripUseCase_GetTrip_Cached(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	// Exactly one store read; the second call is served from cache.
	tripRepo.EXPECT().GetByID(gomock.Any(), "trip-1").Return(testTrip(), nil).Times(1)

	uc := newTripUseCase(tripRepo, mocks.NewMockExpenseRepository(ctrl), mocks.NewMockOutboxRepository(), mocks.NewMockCache())

	for i := 0; i < 2; i++ {
		trip, err := uc.GetTrip(context.Background(), "trip-1")
		if err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
		if trip.ID != "trip-1" || len(trip.Participants) != 3 {
			t.Fatalf("unexpected trip on call %d: %+v", i, trip)
		}
	}
}

func TestTripUseCase_AddTraveler(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	tripRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "trip-1").Return(testTrip(), nil)
	tripRepo.EXPECT().AddParticipant(gomock.Any(), gomock.Any(), "trip-1", gomock.Any(), gomock.Any()).Return(nil)

	cache := mocks.NewMockCache()

	uc := newTripUseCase(tripRepo, mocks.NewMockExpenseRepository(ctrl), mocks.NewMockOutboxRepository(), cache)

	trip, err := uc.AddTraveler(context.Background(), "trip-1", usecase.TravelerInput{ID: "d", Name: "Dev"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !trip.Member("d") {
		t.Error("expected new traveler in participant set")
	}

	if len(cache.Deletes) != 1 {
		t.Error("expected trip cache invalidation")
	}
}

func TestTripUseCase_AddTraveler_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	tripRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "trip-1").Return(testTrip(), nil)

	uc := newTripUseCase(tripRepo, mocks.NewMockExpenseRepository(ctrl), mocks.NewMockOutboxRepository(), mocks.NewMockCache())

	_, err := uc.AddTraveler(context.Background(), "trip-1", usecase.TravelerInput{ID: "a", Name: "Asha"})
	if !errors.Is(err, domain.ErrDuplicateParticipant) {
		t.Fatalf("expected ErrDuplicateParticipant, got %v", err)
	}
}

func TestTripUseCase_SetBudget(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	tripRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "trip-1").Return(testTrip(), nil)
	tripRepo.EXPECT().UpdateBudget(gomock.Any(), gomock.Any(), "trip-1", int64(750000), gomock.Any()).Return(nil)

	uc := newTripUseCase(tripRepo, mocks.NewMockExpenseRepository(ctrl), mocks.NewMockOutboxRepository(), mocks.NewMockCache())

	trip, err := uc.SetBudget(context.Background(), "trip-1", 750000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.BudgetMinor != 750000 {
		t.Errorf("expected budget 750000, got %d", trip.BudgetMinor)
	}
}

func TestTripUseCase_GetSummary(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	trip := testTrip()
	trip.BudgetMinor = 100000
	tripRepo.EXPECT().GetByID(gomock.Any(), "trip-1").Return(trip, nil)

	expenseRepo := mocks.NewMockExpenseRepository(ctrl)
	expenseRepo.EXPECT().TotalsByCategory(gomock.Any(), "trip-1").Return(map[string]int64{
		"food": 30000,
		"taxi": 12000,
	}, nil)

	uc := newTripUseCase(tripRepo, expenseRepo, mocks.NewMockOutboxRepository(), mocks.NewMockCache())

	summary, err := uc.GetSummary(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.SpentMinor != 42000 {
		t.Errorf("expected total spend 42000, got %d", summary.SpentMinor)
	}

	if summary.BudgetMinor != 100000 {
		t.Errorf("expected budget 100000, got %d", summary.BudgetMinor)
	}
}

func TestTripUseCase_DeleteTrip_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	gomock.InOrder(
		tripRepo.EXPECT().Delete(gomock.Any(), gomock.Any(), "trip-1").Return(true, nil),
		tripRepo.EXPECT().Delete(gomock.Any(), gomock.Any(), "trip-1").Return(false, nil),
	)

	uc := newTripUseCase(tripRepo, mocks.NewMockExpenseRepository(ctrl), mocks.NewMockOutboxRepository(), mocks.NewMockCache())

	if err := uc.DeleteTrip(context.Background(), "trip-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := uc.DeleteTrip(context.Background(), "trip-1"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}
