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

func testTrip() *domain.Trip {
	return &domain.Trip{
		ID:      "trip-1",
		Name:    "Goa 2026",
		LastSeq: 4,
		Participants: []domain.Participant{
			{ID: "a", Name: "Asha"},
			{ID: "b", Name: "Ben"},
			{ID: "c", Name: "Chitra"},
		},
	}
}

func TestExpenseUseCase_AddExpense(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	expenseRepo := mocks.NewMockExpenseRepository(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository()
	txManager := mocks.NewMockTxManager()

	trip := testTrip()
	tripRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "trip-1").Return(trip, nil)

	var created *domain.Expense
	expenseRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, tx usecase.Transaction, e *domain.Expense) error {
			created = e
			return nil
		})

	tripRepo.EXPECT().UpdateLastSeq(gomock.Any(), gomock.Any(), "trip-1", int64(5), gomock.Any()).Return(nil)

	uc := usecase.NewExpenseUseCase(txManager, tripRepo, expenseRepo, outboxRepo, mocks.NewMockIDGenerator(), mocks.MockRetrier{}, nil, 0)

	expense, err := uc.AddExpense(context.Background(), usecase.AddExpenseInput{
		TripID:      "trip-1",
		Category:    "food",
		AmountMinor: 30000,
		PaidBy:      "a",
		SplitMode:   "EVERYONE",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if expense.Seq != 5 {
		t.Errorf("expected seq 5, got %d", expense.Seq)
	}

	if created == nil || created.ID != expense.ID {
		t.Errorf("expected expense persisted through repository")
	}

	if len(txManager.Txs) != 1 || !txManager.Txs[0].Committed {
		t.Error("expected transaction to be committed")
	}

	if len(outboxRepo.Events) != 1 || outboxRepo.Events[0].EventType != domain.EventTypeExpenseAdded {
		t.Errorf("expected one expense.added outbox event, got %+v", outboxRepo.Events)
	}
}

func TestExpenseUseCase_AddExpense_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.AddExpenseInput
		wantErr error
	}{
		{
			name:    "unknown split mode",
			input:   usecase.AddExpenseInput{TripID: "trip-1", Category: "food", AmountMinor: 100, PaidBy: "a", SplitMode: "SOMETIMES"},
			wantErr: domain.ErrInvalidSplitMode,
		},
		{
			name:    "negative amount",
			input:   usecase.AddExpenseInput{TripID: "trip-1", Category: "food", AmountMinor: -5, PaidBy: "a", SplitMode: "EVERYONE"},
			wantErr: domain.ErrNegativeAmount,
		},
		{
			name:    "empty category",
			input:   usecase.AddExpenseInput{TripID: "trip-1", Category: "", AmountMinor: 100, PaidBy: "a", SplitMode: "EVERYONE"},
			wantErr: domain.ErrInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			// Validation fails before any transaction is opened.
			uc := usecase.NewExpenseUseCase(
				mocks.NewMockTxManager(),
				mocks.NewMockTripRepository(ctrl),
				mocks.NewMockExpenseRepository(ctrl),
				mocks.NewMockOutboxRepository(),
				mocks.NewMockIDGenerator(),
				mocks.MockRetrier{},
				nil,
				0,
			)

			_, err := uc.AddExpense(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExpenseUseCase_AddExpense_PayerOutsideTrip(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	tripRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "trip-1").Return(testTrip(), nil)

	txManager := mocks.NewMockTxManager()

	uc := usecase.NewExpenseUseCase(txManager, tripRepo, mocks.NewMockExpenseRepository(ctrl), mocks.NewMockOutboxRepository(), mocks.NewMockIDGenerator(), mocks.MockRetrier{}, nil, 0)

	_, err := uc.AddExpense(context.Background(), usecase.AddExpenseInput{
		TripID:      "trip-1",
		Category:    "food",
		AmountMinor: 100,
		PaidBy:      "ghost",
		SplitMode:   "EVERYONE",
	})
	if !errors.Is(err, domain.ErrUnknownPayer) {
		t.Fatalf("expected ErrUnknownPayer, got %v", err)
	}

	if len(txManager.Txs) != 1 || !txManager.Txs[0].RolledBack {
		t.Error("expected transaction to be rolled back")
	}
}

func TestExpenseUseCase_AddExpense_DuplicateSplitParticipant(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	tripRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "trip-1").Return(testTrip(), nil)

	txManager := mocks.NewMockTxManager()

	uc := usecase.NewExpenseUseCase(txManager, tripRepo, mocks.NewMockExpenseRepository(ctrl), mocks.NewMockOutboxRepository(), mocks.NewMockIDGenerator(), mocks.MockRetrier{}, nil, 0)

	// A repeated id would halve b's share and break conservation, so the
	// write must be rejected, not deduped silently.
	_, err := uc.AddExpense(context.Background(), usecase.AddExpenseInput{
		TripID:            "trip-1",
		Category:          "food",
		AmountMinor:       100,
		PaidBy:            "a",
		SplitMode:         "INDIVIDUALS",
		SplitParticipants: []string{"b", "b"},
	})
	if !errors.Is(err, domain.ErrDuplicateSplit) {
		t.Fatalf("expected ErrDuplicateSplit, got %v", err)
	}

	if len(txManager.Txs) != 1 || !txManager.Txs[0].RolledBack {
		t.Error("expected transaction to be rolled back")
	}
}

func TestExpenseUseCase_AddExpense_TripNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	tripRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "missing").Return(nil, domain.ErrTripNotFound)

	uc := usecase.NewExpenseUseCase(mocks.NewMockTxManager(), tripRepo, mocks.NewMockExpenseRepository(ctrl), mocks.NewMockOutboxRepository(), mocks.NewMockIDGenerator(), mocks.MockRetrier{}, nil, 0)

	_, err := uc.AddExpense(context.Background(), usecase.AddExpenseInput{
		TripID:      "missing",
		Category:    "food",
		AmountMinor: 100,
		PaidBy:      "a",
		SplitMode:   "NONE",
	})
	if !errors.Is(err, domain.ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

func TestExpenseUseCase_RemoveExpense_TripAbsent(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	tripRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "gone").Return(nil, domain.ErrTripNotFound)

	uc := usecase.NewExpenseUseCase(mocks.NewMockTxManager(), tripRepo, mocks.NewMockExpenseRepository(ctrl), mocks.NewMockOutboxRepository(), mocks.NewMockIDGenerator(), mocks.MockRetrier{}, nil, 0)

	// The trip's ledger is gone, expense included. Removal reports success.
	if err := uc.RemoveExpense(context.Background(), "gone", "e1"); err != nil {
		t.Fatalf("expected removal from absent trip to succeed, got %v", err)
	}
}

func TestExpenseUseCase_RemoveExpense_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	tripRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "trip-1").Return(testTrip(), nil).Times(2)

	expenseRepo := mocks.NewMockExpenseRepository(ctrl)
	gomock.InOrder(
		expenseRepo.EXPECT().Delete(gomock.Any(), gomock.Any(), "trip-1", "e1").Return(true, nil),
		expenseRepo.EXPECT().Delete(gomock.Any(), gomock.Any(), "trip-1", "e1").Return(false, nil),
	)

	outboxRepo := mocks.NewMockOutboxRepository()

	uc := usecase.NewExpenseUseCase(mocks.NewMockTxManager(), tripRepo, expenseRepo, outboxRepo, mocks.NewMockIDGenerator(), mocks.MockRetrier{}, nil, 0)

	// First removal deletes the record and emits an event.
	if err := uc.RemoveExpense(context.Background(), "trip-1", "e1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second removal finds nothing, still succeeds, emits nothing.
	if err := uc.RemoveExpense(context.Background(), "trip-1", "e1"); err != nil {
		t.Fatalf("expected idempotent removal, got %v", err)
	}

	if len(outboxRepo.Events) != 1 || outboxRepo.Events[0].EventType != domain.EventTypeExpenseRemoved {
		t.Errorf("expected exactly one expense.removed event, got %+v", outboxRepo.Events)
	}
}

func TestExpenseUseCase_ListExpenses(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	tripRepo.EXPECT().GetByID(gomock.Any(), "trip-1").Return(testTrip(), nil)

	expenses := []*domain.Expense{
		{ID: "e1", TripID: "trip-1", Seq: 1},
		{ID: "e2", TripID: "trip-1", Seq: 2},
	}

	expenseRepo := mocks.NewMockExpenseRepository(ctrl)
	expenseRepo.EXPECT().ListByTrip(gomock.Any(), "trip-1").Return(expenses, nil)

	uc := usecase.NewExpenseUseCase(mocks.NewMockTxManager(), tripRepo, expenseRepo, mocks.NewMockOutboxRepository(), mocks.NewMockIDGenerator(), mocks.MockRetrier{}, nil, 0)

	got, err := uc.ListExpenses(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 || got[0].ID != "e1" || got[1].ID != "e2" {
		t.Errorf("expected ordered expenses, got %+v", got)
	}
}
