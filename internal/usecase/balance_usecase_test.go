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

func TestBalanceUseCase_GetBalances(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	tripRepo.EXPECT().GetByID(gomock.Any(), "trip-1").Return(testTrip(), nil)

	expenseRepo := mocks.NewMockExpenseRepository(ctrl)
	expenseRepo.EXPECT().ListByTrip(gomock.Any(), "trip-1").Return([]*domain.Expense{
		{ID: "e1", TripID: "trip-1", PaidBy: "a", AmountMinor: 300, SplitMode: domain.SplitEveryone},
	}, nil)

	uc := usecase.NewBalanceUseCase(tripRepo, expenseRepo, nil, 0)

	balances, err := uc.GetBalances(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Balances{"a": 200, "b": -100, "c": -100}
	for id, net := range want {
		if balances[id] != net {
			t.Errorf("balance[%s] = %d, want %d", id, balances[id], net)
		}
	}
}

func TestBalanceUseCase_GetSettlement(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	tripRepo.EXPECT().GetByID(gomock.Any(), "trip-1").Return(testTrip(), nil)

	expenseRepo := mocks.NewMockExpenseRepository(ctrl)
	expenseRepo.EXPECT().ListByTrip(gomock.Any(), "trip-1").Return([]*domain.Expense{
		{ID: "e1", TripID: "trip-1", PaidBy: "a", AmountMinor: 300, SplitMode: domain.SplitEveryone},
	}, nil)

	uc := usecase.NewBalanceUseCase(tripRepo, expenseRepo, nil, 0)

	transfers, err := uc.GetSettlement(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.Transfer{
		{From: "b", To: "a", AmountMinor: 100},
		{From: "c", To: "a", AmountMinor: 100},
	}

	if len(transfers) != len(want) {
		t.Fatalf("expected %d transfers, got %d", len(want), len(transfers))
	}

	for i := range want {
		if transfers[i] != want[i] {
			t.Errorf("transfer[%d] = %+v, want %+v", i, transfers[i], want[i])
		}
	}
}

func TestBalanceUseCase_CorruptLedgerFailsFast(t *testing.T) {
	// The store validates membership on write; an expense referencing an
	// unknown participant therefore signals a bug, not a user error.
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	tripRepo.EXPECT().GetByID(gomock.Any(), "trip-1").Return(testTrip(), nil)

	expenseRepo := mocks.NewMockExpenseRepository(ctrl)
	expenseRepo.EXPECT().ListByTrip(gomock.Any(), "trip-1").Return([]*domain.Expense{
		{ID: "e1", TripID: "trip-1", PaidBy: "ghost", AmountMinor: 100, SplitMode: domain.SplitEveryone},
	}, nil)

	uc := usecase.NewBalanceUseCase(tripRepo, expenseRepo, nil, 0)

	_, err := uc.GetBalances(context.Background(), "trip-1")
	if !errors.Is(err, domain.ErrUnknownParticipant) {
		t.Fatalf("expected ErrUnknownParticipant, got %v", err)
	}
}

func TestBalanceUseCase_TripNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)

	tripRepo := mocks.NewMockTripRepository(ctrl)
	tripRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrTripNotFound)

	uc := usecase.NewBalanceUseCase(tripRepo, mocks.NewMockExpenseRepository(ctrl), nil, 0)

	_, err := uc.GetBalances(context.Background(), "missing")
	if !errors.Is(err, domain.ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}
