package dto

import (
	"github.com/shopspring/decimal"

	"github.com/evka/tripledger/internal/domain"
	"github.com/evka/tripledger/internal/usecase"
)

// MinorFromDecimal converts a major-unit decimal amount to minor units.
// Anything finer than two decimal places is rejected rather than rounded.
func MinorFromDecimal(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, domain.ErrAmountPrecision
	}
	if !shifted.BigInt().IsInt64() {
		return 0, domain.ErrAmountTooLarge
	}
	return shifted.IntPart(), nil
}

// MinorToDecimal renders minor units as a major-unit decimal.
func MinorToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// TravelerRequest represents a traveler joining a trip.
type TravelerRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// CreateTripRequest represents a request to create a trip.
type CreateTripRequest struct {
	Name      string            `json:"name"`
	Budget    *decimal.Decimal  `json:"budget,omitempty"`
	Travelers []TravelerRequest `json:"travelers"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTripRequest) ToUseCaseInput() (usecase.CreateTripInput, error) {
	input := usecase.CreateTripInput{Name: r.Name}

	if r.Budget != nil {
		minor, err := MinorFromDecimal(*r.Budget)
		if err != nil {
			return usecase.CreateTripInput{}, err
		}
		input.BudgetMinor = minor
	}

	for _, t := range r.Travelers {
		input.Travelers = append(input.Travelers, usecase.TravelerInput{ID: t.ID, Name: t.Name})
	}

	return input, nil
}

// AddTravelerRequest represents a request to add a traveler to a trip.
type AddTravelerRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// SetBudgetRequest represents a request to set the trip budget.
type SetBudgetRequest struct {
	Budget decimal.Decimal `json:"budget"`
}

// AddExpenseRequest represents a request to record an expense.
type AddExpenseRequest struct {
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	PaidBy    string          `json:"paid_by"`
	SplitMode string          `json:"split_mode"`
	SplitWith []string        `json:"split_with,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddExpenseRequest) ToUseCaseInput(tripID string) (usecase.AddExpenseInput, error) {
	minor, err := MinorFromDecimal(r.Amount)
	if err != nil {
		return usecase.AddExpenseInput{}, err
	}

	return usecase.AddExpenseInput{
		TripID:            tripID,
		Category:          r.Category,
		AmountMinor:       minor,
		PaidBy:            r.PaidBy,
		SplitMode:         r.SplitMode,
		SplitParticipants: r.SplitWith,
	}, nil
}
