package dto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evka/tripledger/internal/domain"
	"github.com/evka/tripledger/internal/usecase"
)

// TravelerResponse represents a trip participant in API responses.
type TravelerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TripResponse represents a trip in API responses.
type TripResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Budget    decimal.Decimal    `json:"budget"`
	Travelers []TravelerResponse `json:"travelers"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// TripFromDomain converts a domain trip to a response.
func TripFromDomain(t *domain.Trip) *TripResponse {
	resp := &TripResponse{
		ID:        t.ID,
		Name:      t.Name,
		Budget:    MinorToDecimal(t.BudgetMinor),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	for _, p := range t.Participants {
		resp.Travelers = append(resp.Travelers, TravelerResponse{ID: p.ID, Name: p.Name})
	}
	return resp
}

// TripsFromDomain converts domain trips to responses.
func TripsFromDomain(trips []*domain.Trip) []*TripResponse {
	result := make([]*TripResponse, len(trips))
	for i, t := range trips {
		result[i] = TripFromDomain(t)
	}
	return result
}

// ListTripsResponse wraps a trip listing.
type ListTripsResponse struct {
	Trips []*TripResponse `json:"trips"`
	Total int64           `json:"total"`
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID        string          `json:"id"`
	TripID    string          `json:"trip_id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	PaidBy    string          `json:"paid_by"`
	SplitMode string          `json:"split_mode"`
	SplitWith []string        `json:"split_with,omitempty"`
	Seq       int64           `json:"seq"`
	CreatedAt time.Time       `json:"created_at"`
}

// ExpenseFromDomain converts a domain expense to a response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:        e.ID,
		TripID:    e.TripID,
		Category:  e.Category,
		Amount:    MinorToDecimal(e.AmountMinor),
		PaidBy:    e.PaidBy,
		SplitMode: string(e.SplitMode),
		SplitWith: e.SplitParticipants,
		Seq:       e.Seq,
		CreatedAt: e.CreatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []*domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// ListExpensesResponse wraps an expense listing.
type ListExpensesResponse struct {
	Expenses []*ExpenseResponse `json:"expenses"`
	Total    int64              `json:"total"`
}

// BalanceEntry is one participant's net position.
type BalanceEntry struct {
	ParticipantID string          `json:"participant_id"`
	Net           decimal.Decimal `json:"net"`
}

// BalancesResponse lists net positions, participants in id order.
type BalancesResponse struct {
	TripID   string         `json:"trip_id"`
	Balances []BalanceEntry `json:"balances"`
}

// BalancesFromDomain converts a domain balance map to a response.
func BalancesFromDomain(tripID string, balances domain.Balances) *BalancesResponse {
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	resp := &BalancesResponse{TripID: tripID, Balances: make([]BalanceEntry, 0, len(ids))}
	for _, id := range ids {
		resp.Balances = append(resp.Balances, BalanceEntry{
			ParticipantID: id,
			Net:           MinorToDecimal(balances[id]),
		})
	}
	return resp
}

// TransferResponse is one settlement payment.
type TransferResponse struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// SettlementResponse lists the payments that settle a trip.
type SettlementResponse struct {
	TripID    string             `json:"trip_id"`
	Transfers []TransferResponse `json:"transfers"`
}

// SettlementFromDomain converts domain transfers to a response.
func SettlementFromDomain(tripID string, transfers []domain.Transfer) *SettlementResponse {
	resp := &SettlementResponse{TripID: tripID, Transfers: make([]TransferResponse, 0, len(transfers))}
	for _, t := range transfers {
		resp.Transfers = append(resp.Transfers, TransferResponse{
			From:   t.From,
			To:     t.To,
			Amount: MinorToDecimal(t.AmountMinor),
		})
	}
	return resp
}

// SummaryResponse reports spend against the trip budget.
type SummaryResponse struct {
	TripID     string                     `json:"trip_id"`
	Budget     decimal.Decimal            `json:"budget"`
	Spent      decimal.Decimal            `json:"spent"`
	Remaining  decimal.Decimal            `json:"remaining"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
}

// SummaryFromUseCase converts a use case summary to a response.
func SummaryFromUseCase(s *usecase.TripSummary) *SummaryResponse {
	resp := &SummaryResponse{
		TripID:     s.TripID,
		Budget:     MinorToDecimal(s.BudgetMinor),
		Spent:      MinorToDecimal(s.SpentMinor),
		Remaining:  MinorToDecimal(s.BudgetMinor - s.SpentMinor),
		ByCategory: make(map[string]decimal.Decimal, len(s.ByCategory)),
	}
	for category, minor := range s.ByCategory {
		resp.ByCategory[category] = MinorToDecimal(minor)
	}
	return resp
}

// StatusResponse acknowledges an operation with no other payload.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
