package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evka/tripledger/internal/adapter/http/dto"
	"github.com/evka/tripledger/internal/domain"
	"github.com/evka/tripledger/internal/usecase"
)

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	AddExpense(ctx context.Context, input usecase.AddExpenseInput) (*domain.Expense, error)
	RemoveExpense(ctx context.Context, tripID, expenseID string) error
	ListExpenses(ctx context.Context, tripID string) ([]*domain.Expense, error)
}

// ExpenseHandler handles expense ledger HTTP requests.
type ExpenseHandler struct {
	expenseUC ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC}
}

// Create records an expense on a trip.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	var req dto.AddExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "invalid expense", err.Error())
		return
	}

	expense, err := h.expenseUC.AddExpense(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add expense", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(expense))
}

// Delete removes an expense. Removing an absent expense still succeeds with
// 200: the caller's intent (expense gone) holds either way.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	expenseID := chi.URLParam(r, "expenseID")

	if err := h.expenseUC.RemoveExpense(r.Context(), tripID, expenseID); err != nil {
		writeError(w, mapDomainError(err), "failed to remove expense", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "deleted"})
}

// List lists a trip's expenses in recording order.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	expenses, err := h.expenseUC.ListExpenses(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list expenses", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListExpensesResponse{
		Expenses: dto.ExpensesFromDomain(expenses),
		Total:    int64(len(expenses)),
	})
}
