package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evka/tripledger/internal/adapter/http/dto"
	"github.com/evka/tripledger/internal/domain"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetBalances(ctx context.Context, tripID string) (domain.Balances, error)
	GetSettlement(ctx context.Context, tripID string) ([]domain.Transfer, error)
}

// BalanceHandler handles balance and settlement HTTP requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Balances returns each participant's net position.
func (h *BalanceHandler) Balances(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	balances, err := h.balanceUC.GetBalances(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(tripID, balances))
}

// Settlement returns the transfer plan that clears all balances.
func (h *BalanceHandler) Settlement(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	transfers, err := h.balanceUC.GetSettlement(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute settlement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromDomain(tripID, transfers))
}
