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

// TripService defines the behavior needed by TripHandler.
type TripService interface {
	CreateTrip(ctx context.Context, input usecase.CreateTripInput) (*domain.Trip, error)
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, error)
	ListTrips(ctx context.Context, participantID string) ([]*domain.Trip, error)
	DeleteTrip(ctx context.Context, tripID string) error
	AddTraveler(ctx context.Context, tripID string, input usecase.TravelerInput) (*domain.Trip, error)
	SetBudget(ctx context.Context, tripID string, budgetMinor int64) (*domain.Trip, error)
	GetSummary(ctx context.Context, tripID string) (*usecase.TripSummary, error)
}

// TripHandler handles trip directory HTTP requests.
type TripHandler struct {
	tripUC TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripUC TripService) *TripHandler {
	return &TripHandler{tripUC: tripUC}
}

// Create creates a new trip.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid trip", err.Error())
		return
	}

	trip, err := h.tripUC.CreateTrip(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create trip", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TripFromDomain(trip))
}

// Get retrieves a trip by ID.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing trip ID", "")
		return
	}

	trip, err := h.tripUC.GetTrip(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get trip", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TripFromDomain(trip))
}

// List lists trips for a participant.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	participantID := r.URL.Query().Get("participant_id")
	if participantID == "" {
		writeError(w, http.StatusBadRequest, "missing participant_id", "")
		return
	}

	trips, err := h.tripUC.ListTrips(r.Context(), participantID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list trips", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTripsResponse{
		Trips: dto.TripsFromDomain(trips),
		Total: int64(len(trips)),
	})
}

// Delete removes a trip and its ledger. Deleting an absent trip still
// succeeds with 200: the caller's intent (trip gone) holds either way.
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing trip ID", "")
		return
	}

	if err := h.tripUC.DeleteTrip(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete trip", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "deleted"})
}

// AddTraveler adds a participant to a trip.
func (h *TripHandler) AddTraveler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.AddTravelerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	trip, err := h.tripUC.AddTraveler(r.Context(), id, usecase.TravelerInput{ID: req.ID, Name: req.Name})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add traveler", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TripFromDomain(trip))
}

// SetBudget updates a trip budget.
func (h *TripHandler) SetBudget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.SetBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	minor, err := dto.MinorFromDecimal(req.Budget)
	if err != nil {
		writeError(w, mapDomainError(err), "invalid budget", err.Error())
		return
	}

	trip, err := h.tripUC.SetBudget(r.Context(), id, minor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to set budget", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TripFromDomain(trip))
}

// Summary reports per-category spend against the budget.
func (h *TripHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	summary, err := h.tripUC.GetSummary(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromUseCase(summary))
}
