package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evka/tripledger/internal/adapter/http/dto"
	"github.com/evka/tripledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes. Ledger corruption
// (ErrUnknownParticipant surfacing from a read path) is a 500 on purpose.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTripNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStoreTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrAmountPrecision),
		errors.Is(err, domain.ErrUnknownPayer),
		errors.Is(err, domain.ErrEmptySplitSet),
		errors.Is(err, domain.ErrSplitOutsideTrip),
		errors.Is(err, domain.ErrDuplicateSplit),
		errors.Is(err, domain.ErrInvalidSplitMode),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidTripName),
		errors.Is(err, domain.ErrInvalidParticipant),
		errors.Is(err, domain.ErrDuplicateParticipant),
		errors.Is(err, domain.ErrNoParticipants),
		errors.Is(err, domain.ErrNegativeBudget):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
