package domain

import "errors"

// Validation errors. Reported to the caller as bad input, never retried.
var (
	ErrTripNotFound            = errors.New("trip not found")
	ErrNegativeAmount          = errors.New("amount must not be negative")
	ErrAmountTooLarge          = errors.New("amount exceeds maximum allowed")
	ErrAmountPrecision         = errors.New("amount has sub-minor-unit precision")
	ErrUnknownPayer            = errors.New("payer is not a participant of the trip")
	ErrEmptySplitSet           = errors.New("split participants must not be empty")
	ErrSplitOutsideTrip        = errors.New("split participant is not a participant of the trip")
	ErrDuplicateSplit          = errors.New("split participants must not repeat")
	ErrInvalidSplitMode        = errors.New("invalid split mode")
	ErrInvalidCategory         = errors.New("invalid expense category")
	ErrInvalidTripName         = errors.New("invalid trip name")
	ErrInvalidParticipant      = errors.New("invalid participant")
	ErrDuplicateParticipant    = errors.New("participant already belongs to the trip")
	ErrNoParticipants          = errors.New("trip requires at least one participant")
	ErrNegativeBudget          = errors.New("budget must not be negative")
)

// ErrUnknownParticipant signals an internal contract breach: the balance
// engine received an expense referencing a participant outside the trip.
// The ledger store is the only writer and validates membership on write,
// so hitting this is a bug, not a user error.
var ErrUnknownParticipant = errors.New("expense references participant outside trip")

// ErrStoreTimeout signals that the store did not answer within the
// configured budget. Safe for the caller to retry.
var ErrStoreTimeout = errors.New("store operation timed out")

// Auth errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
