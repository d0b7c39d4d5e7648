package domain

import (
	"fmt"
	"time"
)

// SplitMode governs which participants share the cost of an expense.
type SplitMode string

const (
	// SplitEveryone splits the expense equally among all trip participants.
	SplitEveryone SplitMode = "EVERYONE"
	// SplitIndividuals splits the expense equally among an explicit subset.
	SplitIndividuals SplitMode = "INDIVIDUALS"
	// SplitNone means the payer absorbs the full cost with no claim on others.
	SplitNone SplitMode = "NONE"
)

// ParseSplitMode parses a split mode string.
func ParseSplitMode(s string) (SplitMode, error) {
	switch SplitMode(s) {
	case SplitEveryone, SplitIndividuals, SplitNone:
		return SplitMode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSplitMode, s)
	}
}

// Expense is an immutable ledger record. Corrections are modeled as a new
// expense or an explicit deletion, never an in-place mutation.
type Expense struct {
	ID                string
	TripID            string
	Category          string
	AmountMinor       int64
	PaidBy            string
	SplitMode         SplitMode
	SplitParticipants []string
	Seq               int64
	CreatedAt         time.Time
}

// Validate checks the expense invariants against the owning trip's
// participant set. The ledger store calls this on every write; the balance
// engine relies on it having run.
func (e *Expense) Validate(trip *Trip) error {
	if e.AmountMinor < 0 {
		return ErrNegativeAmount
	}

	if err := ValidateCategory(e.Category); err != nil {
		return err
	}

	if !trip.Member(e.PaidBy) {
		return fmt.Errorf("%w: %s", ErrUnknownPayer, e.PaidBy)
	}

	switch e.SplitMode {
	case SplitEveryone, SplitNone:
		return nil
	case SplitIndividuals:
		if len(e.SplitParticipants) == 0 {
			return ErrEmptySplitSet
		}

		// The split set is a set. A repeated id would silently shrink the
		// per-head share and break conservation downstream.
		seen := make(map[string]bool, len(e.SplitParticipants))

		for _, id := range e.SplitParticipants {
			if !trip.Member(id) {
				return fmt.Errorf("%w: %s", ErrSplitOutsideTrip, id)
			}

			if seen[id] {
				return fmt.Errorf("%w: %s", ErrDuplicateSplit, id)
			}
			seen[id] = true
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSplitMode, e.SplitMode)
	}
}

// shareSet resolves which participant ids share the cost of the expense.
// NONE yields an empty set: the payer keeps the cost to themselves.
func (e *Expense) shareSet(participants []Participant) []string {
	switch e.SplitMode {
	case SplitEveryone:
		ids := make([]string, len(participants))
		for i, p := range participants {
			ids[i] = p.ID
		}

		return ids
	case SplitIndividuals:
		return e.SplitParticipants
	default:
		return nil
	}
}
