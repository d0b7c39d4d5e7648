package domain

import (
	"fmt"
	"strings"
)

// Validation constants
const (
	MaxCategoryLength        = 100
	MaxTripNameLength        = 255
	MaxParticipantNameLength = 255
	// MaxAmountMinor caps a single expense at ten million major units.
	MaxAmountMinor int64 = 1_000_000_000
)

// ValidateCategory validates an expense category label.
func ValidateCategory(category string) error {
	category = strings.TrimSpace(category)

	if category == "" {
		return fmt.Errorf("%w: category cannot be empty", ErrInvalidCategory)
	}

	if len(category) > MaxCategoryLength {
		return fmt.Errorf("%w: category exceeds %d characters", ErrInvalidCategory, MaxCategoryLength)
	}

	return nil
}

// ValidateTripName validates a trip name.
func ValidateTripName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidTripName)
	}

	if len(name) > MaxTripNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidTripName, MaxTripNameLength)
	}

	return nil
}

// ValidateParticipant validates a participant before it joins a trip.
func ValidateParticipant(p Participant) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidParticipant)
	}

	if len(p.Name) > MaxParticipantNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidParticipant, MaxParticipantNameLength)
	}

	return nil
}

// ValidateAmountMinor validates an expense amount in minor units.
func ValidateAmountMinor(amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}

	if amount > MaxAmountMinor {
		return fmt.Errorf("%w: amount %d exceeds maximum %d", ErrAmountTooLarge, amount, MaxAmountMinor)
	}

	return nil
}
