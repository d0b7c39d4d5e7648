package domain

import "time"

// Event types
const (
	EventTypeTripCreated    = "trip.created"
	EventTypeExpenseAdded   = "expense.added"
	EventTypeExpenseRemoved = "expense.removed"
)

// Aggregate types
const (
	AggregateTypeTrip    = "trip"
	AggregateTypeExpense = "expense"
)

// OutboxEvent represents an event to be published to the surrounding
// application (notification fanout, activity feeds).
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TripCreatedEvent payload
type TripCreatedEvent struct {
	TripID       string   `json:"trip_id"`
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
}

// ExpenseAddedEvent payload
type ExpenseAddedEvent struct {
	ExpenseID   string `json:"expense_id"`
	TripID      string `json:"trip_id"`
	Category    string `json:"category"`
	AmountMinor int64  `json:"amount_minor"`
	PaidBy      string `json:"paid_by"`
	SplitMode   string `json:"split_mode"`
}

// ExpenseRemovedEvent payload
type ExpenseRemovedEvent struct {
	ExpenseID string `json:"expense_id"`
	TripID    string `json:"trip_id"`
}
