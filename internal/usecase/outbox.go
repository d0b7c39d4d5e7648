package usecase

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/evka/tripledger/internal/domain"
)

// newOutboxEvent builds an outbox row for a typed event payload. The payload
// is flattened to a map so the repository can persist it as JSON.
func newOutboxEvent(aggregateType, aggregateID, eventType string, payload any, now time.Time) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       marshalPayload(payload),
		CreatedAt:     now,
	}
}

func marshalPayload(v any) map[string]any {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"error": "failed to marshal payload"}
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return map[string]any{"error": "failed to unmarshal payload"}
	}

	return result
}
