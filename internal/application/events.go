package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/user-card-service/internal/domain"
	"github.com/markethub/user-card-service/internal/ports"
)

const (
	eventUserCreated = "user.created"
	eventUserUpdated = "user.updated"
	eventUserDeleted = "user.deleted"
	eventCardCreated = "card.created"
	eventCardDeleted = "card.deleted"
)

type userEventData struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	ChangedAt string `json:"changed_at"`
}

type cardEventData struct {
	CardID    string `json:"card_id"`
	UserID    string `json:"user_id"`
	ChangedAt string `json:"changed_at"`
}

// enqueueEvent writes a lifecycle event into the transactional outbox. A
// failed enqueue never fails the operation that triggered it.
func (s *Service) enqueueEvent(ctx context.Context, eventType, partitionKey string, data any) {
	occurredAt := s.nowFn()
	envelope := map[string]any{
		"event_id":       uuid.NewString(),
		"event_type":     eventType,
		"occurred_at":    occurredAt.Format(time.RFC3339),
		"source_service": s.cfg.ServiceName,
		"schema_version": "1.0",
		"partition_key":  partitionKey,
		"data":           data,
	}
	payload, _ := json.Marshal(envelope)
	_ = s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      payload,
		OccurredAt:   occurredAt,
	})
}

func (s *Service) enqueueUserEvent(ctx context.Context, eventType string, user domain.User) {
	s.enqueueEvent(ctx, eventType, user.ID.String(), userEventData{
		UserID:    user.ID.String(),
		Email:     user.Email,
		ChangedAt: s.nowFn().Format(time.RFC3339),
	})
}

func (s *Service) enqueueCardEvent(ctx context.Context, eventType string, card domain.CardInfo) {
	s.enqueueEvent(ctx, eventType, card.UserID.String(), cardEventData{
		CardID:    card.ID.String(),
		UserID:    card.UserID.String(),
		ChangedAt: s.nowFn().Format(time.RFC3339),
	})
}
