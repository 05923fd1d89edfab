package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/user-card-service/internal/ports"
)

type memOutbox struct {
	mu      sync.Mutex
	records []ports.OutboxRecord
}

func (m *memOutbox) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, ports.OutboxRecord{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      event.Payload,
		CreatedAt:    event.OccurredAt,
	})
	return nil
}

func (m *memOutbox) FetchUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.OutboxRecord, 0, limit)
	for _, rec := range m.records {
		if rec.PublishedAt == nil && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memOutbox) MarkPublished(_ context.Context, outboxID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].OutboxID == outboxID {
			m.records[i].PublishedAt = &at
		}
	}
	return nil
}

func (m *memOutbox) MarkFailed(_ context.Context, outboxID uuid.UUID, errMsg string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].OutboxID == outboxID {
			m.records[i].RetryCount++
			m.records[i].LastError = &errMsg
		}
	}
	return nil
}

type capturingPublisher struct {
	mu        sync.Mutex
	published []string
	failTypes map[string]bool
}

func (p *capturingPublisher) Publish(_ context.Context, eventType string, _ []byte, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failTypes[eventType] {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, eventType)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcessOncePublishesAndMarks(t *testing.T) {
	t.Parallel()

	outbox := &memOutbox{}
	for _, eventType := range []string{"user.created", "card.created"} {
		_ = outbox.Enqueue(context.Background(), ports.OutboxEvent{
			EventID:    uuid.New(),
			EventType:  eventType,
			Payload:    []byte(`{}`),
			OccurredAt: time.Now().UTC(),
		})
	}
	publisher := &capturingPublisher{}
	worker := NewOutboxWorker(testLogger(), outbox, publisher, time.Second, 10)

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("processOnce: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.published))
	}
	remaining, _ := outbox.FetchUnpublished(context.Background(), 10)
	if len(remaining) != 0 {
		t.Fatalf("expected empty outbox after publish, got %d records", len(remaining))
	}
}

func TestProcessOnceRetainsFailedRecords(t *testing.T) {
	t.Parallel()

	outbox := &memOutbox{}
	_ = outbox.Enqueue(context.Background(), ports.OutboxEvent{
		EventID:    uuid.New(),
		EventType:  "user.deleted",
		Payload:    []byte(`{}`),
		OccurredAt: time.Now().UTC(),
	})
	publisher := &capturingPublisher{failTypes: map[string]bool{"user.deleted": true}}
	worker := NewOutboxWorker(testLogger(), outbox, publisher, time.Second, 10)

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("processOnce: %v", err)
	}
	remaining, _ := outbox.FetchUnpublished(context.Background(), 10)
	if len(remaining) != 1 {
		t.Fatalf("expected failed record to stay unpublished, got %d records", len(remaining))
	}
	if remaining[0].RetryCount != 1 || remaining[0].LastError == nil {
		t.Fatalf("expected retry bookkeeping on failed record, got %+v", remaining[0])
	}
}
