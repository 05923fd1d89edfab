package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// DefaultTopicMap routes lifecycle events onto one topic per aggregate so
// per-entity ordering is preserved by the partition key.
func DefaultTopicMap() map[string]string {
	return map[string]string{
		"user.created": "user-lifecycle",
		"user.updated": "user-lifecycle",
		"user.deleted": "user-lifecycle",
		"card.created": "card-lifecycle",
		"card.deleted": "card-lifecycle",
	}
}

type KafkaPublisher struct {
	writer       *kafka.Writer
	topicByEvent map[string]string
}

func NewKafkaPublisher(brokers []string, topicByEvent map[string]string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	if topicByEvent == nil {
		topicByEvent = DefaultTopicMap()
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
		},
		topicByEvent: topicByEvent,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	topic := p.topicByEvent[eventType]
	if topic == "" {
		// Unknown event types still get delivered, on a topic derived from
		// the aggregate prefix.
		topic = strings.SplitN(eventType, ".", 2)[0] + "-lifecycle"
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(partitionKey),
		Value: payload,
		Time:  time.Now().UTC(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
