package notify

import (
	"context"
	"encoding/json"
	"fmt"

	kafkaGo "github.com/segmentio/kafka-go"
)

// DefaultTopic is where notifications are published when no topic is set
const DefaultTopic = "catalog.notifications"

// messageWriter is the subset of *kafkaGo.Writer the pusher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

// KafkaPusher publishes notifications as JSON messages keyed by audience
type KafkaPusher struct {
	writer messageWriter
}

// NewKafkaPusher creates a pusher writing to topic on the given brokers
func NewKafkaPusher(brokers []string, topic string) *KafkaPusher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPusher{
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafkaGo.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

// Push publishes n
func (p *KafkaPusher) Push(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("kafka pusher: failed to marshal notification: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(n.Audience),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("kafka pusher: failed to publish notification %s: %w", n.ID, err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaPusher) Close() error {
	return p.writer.Close()
}
