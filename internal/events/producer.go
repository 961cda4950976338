package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: w}
}

// Publish keys the record by the target user so per-user ordering holds.
func (p *Producer) Publish(ctx context.Context, env *Envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(env.UserID),
		Value: b,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error { return p.writer.Close() }
