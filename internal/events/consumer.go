package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Consumer struct {
	reader *kafka.Reader
	log    *zap.SugaredLogger
}

func NewConsumer(brokers []string, topic, groupID string, log *zap.SugaredLogger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	return &Consumer{reader: r, log: log}
}

// Start consumes envelopes until ctx is cancelled, handing each to fn.
// Malformed records are logged and skipped.
func (c *Consumer) Start(ctx context.Context, fn func(*Envelope)) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		var env Envelope
		if err := json.Unmarshal(m.Value, &env); err != nil {
			c.log.Warnw("bad event payload", "err", err, "offset", m.Offset)
			continue
		}
		fn(&env)
	}
}

func (c *Consumer) Close() error { return c.reader.Close() }
