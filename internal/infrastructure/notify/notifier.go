// Package notify publishes classified payment outcomes to Kafka for
// the storefront and back-office consumers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

type refusedMessage struct {
	IncrementID  string    `json:"incrementId"`
	PspReference string    `json:"pspReference"`
	RefusedAt    time.Time `json:"refusedAt"`
}

type Notifier struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewNotifier(brokers []string, topic string, logger *slog.Logger) *Notifier {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Notifier{writer: writer, logger: logger}
}

func (n *Notifier) PaymentRefused(ctx context.Context, incrementID, pspReference string) error {
	payload, err := json.Marshal(refusedMessage{
		IncrementID:  incrementID,
		PspReference: pspReference,
		RefusedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal refused message: %w", err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(incrementID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish refused message: %w", err)
	}

	n.logger.Info("published payment refused", "increment_id", incrementID, "psp_reference", pspReference)
	return nil
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}
