// Package events publishes pipeline events to Kafka for downstream consumers.
// Publishing is best-effort: the pipeline never blocks on the broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// TransactionEvent is emitted when a parsed transaction is created.
type TransactionEvent struct {
	TransactionID string    `json:"transaction_id"`
	ExternalID    string    `json:"external_id"`
	Journal       string    `json:"journal"`
	Direction     string    `json:"direction"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	PostedAt      time.Time `json:"posted_at"`
}

// ReconcileEvent is emitted when a statement line gains or loses a match.
type ReconcileEvent struct {
	StatementLineID string `json:"statement_line_id"`
	TransactionID   string `json:"transaction_id,omitempty"`
	Strategy        string `json:"strategy"`
	Matched         bool   `json:"matched"`
}

type Publisher interface {
	PublishTransaction(ctx context.Context, ev TransactionEvent) error
	PublishReconcile(ctx context.Context, ev ReconcileEvent) error
	Close() error
}

type KafkaPublisher struct {
	writer           *kafka.Writer
	transactionTopic string
	reconcileTopic   string
}

func NewKafkaPublisher(brokers []string, transactionTopic, reconcileTopic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		transactionTopic: transactionTopic,
		reconcileTopic:   reconcileTopic,
	}
}

func (p *KafkaPublisher) PublishTransaction(ctx context.Context, ev TransactionEvent) error {
	return p.publish(ctx, p.transactionTopic, ev.ExternalID, ev)
}

func (p *KafkaPublisher) PublishReconcile(ctx context.Context, ev ReconcileEvent) error {
	return p.publish(ctx, p.reconcileTopic, ev.StatementLineID, ev)
}

func (p *KafkaPublisher) publish(ctx context.Context, topic, key string, ev any) error {
	v, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: v,
		Time:  time.Now(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishTransaction(context.Context, TransactionEvent) error { return nil }
func (NopPublisher) PublishReconcile(context.Context, ReconcileEvent) error     { return nil }
func (NopPublisher) Close() error                                               { return nil }
