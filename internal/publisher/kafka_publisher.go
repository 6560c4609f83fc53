package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	// Topic carries newly created shipping ids.
	Topic = "new-shippings"

	defaultPollWindow = 2 * time.Second
	defaultMaxBatch   = 100
)

// KafkaPublisher carries shipping ids over a Kafka topic. Delivery is
// at-least-once: a consumer crash between read and commit redelivers,
// which the processing side tolerates by being idempotent.
type KafkaPublisher struct {
	writer     *kafka.Writer
	reader     *kafka.Reader
	pollWindow time.Duration
	maxBatch   int
}

func NewKafkaPublisher(groupID string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &KafkaPublisher{
		writer:     w,
		reader:     r,
		pollWindow: defaultPollWindow,
		maxBatch:   defaultMaxBatch,
	}
}

func (p *KafkaPublisher) SendNewShipping(ctx context.Context, shippingID string) error {
	msg := kafka.Message{
		Key:   []byte(shippingID), // same id keeps ordering per shipment
		Value: []byte(shippingID),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write shipping message: %w", err)
	}
	return nil
}

// PollShipping drains up to maxBatch currently visible ids, waiting at
// most pollWindow for the first ones to arrive. An empty topic yields
// an empty batch, not an error.
func (p *KafkaPublisher) PollShipping(ctx context.Context) ([]string, error) {
	pollCtx, cancel := context.WithTimeout(ctx, p.pollWindow)
	defer cancel()

	var ids []string
	for len(ids) < p.maxBatch {
		m, err := p.reader.ReadMessage(pollCtx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				break
			}
			return ids, fmt.Errorf("read shipping message: %w", err)
		}
		ids = append(ids, string(m.Value))
	}
	return ids, nil
}

func (p *KafkaPublisher) Close() error {
	errWriter := p.writer.Close()
	errReader := p.reader.Close()
	if errWriter != nil {
		return errWriter
	}
	return errReader
}
