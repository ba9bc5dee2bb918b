// Package kafka adapts segmentio/kafka-go readers and writers to the
// pipeline's batch extractor and loader interfaces.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/fernwhistle/geomaps/internal/config"
	"github.com/fernwhistle/geomaps/internal/enrich"
)

// Reader consumes lookup requests from the source topic.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader        *kafkago.Reader
	logger        *slog.Logger
	flushInterval time.Duration
}

// NewReader creates a consumer-group reader for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		GroupID:     cfg.KafkaGroupID,
		Topic:       cfg.KafkaSourceTopic,
		StartOffset: kafkago.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Reader{reader: r, logger: logger, flushInterval: cfg.BatchFlushInterval}
}

// ExtractBatch reads up to batchSize messages. A partial batch is returned
// once the flush interval elapses, so a quiet topic never stalls the
// pipeline behind a full batch. Offsets are committed later through each
// event's Commit function.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]enrich.RawEvent, error) {
	batchCtx, cancel := context.WithTimeout(ctx, r.flushInterval)
	defer cancel()

	events := make([]enrich.RawEvent, 0, batchSize)
	for len(events) < batchSize {
		msg, err := r.reader.FetchMessage(batchCtx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return events, nil
			}
			return events, fmt.Errorf("fetch message: %w", err)
		}
		events = append(events, mapMessageToRawEvent(msg, func(ctx context.Context) error {
			return r.reader.CommitMessages(ctx, msg)
		}))
	}
	return events, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessageToRawEvent converts a Kafka message into the pipeline's event
// shape.
func mapMessageToRawEvent(msg kafkago.Message, commit func(context.Context) error) enrich.RawEvent {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return enrich.RawEvent{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Commit:    commit,
	}
}
