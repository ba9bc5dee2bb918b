package kafka

import (
	"context"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/fernwhistle/geomaps/internal/config"
	"github.com/fernwhistle/geomaps/internal/enrich"
)

// Writer produces enriched locations to the sink topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes a batch of output events in a single WriteMessages
// call.
func (w *Writer) LoadBatch(ctx context.Context, events []enrich.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msgs[i] = toMessage(events[i])
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toMessage converts an output event into a Kafka message. The well-known
// headers come first in a stable order; any extras follow.
func toMessage(event enrich.OutputEvent) kafkago.Message {
	msg := kafkago.Message{
		Key:   event.Key,
		Value: event.Value,
	}
	for _, key := range []string{"source", "processed_at"} {
		if v, ok := event.Headers[key]; ok {
			msg.Headers = append(msg.Headers, kafkago.Header{Key: key, Value: []byte(v)})
		}
	}
	for k, v := range event.Headers {
		if k == "source" || k == "processed_at" {
			continue
		}
		msg.Headers = append(msg.Headers, kafkago.Header{Key: k, Value: []byte(v)})
	}
	return msg
}
