// Command geomaps-seed publishes sample location lookup requests to the
// enrichment pipeline's source topic. It is a local development aid for
// exercising the daemon end to end without an upstream producer.
//
// Usage:
//
//	go run ./cmd/geomaps-seed \
//	  -brokers localhost:9092 \
//	  -topic location-lookup-requests \
//	  -count 10
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/fernwhistle/geomaps/internal/enrich"
)

// sampleQueries rotate through well-known landmarks so every seeded request
// resolves against a real geocoder.
var sampleQueries = []string{
	"Brandenburg Gate, Berlin",
	"Eiffel Tower, Paris",
	"Tower Bridge, London",
	"Sagrada Familia, Barcelona",
	"Colosseum, Rome",
}

// samplePoints are reverse lookup inputs matching the queries above.
var samplePoints = [][2]float64{
	{52.516275, 13.377704},
	{48.858370, 2.294481},
	{51.505456, -0.075356},
	{41.403629, 2.174356},
	{41.890210, 12.492231},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	brokers := flag.String("brokers", "localhost:9092", "comma-separated Kafka broker addresses")
	topic := flag.String("topic", "location-lookup-requests", "source topic to publish to")
	count := flag.Int("count", 10, "number of requests to publish")
	flag.Parse()

	if *count <= 0 {
		return fmt.Errorf("count must be positive, got %d", *count)
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Printf("close writer: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	msgs := make([]kafkago.Message, 0, *count)
	for i := 0; i < *count; i++ {
		req := buildRequest(i)
		payload, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("marshal request %d: %w", i, err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(req.ID),
			Value: payload,
		})
	}

	if err := writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish to %s: %w", *topic, err)
	}

	log.Printf("published %d lookup requests to %s", *count, *topic)
	return nil
}

// buildRequest alternates between forward and reverse lookups.
func buildRequest(i int) enrich.LookupRequest {
	req := enrich.LookupRequest{ID: uuid.NewString()}
	pick := i % len(sampleQueries)
	if i%2 == 0 {
		req.Query = sampleQueries[pick]
		return req
	}
	lat, lon := samplePoints[pick][0], samplePoints[pick][1]
	req.Lat = &lat
	req.Lon = &lon
	return req
}
