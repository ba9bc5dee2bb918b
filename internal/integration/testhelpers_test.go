//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka starts a single-broker Kafka container and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "start Kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate Kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve Kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic pre-creates a topic so producers don't fail with "Unknown Topic".
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial Kafka")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "connect to Kafka controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic %s", topic)

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}

// startFakeGeocoder serves canned geocoding responses so integration tests
// exercise the pipeline without a vendor account.
func startFakeGeocoder(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/geocode/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("text") == "nowhere at all" {
			fmt.Fprint(w, `{"features":[]}`)
			return
		}
		fmt.Fprint(w, `{"features":[{
			"geometry":{"coordinates":[13.377704,52.516275]},
			"properties":{
				"street":"Pariser Platz","city":"Berlin","postcode":"10117",
				"country":"Germany","country_code":"de",
				"formatted":"Pariser Platz, 10117 Berlin, Germany",
				"rank":{"confidence":0.95}
			}
		}]}`)
	})
	mux.HandleFunc("/geocode/reverse", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"features":[{
			"geometry":{"coordinates":[2.294481,48.858370]},
			"properties":{
				"street":"Avenue Anatole France","housenumber":"5","city":"Paris",
				"postcode":"75007","country":"France","country_code":"fr",
				"formatted":"5 Avenue Anatole France, 75007 Paris, France",
				"rank":{"confidence":0.82}
			}
		}]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
