package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Geoapify adapter configuration.
	GeoapifyAPIKey  string
	GeoapifyBaseURL string
	GeoapifyTimeout time.Duration

	// Kafka enrichment pipeline configuration. The pipeline is optional;
	// when disabled the service only serves the HTTP lookup API.
	PipelineEnabled  bool
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string

	BatchSize          int
	BatchFlushInterval time.Duration
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("GEOAPIFY_BASE_URL", "")
	v.SetDefault("GEOAPIFY_TIMEOUT", "10s")
	v.SetDefault("PIPELINE_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_SOURCE_TOPIC", "location-lookup-requests")
	v.SetDefault("KAFKA_SINK_TOPIC", "enriched-locations")
	v.SetDefault("KAFKA_GROUP_ID", "geomaps-enricher")
	v.SetDefault("BATCH_SIZE", 50)
	v.SetDefault("BATCH_FLUSH_INTERVAL", "500ms")
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	cfg := &Config{
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),

		GeoapifyAPIKey:  v.GetString("GEOAPIFY_API_KEY"),
		GeoapifyBaseURL: v.GetString("GEOAPIFY_BASE_URL"),
		GeoapifyTimeout: v.GetDuration("GEOAPIFY_TIMEOUT"),

		PipelineEnabled:  v.GetBool("PIPELINE_ENABLED"),
		KafkaBrokers:     parseBrokers(v.GetString("KAFKA_BROKERS")),
		KafkaSourceTopic: v.GetString("KAFKA_SOURCE_TOPIC"),
		KafkaSinkTopic:   v.GetString("KAFKA_SINK_TOPIC"),
		KafkaGroupID:     v.GetString("KAFKA_GROUP_ID"),

		BatchSize:          v.GetInt("BATCH_SIZE"),
		BatchFlushInterval: v.GetDuration("BATCH_FLUSH_INTERVAL"),
	}

	if cfg.GeoapifyAPIKey == "" {
		return nil, errors.New("GEOAPIFY_API_KEY is required")
	}
	if !validLogLevels[cfg.LogLevel] {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	if cfg.GeoapifyTimeout <= 0 {
		return nil, errors.New("invalid GEOAPIFY_TIMEOUT")
	}
	if cfg.BatchSize < 1 || cfg.BatchSize > 1000 {
		return nil, errors.New("BATCH_SIZE must be between 1 and 1000")
	}
	if cfg.BatchFlushInterval <= 0 {
		return nil, errors.New("invalid BATCH_FLUSH_INTERVAL")
	}

	if cfg.PipelineEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when the pipeline is enabled")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required when the pipeline is enabled")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when the pipeline is enabled")
		}
	}

	return cfg, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
