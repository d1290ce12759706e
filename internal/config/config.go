package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/lightning-alert-service/internal/quadkey"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	LogLevel  string
	LogFormat string

	// ZoomLevel is the quadkey resolution strikes are matched at.
	ZoomLevel int

	// Pushgateway is only used by file mode; empty disables pushing.
	PushgatewayURL string
	PushgatewayJob string

	// Stream mode settings.
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	HTTPAddr           string
	ShutdownTimeout    time.Duration
	BatchSize          int
	BatchFlushInterval time.Duration
	DedupCacheSize     int
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first if present; it
// never overrides variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	zoom, err := parseZoom()
	if err != nil {
		return nil, err
	}

	dedupSize, err := parseDedupCacheSize()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ZoomLevel:          zoom,
		PushgatewayURL:     os.Getenv("PUSHGATEWAY_URL"),
		PushgatewayJob:     sharedcfg.EnvOrDefault("PUSHGATEWAY_JOB", "lightning-alert"),
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "lightning-strikes"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "lightning-alerts"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "lightning-alert"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		DedupCacheSize:     dedupSize,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.PushgatewayJob == "" {
		return nil, errors.New("PUSHGATEWAY_JOB must not be empty")
	}

	return cfg, nil
}

func parseZoom() (int, error) {
	s := sharedcfg.EnvOrDefault("QUADKEY_ZOOM", "12")
	z, err := strconv.Atoi(s)
	if err != nil || z < 1 || z > quadkey.MaxZoom {
		return 0, fmt.Errorf("invalid QUADKEY_ZOOM %q: must be an integer in [1, %d]", s, quadkey.MaxZoom)
	}
	return z, nil
}

// parseDedupCacheSize reads DEDUP_CACHE_SIZE. Zero means unbounded.
func parseDedupCacheSize() (int, error) {
	s := sharedcfg.EnvOrDefault("DEDUP_CACHE_SIZE", "100000")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid DEDUP_CACHE_SIZE %q: must be a non-negative integer", s)
	}
	return n, nil
}
