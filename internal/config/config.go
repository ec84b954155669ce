package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// PipelineEnabled turns the Kafka outlook pipeline on; the HTTP API runs regardless.
	PipelineEnabled bool

	// Remote weather API configuration.
	WeatherAPIURL     string
	WeatherAPITimeout time.Duration
	WeatherCacheSize  int
	WeatherCacheTTL   time.Duration

	PreferencesPath string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	apiTimeoutStr := sharedcfg.EnvOrDefault("WEATHER_API_TIMEOUT", "60s")
	apiTimeout, err2 := time.ParseDuration(apiTimeoutStr)
	if err2 != nil || apiTimeout <= 0 {
		return nil, errors.New("invalid WEATHER_API_TIMEOUT")
	}

	cacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("WEATHER_CACHE_TTL", "15m"))
	if err != nil || cacheTTL <= 0 {
		return nil, errors.New("invalid WEATHER_CACHE_TTL")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	apiURL := sharedcfg.EnvOrDefault("WEATHER_API_URL", "http://localhost:8000")
	if u, err := url.Parse(apiURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("invalid WEATHER_API_URL")
	}

	pipelineEnabled := true
	if v := os.Getenv("PIPELINE_ENABLED"); v != "" {
		pipelineEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "outlook-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "outlook-reports"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "weather-outlook"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		PipelineEnabled: pipelineEnabled,

		WeatherAPIURL:     apiURL,
		WeatherAPITimeout: apiTimeout,
		WeatherCacheSize:  parseWeatherCacheSize(),
		WeatherCacheTTL:   cacheTTL,

		PreferencesPath: sharedcfg.EnvOrDefault("PREFERENCES_PATH", "preferences.yaml"),
	}

	if cfg.PipelineEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

// parseWeatherCacheSize returns 0 (cache disabled) for an explicit "0".
func parseWeatherCacheSize() int {
	if s := os.Getenv("WEATHER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n
		}
	}
	return 256
}
