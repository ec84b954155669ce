package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "outlook-requests", cfg.KafkaSourceTopic)
	assert.Equal(t, "outlook-reports", cfg.KafkaSinkTopic)
	assert.Equal(t, "weather-outlook", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.True(t, cfg.PipelineEnabled)
	assert.Equal(t, "http://localhost:8000", cfg.WeatherAPIURL)
	assert.Equal(t, 60*time.Second, cfg.WeatherAPITimeout)
	assert.Equal(t, 256, cfg.WeatherCacheSize)
	assert.Equal(t, 15*time.Minute, cfg.WeatherCacheTTL)
	assert.Equal(t, "preferences.yaml", cfg.PreferencesPath)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("PIPELINE_ENABLED", "false")
	t.Setenv("WEATHER_API_URL", "https://weather.example.com")
	t.Setenv("WEATHER_API_TIMEOUT", "15s")
	t.Setenv("WEATHER_CACHE_SIZE", "32")
	t.Setenv("WEATHER_CACHE_TTL", "1h")
	t.Setenv("PREFERENCES_PATH", "/var/lib/outlook/prefs.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.False(t, cfg.PipelineEnabled)
	assert.Equal(t, "https://weather.example.com", cfg.WeatherAPIURL)
	assert.Equal(t, 15*time.Second, cfg.WeatherAPITimeout)
	assert.Equal(t, 32, cfg.WeatherCacheSize)
	assert.Equal(t, time.Hour, cfg.WeatherCacheTTL)
	assert.Equal(t, "/var/lib/outlook/prefs.yaml", cfg.PreferencesPath)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_BatchSizeTooLarge(t *testing.T) {
	t.Setenv("BATCH_SIZE", "9999")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_InvalidWeatherAPITimeout(t *testing.T) {
	for _, v := range []string{"bad", "0s", "-5s"} {
		t.Setenv("WEATHER_API_TIMEOUT", v)
		_, err := Load()
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "WEATHER_API_TIMEOUT")
	}
}

func TestLoad_InvalidWeatherCacheTTL(t *testing.T) {
	t.Setenv("WEATHER_CACHE_TTL", "forever")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEATHER_CACHE_TTL")
}

func TestLoad_InvalidWeatherAPIURL(t *testing.T) {
	t.Setenv("WEATHER_API_URL", "not a url")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEATHER_API_URL")
}

func TestLoad_WeatherCacheSize(t *testing.T) {
	tests := map[string]int{
		"0":    0,
		"1":    1,
		"-4":   256,
		"many": 256,
	}
	for in, want := range tests {
		t.Setenv("WEATHER_CACHE_SIZE", in)
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, want, cfg.WeatherCacheSize, in)
	}
}
