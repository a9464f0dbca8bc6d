package configs

import (
	"testing"
	"time"
)

func TestAppLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "POLL_INTERVAL_SECONDS", "COINGECKO_BASE_URL",
		"REQUESTS_PER_SECOND", "KAFKA_BROKER", "DEFAULT_LANGUAGE",
	} {
		t.Setenv(key, "")
	}

	cfg := AppLoad()

	if cfg.PollInterval != 60*time.Second {
		t.Errorf("Expected poll interval 60s, got %v", cfg.PollInterval)
	}
	if cfg.Coingecko.RequestsPerSecond != 0 {
		t.Errorf("Expected limiter disabled by default, got %v", cfg.Coingecko.RequestsPerSecond)
	}
	if cfg.Kafka.Enabled() {
		t.Error("Expected Kafka publishing to be disabled without a broker")
	}
}

func TestAppLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("POLL_INTERVAL_SECONDS", "5")
	t.Setenv("REQUESTS_PER_SECOND", "0.5")
	t.Setenv("KAFKA_BROKER", "localhost:9092")

	cfg := AppLoad()

	if cfg.ServerPort != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.ServerPort)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("Expected poll interval 5s, got %v", cfg.PollInterval)
	}
	if cfg.Coingecko.RequestsPerSecond != 0.5 {
		t.Errorf("Expected 0.5 rps, got %v", cfg.Coingecko.RequestsPerSecond)
	}
	if !cfg.Kafka.Enabled() {
		t.Error("Expected Kafka publishing to be enabled")
	}
}

func TestGetEnvIntInvalid(t *testing.T) {
	t.Setenv("POLL_INTERVAL_SECONDS", "soon")
	if got := getEnvInt("POLL_INTERVAL_SECONDS", 60); got != 60 {
		t.Errorf("Expected default 60 for invalid value, got %d", got)
	}

	t.Setenv("POLL_INTERVAL_SECONDS", "-3")
	if got := getEnvInt("POLL_INTERVAL_SECONDS", 60); got != 60 {
		t.Errorf("Expected default 60 for negative value, got %d", got)
	}
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{DisplayTimezone: "UTC"}
	if cfg.Location() != time.UTC {
		t.Errorf("Expected UTC, got %v", cfg.Location())
	}

	cfg.DisplayTimezone = "Not/AZone"
	if cfg.Location() != time.Local {
		t.Errorf("Expected fallback to local zone, got %v", cfg.Location())
	}
}
