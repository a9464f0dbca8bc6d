// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using AppLoad().
type AppConfig struct {
	// ServerPort is the HTTP listen port of the dashboard.
	ServerPort string

	// DataDir holds persisted preferences (the theme).
	DataDir string

	// DefaultLanguage is the UI language every process starts with.
	DefaultLanguage string

	// DisplayTimezone is the IANA zone used for chart labels. "Local" uses the host zone.
	DisplayTimezone string

	// LogLevel is a logrus level name.
	LogLevel string

	// PollInterval is the list and detail re-fetch period.
	PollInterval time.Duration

	// ScreenIdle is how long an unused browser screen keeps its controllers alive.
	ScreenIdle time.Duration

	// Coingecko contains provider settings.
	Coingecko CoingeckoConfig

	// Kafka contains the optional snapshot publisher settings.
	Kafka KafkaConfig
}

// CoingeckoConfig holds CoinGecko API client settings.
type CoingeckoConfig struct {
	// BaseURL is the API root, without trailing slash.
	BaseURL string

	// APIKey is sent as x-cg-demo-api-key when set.
	APIKey string

	// RequestTimeout bounds every provider request.
	RequestTimeout time.Duration

	// RequestsPerSecond spaces requests out. Zero disables the limiter.
	RequestsPerSecond float64
}

// KafkaConfig holds Kafka connection settings for market snapshots.
type KafkaConfig struct {
	// Broker is the Kafka broker address (e.g., "localhost:9092"). Empty disables publishing.
	Broker string

	// Topic is the Kafka topic for market snapshots.
	Topic string
}

// Enabled reports whether a broker is configured.
func (k KafkaConfig) Enabled() bool {
	return k.Broker != ""
}

// AppLoad loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup.
func AppLoad() *AppConfig {
	_ = godotenv.Load() // Ignore error - .env is optional

	return &AppConfig{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		DataDir:         getEnv("DATA_DIR", "./data"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		DisplayTimezone: getEnv("DISPLAY_TIMEZONE", "Local"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		PollInterval:    time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 60)) * time.Second,
		ScreenIdle:      time.Duration(getEnvInt("SCREEN_IDLE_MINUTES", 15)) * time.Minute,
		Coingecko: CoingeckoConfig{
			BaseURL:           getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
			APIKey:            getEnv("COINGECKO_API_KEY", ""),
			RequestTimeout:    time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
			RequestsPerSecond: getEnvFloat("REQUESTS_PER_SECOND", 0),
		},
		Kafka: KafkaConfig{
			Broker: getEnv("KAFKA_BROKER", ""),
			Topic:  getEnv("KAFKA_TOPIC", "coinboard_markets"),
		},
	}
}

// Location resolves DisplayTimezone, falling back to the host zone.
func (c *AppConfig) Location() *time.Location {
	if c.DisplayTimezone == "" || c.DisplayTimezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
