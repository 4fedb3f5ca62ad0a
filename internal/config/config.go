package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port       int
	LogLevel   string
	LogFormat  string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	APIKey     string // API key for command-surface authentication

	// Current league season; commands default to it when unset
	Season int

	// Result ingestion
	ResultsAPIBase  string        // primary structured result source
	FallbackPageURL string        // scraped fallback source
	FetchTimeout    time.Duration // per-request bound on external fetches
	FetchRetries    int           // fixed small retry count

	// Scheduling
	PollInterval        time.Duration // results poll cadence
	PlayoffPollInterval time.Duration // playoff-results poll cadence
	ReminderInterval    time.Duration // reminder sweep cadence

	// Wager lifecycle
	DisputeWindow time.Duration // window after settlement in which dispute is allowed

	// Discord notifications; reminders stay in-process only when unset
	DiscordToken     string
	PaymentChannelID string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBName:          getEnv("DB_NAME", "ledgerbot"),
		APIKey:          getEnv("API_KEY", ""),
		ResultsAPIBase:  getEnv("RESULTS_API_BASE", ""),
		FallbackPageURL: getEnv("RESULTS_FALLBACK_URL", ""),

		DiscordToken:     getEnv("DISCORD_TOKEN", ""),
		PaymentChannelID: getEnv("PAYMENT_CHANNEL_ID", ""),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.Season, err = getEnvInt("LEAGUE_SEASON", time.Now().Year()); err != nil {
		return nil, err
	}
	if cfg.FetchRetries, err = getEnvInt("FETCH_RETRIES", 3); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getEnvDuration("FETCH_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = getEnvDuration("POLL_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.PlayoffPollInterval, err = getEnvDuration("PLAYOFF_POLL_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.ReminderInterval, err = getEnvDuration("REMINDER_INTERVAL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.DisputeWindow, err = getEnvDuration("DISPUTE_WINDOW", 72*time.Hour); err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
