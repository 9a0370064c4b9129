package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Ranking engine
	Engine EngineConfig

	// Sentiment feed (news/LLM collaborator)
	SentimentFeed SentimentFeedConfig

	// Scheduler cron expressions (with seconds field)
	Schedule ScheduleConfig

	// Strategy file (windows, weights, thresholds); empty = built-in defaults
	StrategyPath string

	// Export directory for ranking JSON dumps
	ExportDir string

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// EngineConfig holds knobs for the scoring batch
type EngineConfig struct {
	MaxWorkers   int           // bounded worker pool size for per-ticker scoring
	MinBars      int           // minimum bars a series must have before it is usable
	LookbackDays int           // bars requested per ticker for indicator windows
	ReadTimeout  time.Duration // per-read deadline on the price store
	ReadsPerSec  float64       // shared rate limit on price store reads
}

// SentimentFeedConfig holds the collaborator feed settings
type SentimentFeedConfig struct {
	URL     string
	Enabled bool
	Timeout time.Duration
}

// ScheduleConfig holds cron expressions for the daily jobs
type ScheduleConfig struct {
	SentimentFeed string
	Ranking       string
	Outcomes      string
}

// Load reads configuration from environment variables
// ⭐ SSOT: this is the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		Engine: EngineConfig{
			MaxWorkers:   getEnvAsInt("ENGINE_MAX_WORKERS", 8),
			MinBars:      getEnvAsInt("ENGINE_MIN_BARS", 50),
			LookbackDays: getEnvAsInt("ENGINE_LOOKBACK_DAYS", 120),
			ReadTimeout:  getEnvAsDuration("ENGINE_READ_TIMEOUT", "5s"),
			ReadsPerSec:  getEnvAsFloat("ENGINE_READS_PER_SEC", 50),
		},

		SentimentFeed: SentimentFeedConfig{
			URL:     getEnv("SENTIMENT_FEED_URL", ""),
			Enabled: getEnvAsBool("SENTIMENT_FEED_ENABLED", false),
			Timeout: getEnvAsDuration("SENTIMENT_FEED_TIMEOUT", "30s"),
		},

		Schedule: ScheduleConfig{
			SentimentFeed: getEnv("SCHEDULE_SENTIMENT_FEED", "0 0 16 * * 1-5"),
			Ranking:       getEnv("SCHEDULE_RANKING", "0 30 16 * * 1-5"),
			Outcomes:      getEnv("SCHEDULE_OUTCOMES", "0 0 18 * * 1-5"),
		},

		StrategyPath: getEnv("STRATEGY_CONFIG_PATH", ""),
		ExportDir:    getEnv("EXPORT_DIR", "exports"),

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Engine.MaxWorkers < 1 {
		return fmt.Errorf("ENGINE_MAX_WORKERS must be >= 1")
	}

	// Two closes are the floor for a single daily return
	if c.Engine.MinBars < 2 {
		return fmt.Errorf("ENGINE_MIN_BARS must be >= 2")
	}

	if c.Engine.LookbackDays < c.Engine.MinBars {
		return fmt.Errorf("ENGINE_LOOKBACK_DAYS must be >= ENGINE_MIN_BARS")
	}

	if c.Engine.ReadTimeout <= 0 {
		return fmt.Errorf("ENGINE_READ_TIMEOUT must be positive")
	}

	if c.SentimentFeed.Enabled && c.SentimentFeed.URL == "" {
		return fmt.Errorf("SENTIMENT_FEED_URL is required when the feed is enabled")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
