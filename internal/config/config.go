package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NewRelic  NewRelicConfig
	Store     StoreConfig
	Kafka     KafkaConfig
	Log       LogConfig
	Ride      RideConfig
	Assistant AssistantConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// StoreConfig selects where the session state is persisted.
type StoreConfig struct {
	Backend string
}

// KafkaConfig holds the lifecycle event sink configuration.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level string
}

// RideConfig holds the simulated delays of rides, chat and onboarding.
type RideConfig struct {
	MatchDelay    time.Duration
	TickInterval  time.Duration
	GreetingDelay time.Duration
	TypingDelay   time.Duration
	PhotoUpload   time.Duration
	DocumentScan  time.Duration
	ScanConfirm   time.Duration
}

// AssistantConfig holds fare estimation and assistant settings.
type AssistantConfig struct {
	Timeout          time.Duration
	QuoteTTL         time.Duration
	LowTraffic       float64
	MediumTraffic    float64
	HighTraffic      float64
	MaxTrafficFactor float64
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "campusride"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "campusride-service"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		},
		Kafka: KafkaConfig{
			Enabled:      getBoolEnv("KAFKA_ENABLED", false),
			Brokers:      strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:        getEnv("KAFKA_TOPIC", "campusride.notifications"),
			WriteTimeout: getDurationEnv("KAFKA_WRITE_TIMEOUT", 5*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Ride: RideConfig{
			MatchDelay:    getDurationEnv("RIDE_MATCH_DELAY", 4*time.Second),
			TickInterval:  getDurationEnv("RIDE_TICK_INTERVAL", 500*time.Millisecond),
			GreetingDelay: getDurationEnv("CHAT_GREETING_DELAY", 3*time.Second),
			TypingDelay:   getDurationEnv("CHAT_TYPING_DELAY", 1500*time.Millisecond),
			PhotoUpload:   getDurationEnv("ONBOARDING_UPLOAD_DELAY", 800*time.Millisecond),
			DocumentScan:  getDurationEnv("ONBOARDING_SCAN_DELAY", 2500*time.Millisecond),
			ScanConfirm:   getDurationEnv("ONBOARDING_CONFIRM_DELAY", 1200*time.Millisecond),
		},
		Assistant: AssistantConfig{
			Timeout:          getDurationEnv("ASSISTANT_TIMEOUT", 5*time.Second),
			QuoteTTL:         getDurationEnv("ASSISTANT_QUOTE_TTL", 10*time.Minute),
			LowTraffic:       getFloatEnv("TRAFFIC_LOW_MULTIPLIER", 1.0),
			MediumTraffic:    getFloatEnv("TRAFFIC_MEDIUM_MULTIPLIER", 1.25),
			HighTraffic:      getFloatEnv("TRAFFIC_HIGH_MULTIPLIER", 1.5),
			MaxTrafficFactor: getFloatEnv("TRAFFIC_MAX_MULTIPLIER", 2.0),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
