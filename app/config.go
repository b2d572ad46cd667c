package app

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort         string
	TokenSecret        string
	TokenExpirationSec int64
	MaxLogs            int
	MaxMessages        int
	MaxCommandsPerBot  int
	BroadcastQueueSize int
	BroadcastWait      time.Duration
	SubscriberBuffer   int
	CORSOrigins        []string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "5000"),
		TokenSecret:        getEnv("BOT_TOKEN_SECRET", "change-me-in-production"),
		TokenExpirationSec: 86400, // 24 hours
		MaxLogs:            getEnvInt("MAX_LOGS", 500),
		MaxMessages:        getEnvInt("MAX_MESSAGES", 500),
		MaxCommandsPerBot:  getEnvInt("MAX_COMMANDS_PER_BOT", 200),
		BroadcastQueueSize: getEnvInt("BROADCAST_QUEUE_SIZE", 256),
		BroadcastWait:      50 * time.Millisecond,
		SubscriberBuffer:   getEnvInt("SUBSCRIBER_BUFFER", 64),
		CORSOrigins:        []string{"http://localhost:5173", "http://localhost:3000", "http://127.0.0.1:5173"},
	}

	if cfg.TokenSecret == "change-me-in-production" {
		return nil, fmt.Errorf("BOT_TOKEN_SECRET must be set")
	}
	if cfg.MaxLogs <= 0 || cfg.MaxMessages <= 0 || cfg.MaxCommandsPerBot <= 0 {
		return nil, fmt.Errorf("capacity limits must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}
