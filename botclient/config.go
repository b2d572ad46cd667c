package botclient

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds bot client configuration. Values come from a YAML file when
// one is given, with environment variables taking precedence.
type Config struct {
	ServerURL          string                 `yaml:"server_url"`
	BotID              string                 `yaml:"bot_id"`
	Name               string                 `yaml:"name"`
	PollIntervalSec    int                    `yaml:"poll_interval_sec"`
	PollLimit          int                    `yaml:"poll_limit"`
	StatusIntervalSec  int                    `yaml:"status_interval_sec"`
	Metadata           map[string]interface{} `yaml:"metadata"`
}

// LoadConfig reads configPath (optional) and applies env overrides.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		PollIntervalSec:   3,
		PollLimit:         10,
		StatusIntervalSec: 30,
	}

	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("BOT_ID"); v != "" {
		cfg.BotID = v
	}
	if v := os.Getenv("BOT_NAME"); v != "" {
		cfg.Name = v
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:5000"
	}
	if cfg.BotID == "" {
		return nil, fmt.Errorf("bot_id must be set")
	}
	if cfg.Name == "" {
		cfg.Name = cfg.BotID
	}
	if cfg.PollIntervalSec <= 0 {
		cfg.PollIntervalSec = 3
	}
	if cfg.PollLimit <= 0 {
		cfg.PollLimit = 10
	}
	if cfg.StatusIntervalSec <= 0 {
		cfg.StatusIntervalSec = 30
	}

	return cfg, nil
}
