package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		RateLimit       struct {
			Enabled      bool    `yaml:"enabled"`
			Burst        float64 `yaml:"burst"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Metrics struct {
		Enabled       bool          `yaml:"enabled"`
		Path          string        `yaml:"path"`
		SlowThreshold time.Duration `yaml:"slow_threshold"`
	} `yaml:"metrics"`
	Engine struct {
		Bankroll        string  `yaml:"bankroll"`
		MinBankroll     string  `yaml:"min_bankroll"`
		Profile         string  `yaml:"profile"`
		MaxRisk         float64 `yaml:"max_risk"`
		JournalPath     string  `yaml:"journal_path"`
		HistoryCapacity int     `yaml:"history_capacity"`
		Thresholds      struct {
			Low    float64 `yaml:"low"`
			Medium float64 `yaml:"medium"`
			High   float64 `yaml:"high"`
		} `yaml:"thresholds"`
	} `yaml:"engine"`
	Feed struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"feed"`
	Kafka struct {
		Enabled    bool     `yaml:"enabled"`
		Brokers    []string `yaml:"brokers"`
		WagerTopic string   `yaml:"wager_topic"`
		Producer   struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Settlements struct {
			Topic      string        `yaml:"topic"`
			GroupID    string        `yaml:"group_id"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"settlements"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		Table            string        `yaml:"table"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("BANKROLL"); v != "" {
		c.Engine.Bankroll = v
	}
	if v := os.Getenv("RISK_PROFILE"); v != "" {
		c.Engine.Profile = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Engine.MinBankroll == "" {
		c.Engine.MinBankroll = "100"
	}
	if c.Engine.Profile == "" {
		c.Engine.Profile = "balanced"
	}
	if c.Engine.MaxRisk == 0 {
		c.Engine.MaxRisk = 0.35
	}
	if c.Engine.JournalPath == "" {
		c.Engine.JournalPath = "bets.jsonl"
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = 10
		c.Server.RateLimit.RefillPerSec = 5
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.SlowThreshold == 0 {
		c.Metrics.SlowThreshold = 500 * time.Millisecond
	}
	if c.ClickHouse.Table == "" {
		c.ClickHouse.Table = "wagers"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Engine.Bankroll == "" {
		return fmt.Errorf("engine.bankroll is required")
	}
	if c.Engine.Profile != "balanced" && c.Engine.Profile != "aggressive" && c.Engine.Profile != "custom" {
		return fmt.Errorf("engine.profile must be 'balanced', 'aggressive' or 'custom', got '%s'", c.Engine.Profile)
	}
	if c.Engine.Profile == "custom" && c.Engine.Thresholds.High == 0 {
		return fmt.Errorf("engine.thresholds is required for the custom profile")
	}
	if c.Engine.MaxRisk <= 0 || c.Engine.MaxRisk > 1 {
		return fmt.Errorf("engine.max_risk must be in (0, 1], got %v", c.Engine.MaxRisk)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	return nil
}
