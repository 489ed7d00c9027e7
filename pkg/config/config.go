package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

const (
	ModeLive        = "live"
	ModeDevelopment = "development"
)

type RetryConfig struct {
	Attempts  int           `yaml:"attempts" default:"3"`
	BaseDelay time.Duration `yaml:"base_delay" default:"200ms"`
	MaxDelay  time.Duration `yaml:"max_delay" default:"2s"`
}

type ProviderConfig struct {
	Enabled    bool          `yaml:"enabled" default:"true"`
	BaseURL    string        `yaml:"base_url"`
	Token      string        `yaml:"token"`
	UserAgent  string        `yaml:"user_agent" default:"Mozilla/5.0 (compatible; fundamentals-engine/1.0)"`
	Timeout    time.Duration `yaml:"timeout" default:"10s"`
	RatePerSec float64       `yaml:"rate_per_sec" default:"5"`
	Burst      int           `yaml:"burst" default:"5"`
	Retry      RetryConfig   `yaml:"retry"`
}

type Config struct {
	Environment string `yaml:"environment" default:"local"`
	// Mode "live" never produces synthetic data; "development" allows the
	// fixture fallback when every provider fails and no stale entry exists.
	Mode   string `yaml:"mode" default:"live"`
	Server struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"45s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Providers struct {
		Yahoo        ProviderConfig `yaml:"yahoo"`
		Brapi        ProviderConfig `yaml:"brapi"`
		StatusInvest ProviderConfig `yaml:"statusinvest"`
	} `yaml:"providers"`
	Aggregation struct {
		FanoutTimeout time.Duration `yaml:"fanout_timeout" default:"30s"`
	} `yaml:"aggregation"`
	Cache struct {
		Backend         string        `yaml:"backend" default:"memory"`
		SnapshotTTL     time.Duration `yaml:"snapshot_ttl" default:"15m"`
		PeersTTL        time.Duration `yaml:"peers_ttl" default:"15m"`
		QuoteTTL        time.Duration `yaml:"quote_ttl" default:"1m"`
		FundamentalsTTL time.Duration `yaml:"fundamentals_ttl" default:"10m"`
		HistoricalTTL   time.Duration `yaml:"historical_ttl" default:"10m"`
		StaleRetention  time.Duration `yaml:"stale_retention" default:"24h"`
		MaxEntries      int           `yaml:"max_entries" default:"5000"`
		CleanupInterval time.Duration `yaml:"cleanup_interval" default:"5m"`
		Redis           struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"fundamentals"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Peers struct {
		MaxPeers      int    `yaml:"max_peers" default:"5"`
		Concurrency   int    `yaml:"concurrency" default:"4"`
		DefaultSector string `yaml:"default_sector" default:"default"`
	} `yaml:"peers"`
	Warmup struct {
		Enabled  bool     `yaml:"enabled"`
		Schedule string   `yaml:"schedule" default:"@every 10m"`
		Tickers  []string `yaml:"tickers"`
	} `yaml:"warmup"`
	Kafka struct {
		Enabled           bool          `yaml:"enabled"`
		Brokers           []string      `yaml:"brokers"`
		EventsTopic       string        `yaml:"events_topic" default:"fundamentals.snapshot.refreshed"`
		InvalidationTopic string        `yaml:"invalidation_topic" default:"fundamentals.cache.invalidate"`
		GroupID           string        `yaml:"group_id" default:"fundamentals-engine"`
		WriteTimeout      time.Duration `yaml:"write_timeout" default:"5s"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled     bool          `yaml:"enabled"`
		Host        string        `yaml:"host" default:"localhost"`
		Port        int           `yaml:"port" default:"9000"`
		Database    string        `yaml:"database" default:"fundamentals"`
		User        string        `yaml:"user" default:"default"`
		Password    string        `yaml:"password"`
		Table       string        `yaml:"table" default:"snapshots"`
		DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
	} `yaml:"clickhouse"`
	RateLimit struct {
		Capacity     float64 `yaml:"capacity" default:"20"`
		RefillPerSec float64 `yaml:"refill_per_sec" default:"5"`
	} `yaml:"ratelimit"`
}

// Default returns a config populated only from struct defaults.
func Default() *Config {
	c := &Config{}
	if err := defaults.Set(c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	c.applyProviderDefaults()
	return c
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes on top of the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// ApplyEnv overrides fields from the environment lookup function.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := getenv("APP_MODE"); v != "" {
		c.Mode = v
	}
	if v := getenv("HTTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("BRAPI_TOKEN"); v != "" {
		c.Providers.Brapi.Token = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
}

// LiveDataRequired reports whether synthetic fallback is forbidden.
func (c *Config) LiveDataRequired() bool {
	return c.Mode != ModeDevelopment
}

func (c *Config) applyProviderDefaults() {
	if c.Providers.Yahoo.BaseURL == "" {
		c.Providers.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Providers.Brapi.BaseURL == "" {
		c.Providers.Brapi.BaseURL = "https://brapi.dev"
	}
	if c.Providers.StatusInvest.BaseURL == "" {
		c.Providers.StatusInvest.BaseURL = "https://statusinvest.com.br"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mode != ModeLive && c.Mode != ModeDevelopment {
		return fmt.Errorf("mode must be '%s' or '%s', got '%s'", ModeLive, ModeDevelopment, c.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Cache.SnapshotTTL <= 0 {
		return fmt.Errorf("cache.snapshot_ttl must be positive")
	}
	for name, p := range map[string]ProviderConfig{
		"yahoo":        c.Providers.Yahoo,
		"brapi":        c.Providers.Brapi,
		"statusinvest": c.Providers.StatusInvest,
	} {
		if p.Enabled && p.BaseURL == "" {
			return fmt.Errorf("providers.%s.base_url is required", name)
		}
		if p.Retry.Attempts < 1 {
			return fmt.Errorf("providers.%s.retry.attempts must be >= 1", name)
		}
	}
	if !c.Providers.Yahoo.Enabled {
		return fmt.Errorf("providers.yahoo must be enabled: it is the primary quote source")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Warmup.Enabled && len(c.Warmup.Tickers) == 0 {
		return fmt.Errorf("warmup.tickers cannot be empty when warmup is enabled")
	}
	if c.Peers.MaxPeers < 1 {
		return fmt.Errorf("peers.max_peers must be >= 1")
	}
	return nil
}
