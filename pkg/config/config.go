package config

import (
	"fmt"
	"os"
	"strconv"
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
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Dataset struct {
		Seed          uint64  `yaml:"seed"`
		Days          int     `yaml:"days"`
		StartDate     string  `yaml:"start_date"`
		SalesMean     float64 `yaml:"sales_mean"`
		SalesStd      float64 `yaml:"sales_std"`
		UsersLambda   float64 `yaml:"users_lambda"`
		ConversionMin float64 `yaml:"conversion_min"`
		ConversionMax float64 `yaml:"conversion_max"`
	} `yaml:"dataset"`
	Sessions struct {
		TTL             time.Duration `yaml:"ttl"`
		CleanupInterval time.Duration `yaml:"cleanup_interval"`
		Max             int           `yaml:"max"`
	} `yaml:"sessions"`
	Stream struct {
		CoalesceWindow  time.Duration `yaml:"coalesce_window"`
		MaxEventsPerSec int           `yaml:"max_events_per_sec"`
		PingInterval    time.Duration `yaml:"ping_interval"`
	} `yaml:"stream"`
	Cache struct {
		ViewTTL    time.Duration `yaml:"view_ttl"`
		MaxEntries int           `yaml:"max_entries"`
	} `yaml:"cache"`
}

// Default returns a configuration that runs the dashboard with the built-in
// dataset and no external file.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
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

// LoadWithEnv loads config from YAML and overrides with environment
// variables. An empty path skips the file and starts from defaults.
func LoadWithEnv(path string) (*Config, error) {
	var c *Config
	if path == "" {
		c = Default()
	} else {
		var err error
		c, err = Load(path)
		if err != nil {
			return nil, err
		}
	}

	// Override with environment variables
	if v := os.Getenv("BIZPULSE_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("BIZPULSE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("BIZPULSE_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("BIZPULSE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("BIZPULSE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("BIZPULSE_DATASET_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("BIZPULSE_DATASET_SEED: %w", err)
		}
		c.Dataset.Seed = seed
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// applyDefaults fills zero-value fields. Every knob has a default so an
// empty file is a valid configuration.
func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Enabled = true
		c.Metrics.Path = "/metrics"
	}
	if c.Dataset.Seed == 0 {
		c.Dataset.Seed = 123
	}
	if c.Dataset.Days == 0 {
		c.Dataset.Days = 100
	}
	if c.Dataset.StartDate == "" {
		c.Dataset.StartDate = "2023-01-01"
	}
	if c.Dataset.SalesMean == 0 {
		c.Dataset.SalesMean = 1000
	}
	if c.Dataset.SalesStd == 0 {
		c.Dataset.SalesStd = 200
	}
	if c.Dataset.UsersLambda == 0 {
		c.Dataset.UsersLambda = 500
	}
	if c.Dataset.ConversionMin == 0 {
		c.Dataset.ConversionMin = 0.01
	}
	if c.Dataset.ConversionMax == 0 {
		c.Dataset.ConversionMax = 0.05
	}
	if c.Sessions.TTL == 0 {
		c.Sessions.TTL = 30 * time.Minute
	}
	if c.Sessions.CleanupInterval == 0 {
		c.Sessions.CleanupInterval = time.Minute
	}
	if c.Sessions.Max == 0 {
		c.Sessions.Max = 1000
	}
	if c.Stream.CoalesceWindow == 0 {
		c.Stream.CoalesceWindow = 150 * time.Millisecond
	}
	if c.Stream.MaxEventsPerSec == 0 {
		c.Stream.MaxEventsPerSec = 20
	}
	if c.Stream.PingInterval == 0 {
		c.Stream.PingInterval = 30 * time.Second
	}
	if c.Cache.ViewTTL == 0 {
		c.Cache.ViewTTL = 5 * time.Minute
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 256
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Dataset.Days < 1 {
		return fmt.Errorf("dataset.days must be positive, got %d", c.Dataset.Days)
	}
	if c.Dataset.SalesStd < 0 {
		return fmt.Errorf("dataset.sales_std cannot be negative, got %g", c.Dataset.SalesStd)
	}
	if c.Dataset.UsersLambda <= 0 {
		return fmt.Errorf("dataset.users_lambda must be positive, got %g", c.Dataset.UsersLambda)
	}
	if c.Dataset.ConversionMin > c.Dataset.ConversionMax {
		return fmt.Errorf("dataset.conversion_min %g exceeds conversion_max %g",
			c.Dataset.ConversionMin, c.Dataset.ConversionMax)
	}
	if c.Sessions.Max < 1 {
		return fmt.Errorf("sessions.max must be positive, got %d", c.Sessions.Max)
	}
	if c.Stream.MaxEventsPerSec < 1 {
		return fmt.Errorf("stream.max_events_per_sec must be positive, got %d", c.Stream.MaxEventsPerSec)
	}
	return nil
}
