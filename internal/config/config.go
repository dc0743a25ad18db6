// Package config defines the top-level configuration for the backtester and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by LOBTEST_* environment
// variables.
type Config struct {
	Data     DataConfig     `toml:"data"`
	Backtest BacktestConfig `toml:"backtest"`
	Strategy StrategyConfig `toml:"strategy"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	LogLevel string         `toml:"log_level"`
}

// DataConfig holds the input dataset locations. Paths may be local files or
// s3:// keys resolved against the configured bucket.
type DataConfig struct {
	LOBPath    string `toml:"lob_path"`
	TradesPath string `toml:"trades_path"`
	Depth      int    `toml:"depth"`
}

// BacktestConfig holds the run parameters.
type BacktestConfig struct {
	InitialCash  float64 `toml:"initial_cash"`
	InitialAsset float64 `toml:"initial_asset"`
}

// StrategyConfig selects and parameterizes the strategy under test.
type StrategyConfig struct {
	Name string  `toml:"name"`
	Size float64 `toml:"size"`

	MeanReversion MeanReversionConfig `toml:"mean_reversion"`
}

// MeanReversionConfig holds parameters for the mean_reversion strategy.
type MeanReversionConfig struct {
	Window    int     `toml:"window"`
	Threshold float64 `toml:"threshold"`
}

// PostgresConfig holds PostgreSQL connection parameters for run persistence.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters for the run summary cache.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for datasets and
// run artifacts.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// Defaults returns a Config populated with reasonable default values. These
// match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Data: DataConfig{
			Depth: 25,
		},
		Backtest: BacktestConfig{
			InitialCash:  10_000,
			InitialAsset: 0,
		},
		Strategy: StrategyConfig{
			Name: "replay",
			Size: 1.0,
			MeanReversion: MeanReversionConfig{
				Window:    50,
				Threshold: 2.0,
			},
		},
		Postgres: PostgresConfig{
			Enabled:       false,
			Host:          "localhost",
			Port:          5432,
			Database:      "lobtest",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "lobtest-data",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Data
	if c.Data.LOBPath == "" {
		errs = append(errs, "data: lob_path must not be empty")
	}
	if c.Data.Depth <= 0 {
		errs = append(errs, fmt.Sprintf("data: depth must be > 0, got %d", c.Data.Depth))
	}
	if !c.S3.Enabled {
		if strings.HasPrefix(c.Data.LOBPath, "s3://") || strings.HasPrefix(c.Data.TradesPath, "s3://") {
			errs = append(errs, "data: s3:// paths require s3.enabled = true")
		}
	}

	// Backtest
	if c.Backtest.InitialCash < 0 {
		errs = append(errs, "backtest: initial_cash must be >= 0")
	}
	if c.Backtest.InitialAsset < 0 {
		errs = append(errs, "backtest: initial_asset must be >= 0")
	}
	if c.Backtest.InitialCash == 0 && c.Backtest.InitialAsset == 0 {
		errs = append(errs, "backtest: initial_cash and initial_asset must not both be zero")
	}

	// Strategy
	if c.Strategy.Name == "" {
		errs = append(errs, "strategy: name must not be empty")
	}
	if c.Strategy.Size <= 0 {
		errs = append(errs, "strategy: size must be > 0")
	}
	if c.Strategy.MeanReversion.Window < 2 {
		errs = append(errs, "strategy: mean_reversion.window must be >= 2")
	}
	if c.Strategy.MeanReversion.Threshold <= 0 {
		errs = append(errs, "strategy: mean_reversion.threshold must be > 0")
	}

	// Postgres
	if c.Postgres.Enabled {
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns < 0 {
			errs = append(errs, "postgres: pool_min_conns must be >= 0")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// S3
	if c.S3.Enabled {
		if c.S3.Endpoint == "" {
			errs = append(errs, "s3: endpoint must not be empty")
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
