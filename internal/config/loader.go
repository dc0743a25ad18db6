package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies LOBTEST_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known LOBTEST_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Data ──
	setStr(&cfg.Data.LOBPath, "LOBTEST_DATA_LOB_PATH")
	setStr(&cfg.Data.TradesPath, "LOBTEST_DATA_TRADES_PATH")
	setInt(&cfg.Data.Depth, "LOBTEST_DATA_DEPTH")

	// ── Backtest ──
	setFloat64(&cfg.Backtest.InitialCash, "LOBTEST_BACKTEST_INITIAL_CASH")
	setFloat64(&cfg.Backtest.InitialAsset, "LOBTEST_BACKTEST_INITIAL_ASSET")

	// ── Strategy ──
	setStr(&cfg.Strategy.Name, "LOBTEST_STRATEGY_NAME")
	setFloat64(&cfg.Strategy.Size, "LOBTEST_STRATEGY_SIZE")
	setInt(&cfg.Strategy.MeanReversion.Window, "LOBTEST_STRATEGY_MEAN_REVERSION_WINDOW")
	setFloat64(&cfg.Strategy.MeanReversion.Threshold, "LOBTEST_STRATEGY_MEAN_REVERSION_THRESHOLD")

	// ── Postgres ──
	setBool(&cfg.Postgres.Enabled, "LOBTEST_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "LOBTEST_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "LOBTEST_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "LOBTEST_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "LOBTEST_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "LOBTEST_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "LOBTEST_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "LOBTEST_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "LOBTEST_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "LOBTEST_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "LOBTEST_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "LOBTEST_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "LOBTEST_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "LOBTEST_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "LOBTEST_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "LOBTEST_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "LOBTEST_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "LOBTEST_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "LOBTEST_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "LOBTEST_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "LOBTEST_S3_REGION")
	setStr(&cfg.S3.Bucket, "LOBTEST_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "LOBTEST_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "LOBTEST_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "LOBTEST_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "LOBTEST_S3_FORCE_PATH_STYLE")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "LOBTEST_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
