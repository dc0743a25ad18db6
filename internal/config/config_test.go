package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"

[data]
lob_path = "data/lob.csv"

[strategy]
name = "mean_reversion"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Fatalf("log_level = %q", cfg.LogLevel)
	}
	if cfg.Strategy.Name != "mean_reversion" {
		t.Fatalf("strategy = %q", cfg.Strategy.Name)
	}
	// Untouched fields keep their defaults.
	if cfg.Data.Depth != 25 {
		t.Fatalf("depth = %d, want default 25", cfg.Data.Depth)
	}
	if cfg.Backtest.InitialCash != 10_000 {
		t.Fatalf("initial_cash = %v, want default 10000", cfg.Backtest.InitialCash)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[data]
lob_path = "data/lob.csv"
`)

	t.Setenv("LOBTEST_STRATEGY_NAME", "mean_reversion")
	t.Setenv("LOBTEST_DATA_DEPTH", "10")
	t.Setenv("LOBTEST_BACKTEST_INITIAL_CASH", "500.5")
	t.Setenv("LOBTEST_POSTGRES_ENABLED", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Strategy.Name != "mean_reversion" {
		t.Fatalf("strategy = %q", cfg.Strategy.Name)
	}
	if cfg.Data.Depth != 10 {
		t.Fatalf("depth = %d", cfg.Data.Depth)
	}
	if cfg.Backtest.InitialCash != 500.5 {
		t.Fatalf("initial_cash = %v", cfg.Backtest.InitialCash)
	}
	if !cfg.Postgres.Enabled {
		t.Fatal("postgres.enabled override ignored")
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "verbose"
	cfg.Data.LOBPath = ""
	cfg.Strategy.Size = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	for _, want := range []string{"log_level", "lob_path", "size"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}

func TestValidateS3Paths(t *testing.T) {
	cfg := Defaults()
	cfg.Data.LOBPath = "s3://bucket/lob.csv"

	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "s3.enabled") {
		t.Fatalf("err = %v, want s3.enabled complaint", err)
	}

	cfg.S3.Enabled = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate with s3 enabled: %v", err)
	}
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Data.LOBPath = "data/lob.csv"
	cfg.Postgres.Password = "hunter2"
	cfg.S3.SecretKey = "secret"

	red := RedactedConfig(&cfg)
	if red.Postgres.Password != "***" || red.S3.SecretKey != "***" {
		t.Fatalf("secrets not redacted: %+v", red)
	}
	if red.Postgres.User != cfg.Postgres.User {
		t.Fatal("non-secret field changed")
	}
	// Original untouched.
	if cfg.Postgres.Password != "hunter2" {
		t.Fatal("redaction mutated the source config")
	}
}
