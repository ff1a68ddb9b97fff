package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"CagrSentinel/internal/backtest"
)

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Server struct {
		Port        int   `yaml:"port"`
		MaxUploadMB int64 `yaml:"max_upload_mb"`
	} `yaml:"server"`
	Backtest backtest.Params `yaml:"backtest"`
	Ingest   struct {
		Sheet       string `yaml:"sheet"`
		SkipRows    int    `yaml:"skip_rows"`
		DateColumn  string `yaml:"date_column"`
		CloseColumn string `yaml:"close_column"`
	} `yaml:"ingest"`
	Schedule struct {
		SweepCron    string `yaml:"sweep_cron"`
		InboxDir     string `yaml:"inbox_dir"`
		ProcessedDir string `yaml:"processed_dir"`
		FailedDir    string `yaml:"failed_dir"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	OutputDir string `yaml:"output_dir"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides. Backtest fields missing from the file keep their
// stock defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{Backtest: backtest.DefaultParams()}
	cfg.Ingest.SkipRows = -1

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Pretty = b
		}
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HOLDING_PERIOD"); v != "" {
		if h, err := strconv.Atoi(v); err == nil {
			cfg.Backtest.HoldingPeriod = h
		}
	}
	if v := os.Getenv("STARTING_CAPITAL"); v != "" {
		if c, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Backtest.StartingCapital = c
		}
	}
	if v := os.Getenv("SWEEP_CRON"); v != "" {
		cfg.Schedule.SweepCron = v
	}
	if v := os.Getenv("INBOX_DIR"); v != "" {
		cfg.Schedule.InboxDir = v
	}

	// Defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 32
	}
	if cfg.Ingest.Sheet == "" {
		cfg.Ingest.Sheet = "Sheet1"
	}
	if cfg.Ingest.SkipRows < 0 {
		cfg.Ingest.SkipRows = 2
	}
	if cfg.Ingest.DateColumn == "" {
		cfg.Ingest.DateColumn = "Date"
	}
	if cfg.Ingest.CloseColumn == "" {
		cfg.Ingest.CloseColumn = "Close"
	}
	if cfg.Schedule.SweepCron == "" {
		cfg.Schedule.SweepCron = "0 */5 * * * *"
	}
	if cfg.Schedule.InboxDir == "" {
		cfg.Schedule.InboxDir = "data/inbox"
	}
	if cfg.Schedule.ProcessedDir == "" {
		cfg.Schedule.ProcessedDir = "data/processed"
	}
	if cfg.Schedule.FailedDir == "" {
		cfg.Schedule.FailedDir = "data/failed"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}

	return cfg, nil
}

// Validate checks that all required fields are usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if err := c.Backtest.Validate(); err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	return nil
}
