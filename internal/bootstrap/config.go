package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/target/xstats/config"
)

// logLevel is shared by every logger InitLogger builds, so LOG_LEVEL can be
// applied once configuration has loaded.
var logLevel = new(slog.LevelVar) //nolint:gochecknoglobals // process-wide logger level

// InitLogger installs a JSON logger on stdout as the slog default.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return logger
}

func ApplyLogConfig(cfg config.LogConfig) {
	logLevel.Set(cfg.SlogLevel())
}

// LoadConfig reads an optional .env file, then the process environment.
// Variables already set in the environment win over .env entries.
func LoadConfig() (config.AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, cfg.Validate()
}
