package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type config struct {
	Models   string
	Indent   int
	LogLevel slog.Level
}

// loadConfig reads .env (when present) and the JSONMODELS_* variables. Flags
// override the result per command.
func loadConfig() config {
	_ = godotenv.Load()

	cfg := config{
		Models:   strings.TrimSpace(os.Getenv("JSONMODELS_MODELS")),
		Indent:   2,
		LogLevel: slog.LevelWarn,
	}
	if raw := strings.TrimSpace(os.Getenv("JSONMODELS_INDENT")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			cfg.Indent = n
		}
	}
	if raw := strings.TrimSpace(os.Getenv("JSONMODELS_LOG_LEVEL")); raw != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(raw)); err == nil {
			cfg.LogLevel = lvl
		}
	}
	return cfg
}
