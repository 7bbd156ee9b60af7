package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-markvis/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string        // MARKVIS_CONFIG: config file name or path
	Addr         string        // MARKVIS_ADDR: server listen address
	LogLevel     string        // MARKVIS_LOG_LEVEL: debug, info, warn, error
	Model        string        // MARKVIS_MODEL: hosted model name
	Workers      int           // MARKVIS_WORKERS: browser pool size
	Timeout      time.Duration // MARKVIS_TIMEOUT: PDF export timeout
	DocumentName string        // MARKVIS_DOCUMENT_NAME: default export name
}

// knownEnvVars lists valid MARKVIS_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MARKVIS_CONFIG":        true,
	"MARKVIS_ADDR":          true,
	"MARKVIS_LOG_LEVEL":     true,
	"MARKVIS_MODEL":         true,
	"MARKVIS_WORKERS":       true,
	"MARKVIS_TIMEOUT":       true,
	"MARKVIS_DOCUMENT_NAME": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:   getenv("MARKVIS_CONFIG"),
		Addr:         getenv("MARKVIS_ADDR"),
		LogLevel:     getenv("MARKVIS_LOG_LEVEL"),
		Model:        getenv("MARKVIS_MODEL"),
		DocumentName: getenv("MARKVIS_DOCUMENT_NAME"),
	}

	if timeout := getenv("MARKVIS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("MARKVIS_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized MARKVIS_* variables.
// Helps catch typos like MARKVIS_WORKER instead of MARKVIS_WORKERS.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, "MARKVIS_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with the environment variables
// that are set. Flags are applied afterwards, giving
// flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.Model != "" {
		cfg.Enhancement.Model = env.Model
	}
	if env.Workers > 0 {
		cfg.Export.Workers = env.Workers
	}
	if env.Timeout > 0 {
		cfg.Export.Timeout = env.Timeout
	}
	if env.DocumentName != "" {
		cfg.Document.DefaultName = env.DocumentName
	}
}
