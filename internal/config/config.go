// Package config loads and validates the markvis YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-markvis"
	"github.com/alnah/go-markvis/internal/logging"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxAddrLength        = 256
	MaxOriginLength      = 2048 // Browser limit
	MaxDocumentName      = 200
	MaxModelLength       = 100
	MaxInstructionLength = 2000
	MaxEnvNameLength     = 100
	MaxPathLength        = 4096
	MaxStyleLength       = 100
)

// Defaults.
const (
	DefaultAddr         = "127.0.0.1:8080"
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 2 * time.Minute
	DefaultRPS          = 5.0
	DefaultBurst        = 10
	DefaultSessionTTL   = 2 * time.Hour
	DefaultAPIKeyEnv    = "GEMINI_API_KEY"
	FallbackAPIKeyEnv   = "API_KEY"
	DefaultExportTime   = 30 * time.Second
	DefaultLogLevel     = "info"
	DefaultLogMaxSizeMB = 10
	DefaultLogBackups   = 3
	DefaultLogMaxAge    = 28
)

// Config holds the whole markvis configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Document    DocumentConfig    `yaml:"document"`
	Enhancement EnhancementConfig `yaml:"enhancement"`
	Export      ExportConfig      `yaml:"export"`
	Log         LogConfig         `yaml:"log"`
	Assets      AssetsConfig      `yaml:"assets"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr           string          `yaml:"addr"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"` // Empty = same origin only
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	SessionTTL     time.Duration   `yaml:"sessionTTL"`
}

// RateLimitConfig is a per-client token bucket.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// DocumentConfig defines document defaults.
type DocumentConfig struct {
	DefaultName string `yaml:"defaultName"` // Export base name (default: "document")
}

// EnhancementConfig configures the hosted model.
type EnhancementConfig struct {
	Model       string `yaml:"model"`       // Empty = markvis.DefaultModel
	Instruction string `yaml:"instruction"` // Empty = markvis.DefaultInstruction
	APIKeyEnv   string `yaml:"apiKeyEnv"`   // Env var holding the credential
}

// ExportConfig configures PDF export.
type ExportConfig struct {
	Scale       float64       `yaml:"scale"`       // 2-4 (default: 2)
	JPEGQuality int           `yaml:"jpegQuality"` // 1-100 (default: 98)
	MarginMM    float64       `yaml:"marginMM"`    // 0-50 (default: 10)
	Timeout     time.Duration `yaml:"timeout"`
	Workers     int           `yaml:"workers"` // 0 = auto
}

// LogConfig configures logging.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // Empty = console only
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
	Style    string `yaml:"style"`    // Empty = default style
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	layout := markvis.DefaultPageLayout()
	return &Config{
		Server: ServerConfig{
			Addr:         DefaultAddr,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			RateLimit:    RateLimitConfig{RPS: DefaultRPS, Burst: DefaultBurst},
			SessionTTL:   DefaultSessionTTL,
		},
		Document: DocumentConfig{DefaultName: "document"},
		Enhancement: EnhancementConfig{
			Model:       markvis.DefaultModel,
			Instruction: markvis.DefaultInstruction,
			APIKeyEnv:   DefaultAPIKeyEnv,
		},
		Export: ExportConfig{
			Scale:       layout.Scale,
			JPEGQuality: layout.JPEGQuality,
			MarginMM:    layout.MarginMM,
			Timeout:     DefaultExportTime,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogBackups,
			MaxAgeDays: DefaultLogMaxAge,
		},
	}
}

// Validate checks ranges and field lengths. Called automatically by
// LoadConfig, but available for callers who build a Config by hand.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalidValue)
	}
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	for i, origin := range c.Server.AllowedOrigins {
		if err := validateFieldLength(fmt.Sprintf("server.allowedOrigins[%d]", i), origin, MaxOriginLength); err != nil {
			return err
		}
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.SessionTTL < 0 {
		return fmt.Errorf("%w: server timeouts must not be negative", ErrInvalidValue)
	}
	if c.Server.RateLimit.RPS < 0 {
		return fmt.Errorf("%w: server.rateLimit.rps must not be negative, got %.2f", ErrInvalidValue, c.Server.RateLimit.RPS)
	}
	if c.Server.RateLimit.RPS > 0 && c.Server.RateLimit.Burst < 1 {
		return fmt.Errorf("%w: server.rateLimit.burst must be at least 1, got %d", ErrInvalidValue, c.Server.RateLimit.Burst)
	}

	if err := validateFieldLength("document.defaultName", c.Document.DefaultName, MaxDocumentName); err != nil {
		return err
	}

	if err := validateFieldLength("enhancement.model", c.Enhancement.Model, MaxModelLength); err != nil {
		return err
	}
	if err := validateFieldLength("enhancement.instruction", c.Enhancement.Instruction, MaxInstructionLength); err != nil {
		return err
	}
	if err := validateFieldLength("enhancement.apiKeyEnv", c.Enhancement.APIKeyEnv, MaxEnvNameLength); err != nil {
		return err
	}

	if err := c.Export.Layout().Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if c.Export.Timeout < 0 {
		return fmt.Errorf("%w: export.timeout must not be negative", ErrInvalidValue)
	}
	if c.Export.Workers < 0 || c.Export.Workers > markvis.MaxPoolSize {
		return fmt.Errorf("%w: export.workers must be between 0 and %d, got %d", ErrInvalidValue, markvis.MaxPoolSize, c.Export.Workers)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if err := validateFieldLength("log.file", c.Log.File, MaxPathLength); err != nil {
		return err
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("%w: log rotation values must not be negative", ErrInvalidValue)
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	return validateFieldLength("assets.style", c.Assets.Style, MaxStyleLength)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// Layout returns the PDF page layout.
func (e ExportConfig) Layout() markvis.PageLayout {
	return markvis.PageLayout{
		MarginMM:    e.MarginMM,
		Scale:       e.Scale,
		JPEGQuality: e.JPEGQuality,
	}
}

// Credential reads the model credential from the environment variable
// named by APIKeyEnv, falling back to API_KEY.
func (e EnhancementConfig) Credential(getenv func(string) string) string {
	name := e.APIKeyEnv
	if name == "" {
		name = DefaultAPIKeyEnv
	}
	if v := strings.TrimSpace(getenv(name)); v != "" {
		return v
	}
	return strings.TrimSpace(getenv(FallbackAPIKeyEnv))
}

// LogOptions converts the log section into logging options.
func (l LogConfig) LogOptions() logging.Options {
	return logging.Options{
		Level:      l.Level,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-markvis/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-markvis", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
