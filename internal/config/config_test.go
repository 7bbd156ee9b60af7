package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-markvis"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Document.DefaultName != "document" {
		t.Errorf("Document.DefaultName = %q, want document", cfg.Document.DefaultName)
	}
	if cfg.Enhancement.APIKeyEnv != "GEMINI_API_KEY" {
		t.Errorf("Enhancement.APIKeyEnv = %q", cfg.Enhancement.APIKeyEnv)
	}
	if cfg.Export.Layout() != markvis.DefaultPageLayout() {
		t.Errorf("Export.Layout() = %+v, want default layout", cfg.Export.Layout())
	}
	if cfg.Assets.BasePath != "" {
		t.Errorf("Assets.BasePath = %q, want empty", cfg.Assets.BasePath)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit returns error", "12345678901", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, ErrInvalidValue},
		{"long origin", func(c *Config) { c.Server.AllowedOrigins = []string{strings.Repeat("a", MaxOriginLength+1)} }, ErrFieldTooLong},
		{"negative timeout", func(c *Config) { c.Server.ReadTimeout = -time.Second }, ErrInvalidValue},
		{"negative rps", func(c *Config) { c.Server.RateLimit.RPS = -1 }, ErrInvalidValue},
		{"zero burst with rps", func(c *Config) { c.Server.RateLimit.Burst = 0 }, ErrInvalidValue},
		{"rate limit disabled", func(c *Config) { c.Server.RateLimit = RateLimitConfig{} }, nil},
		{"long document name", func(c *Config) { c.Document.DefaultName = strings.Repeat("n", MaxDocumentName+1) }, ErrFieldTooLong},
		{"long model", func(c *Config) { c.Enhancement.Model = strings.Repeat("m", MaxModelLength+1) }, ErrFieldTooLong},
		{"long instruction", func(c *Config) { c.Enhancement.Instruction = strings.Repeat("i", MaxInstructionLength+1) }, ErrFieldTooLong},
		{"scale below 2", func(c *Config) { c.Export.Scale = 1 }, markvis.ErrInvalidScale},
		{"quality too high", func(c *Config) { c.Export.JPEGQuality = 150 }, markvis.ErrInvalidQuality},
		{"margin too wide", func(c *Config) { c.Export.MarginMM = 80 }, markvis.ErrInvalidMargin},
		{"too many workers", func(c *Config) { c.Export.Workers = markvis.MaxPoolSize + 1 }, ErrInvalidValue},
		{"auto workers", func(c *Config) { c.Export.Workers = 0 }, nil},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, nil},
		{"negative log backups", func(c *Config) { c.Log.MaxBackups = -1 }, ErrInvalidValue},
		{"long style", func(c *Config) { c.Assets.Style = strings.Repeat("s", MaxStyleLength+1) }, ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.name == "bad log level" {
				if err == nil || !strings.Contains(err.Error(), "log.level") {
					t.Errorf("error = %v, want a log.level error", err)
				}
				return
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnhancementConfig_Credential(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		envVar string
		env    map[string]string
		want   string
	}{
		{"default variable", "", map[string]string{"GEMINI_API_KEY": "g"}, "g"},
		{"custom variable", "MY_KEY", map[string]string{"MY_KEY": "m", "GEMINI_API_KEY": "g"}, "m"},
		{"fallback to API_KEY", "", map[string]string{"API_KEY": "a"}, "a"},
		{"whitespace is missing", "", map[string]string{"GEMINI_API_KEY": "  "}, ""},
		{"nothing set", "", map[string]string{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := EnhancementConfig{APIKeyEnv: tt.envVar}
			got := cfg.Credential(func(k string) string { return tt.env[k] })
			if got != tt.want {
				t.Errorf("Credential() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("file path loads and keeps defaults", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "test.yaml")
		content := `server:
  addr: ":9000"
  allowedOrigins: ["http://localhost:3000"]
  sessionTTL: 30m
enhancement:
  model: "gemini-pro"
export:
  scale: 3
  workers: 2
log:
  level: debug
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Server.Addr != ":9000" {
			t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
		}
		if len(cfg.Server.AllowedOrigins) != 1 {
			t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
		}
		if cfg.Server.SessionTTL != 30*time.Minute {
			t.Errorf("SessionTTL = %v, want 30m", cfg.Server.SessionTTL)
		}
		if cfg.Enhancement.Model != "gemini-pro" {
			t.Errorf("Model = %q", cfg.Enhancement.Model)
		}
		if cfg.Export.Scale != 3 || cfg.Export.Workers != 2 {
			t.Errorf("Export = %+v", cfg.Export)
		}
		if cfg.Export.JPEGQuality != markvis.DefaultJPEGQuality {
			t.Errorf("JPEGQuality = %d, want default kept", cfg.Export.JPEGQuality)
		}
		if cfg.Enhancement.APIKeyEnv != DefaultAPIKeyEnv {
			t.Errorf("APIKeyEnv = %q, want default kept", cfg.Enhancement.APIKeyEnv)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("server: [unclosed"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "unknown.yaml")
		content := "server:\n  addr: \":1\"\nwatermark:\n  enabled: true\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("empty file returns ErrConfigParse", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "empty.yaml")
		if err := os.WriteFile(configPath, nil, 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid values fail validation", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(configPath, []byte("export:\n  scale: 1\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, markvis.ErrInvalidScale) {
			t.Errorf("error = %v, want ErrInvalidScale", err)
		}
	})

	t.Run("config name resolves in current directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		if err := os.WriteFile("team.yml", []byte("document:\n  defaultName: notes\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig("team")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Document.DefaultName != "notes" {
			t.Errorf("DefaultName = %q, want notes", cfg.Document.DefaultName)
		}
	})

	t.Run("unknown config name lists tried paths", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := LoadConfig("nope")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "nope.yaml") || !strings.Contains(err.Error(), "go-markvis") {
			t.Errorf("error should list tried paths, got %v", err)
		}
	})
}

func TestDecodeStrict_SizeLimit(t *testing.T) {
	t.Parallel()

	var cfg Config
	data := []byte("document:\n  defaultName: " + strings.Repeat("a", maxConfigSize) + "\n")
	if err := decodeStrict(data, &cfg); !errors.Is(err, errInputTooLarge) {
		t.Errorf("decodeStrict() error = %v, want errInputTooLarge", err)
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{"server:", "127.0.0.1", "apiKeyEnv: GEMINI_API_KEY"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("Marshal() output missing %q:\n%s", want, out)
		}
	}
}
