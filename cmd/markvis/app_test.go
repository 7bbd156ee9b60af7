package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-markvis"
)

func TestNewApp_Precedence(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "markvis.yaml")
	yaml := "server:\n  addr: \"127.0.0.1:7000\"\nenhancement:\n  model: file-model\nexport:\n  workers: 2\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		vars      map[string]string
		common    commonFlags
		wantAddr  string
		wantModel string
		wantLevel string
	}{
		{
			name:      "defaults",
			wantAddr:  "127.0.0.1:8080",
			wantModel: markvis.DefaultModel,
			wantLevel: "info",
		},
		{
			name:      "file from flag",
			common:    commonFlags{config: cfgPath},
			wantAddr:  "127.0.0.1:7000",
			wantModel: "file-model",
			wantLevel: "info",
		},
		{
			name:      "file from env, env overrides file",
			vars:      map[string]string{"MARKVIS_CONFIG": cfgPath, "MARKVIS_MODEL": "env-model"},
			wantAddr:  "127.0.0.1:7000",
			wantModel: "env-model",
			wantLevel: "info",
		},
		{
			name:      "flag overrides env",
			vars:      map[string]string{"MARKVIS_LOG_LEVEL": "warn"},
			common:    commonFlags{logLevel: "error"},
			wantAddr:  "127.0.0.1:8080",
			wantModel: markvis.DefaultModel,
			wantLevel: "error",
		},
		{
			name:      "verbose",
			common:    commonFlags{verbose: true},
			wantAddr:  "127.0.0.1:8080",
			wantModel: markvis.DefaultModel,
			wantLevel: "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _, _ := testEnv(tt.vars, "")
			a, err := newApp(tt.common, env)
			if err != nil {
				t.Fatalf("newApp() error = %v", err)
			}
			defer a.close()

			if a.cfg.Server.Addr != tt.wantAddr {
				t.Errorf("Addr = %q, want %q", a.cfg.Server.Addr, tt.wantAddr)
			}
			if a.cfg.Enhancement.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", a.cfg.Enhancement.Model, tt.wantModel)
			}
			if a.cfg.Log.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", a.cfg.Log.Level, tt.wantLevel)
			}
		})
	}
}

func TestApplyExportFlags(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(nil, "")
	a, err := newApp(commonFlags{quiet: true}, env)
	if err != nil {
		t.Fatal(err)
	}
	defer a.close()

	err = a.applyExportFlags(exportFlags{scale: 3, quality: 80, margin: 0, timeout: "45s", workers: 2})
	if err != nil {
		t.Fatalf("applyExportFlags() error = %v", err)
	}
	got := a.cfg.Export
	if got.Scale != 3 || got.JPEGQuality != 80 || got.MarginMM != 0 || got.Workers != 2 {
		t.Errorf("export = %+v", got)
	}
	if got.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", got.Timeout)
	}
}

func TestApplyExportFlags_NegativeMarginKeepsConfig(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(nil, "")
	a, err := newApp(commonFlags{quiet: true}, env)
	if err != nil {
		t.Fatal(err)
	}
	defer a.close()

	before := a.cfg.Export.MarginMM
	if err := a.applyExportFlags(exportFlags{margin: -1}); err != nil {
		t.Fatal(err)
	}
	if a.cfg.Export.MarginMM != before {
		t.Errorf("MarginMM = %v, want %v", a.cfg.Export.MarginMM, before)
	}
}

func TestStylesheet(t *testing.T) {
	t.Parallel()

	cssPath := filepath.Join(t.TempDir(), "custom.css")
	if err := os.WriteFile(cssPath, []byte("body{color:red}"), 0o600); err != nil {
		t.Fatal(err)
	}

	env, _, _ := testEnv(nil, "")
	a, err := newApp(commonFlags{quiet: true}, env)
	if err != nil {
		t.Fatal(err)
	}
	defer a.close()

	tests := []struct {
		name    string
		style   string
		want    string
		wantErr error
	}{
		{"default", "", ".markvis-page", nil},
		{"embedded name", "compact", ".markvis-page", nil},
		{"file path", cssPath, "color:red", nil},
		{"missing file", filepath.Join(t.TempDir(), "none.css"), "", ErrReadCSS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			css, err := a.stylesheet(tt.style)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("stylesheet() error = %v", err)
			}
			if !strings.Contains(css, tt.want) {
				t.Errorf("stylesheet(%q) missing %q", tt.style, tt.want)
			}
		})
	}
}

func TestSingleInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{"one", []string{"a.md"}, "a.md", nil},
		{"stdin", []string{"-"}, "-", nil},
		{"none", nil, "", ErrNoInput},
		{"two", []string{"a.md", "b.md"}, "", ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := singleInput(tt.args)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadSource(t *testing.T) {
	t.Parallel()

	got, err := readSource("-", strings.NewReader("from stdin"))
	if err != nil || got != "from stdin" {
		t.Errorf("readSource(-) = %q, %v", got, err)
	}

	_, err = readSource(filepath.Join(t.TempDir(), "none.md"), nil)
	if !errors.Is(err, ErrReadMarkdown) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrReadMarkdown wrapping ErrNotExist", err)
	}
}

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"empty uses filename", "", "report.pdf"},
		{"existing directory", dir, filepath.Join(dir, "report.pdf")},
		{"trailing separator", "out/", filepath.Join("out", "report.pdf")},
		{"explicit file", filepath.Join(dir, "final.pdf"), filepath.Join(dir, "final.pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveOutputPath(tt.output, "report.pdf"); got != tt.want {
				t.Errorf("resolveOutputPath(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}

func TestHintFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"credential", markvis.ErrMissingCredential, "GEMINI_API_KEY"},
		{"configured credential variable", &credentialError{envVar: "TEAM_KEY", err: markvis.ErrMissingCredential}, "TEAM_KEY"},
		{"write", ErrWriteOutput, "writable"},
		{"unknown", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor(%v) = %q, want empty", tt.err, got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor(%v) = %q, want it to contain %q", tt.err, got, tt.want)
			}
		})
	}
}
