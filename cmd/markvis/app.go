package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-markvis"
	"github.com/alnah/go-markvis/internal/assets"
	"github.com/alnah/go-markvis/internal/config"
	"github.com/alnah/go-markvis/internal/fileutil"
	"github.com/alnah/go-markvis/internal/hints"
	"github.com/alnah/go-markvis/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage        = errors.New("invalid usage")
	ErrNoInput      = errors.New("no input specified")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write output")
	ErrReadCSS      = errors.New("failed to read CSS file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// stdinArg reads the document from standard input.
const stdinArg = "-"

func usageError(err error) error {
	return fmt.Errorf("%w: %w", ErrUsage, err)
}

func errUnexpectedArgs(args []string) error {
	return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
}

// app holds what every command needs: the effective configuration and a
// logger.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	env    *Environment
}

// newApp resolves configuration with precedence
// flags > env vars > config file > defaults, and builds the logger.
func newApp(common commonFlags, env *Environment) (*app, error) {
	envCfg := loadEnvConfig(env.Getenv)
	if !common.quiet {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}

	cfg := config.DefaultConfig()
	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyEnvConfig(envCfg, cfg)

	switch {
	case common.logLevel != "":
		cfg.Log.Level = common.logLevel
	case common.verbose:
		cfg.Log.Level = "debug"
	case common.quiet:
		cfg.Log.Level = "error"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := cfg.Log.LogOptions()
	opts.Console = env.Stderr
	logger, err := logging.New(opts)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, env: env}, nil
}

// close flushes the logger.
func (a *app) close() {
	_ = a.logger.Sync()
}

// applyExportFlags overrides the export section with explicit flags.
func (a *app) applyExportFlags(f exportFlags) error {
	if f.scale != 0 {
		a.cfg.Export.Scale = f.scale
	}
	if f.quality != 0 {
		a.cfg.Export.JPEGQuality = f.quality
	}
	if f.margin >= 0 {
		a.cfg.Export.MarginMM = f.margin
	}
	if f.workers != 0 {
		a.cfg.Export.Workers = f.workers
	}
	if f.timeout != "" {
		d, err := time.ParseDuration(f.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: invalid timeout %q (use e.g. 30s, 2m)", ErrUsage, f.timeout)
		}
		a.cfg.Export.Timeout = d
	}
	return a.cfg.Validate()
}

// stylesheet resolves the surface CSS. A value containing a path separator
// or ending in .css is read from disk; anything else is a style name looked
// up in the configured asset directory, then the embedded assets.
func (a *app) stylesheet(flagStyle string) (string, error) {
	style := flagStyle
	if style == "" {
		style = a.cfg.Assets.Style
	}
	if style == "" {
		style = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(style) || strings.HasSuffix(style, ".css") {
		data, err := os.ReadFile(style) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadCSS, err)
		}
		return string(data), nil
	}

	resolver, err := assets.NewAssetResolver(a.cfg.Assets.BasePath)
	if err != nil {
		return "", err
	}
	return resolver.LoadStyle(style)
}

// rendererOptions returns the library options shared by the renderer and
// exporter.
func (a *app) rendererOptions(css, baseDir string) []markvis.Option {
	opts := []markvis.Option{
		markvis.WithLogger(a.logger),
		markvis.WithStylesheet(css),
	}
	if baseDir != "" {
		opts = append(opts, markvis.WithBaseDir(baseDir))
	}
	return opts
}

// exporterOptions returns the options for an Exporter.
func (a *app) exporterOptions(r markvis.Rasterizer) []markvis.Option {
	opts := []markvis.Option{
		markvis.WithLogger(a.logger),
		markvis.WithPageLayout(a.cfg.Export.Layout()),
	}
	if a.cfg.Export.Timeout > 0 {
		opts = append(opts, markvis.WithTimeout(a.cfg.Export.Timeout))
	}
	if r != nil {
		opts = append(opts, markvis.WithRasterizer(r))
	}
	return opts
}

// newEnhancer builds the model client with the credential read once from
// the environment.
func (a *app) newEnhancer() *markvis.Enhancer {
	opts := []markvis.Option{markvis.WithLogger(a.logger)}
	if a.env.Generator != nil {
		opts = append(opts, markvis.WithGenerator(a.env.Generator))
	}
	return markvis.NewEnhancer(markvis.EnhancerConfig{
		APIKey: a.cfg.Enhancement.Credential(a.env.Getenv),
		Model:  a.cfg.Enhancement.Model,
	}, opts...)
}

// credentialError records which variable the credential was expected in.
type credentialError struct {
	envVar string
	err    error
}

func (e *credentialError) Error() string { return e.err.Error() }
func (e *credentialError) Unwrap() error { return e.err }

// enhanceError attaches the configured credential variable to a
// missing-credential error.
func (a *app) enhanceError(err error) error {
	if errors.Is(err, markvis.ErrMissingCredential) {
		return &credentialError{envVar: a.cfg.Enhancement.APIKeyEnv, err: err}
	}
	return err
}

// readSource reads markdown from path, or from stdin when path is "-".
func readSource(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == stdinArg {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- user-provided path
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	return string(data), nil
}

// sourceDir returns the directory relative paths in path resolve against.
func sourceDir(path string) string {
	if path == stdinArg {
		return ""
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return ""
	}
	return abs
}

// singleInput returns the one positional argument.
func singleInput(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	}
	return "", usageError(errUnexpectedArgs(args[1:]))
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(path string, data []byte, w io.Writer) error {
	if path == "" {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// hintFor returns the actionable hint for a CLI error.
func hintFor(err error) string {
	var cfgErrPaths []string
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, markvis.ErrMissingCredential):
		envVar := config.DefaultAPIKeyEnv
		var ce *credentialError
		if errors.As(err, &ce) && ce.envVar != "" {
			envVar = ce.envVar
		}
		return hints.ForMissingCredential(envVar)
	case errors.Is(err, markvis.ErrEnhancement):
		return hints.ForEnhancement()
	case errors.Is(err, markvis.ErrRasterizerUnavailable), errors.Is(err, markvis.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, config.ErrConfigNotFound):
		if _, after, ok := strings.Cut(err.Error(), "tried "); ok {
			cfgErrPaths = strings.Split(after, ", ")
		}
		return hints.ForConfigNotFound(cfgErrPaths)
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound([]string{"preview", "compact"})
	}
	return ""
}
