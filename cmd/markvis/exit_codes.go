package main

import (
	"errors"
	"os"

	"github.com/alnah/go-markvis"
	"github.com/alnah/go-markvis/internal/assets"
	"github.com/alnah/go-markvis/internal/config"
	"github.com/alnah/go-markvis/internal/logging"
)

// Exit codes for the markvis CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess     = 0 // Command completed
	ExitGeneral     = 1 // General/unexpected error
	ExitUsage       = 2 // Invalid flags, config, or validation
	ExitIO          = 3 // File not found, permission denied
	ExitBrowser     = 4 // Browser/rasterizer errors
	ExitEnhancement = 5 // Missing credential or model failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, markvis.ErrMissingCredential) ||
		errors.Is(err, markvis.ErrEnhancement) {
		return ExitEnhancement
	}

	if errors.Is(err, markvis.ErrRasterizerUnavailable) ||
		errors.Is(err, markvis.ErrBrowserConnect) ||
		errors.Is(err, markvis.ErrPageCreate) ||
		errors.Is(err, markvis.ErrPageLoad) ||
		errors.Is(err, markvis.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, markvis.ErrInvalidScale) ||
		errors.Is(err, markvis.ErrInvalidQuality) ||
		errors.Is(err, markvis.ErrInvalidMargin) ||
		errors.Is(err, markvis.ErrEmptySurface) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	return ExitGeneral
}
