package markvis

import "errors"

// Sentinel errors for library operations.
var (
	// Export errors.
	ErrRasterizerUnavailable = errors.New("rasterizer unavailable")
	ErrBrowserConnect        = errors.New("failed to connect to browser")
	ErrPageCreate            = errors.New("failed to create browser page")
	ErrPageLoad              = errors.New("failed to load page")
	ErrPDFGeneration         = errors.New("PDF generation failed")
	ErrEmptySurface          = errors.New("surface cannot be empty")

	// Page layout validation errors.
	ErrInvalidScale   = errors.New("invalid scale")
	ErrInvalidQuality = errors.New("invalid JPEG quality")
	ErrInvalidMargin  = errors.New("invalid margin")

	// Enhancement errors.
	ErrMissingCredential = errors.New("missing model credential")
	ErrEnhancement       = errors.New("content enhancement failed")
)
