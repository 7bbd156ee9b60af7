package markvis

import (
	"encoding/base64"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-markvis/internal/pipeline"
)

// Node is one element of a rendered tree.
type Node = pipeline.Node

// Kind identifies the type of a rendered node.
type Kind = pipeline.Kind

// Style is the inline CSS directive attached to a rendered node.
type Style = pipeline.Style

// A4 portrait geometry in millimetres.
const (
	A4WidthMM  = 210.0
	A4HeightMM = 297.0
)

// Page layout bounds and defaults.
const (
	DefaultMarginMM    = 10.0
	MaxMarginMM        = 50.0
	MinScale           = 2.0
	MaxScale           = 4.0
	DefaultScale       = MinScale
	DefaultJPEGQuality = 98
)

// cssPixelsPerMM is the CSS reference density (96 px per inch).
const cssPixelsPerMM = 96 / 25.4

// PageLayout describes how a surface is rasterized and paginated.
type PageLayout struct {
	MarginMM    float64 // applied to all four sides
	Scale       float64 // device pixels per CSS pixel
	JPEGQuality int     // 1-100
}

// DefaultPageLayout returns A4 portrait with 10 mm margins, scale 2 and
// JPEG quality 98.
func DefaultPageLayout() PageLayout {
	return PageLayout{
		MarginMM:    DefaultMarginMM,
		Scale:       DefaultScale,
		JPEGQuality: DefaultJPEGQuality,
	}
}

// Validate checks the layout bounds.
func (l PageLayout) Validate() error {
	if l.MarginMM < 0 || l.MarginMM > MaxMarginMM {
		return fmt.Errorf("%w: %.1fmm (must be between 0 and %.0f)", ErrInvalidMargin, l.MarginMM, MaxMarginMM)
	}
	if l.Scale < MinScale || l.Scale > MaxScale {
		return fmt.Errorf("%w: %.2f (must be between %.0f and %.0f)", ErrInvalidScale, l.Scale, MinScale, MaxScale)
	}
	if l.JPEGQuality < 1 || l.JPEGQuality > 100 {
		return fmt.Errorf("%w: %d (must be between 1 and 100)", ErrInvalidQuality, l.JPEGQuality)
	}
	return nil
}

// ContentWidthMM is the printable width inside the margins.
func (l PageLayout) ContentWidthMM() float64 { return A4WidthMM - 2*l.MarginMM }

// ContentHeightMM is the printable height inside the margins.
func (l PageLayout) ContentHeightMM() float64 { return A4HeightMM - 2*l.MarginMM }

// ViewportWidth is the CSS pixel width the surface is laid out at, so one
// raster column maps onto the printable width.
func (l PageLayout) ViewportWidth() int {
	return int(math.Round(l.ContentWidthMM() * cssPixelsPerMM))
}

// ViewportHeight is the CSS pixel height of one printable page area.
func (l PageLayout) ViewportHeight() int {
	return int(math.Round(l.ContentHeightMM() * cssPixelsPerMM))
}

// Content types of export artifacts.
const (
	ContentTypePDF = "application/pdf"
	ContentTypeDoc = "application/vnd.ms-word;charset=utf-8"
)

// Artifact is a generated export, ready to be written or downloaded.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DataURI encodes the artifact as a data: URI. Text artifacts are
// percent-encoded, binary ones base64-encoded.
func (a *Artifact) DataURI() string {
	if strings.Contains(a.ContentType, "charset=") {
		return "data:" + a.ContentType + "," + encodeURIComponent(string(a.Data))
	}
	return "data:" + a.ContentType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// uriUnreserved restores the characters encodeURIComponent leaves alone
// but url.QueryEscape escapes.
var uriUnreserved = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return uriUnreserved.Replace(url.QueryEscape(s))
}

// Option configures a Renderer, an Exporter or an Enhancer. Each
// constructor reads the settings that concern it and ignores the rest.
type Option func(*settings)

// settings holds the values Option functions write.
type settings struct {
	logger     *zap.Logger
	timeout    time.Duration
	rasterizer Rasterizer
	layout     PageLayout
	baseDir    string
	stylesheet string
	codeTheme  string
	generator  TextGenerator
}

// defaultTimeout bounds a single browser export.
const defaultTimeout = 30 * time.Second

func newSettings(opts []Option) *settings {
	s := &settings{
		logger:    zap.NewNop(),
		timeout:   defaultTimeout,
		layout:    DefaultPageLayout(),
		codeTheme: pipeline.DefaultCodeTheme,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeout sets the export timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("markvis: WithTimeout duration must be positive")
	}
	return func(s *settings) {
		s.timeout = d
	}
}

// WithRasterizer sets the rasterizer used for PDF export. The exporter
// takes ownership and closes it.
func WithRasterizer(r Rasterizer) Option {
	return func(s *settings) {
		s.rasterizer = r
	}
}

// WithPageLayout overrides the PDF page layout.
func WithPageLayout(l PageLayout) Option {
	return func(s *settings) {
		s.layout = l
	}
}

// WithBaseDir resolves relative image and link paths against dir.
func WithBaseDir(dir string) Option {
	return func(s *settings) {
		s.baseDir = dir
	}
}

// WithStylesheet replaces the surface stylesheet.
func WithStylesheet(css string) Option {
	return func(s *settings) {
		s.stylesheet = css
	}
}

// WithCodeTheme selects the chroma theme for code blocks.
func WithCodeTheme(theme string) Option {
	return func(s *settings) {
		if theme != "" {
			s.codeTheme = theme
		}
	}
}

// WithGenerator replaces the model client used by an Enhancer.
func WithGenerator(g TextGenerator) Option {
	return func(s *settings) {
		s.generator = g
	}
}
