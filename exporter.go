package markvis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-markvis/internal/fileutil"
	"github.com/alnah/go-markvis/internal/pipeline"
)

// Exporter produces PDF and .doc artifacts from a rendered surface.
// Exports never modify the surface or the tree it came from.
type Exporter struct {
	rasterizer Rasterizer
	layout     PageLayout
	timeout    time.Duration
	logger     *zap.Logger
}

// NewExporter creates an Exporter. Without WithRasterizer a headless
// Chrome rasterizer is created; the browser starts on first PDF export.
func NewExporter(opts ...Option) *Exporter {
	s := newSettings(opts)

	r := s.rasterizer
	if r == nil {
		r = NewBrowserRasterizer(s.timeout, s.logger)
	}

	return &Exporter{
		rasterizer: r,
		layout:     s.layout,
		timeout:    s.timeout,
		logger:     s.logger,
	}
}

// ExportPDF rasterizes the surface and paginates it onto A4 pages.
// A browser that cannot be launched or reached yields
// ErrRasterizerUnavailable; later failures yield ErrPDFGeneration.
func (e *Exporter) ExportPDF(ctx context.Context, surface, name string) (*Artifact, error) {
	if strings.TrimSpace(surface) == "" {
		return nil, ErrEmptySurface
	}
	if err := e.layout.Validate(); err != nil {
		return nil, err
	}
	if e.rasterizer == nil {
		return nil, ErrRasterizerUnavailable
	}

	filename := fileutil.SanitizeName(name) + ".pdf"
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raster, err := e.rasterizer.Rasterize(ctx, surface, e.layout)
	if err != nil {
		err = classifyRasterError(err)
		e.logger.Error("pdf export failed", zap.String("filename", filename), zap.Error(err))
		return nil, err
	}

	data, err := paginate(raster, e.layout, pipeline.ExtractTitle(surface))
	if err != nil {
		e.logger.Error("pdf pagination failed", zap.String("filename", filename), zap.Error(err))
		return nil, err
	}

	e.logger.Info("pdf exported",
		zap.String("filename", filename),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &Artifact{Filename: filename, ContentType: ContentTypePDF, Data: data}, nil
}

// classifyRasterError maps rasterizer failures onto the export taxonomy.
func classifyRasterError(err error) error {
	switch {
	case errors.Is(err, ErrRasterizerUnavailable):
		return err
	case errors.Is(err, ErrBrowserConnect):
		return fmt.Errorf("%w: %w", ErrRasterizerUnavailable, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, ErrPDFGeneration):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrPDFGeneration, err)
	}
}

// ExportDoc wraps the surface body in the word-processor envelope. The
// result is a visual proxy of the preview, without native document styles.
func (e *Exporter) ExportDoc(surface, name string) *Artifact {
	filename := fileutil.SanitizeName(name)
	body := pipeline.WrapOfficeDocument(filename, pipeline.ExtractBody(surface))

	e.logger.Info("doc exported", zap.String("filename", filename+".doc"), zap.Int("bytes", len(body)))
	return &Artifact{
		Filename:    filename + ".doc",
		ContentType: ContentTypeDoc,
		Data:        []byte(body),
	}
}

// Close releases the rasterizer.
func (e *Exporter) Close() error {
	if e.rasterizer != nil {
		return e.rasterizer.Close()
	}
	return nil
}
