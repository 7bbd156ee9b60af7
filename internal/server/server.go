// Package server serves the browser editor and the JSON API over editor
// sessions.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-markvis"
	"github.com/alnah/go-markvis/internal/editor"
	"github.com/alnah/go-markvis/internal/session"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 4 << 20

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Renderer renders markdown.
type Renderer interface {
	Render(source string) *markvis.RenderedTree
}

// Exporter produces downloadable artifacts from a surface.
type Exporter interface {
	ExportPDF(ctx context.Context, surface, name string) (*markvis.Artifact, error)
	ExportDoc(surface, name string) *markvis.Artifact
}

// Enhancer improves markdown through a hosted model.
type Enhancer interface {
	editor.Improver
	HasCredential() bool
}

// Options configures a Server.
type Options struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string // Empty disables cross-origin access
	RPS            float64  // Zero disables rate limiting
	Burst          int
	SessionTTL     time.Duration
	DefaultName    string // Document name of new sessions
	Instruction    string // Improvement instruction when a request names none
	APIKeyEnv      string // Shown in the missing-credential hint
	Page           string // Browser editor HTML
}

// Server is the markvis HTTP server.
type Server struct {
	opts     Options
	renderer Renderer
	exporter Exporter
	enhancer Enhancer
	sessions *session.Store
	logger   *zap.Logger
	handler  http.Handler
}

// New creates a Server. A nil logger disables logging.
func New(opts Options, r Renderer, e Exporter, enh Enhancer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultName == "" {
		opts.DefaultName = editor.DefaultState().DocumentName
	}

	s := &Server{
		opts:     opts,
		renderer: r,
		exporter: e,
		enhancer: enh,
		sessions: session.NewStore(opts.SessionTTL),
		logger:   logger,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on opts.Addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: s.opts.ReadTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
