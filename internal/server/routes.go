package server

import (
	"net/http"

	"github.com/rs/cors"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("POST /api/export/{format}", s.handleExport)

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/actions", s.handleAction)
	mux.HandleFunc("POST /api/sessions/{id}/improve", s.handleImprove)
	mux.HandleFunc("GET /api/sessions/{id}/export/{format}", s.handleSessionExport)

	var h http.Handler = mux
	if s.opts.RPS > 0 {
		h = newRateLimiter(s.opts.RPS, s.opts.Burst).middleware(h)
	}
	if len(s.opts.AllowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: s.opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", requestIDHeader},
			ExposedHeaders: []string{"Content-Disposition", requestIDHeader},
		}).Handler(h)
	}
	return requestLogger(s.logger)(h)
}
