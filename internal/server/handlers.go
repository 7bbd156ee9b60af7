package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-markvis"
	"github.com/alnah/go-markvis/internal/editor"
)

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, s.opts.Page)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"sessions":    s.sessions.Len(),
		"enhancement": s.enhancer != nil && s.enhancer.HasCredential(),
	})
}

type renderRequest struct {
	Markdown string `json:"markdown"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.renderer.Render(req.Markdown))
}

type exportRequest struct {
	Markdown string `json:"markdown"`
	Name     string `json:"name"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if req.Name == "" {
		req.Name = s.opts.DefaultName
	}
	s.export(w, r, r.PathValue("format"), req.Markdown, req.Name)
}

// export renders source and sends the requested artifact.
func (s *Server) export(w http.ResponseWriter, r *http.Request, format, source, name string) {
	if format != "pdf" && format != "doc" {
		s.fail(w, fmt.Errorf("%w: %q (must be pdf or doc)", errUnknownFormat, format))
		return
	}

	surface := s.renderer.Render(source).Surface(name)

	if format == "doc" {
		writeArtifact(w, s.exporter.ExportDoc(surface, name))
		return
	}

	art, err := s.exporter.ExportPDF(r.Context(), surface, name)
	if err != nil {
		s.logger.Error("pdf export failed", zap.String("name", name), zap.Error(err))
		s.fail(w, err)
		return
	}
	writeArtifact(w, art)
}

type sessionResponse struct {
	ID    string       `json:"id,omitempty"`
	State editor.State `json:"state"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	initial := editor.DefaultState()
	initial.DocumentName = s.opts.DefaultName

	id, sess := s.sessions.Create(initial)
	s.logger.Debug("session created", zap.String("session_id", id))
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id, State: sess.State()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, State: sess.State()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.PathValue("id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}

	var action editor.Action
	if err := decode(w, r, &action); err != nil {
		s.fail(w, err)
		return
	}

	state, err := sess.Apply(action)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{State: state})
}

type improveRequest struct {
	Instruction string `json:"instruction"`
}

type improveResponse struct {
	State   editor.State    `json:"state"`
	Changes markvis.Changes `json:"changes"`
}

func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.fail(w, err)
		return
	}

	var req improveRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		instruction = s.opts.Instruction
	}

	if s.enhancer == nil {
		s.fail(w, markvis.ErrMissingCredential)
		return
	}

	state, changes, err := sess.Enhance(r.Context(), s.enhancer, instruction)
	if err != nil {
		s.logger.Warn("improve failed", zap.String("session_id", id), zap.Error(err))
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, improveResponse{State: state, Changes: changes})
}

func (s *Server) handleSessionExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	state := sess.State()
	s.export(w, r, r.PathValue("format"), state.Source, state.DocumentName)
}
