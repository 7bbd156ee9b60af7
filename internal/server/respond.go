package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/alnah/go-markvis"
	"github.com/alnah/go-markvis/internal/editor"
	"github.com/alnah/go-markvis/internal/hints"
	"github.com/alnah/go-markvis/internal/session"
)

var (
	errTooManyRequests = errors.New("too many requests")
	errBadRequest      = errors.New("invalid request body")
	errUnknownFormat   = errors.New("unknown export format")
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error body. hint is a hints package string; its
// leading marker is stripped.
func writeError(w http.ResponseWriter, status int, err error, hint string) {
	writeJSON(w, status, errorBody{
		Error: err.Error(),
		Hint:  strings.TrimPrefix(hint, "\n  hint: "),
	})
}

// statusFor maps an error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, markvis.ErrMissingCredential):
		return http.StatusPreconditionFailed
	case errors.Is(err, markvis.ErrEnhancement):
		return http.StatusBadGateway
	case errors.Is(err, markvis.ErrRasterizerUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errBadRequest),
		errors.Is(err, errUnknownFormat),
		errors.Is(err, editor.ErrInvalidMode),
		errors.Is(err, editor.ErrUnknownAction),
		errors.Is(err, markvis.ErrEmptySurface):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// hintFor returns the actionable hint for err, if any.
func (s *Server) hintFor(err error) string {
	switch {
	case errors.Is(err, editor.ErrBusy):
		return hints.ForBusy()
	case errors.Is(err, markvis.ErrMissingCredential):
		return hints.ForMissingCredential(s.opts.APIKeyEnv)
	case errors.Is(err, markvis.ErrEnhancement):
		return hints.ForEnhancement()
	case errors.Is(err, markvis.ErrRasterizerUnavailable):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	}
	return ""
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err, s.hintFor(err))
}

// decode reads a JSON body into v. An empty body leaves v unchanged.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// writeArtifact sends an artifact as a file download.
func writeArtifact(w http.ResponseWriter, a *markvis.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}
