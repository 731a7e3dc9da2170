package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dgallion1/outlinemd/internal/editor"
	"github.com/dgallion1/outlinemd/internal/preview"
)

type convertRequest struct {
	Input          string `json:"input"`
	PreviousOutput string `json:"previous_output"`
}

type convertResponse struct {
	Input  string         `json:"input"`
	Output string         `json:"output"`
	Notice *editor.Notice `json:"notice,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sess := editor.Restore(s.log.With("request_id", requestID(r)), "", req.PreviousOutput)
	writeJSON(w, http.StatusOK, s.convert(sess, req.Input))
}

// convert runs one conversion and records its latency. On failure the
// session output, and so the response, keeps the previous value.
func (s *Server) convert(sess *editor.Session, input string) convertResponse {
	start := time.Now()
	notice, err := sess.SetInput(input)
	resp := convertResponse{Input: sess.Input, Output: sess.Output}
	if err != nil {
		s.stats.RecordFailure()
		resp.Notice = &notice
		var convErr *editor.ConversionError
		if errors.As(err, &convErr) {
			resp.Error = string(convErr.Kind())
		}
		return resp
	}
	s.stats.Record(time.Since(start))
	return resp
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess := editor.New(s.log)
	notice := sess.Clear()
	writeJSON(w, http.StatusOK, convertResponse{Notice: &notice})
}

type previewRequest struct {
	Markdown string `json:"markdown"`
}

type previewResponse struct {
	HTML     string   `json:"html"`
	Headings []string `json:"headings"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	html, err := preview.Render(req.Markdown)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	headings := preview.Headings(req.Markdown)
	if headings == nil {
		headings = []string{}
	}
	writeJSON(w, http.StatusOK, previewResponse{HTML: html, Headings: headings})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxInputBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, io.EOF):
			jsonError(w, "request body is required", http.StatusBadRequest)
		default:
			jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		}
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
