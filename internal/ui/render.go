package ui

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/vaibhavguptahere/smacad-test/internal/apperr"
)

// ErrorBody is the JSON shape of every failed API response.
type ErrorBody struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// MessageBody is returned by mutations that carry no other payload.
type MessageBody struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("json encode failed", "error", err)
	}
}

func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageBody{Message: message})
}

// Error maps err to its status and writes a client-safe body. Causes of
// internal and storage failures are logged, never sent.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := apperr.Status(kind)

	switch kind {
	case apperr.KindInternal, apperr.KindUpstreamStorage:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "kind", kind.String(), "error", err)
	default:
		slog.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "kind", kind.String(), "error", err)
	}

	JSON(w, status, ErrorBody{
		Error:  apperr.PublicMessage(err),
		Fields: apperr.FieldsOf(err),
	})
}

// Render executes a named page template. Output is buffered so a failing
// template never leaves a half-written page.
func Render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, name string, data any) {
	RenderStatus(w, r, http.StatusOK, tmpl, name, data)
}

func RenderStatus(w http.ResponseWriter, r *http.Request, status int, tmpl *template.Template, name string, data any) {
	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, name, data)
	if err != nil {
		slog.Error("render failed", "template", name, "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	if err != nil {
		slog.Error("render write failed", "template", name, "error", err)
	}
}
