// Package handlers writes the JSON and markdown responses shared by every
// Compass endpoint.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondJSON(w http.ResponseWriter, status int, data any) {
	write(w, status, "application/json", func() { json.NewEncoder(w).Encode(data) })
}

// RespondError logs err at a level matching status and writes it as an
// ErrorResponse. Only 5xx responses log at error.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	level, msg := slog.LevelWarn, "request rejected"
	if status >= http.StatusInternalServerError {
		level, msg = slog.LevelError, "request failed"
	}
	logger.Log(context.Background(), level, msg, "status", status, "error", err)

	RespondJSON(w, status, ErrorResponse{Error: err.Error()})
}

func RespondMarkdown(w http.ResponseWriter, content []byte) {
	write(w, http.StatusOK, "text/markdown; charset=utf-8", func() { w.Write(content) })
}

func write(w http.ResponseWriter, status int, contentType string, body func()) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	body()
}
