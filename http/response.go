package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sagarc03/vdisk"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Subject names what a failed request was looking for in not-found messages.
type Subject string

const (
	SubjectDirectory Subject = "Directory"
	SubjectFile      Subject = "File"
)

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := newEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes appropriate error response based on error type.
// subject is used for the "not found" message of ErrNotFound.
func HandleError(w http.ResponseWriter, err error, subject Subject) {
	switch {
	case errors.Is(err, vdisk.ErrUnavailable):
		slog.Info("request refused", "error", err)
	case vdisk.IsClientError(err), errors.Is(err, vdisk.ErrStatsDisabled):
		slog.Warn("request error", "error", err)
	default:
		slog.Error("request error", "error", err)
	}

	msg := err.Error()

	switch {
	case errors.Is(err, vdisk.ErrUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "paused", "paused")
	case errors.Is(err, vdisk.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "invalid_input", msg)
	case errors.Is(err, vdisk.ErrDiskNotFound):
		WriteError(w, http.StatusNotFound, "disk_not_found", "Disk not found: "+msg)
	case errors.Is(err, vdisk.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", string(subject)+" not found: "+msg)
	case errors.Is(err, vdisk.ErrNotADirectory):
		WriteError(w, http.StatusNotAcceptable, "not_a_directory", "Not a directory: "+msg)
	case errors.Is(err, vdisk.ErrNotAFile):
		WriteError(w, http.StatusNotAcceptable, "not_a_file", "Not a regular file: "+msg)
	case errors.Is(err, vdisk.ErrNotReadable):
		WriteError(w, http.StatusForbidden, "read_access_denied", "Read access denied: "+msg)
	case errors.Is(err, vdisk.ErrStatsDisabled):
		WriteError(w, http.StatusNotFound, "stats_disabled", "Download statistics are not enabled")
	case errors.Is(err, vdisk.ErrIO):
		WriteError(w, http.StatusInternalServerError, "io_error", "I/O exception: "+msg)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteError(w, http.StatusServiceUnavailable, "canceled", "Request canceled")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// WriteJSON writes a JSON response. HTML characters are not escaped so
// URLs containing '&' stay readable.
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return newEncoder(w).Encode(data)
}

// WriteText writes a plain text response
func WriteText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}
