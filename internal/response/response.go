// Package response writes API responses and maps application errors to
// status codes. Bodies are JSON unless the client asks for msgpack.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/bugstroids/internal/apperr"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/x-msgpack"
)

// ErrorResponse represents the error body sent to clients
type ErrorResponse struct {
	Error   string `json:"error" msgpack:"error"`
	Message string `json:"message" msgpack:"message"`
	Code    int    `json:"code" msgpack:"code"`
}

// WantsMsgpack reports whether the request prefers msgpack bodies.
func WantsMsgpack(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), ContentTypeMsgpack)
}

// Error logs an error and sends an error response to the client.
// This should be the only place where request errors are logged.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := apperr.GetType(err)
	statusCode := StatusCode(errorType)

	logError(logger, r, err, errorType, statusCode)

	message := err.Error()
	if errorType == apperr.ErrorTypeInternal {
		message = "internal server error"
	}

	write(w, r, statusCode, ErrorResponse{
		Error:   string(errorType),
		Message: message,
		Code:    statusCode,
	})
}

// Success sends data with the given status code.
func Success(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	write(w, r, statusCode, data)
}

// StatusCode maps error types to HTTP status codes
func StatusCode(errorType apperr.ErrorType) int {
	switch errorType {
	case apperr.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperr.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperr.ErrorTypeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case apperr.ErrorTypeExternal:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func logError(logger *slog.Logger, r *http.Request, err error, errorType apperr.ErrorType, statusCode int) {
	logCtx := logger.With(
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error_type", errorType,
		"status_code", statusCode,
	)

	switch errorType {
	case apperr.ErrorTypeNotFound, apperr.ErrorTypeMethodNotAllowed:
		logCtx.Debug("Request not routable", "error", err)
	case apperr.ErrorTypeValidation:
		// Client errors
		logCtx.Debug("Validation error", "error", err)
	case apperr.ErrorTypeExternal:
		logCtx.Error("External service error", "error", err)
	default:
		logCtx.Error("Internal server error", "error", err)
	}
}

func write(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	if r != nil && WantsMsgpack(r) {
		w.Header().Set("Content-Type", ContentTypeMsgpack)
		w.WriteHeader(statusCode)
		if data != nil {
			// The status code has already been sent
			_ = msgpack.NewEncoder(w).Encode(data)
		}
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
