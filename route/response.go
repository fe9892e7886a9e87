package route

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// HTTPError carries the status code a handler error should be reported with.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

// NewHTTPError creates an HTTPError. An empty message defaults to the status
// text of code.
func NewHTTPError(code int, message string) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return &HTTPError{Code: code, Message: message}
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Wrap attaches a cause to the error.
func (e *HTTPError) Wrap(err error) *HTTPError {
	e.Err = err
	return e
}

// Envelope adapts h to an http.Handler that writes {"data": result} with the
// given status code.
func Envelope(status int, h HandlerFunc, logger *slog.Logger) http.Handler {
	return respond(h, logger, func(w http.ResponseWriter, result any) {
		writeJSON(w, status, map[string]any{"data": result})
	})
}

// Raw adapts h to an http.Handler that writes the result as-is with 200 OK.
func Raw(h HandlerFunc, logger *slog.Logger) http.Handler {
	return respond(h, logger, func(w http.ResponseWriter, result any) {
		writeJSON(w, http.StatusOK, result)
	})
}

func respond(h HandlerFunc, logger *slog.Logger, write func(http.ResponseWriter, any)) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, err := h(NewRequest(r))
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		write(w, result)
	})
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = he.Error()
	}

	logger.ErrorContext(r.Context(), "handler failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", code),
		slog.Any("error", err),
	)

	writeJSON(w, code, map[string]any{"error": message})
}

// writeJSON encodes v before touching the response so that an encoding
// failure can still be reported as 500.
func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
