package httpmw

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// RecoveryConfig configures the Recovery middleware.
type RecoveryConfig struct {
	// Logger receives an error record for every recovered panic.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// Stack includes the goroutine stack in the log record.
	Stack bool
}

// Recovery returns a middleware that recovers from panics in downstream
// handlers, logs them and answers 500 Internal Server Error.
func Recovery(cfg RecoveryConfig) Middleware {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rv := recover(); rv != nil {
					if rv == http.ErrAbortHandler {
						panic(rv)
					}

					attrs := []any{
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.Any("panic", rv),
					}
					if cfg.Stack {
						attrs = append(attrs, slog.String("stack", string(debug.Stack())))
					}
					logger.ErrorContext(r.Context(), "panic recovered", attrs...)

					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
