// Package httpmw provides the net/http middleware mounted in front of
// annotated routes: request IDs, panic recovery, access logging and
// Prometheus metrics.
package httpmw

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/net/http/httpguts"
)

// maxIncomingIDLen bounds a trusted incoming request ID.
const maxIncomingIDLen = 128

// Middleware wraps an http.Handler.
type Middleware = func(http.Handler) http.Handler

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored in the context by
// RequestID. Returns an empty string if no ID is present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestIDConfig configures the RequestID middleware.
type RequestIDConfig struct {
	// HeaderName overrides the header used to propagate the request ID.
	// Defaults to "X-Request-ID" when empty.
	HeaderName string

	// GenerateFunc returns a new unique ID. Defaults to GenerateUUIDv4.
	GenerateFunc func(r *http.Request) string

	// TrustIncoming reuses an existing request ID from the incoming
	// header instead of generating a new one. Incoming IDs longer than
	// 128 bytes or with bytes invalid in a header value are replaced.
	TrustIncoming bool
}

// RequestID returns a middleware that generates or propagates a request ID.
// The ID is set on the request header, the response header and the request
// context.
func RequestID(cfg RequestIDConfig) Middleware {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-Request-ID"
	}

	generate := cfg.GenerateFunc
	if generate == nil {
		generate = GenerateUUIDv4
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cfg.TrustIncoming {
				id = r.Header.Get(headerName)
				if len(id) > maxIncomingIDLen || !httpguts.ValidHeaderFieldValue(id) {
					id = ""
				}
			}
			if id == "" {
				id = generate(r)
			}

			if id != "" {
				r.Header.Set(headerName, id)
				w.Header().Set(headerName, id)
				r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GenerateUUIDv4 returns a new UUID v4 string.
func GenerateUUIDv4(_ *http.Request) string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a new time-ordered UUID v7 string.
func GenerateUUIDv7(_ *http.Request) string {
	return uuid.Must(uuid.NewV7()).String()
}
