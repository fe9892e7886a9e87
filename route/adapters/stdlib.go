package adapters

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/kalyuk/swagdeco/route"
)

// ServeMux adapts *http.ServeMux. Patterns are registered as
// "METHOD /path/{name}" and path variables are read with PathValue.
type ServeMux struct {
	mux *http.ServeMux

	mu      sync.Mutex
	server  *http.Server
	stopped bool
}

// NewServeMux wraps mux. A nil mux creates a new one.
func NewServeMux(mux *http.ServeMux) *ServeMux {
	if mux == nil {
		mux = http.NewServeMux()
	}
	return &ServeMux{mux: mux}
}

// Handle implements route.Router.
func (s *ServeMux) Handle(method, path string, h http.Handler) {
	names := route.ParamNames(path)
	s.mux.Handle(method+" "+path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(names) > 0 {
			params := make(map[string]string, len(names))
			for _, name := range names {
				params[name] = r.PathValue(name)
			}
			r = route.WithPathParams(r, params)
		}
		h.ServeHTTP(w, r)
	}))
}

// ServeHTTP implements http.Handler.
func (s *ServeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start implements Server.
func (s *ServeMux) Start(addr string) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.server = &http.Server{Addr: addr, Handler: s.mux}
	srv := s.server
	s.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop implements Server.
func (s *ServeMux) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.stopped = true
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Name implements Server.
func (s *ServeMux) Name() string {
	return "net/http"
}
