package adapters

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kalyuk/swagdeco/route"
)

// Gin adapts a *gin.Engine. Gin has no graceful shutdown of its own, so
// Start runs the engine inside an http.Server.
type Gin struct {
	engine *gin.Engine

	mu      sync.Mutex
	server  *http.Server
	stopped bool
}

// NewGin wraps engine. A nil engine creates a bare gin.New() instance.
func NewGin(engine *gin.Engine) *Gin {
	if engine == nil {
		engine = gin.New()
	}
	return &Gin{engine: engine}
}

// Engine returns the underlying gin engine.
func (a *Gin) Engine() *gin.Engine {
	return a.engine
}

// Handle implements route.Router.
func (a *Gin) Handle(method, path string, h http.Handler) {
	a.engine.Handle(method, route.ColonPath(path), func(c *gin.Context) {
		r := c.Request
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, p := range c.Params {
				params[p.Key] = p.Value
			}
			r = route.WithPathParams(r, params)
		}
		h.ServeHTTP(c.Writer, r)
	})
}

// ServeHTTP implements http.Handler.
func (a *Gin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.engine.ServeHTTP(w, r)
}

// Start implements Server.
func (a *Gin) Start(addr string) error {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return nil
	}
	a.server = &http.Server{Addr: addr, Handler: a.engine}
	srv := a.server
	a.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop implements Server.
func (a *Gin) Stop(ctx context.Context) error {
	a.mu.Lock()
	srv := a.server
	a.stopped = true
	a.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Name implements Server.
func (a *Gin) Name() string {
	return "Gin"
}
