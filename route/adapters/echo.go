package adapters

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kalyuk/swagdeco/route"
)

// Echo adapts an *echo.Echo instance.
type Echo struct {
	engine *echo.Echo
}

// NewEcho wraps e. A nil e creates a quiet instance without banner.
func NewEcho(e *echo.Echo) *Echo {
	if e == nil {
		e = echo.New()
		e.HideBanner = true
		e.HidePort = true
	}
	return &Echo{engine: e}
}

// Engine returns the underlying echo instance.
func (a *Echo) Engine() *echo.Echo {
	return a.engine
}

// Handle implements route.Router.
func (a *Echo) Handle(method, path string, h http.Handler) {
	a.engine.Add(method, route.ColonPath(path), func(c echo.Context) error {
		r := c.Request()
		if names := c.ParamNames(); len(names) > 0 {
			values := c.ParamValues()
			params := make(map[string]string, len(names))
			for i, name := range names {
				if i < len(values) {
					params[name] = values[i]
				}
			}
			r = route.WithPathParams(r, params)
		}
		h.ServeHTTP(c.Response(), r)
		return nil
	})
}

// ServeHTTP implements http.Handler.
func (a *Echo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.engine.ServeHTTP(w, r)
}

// Start implements Server.
func (a *Echo) Start(addr string) error {
	if err := a.engine.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop implements Server.
func (a *Echo) Stop(ctx context.Context) error {
	return a.engine.Shutdown(ctx)
}

// Name implements Server.
func (a *Echo) Name() string {
	return "Echo"
}
