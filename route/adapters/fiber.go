package adapters

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/kalyuk/swagdeco/route"
)

// Fiber adapts a *fiber.App. Handlers are net/http handlers bridged through
// fiber's adaptor middleware.
type Fiber struct {
	app *fiber.App
}

// NewFiber wraps app. A nil app creates one without the startup banner.
func NewFiber(app *fiber.App) *Fiber {
	if app == nil {
		app = fiber.New(fiber.Config{DisableStartupMessage: true})
	}
	return &Fiber{app: app}
}

// App returns the underlying fiber application.
func (a *Fiber) App() *fiber.App {
	return a.app
}

// Handle implements route.Router.
func (a *Fiber) Handle(method, path string, h http.Handler) {
	a.app.Add(method, route.ColonPath(path), func(c *fiber.Ctx) error {
		params := make(map[string]string)
		for k, v := range c.AllParams() {
			// values alias the request buffer
			params[k] = string([]byte(v))
		}
		return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, route.WithPathParams(r, params))
		})(c)
	})
}

// Start implements Server.
func (a *Fiber) Start(addr string) error {
	return a.app.Listen(addr)
}

// Stop implements Server.
func (a *Fiber) Stop(ctx context.Context) error {
	return a.app.ShutdownWithContext(ctx)
}

// Name implements Server.
func (a *Fiber) Name() string {
	return "Fiber"
}
