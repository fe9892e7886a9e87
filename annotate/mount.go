package annotate

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kalyuk/swagdeco/pagination"
	"github.com/kalyuk/swagdeco/route"
)

// RouteInfo describes one member bound to a route.
type RouteInfo struct {
	Entity    string
	Member    string
	Method    string
	URL       string
	Paginated bool
}

// Routes lists every member with an action, in registration order.
func (r *Registry) Routes() []RouteInfo {
	routes := make([]RouteInfo, 0, len(r.members))
	for _, m := range r.members {
		if m.url == "" {
			continue
		}
		routes = append(routes, RouteInfo{
			Entity:    m.entity,
			Member:    m.name,
			Method:    m.method,
			URL:       m.url,
			Paginated: m.pagination != nil,
		})
	}
	return routes
}

// Mount binds every member with an action to router. It refuses to mount
// anything when annotation errors were recorded or an action has no
// handler.
//
// Each route runs, outermost first: the registry net/http middleware, the
// response envelope, the member middleware, the pagination wrapper and the
// handler.
func (r *Registry) Mount(router route.Router) error {
	if err := r.Err(); err != nil {
		return err
	}

	var errs []error
	for _, m := range r.members {
		if m.url != "" && m.handler == nil {
			errs = append(errs, &AnnotationError{
				Entity:     m.entity,
				Member:     m.name,
				Annotation: "mount",
				Err:        fmt.Errorf("%w: %s %s", ErrNoHandler, m.method, m.url),
			})
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, m := range r.members {
		if m.url == "" {
			continue
		}
		router.Handle(m.method, m.url, r.build(m))
		r.logger.Debug("route mounted",
			slog.String("method", m.method),
			slog.String("url", m.url),
			slog.String("entity", m.entity),
			slog.String("member", m.name),
		)
	}
	return nil
}

func (r *Registry) build(m *Member) http.Handler {
	h := m.handler
	if m.pagination != nil {
		h = pagination.Wrap(*m.pagination, h)
	}
	h = route.Chain(h, m.middlewares...)

	var handler http.Handler
	switch m.envelope {
	case envelopeRaw:
		handler = route.Raw(h, r.logger)
	default:
		status := m.status
		if status == 0 {
			status = http.StatusOK
		}
		handler = route.Envelope(status, h, r.logger)
	}

	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}

	inner := handler
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		inner.ServeHTTP(w, route.WithTemplate(req, m.url))
	})
}
