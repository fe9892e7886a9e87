package annotate

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/kalyuk/swagdeco/meta"
	"github.com/kalyuk/swagdeco/pagination"
	"github.com/kalyuk/swagdeco/route"
	"github.com/kalyuk/swagdeco/swagger"
)

type envelopeKind int

const (
	envelopeJSON envelopeKind = iota
	envelopeRaw
)

// Member is one controller method. Every method on it is an annotation and
// returns the member for chaining.
type Member struct {
	registry *Registry
	entity   string
	name     string

	method  string
	url     string
	handler route.HandlerFunc

	pagination  *pagination.Config
	middlewares []route.Middleware

	envelope envelopeKind
	status   int
}

// Entity returns the entity the member belongs to.
func (m *Member) Entity() string {
	return m.entity
}

// Name returns the member name.
func (m *Member) Name() string {
	return m.name
}

// Registry returns the registry the member belongs to.
func (m *Member) Registry() *Registry {
	return m.registry
}

var methods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodHead:    true,
}

// Action binds the member to method and url and records them, together
// with the entity name as default tag. The handler is bound to the router
// by Registry.Mount. Repeating the same method and url only replaces the
// handler; a different method or url is an ErrActionRebound error.
func (m *Member) Action(method, url string, h route.HandlerFunc) *Member {
	method = strings.ToUpper(method)
	if !methods[method] {
		return m.fail("action", fmt.Errorf("%w: %q", ErrInvalidMethod, method))
	}
	if !strings.HasPrefix(url, "/") {
		return m.fail("action", fmt.Errorf("%w: %q", ErrInvalidURL, url))
	}
	if m.url != "" && (m.url != url || m.method != method) {
		return m.fail("action", fmt.Errorf("%w: %s %s, got %s %s", ErrActionRebound, m.method, m.url, method, url))
	}

	m.method = method
	m.url = url
	if h != nil {
		m.handler = h
	}

	m.registry.store.Set(m.entity, m.name, meta.Record{
		URL:    url,
		Method: strings.ToLower(method),
		Params: &swagger.Operation{Tags: []string{m.entity}},
	})
	return m
}

// GET is Action(http.MethodGet, url, h).
func (m *Member) GET(url string, h route.HandlerFunc) *Member {
	return m.Action(http.MethodGet, url, h)
}

// POST is Action(http.MethodPost, url, h).
func (m *Member) POST(url string, h route.HandlerFunc) *Member {
	return m.Action(http.MethodPost, url, h)
}

// PUT is Action(http.MethodPut, url, h).
func (m *Member) PUT(url string, h route.HandlerFunc) *Member {
	return m.Action(http.MethodPut, url, h)
}

// PATCH is Action(http.MethodPatch, url, h).
func (m *Member) PATCH(url string, h route.HandlerFunc) *Member {
	return m.Action(http.MethodPatch, url, h)
}

// DELETE is Action(http.MethodDelete, url, h).
func (m *Member) DELETE(url string, h route.HandlerFunc) *Member {
	return m.Action(http.MethodDelete, url, h)
}

// Pagination records the pagination shape of the member and makes Mount
// parse pagination query parameters before the handler runs. Zero config
// fields take the pagination package defaults.
func (m *Member) Pagination(cfg pagination.Config) *Member {
	if cfg.Type != "" && !cfg.Type.Valid() {
		return m.fail("pagination", fmt.Errorf("unknown pagination type %q", cfg.Type))
	}

	shape := cfg.Shape()
	m.pagination = &pagination.Config{
		Type:     shape.Type,
		PageSize: shape.PageSize,
		Sizes:    slices.Clone(shape.Sizes),
	}
	m.registry.store.Set(m.entity, m.name, meta.Record{Pagination: &shape})
	return m
}

// Use appends handler middleware. The first middleware is the outermost;
// all of them run outside the pagination wrapper.
func (m *Member) Use(mws ...route.Middleware) *Member {
	m.middlewares = append(m.middlewares, mws...)
	return m
}

// JSON serializes results as {"data": result} with the given status.
// Members without JSON or Raw use JSON(http.StatusOK).
func (m *Member) JSON(status int) *Member {
	if status == 0 {
		status = http.StatusOK
	}
	m.envelope = envelopeJSON
	m.status = status
	return m
}

// Raw serializes results as-is with 200 OK.
func (m *Member) Raw() *Member {
	m.envelope = envelopeRaw
	m.status = http.StatusOK
	return m
}

// SwaggerDoc replaces the member handler with one returning the document,
// served as-is.
func (m *Member) SwaggerDoc() *Member {
	doc := m.registry.doc
	m.handler = func(*route.Request) (any, error) {
		return doc, nil
	}
	return m.Raw()
}

func (m *Member) fail(annotation string, err error) *Member {
	m.registry.fail(&AnnotationError{
		Entity:     m.entity,
		Member:     m.name,
		Annotation: annotation,
		Err:        err,
	})
	return m
}
