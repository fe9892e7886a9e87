// Package route defines the request object, handler signature and router
// contract shared by annotated controllers and the HTTP framework adapters.
//
// Controller members are written as HandlerFunc values: they receive a
// *Request carrying the parsed query string and a mutable Params bag, and
// return a result that a response envelope serializes. A Router binds the
// resulting http.Handler to a method and path template.
//
// Path templates use brace placeholders:
//
//	/users/{id}/posts/{postId}
//
// Adapters translate the template to their framework syntax and hand the
// matched values back through WithPathParams, so NewRequest can seed them
// into Params.
package route

import (
	"context"
	"net/http"
	"regexp"
)

// Params is the per-request parameter bag. Path variables are copied into it
// by NewRequest; middleware such as pagination add computed values.
type Params map[string]any

// Has reports whether key is present, even when its value is nil.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Int returns the value stored under key when it is an int.
func (p Params) Int(key string) (int, bool) {
	v, ok := p[key].(int)
	return v, ok
}

// String returns the value stored under key when it is a string or a
// non-nil *string.
func (p Params) String(key string) (string, bool) {
	switch v := p[key].(type) {
	case string:
		return v, true
	case *string:
		if v != nil {
			return *v, true
		}
	}
	return "", false
}

// Request wraps an incoming HTTP request with the first value of every query
// parameter and a mutable parameter bag.
type Request struct {
	*http.Request

	Query  map[string]string
	Params Params
}

// NewRequest builds a Request from r. Path variables attached by a router
// adapter are copied into Params.
func NewRequest(r *http.Request) *Request {
	values := r.URL.Query()
	query := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	pathParams := PathParams(r)
	params := make(Params, len(pathParams))
	for k, v := range pathParams {
		params[k] = v
	}

	return &Request{
		Request: r,
		Query:   query,
		Params:  params,
	}
}

// HandlerFunc is the signature of a controller member. The returned value is
// serialized by the response envelope chosen for the member.
type HandlerFunc func(req *Request) (any, error)

// Middleware wraps a HandlerFunc.
type Middleware func(HandlerFunc) HandlerFunc

// Chain wraps h with mws. The first middleware is the outermost.
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Router binds a handler to an HTTP method and path template.
type Router interface {
	Handle(method, path string, h http.Handler)
}

// RouterFunc adapts a function to the Router interface.
type RouterFunc func(method, path string, h http.Handler)

// Handle implements Router.
func (f RouterFunc) Handle(method, path string, h http.Handler) {
	f(method, path, h)
}

type pathParamsKey struct{}

// WithPathParams returns a shallow copy of r carrying the matched path
// variables. Adapters call it before invoking the bound handler.
func WithPathParams(r *http.Request, params map[string]string) *http.Request {
	if len(params) == 0 {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), pathParamsKey{}, params))
}

// PathParams returns the path variables attached to r, if any.
func PathParams(r *http.Request) map[string]string {
	if params, ok := r.Context().Value(pathParamsKey{}).(map[string]string); ok {
		return params
	}
	return nil
}

// placeholderRegexp matches {name} placeholders in a path template.
var placeholderRegexp = regexp.MustCompile(`\{([^}/]+)\}`)

// ParamNames returns the placeholder names of a path template in order.
func ParamNames(tpl string) []string {
	matches := placeholderRegexp.FindAllStringSubmatch(tpl, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// ColonPath converts {name} placeholders to the :name syntax used by echo,
// gin and fiber.
func ColonPath(tpl string) string {
	return placeholderRegexp.ReplaceAllString(tpl, ":$1")
}

type templateKey struct{}

// WithTemplate records the path template of the route r was dispatched to.
// When an outer handler reserved a slot with TrackTemplate the template is
// stored there and r is returned as is; otherwise a shallow copy of r
// carrying the template is returned.
func WithTemplate(r *http.Request, tpl string) *http.Request {
	if slot, ok := r.Context().Value(templateKey{}).(*string); ok {
		*slot = tpl
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), templateKey{}, &tpl))
}

// TrackTemplate reserves a template slot in the context of r, so that
// middleware running outside the router can read the template once the
// request has been dispatched.
func TrackTemplate(r *http.Request) *http.Request {
	if _, ok := r.Context().Value(templateKey{}).(*string); ok {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), templateKey{}, new(string)))
}

// Template returns the path template recorded by WithTemplate, or "".
func Template(r *http.Request) string {
	if slot, ok := r.Context().Value(templateKey{}).(*string); ok {
		return *slot
	}
	return ""
}
