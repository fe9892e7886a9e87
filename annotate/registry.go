// Package annotate is the ordered registration API that documents and
// routes controller members.
//
// Each call on a Member is one annotation. Annotations run immediately, in
// call order: they deep-merge metadata into the store and push the
// member's accumulated documentation into the Swagger document. Routes are
// bound later by Mount, so the handler chain does not depend on the order
// in which annotations were applied.
//
//	reg := annotate.New(doc)
//	reg.Model(User{}, model.Options{Hidden: []string{"password"}})
//
//	users := reg.Controller("users")
//	users.Member("list").
//	    GET("/users", listUsers).
//	    Pagination(pagination.Config{Type: meta.Cursor}).
//	    Swagger(&swagger.Operation{Summary: "List users"}).
//	    Response([]User{}, http.StatusOK, "users").
//	    JSON(http.StatusOK)
//
//	if err := reg.Mount(router); err != nil {
//	    log.Fatal(err)
//	}
//
// Annotation errors do not panic. They are collected, logged, and returned
// by Err and Mount.
package annotate

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/kalyuk/swagdeco/meta"
	"github.com/kalyuk/swagdeco/model"
	"github.com/kalyuk/swagdeco/swagger"
)

// Option configures a Registry.
type Option func(*Registry)

// WithStore sets the metadata store (default: a new empty store).
func WithStore(s *meta.Store) Option {
	return func(r *Registry) {
		r.store = s
	}
}

// WithColumnSource sets where model columns are read from
// (default: model.StructTags).
func WithColumnSource(src model.ColumnSource) Option {
	return func(r *Registry) {
		r.introspector = model.NewIntrospector(src)
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithMiddleware appends net/http middleware applied to every mounted
// route. The first middleware is the outermost.
func WithMiddleware(mws ...func(http.Handler) http.Handler) Option {
	return func(r *Registry) {
		r.middleware = append(r.middleware, mws...)
	}
}

// Registry owns the document, the metadata store and every registered
// member. It is built by the bootstrap code; nothing in this package is
// global.
type Registry struct {
	doc          *swagger.Document
	store        *meta.Store
	introspector *model.Introspector
	logger       *slog.Logger
	middleware   []func(http.Handler) http.Handler

	models      map[reflect.Type]string
	refs        map[reflect.Type]string
	controllers map[string]*Controller
	members     []*Member
	errs        []error
}

// New creates a registry contributing to doc.
func New(doc *swagger.Document, opts ...Option) *Registry {
	r := &Registry{
		doc:         doc,
		models:      make(map[reflect.Type]string),
		refs:        make(map[reflect.Type]string),
		controllers: make(map[string]*Controller),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.store == nil {
		r.store = meta.NewStore()
	}
	if r.introspector == nil {
		r.introspector = model.NewIntrospector(nil)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Document returns the document the registry contributes to.
func (r *Registry) Document() *swagger.Document {
	return r.doc
}

// Store returns the metadata store.
func (r *Registry) Store() *meta.Store {
	return r.store
}

// Use appends net/http middleware applied to every route mounted afterwards.
func (r *Registry) Use(mws ...func(http.Handler) http.Handler) *Registry {
	r.middleware = append(r.middleware, mws...)
	return r
}

// Configure applies document-level settings.
func (r *Registry) Configure(s swagger.Settings) *Registry {
	r.doc.Assign(s)
	return r
}

// Model documents a data model as a definition. The definition name is the
// struct type name unless opts.Name overrides it; later references to the
// model type resolve to that name.
func (r *Registry) Model(v any, opts ...model.Options) *Registry {
	var o model.Options
	if len(opts) > 0 {
		o = opts[0]
	}

	name, err := r.introspector.Register(r.doc, v, o)
	if err != nil {
		r.fail(&AnnotationError{Entity: model.Name(v), Annotation: "model", Err: err})
		return r
	}

	if t := model.TypeOfModel(v); t != nil {
		if ref, ok := r.refs[t]; ok && ref != name {
			r.logger.Warn("model registered after being referenced under another name",
				slog.String("type", t.String()),
				slog.String("referenced", ref),
				slog.String("definition", name),
			)
		}
		r.models[t] = name
	}
	return r
}

// DefinitionName returns the definition name a model reference resolves
// to: the name it was registered under, or its type name. The first
// reference to a model that is not registered yet is logged.
func (r *Registry) DefinitionName(v any) string {
	t := model.TypeOfModel(v)
	if t == nil {
		return model.Name(v)
	}

	name, registered := r.models[t]
	if !registered {
		name = model.Name(v)
	}
	if _, seen := r.refs[t]; !seen {
		r.refs[t] = name
		if !registered {
			r.logger.Warn("reference to unregistered model",
				slog.String("type", t.String()),
				slog.String("definition", name),
			)
		}
	}
	return name
}

// ModelType returns the struct type registered under the definition name.
func (r *Registry) ModelType(name string) (reflect.Type, bool) {
	for t, n := range r.models {
		if n == name {
			return t, true
		}
	}
	return nil, false
}

// Controller returns the controller named entity, creating it on first use.
// The entity name keys the metadata store and is the default tag of every
// action.
func (r *Registry) Controller(entity string) *Controller {
	c, ok := r.controllers[entity]
	if !ok {
		c = &Controller{registry: r, entity: entity, members: make(map[string]*Member)}
		r.controllers[entity] = c
	}
	return c
}

// Err returns every annotation error recorded so far, joined.
func (r *Registry) Err() error {
	return errors.Join(r.errs...)
}

func (r *Registry) fail(err *AnnotationError) {
	r.logger.Error("annotation failed",
		slog.String("entity", err.Entity),
		slog.String("member", err.Member),
		slog.String("annotation", err.Annotation),
		slog.Any("error", err.Err),
	)
	r.errs = append(r.errs, err)
}

// Controller groups the members of one entity.
type Controller struct {
	registry *Registry
	entity   string
	members  map[string]*Member
}

// Name returns the entity name.
func (c *Controller) Name() string {
	return c.entity
}

// Member returns the member called name, creating it on first use.
func (c *Controller) Member(name string) *Member {
	m, ok := c.members[name]
	if !ok {
		m = &Member{registry: c.registry, entity: c.entity, name: name}
		c.members[name] = m
		c.registry.members = append(c.registry.members, m)
	}
	return m
}
