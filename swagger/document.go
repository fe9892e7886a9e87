package swagger

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrDefinitionCollision is returned by RejectCollisions when a definition
// name is claimed by a second, different schema.
var ErrDefinitionCollision = errors.New("definition name already registered")

// CollisionFunc is invoked by UpsertDefinition before an existing definition
// is replaced by a different schema. Returning an error aborts the overwrite.
type CollisionFunc func(name string, prev, next *Schema) error

// WarnOnCollision returns a CollisionFunc that logs a warning and lets the
// new schema win.
func WarnOnCollision(logger *slog.Logger) CollisionFunc {
	return func(name string, _, _ *Schema) error {
		logger.Warn("swagger definition overwritten", slog.String("definition", name))
		return nil
	}
}

// RejectCollisions is a CollisionFunc that refuses every overwrite.
func RejectCollisions(name string, _, _ *Schema) error {
	return fmt.Errorf("%w: %s", ErrDefinitionCollision, name)
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used by the default collision handler.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		d.logger = logger
	}
}

// WithCollisionFunc replaces the definition collision handler.
func WithCollisionFunc(fn CollisionFunc) Option {
	return func(d *Document) {
		d.onCollision = fn
	}
}

// Document is the Swagger 2.0 specification assembled from annotations.
// It is created once by the bootstrap code and shared by reference with
// every component that contributes to it. Mutation happens during the
// single-threaded registration phase only; afterwards it is read-only.
//
// See: https://swagger.io/specification/v2/#swagger-object
type Document struct {
	Swagger     string              `json:"swagger"`
	Info        Info                `json:"info"`
	Host        string              `json:"host"`
	BasePath    string              `json:"basePath"`
	Tags        []Tag               `json:"tags"`
	Schemes     []string            `json:"schemes"`
	Paths       map[string]PathItem `json:"paths"`
	Definitions map[string]*Schema  `json:"definitions"`

	logger      *slog.Logger
	onCollision CollisionFunc
}

// New creates a document with the defaults: host "localhost", scheme
// "http", empty info, tags, paths and definitions.
func New(opts ...Option) *Document {
	d := &Document{
		Swagger:     Version,
		Host:        "localhost",
		Tags:        []Tag{},
		Schemes:     []string{"http"},
		Paths:       make(map[string]PathItem),
		Definitions: make(map[string]*Schema),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.onCollision == nil {
		d.onCollision = WarnOnCollision(d.logger)
	}
	return d
}

// Settings holds document-level overrides. Only the fields that are set
// replace the corresponding document fields.
type Settings struct {
	Host     string
	BasePath string
	Info     *Info
	Tags     []Tag
	Schemes  []string
}

// Assign applies document-level overrides.
func (d *Document) Assign(s Settings) *Document {
	if s.Host != "" {
		d.Host = s.Host
	}
	if s.BasePath != "" {
		d.BasePath = s.BasePath
	}
	if s.Info != nil {
		d.Info = *s.Info
	}
	if s.Tags != nil {
		d.Tags = s.Tags
	}
	if s.Schemes != nil {
		d.Schemes = s.Schemes
	}
	return d
}

// UpsertPath makes sure paths[url][method] exists and assigns every field
// that is set on frag onto it. Fields replace wholesale; nothing is merged
// below the top level of the operation. Applying the same fragment twice
// leaves the document unchanged.
func (d *Document) UpsertPath(url, method string, frag *Operation) {
	method = strings.ToLower(method)

	item, ok := d.Paths[url]
	if !ok {
		item = make(PathItem)
		d.Paths[url] = item
	}

	op, ok := item[method]
	if !ok {
		op = &Operation{}
		item[method] = op
	}

	if frag == nil {
		return
	}

	if frag.Tags != nil {
		op.Tags = frag.Tags
	}
	if frag.Summary != "" {
		op.Summary = frag.Summary
	}
	if frag.Description != "" {
		op.Description = frag.Description
	}
	if frag.OperationID != "" {
		op.OperationID = frag.OperationID
	}
	if frag.Consumes != nil {
		op.Consumes = frag.Consumes
	}
	if frag.Produces != nil {
		op.Produces = frag.Produces
	}
	if frag.Parameters != nil {
		op.Parameters = frag.Parameters
	}
	if frag.Responses != nil {
		op.Responses = frag.Responses
	}
	if frag.Deprecated {
		op.Deprecated = true
	}
}

// UpsertDefinition stores schema under name, last writer wins. When the name
// is already taken by a different schema the collision handler runs first;
// an error from it leaves the existing definition in place.
func (d *Document) UpsertDefinition(name string, schema *Schema) error {
	if prev, ok := d.Definitions[name]; ok && !reflect.DeepEqual(prev, schema) {
		if err := d.onCollision(name, prev, schema); err != nil {
			return err
		}
	}
	d.Definitions[name] = schema
	return nil
}

// Path returns the operation stored for url and method, or nil.
func (d *Document) Path(url, method string) *Operation {
	item, ok := d.Paths[url]
	if !ok {
		return nil
	}
	return item[strings.ToLower(method)]
}

// Definition returns the named definition, or nil.
func (d *Document) Definition(name string) *Schema {
	return d.Definitions[name]
}

// JSON returns the indented JSON encoding of the document.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML returns the document encoded as block-style YAML. The JSON encoding
// is used as the source so that field names and key order match the JSON
// endpoint exactly.
func (d *Document) YAML() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)

	return yaml.Marshal(&node)
}

// blockStyle clears the flow and quoting styles inherited from the JSON
// source. yaml.v3 re-quotes scalars whose plain form would change type.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
