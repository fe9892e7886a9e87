package annotate

import (
	"fmt"

	"github.com/kalyuk/swagdeco/model"
	"github.com/kalyuk/swagdeco/swagger"
)

// ParamOptions describes a parameter added with Member.Param.
type ParamOptions struct {
	Description string
	Required    bool

	// Schema is a model value (User{}, &User{}, []User{}) or a
	// *swagger.Schema. Models become references to their definition;
	// slices of models become arrays of references.
	Schema any

	Type             string
	Format           string
	Items            *swagger.Schema
	CollectionFormat string
	Enum             []any
	Default          any
}

// Param appends a parameter to the member's parameter list and pushes the
// member into the document. Parameters keep the order in which they were
// added.
func (m *Member) Param(name, in string, opts ParamOptions) *Member {
	if err := m.addParam(name, in, opts); err != nil {
		return m.fail("param", err)
	}
	return m
}

func (m *Member) addParam(name, in string, opts ParamOptions) error {
	if !swagger.ValidIn(in) {
		return fmt.Errorf("%w: %q", ErrInvalidLocation, in)
	}

	p := &swagger.Parameter{
		Name:             name,
		In:               in,
		Description:      opts.Description,
		Required:         opts.Required || in == swagger.InPath,
		Type:             opts.Type,
		Format:           opts.Format,
		Items:            opts.Items,
		CollectionFormat: opts.CollectionFormat,
		Enum:             opts.Enum,
		Default:          opts.Default,
	}

	if opts.Schema != nil {
		schema, err := m.registry.schemaOf(opts.Schema)
		if err != nil {
			return err
		}
		p.Schema = schema
	}

	rec, err := m.record()
	if err != nil {
		return err
	}

	var params []*swagger.Parameter
	if rec.Params != nil {
		params = rec.Params.Parameters
	}
	params = append(params, p)

	return m.update(&swagger.Operation{Parameters: params})
}

// hasParam reports whether the member already documents a parameter with
// the given name and location.
func (m *Member) hasParam(name, in string) bool {
	rec, err := m.record()
	if err != nil || rec.Params == nil {
		return false
	}
	for _, p := range rec.Params.Parameters {
		if p.Name == name && p.In == in {
			return true
		}
	}
	return false
}

// schemaOf resolves a parameter schema. Only struct types (directly,
// behind a pointer, or as slice elements) are turned into references;
// any other value except *swagger.Schema is rejected.
func (r *Registry) schemaOf(v any) (*swagger.Schema, error) {
	switch s := v.(type) {
	case *swagger.Schema:
		return s, nil
	case swagger.Schema:
		return &s, nil
	}

	if !model.IsModel(v) {
		return nil, fmt.Errorf("%w: %T", ErrInvalidSchema, v)
	}

	ref := swagger.RefTo(r.DefinitionName(v))
	if isCollection(v) {
		return &swagger.Schema{Type: "array", Items: ref}, nil
	}
	return ref, nil
}
