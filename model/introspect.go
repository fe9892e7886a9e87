// Package model turns data-model column metadata into Swagger definitions.
package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kalyuk/swagdeco/swagger"
)

// ErrUnnamedModel is returned when no definition name can be derived from
// a model and none was supplied.
var ErrUnnamedModel = errors.New("model has no name")

// Options adjusts how a model is documented.
type Options struct {
	// Name overrides the definition name (default: the struct type name).
	Name string

	// Hidden lists property names left out of the definition.
	Hidden []string
}

// Introspector builds definitions from the columns reported by Source.
type Introspector struct {
	Source ColumnSource
}

// NewIntrospector creates an introspector reading columns from src.
// A nil src reads `column` struct tags.
func NewIntrospector(src ColumnSource) *Introspector {
	if src == nil {
		src = StructTags{}
	}
	return &Introspector{Source: src}
}

// Schema returns the definition name and schema of model. Columns without
// options are documented as varchar.
func (in *Introspector) Schema(model any, opts Options) (string, *swagger.Schema, error) {
	name := opts.Name
	if name == "" {
		name = Name(model)
	}
	if name == "" {
		return "", nil, fmt.Errorf("%w: %T", ErrUnnamedModel, model)
	}

	cols, err := in.Source.Columns(model)
	if err != nil {
		return "", nil, fmt.Errorf("columns of %s: %w", name, err)
	}

	properties := make(map[string]*swagger.Schema, len(cols))
	for _, col := range cols {
		if slices.Contains(opts.Hidden, col.Property) {
			continue
		}
		colOpts := ColumnOptions{Type: Varchar}
		if col.Options != nil {
			colOpts = *col.Options
		}
		properties[col.Property] = TypeOf(colOpts)
	}

	return name, &swagger.Schema{
		Type:       "object",
		Required:   []string{},
		Properties: properties,
	}, nil
}

// Register builds the definition of model and stores it in doc, replacing
// any previous definition of the same name. It returns the name used.
func (in *Introspector) Register(doc *swagger.Document, model any, opts Options) (string, error) {
	name, schema, err := in.Schema(model, opts)
	if err != nil {
		return "", err
	}
	if err := doc.UpsertDefinition(name, schema); err != nil {
		return "", err
	}
	return name, nil
}
