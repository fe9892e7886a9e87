package model

import (
	"fmt"
	"reflect"
	"strings"
)

// Column is a single column of a data model.
type Column struct {
	// Property is the name the column is documented under.
	Property string

	// Options is nil when the column carries no type information.
	Options *ColumnOptions
}

// ColumnSource reports the columns of a data model. It is the read-only
// bridge to whatever column metadata the storage layer keeps.
type ColumnSource interface {
	Columns(model any) ([]Column, error)
}

// ColumnSourceFunc adapts a function to the ColumnSource interface.
type ColumnSourceFunc func(model any) ([]Column, error)

// Columns implements ColumnSource.
func (f ColumnSourceFunc) Columns(model any) ([]Column, error) {
	return f(model)
}

// TagName is the struct tag read by StructTags.
const TagName = "column"

// StructTags is a ColumnSource reading the `column` struct tag of exported
// fields. Fields without the tag, or tagged "-", are not columns.
//
//	type User struct {
//	    ID      int      `json:"id" column:"type=int4"`
//	    Email   string   `json:"email" column:""`
//	    Roles   []string `json:"roles" column:"type=jsonb,array"`
//	    Status  string   `json:"status" column:"type=enum,enum=active|banned"`
//	    Session string   `json:"-"`
//	}
//
// The property name is the json tag name when present, the field name
// otherwise. Embedded structs without a json name are inlined.
type StructTags struct{}

// Columns implements ColumnSource.
func (StructTags) Columns(model any) ([]Column, error) {
	t := reflect.TypeOf(model)
	for t != nil && (t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model: %T is not a struct", model)
	}

	var cols []Column
	collectColumns(t, &cols)
	return cols, nil
}

func collectColumns(t reflect.Type, cols *[]Column) {
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonName, _, _ := strings.Cut(field.Tag.Get("json"), ",")

		if field.Anonymous && jsonName == "" {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectColumns(ft, cols)
				continue
			}
		}

		tag, ok := field.Tag.Lookup(TagName)
		if !ok || tag == "-" {
			continue
		}

		name := jsonName
		if name == "" || name == "-" {
			name = field.Name
		}

		*cols = append(*cols, Column{Property: name, Options: parseColumnTag(tag)})
	}
}

// parseColumnTag parses "type=jsonb,array,enum=a|b". An empty tag yields
// nil options.
func parseColumnTag(tag string) *ColumnOptions {
	if strings.TrimSpace(tag) == "" {
		return nil
	}

	opts := &ColumnOptions{}
	for part := range strings.SplitSeq(tag, ",") {
		key, value, _ := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "type":
			opts.Type = ColumnType(value)
		case "array":
			opts.IsArray = true
		case "enum":
			opts.Enum = strings.Split(value, "|")
		}
	}
	return opts
}
