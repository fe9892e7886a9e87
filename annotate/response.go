package annotate

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/kalyuk/swagdeco/meta"
	"github.com/kalyuk/swagdeco/model"
	"github.com/kalyuk/swagdeco/swagger"
)

// Response documents the response for status. ref is a model value for a
// single resource (User{}) or a slice of one for a collection ([]User{}).
//
// Single resources are documented as {data: {item: <ref>}}. Collections
// are documented as {data: {total, page|cursor, items: [<ref>]}}; when the
// member is paginated the matching query parameters (pageSize, and page or
// cursor) are added to the member unless already present.
//
// A zero status means 200.
func (m *Member) Response(ref any, status int, description string) *Member {
	if status == 0 {
		status = http.StatusOK
	}
	if err := m.addResponse(ref, status, description); err != nil {
		return m.fail("response", err)
	}
	return m
}

func (m *Member) addResponse(ref any, status int, description string) error {
	if !model.IsModel(ref) {
		return fmt.Errorf("%w: %T", ErrInvalidModel, ref)
	}

	rec, err := m.record()
	if err != nil {
		return err
	}

	item := swagger.RefTo(m.registry.DefinitionName(ref))

	var data map[string]*swagger.Schema
	if isCollection(ref) {
		data = map[string]*swagger.Schema{
			"total": {Type: "number"},
			"items": {Type: "array", Items: item},
		}
		if rec.Pagination != nil {
			if err := m.paginationParams(*rec.Pagination); err != nil {
				return err
			}
			if rec.Pagination.Type == meta.Cursor {
				data["cursor"] = &swagger.Schema{Type: "string"}
			} else {
				data["page"] = &swagger.Schema{Type: "number"}
			}
		}
	} else {
		data = map[string]*swagger.Schema{"item": item}
	}

	return m.update(&swagger.Operation{
		Responses: map[int]*swagger.Response{
			status: {
				Description: description,
				Schema: &swagger.Schema{
					Type: "object",
					Properties: map[string]*swagger.Schema{
						"data": {Type: "object", Properties: data},
					},
				},
			},
		},
	})
}

// paginationParams adds the pagination query parameters of shape.
func (m *Member) paginationParams(shape meta.Pagination) error {
	sizes := make([]any, len(shape.Sizes))
	for i, s := range shape.Sizes {
		sizes[i] = s
	}

	type queryParam struct {
		name string
		opts ParamOptions
	}

	params := []queryParam{
		{"pageSize", ParamOptions{Type: "string", Enum: sizes, Default: firstOrNil(sizes)}},
	}
	if shape.Type == meta.Cursor {
		params = append(params, queryParam{"cursor", ParamOptions{Type: "string"}})
	} else {
		params = append(params, queryParam{"page", ParamOptions{Type: "number", Default: 1}})
	}

	for _, p := range params {
		if m.hasParam(p.name, swagger.InQuery) {
			continue
		}
		if err := m.addParam(p.name, swagger.InQuery, p.opts); err != nil {
			return err
		}
	}
	return nil
}

func firstOrNil(values []any) any {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// isCollection reports whether a model reference denotes a collection.
func isCollection(v any) bool {
	t := reflect.TypeOf(v)
	if rt, ok := v.(reflect.Type); ok {
		t = rt
	}
	if t == nil {
		return false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}
