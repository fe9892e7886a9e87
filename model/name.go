package model

import (
	"reflect"
	"strings"
)

// TypeOfModel returns the struct type behind v, unwrapping pointers, slices
// and arrays. v may also be a reflect.Type. It returns nil when no struct
// type is found.
func TypeOfModel(v any) reflect.Type {
	var t reflect.Type
	switch x := v.(type) {
	case nil:
		return nil
	case reflect.Type:
		t = x
	default:
		t = reflect.TypeOf(v)
	}

	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

// IsModel reports whether v resolves to a named struct type.
func IsModel(v any) bool {
	t := TypeOfModel(v)
	return t != nil && t.Name() != ""
}

// Name returns the definition name of a model value: the sanitized name of
// its struct type. Generic names such as "Page[User]" become "PageUser".
// It returns "" for values that are not named structs.
func Name(v any) string {
	t := TypeOfModel(v)
	if t == nil {
		return ""
	}
	return sanitizeName(t.Name())
}

// sanitizeName cleans up Go type names for use as definition keys.
// "Page[User]" becomes "PageUser", "Page[[]User]" becomes "PageUserList"
// and package paths in type arguments are stripped.
func sanitizeName(name string) string {
	idx := strings.IndexByte(name, '[')
	if idx < 0 {
		return name
	}

	base := name[:idx]
	inner := name[idx+1 : len(name)-1]

	isList := strings.HasPrefix(inner, "[]")
	inner = strings.TrimPrefix(inner, "[]")

	if dot := strings.LastIndexByte(inner, '.'); dot >= 0 {
		inner = inner[dot+1:]
	}

	result := base + inner
	if isList {
		result += "List"
	}
	return result
}
