package model

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalyuk/swagdeco/swagger"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		opts ColumnOptions
		want *swagger.Schema
	}{
		{ColumnOptions{Type: Int2}, &swagger.Schema{Type: "number"}},
		{ColumnOptions{Type: Int4}, &swagger.Schema{Type: "number"}},
		{ColumnOptions{Type: Int8}, &swagger.Schema{Type: "number"}},
		{ColumnOptions{Type: Int32}, &swagger.Schema{Type: "number"}},
		{ColumnOptions{Type: Int64}, &swagger.Schema{Type: "number"}},
		{ColumnOptions{Type: Integer}, &swagger.Schema{Type: "number"}},
		{ColumnOptions{Type: Float}, &swagger.Schema{Type: "number"}},
		{ColumnOptions{Type: SmallInt}, &swagger.Schema{Type: "number"}},
		{ColumnOptions{Type: BigInt}, &swagger.Schema{Type: "number"}},
		{ColumnOptions{Type: Decimal}, &swagger.Schema{Type: "number"}},
		{ColumnOptions{Type: Numeric}, &swagger.Schema{Type: "number"}},
		{ColumnOptions{Type: Double}, &swagger.Schema{Type: "number"}},
		{ColumnOptions{Type: Date}, &swagger.Schema{Type: "string", Format: "date"}},
		{ColumnOptions{Type: DateTime}, &swagger.Schema{Type: "string", Format: "date-time"}},
		{ColumnOptions{Type: Timestamp}, &swagger.Schema{Type: "number", Format: "date-time"}},
		{ColumnOptions{Type: JSON}, &swagger.Schema{Type: "object"}},
		{ColumnOptions{Type: JSONB}, &swagger.Schema{Type: "object"}},
		{ColumnOptions{Type: JSON, IsArray: true}, &swagger.Schema{Type: "array"}},
		{ColumnOptions{Type: JSONB, IsArray: true}, &swagger.Schema{Type: "array"}},
		{ColumnOptions{Type: Enum, Enum: []string{"a", "b"}}, &swagger.Schema{Type: "string", Enum: []any{"a", "b"}}},
		{ColumnOptions{Type: Varchar}, &swagger.Schema{Type: "string"}},
		{ColumnOptions{Type: "money"}, &swagger.Schema{Type: "string"}},
		{ColumnOptions{}, &swagger.Schema{Type: "string"}},
		{ColumnOptions{Type: "INT4"}, &swagger.Schema{Type: "number"}},
	}

	for _, tt := range tests {
		name := string(tt.opts.Type)
		if tt.opts.IsArray {
			name += "[]"
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.opts))
		})
	}
}

type Timestamps struct {
	CreatedAt string `json:"createdAt" column:"type=timestamp"`
}

type User struct {
	Timestamps

	ID       int      `json:"id" column:"type=int4"`
	Email    string   `json:"email,omitempty" column:""`
	Roles    []string `json:"roles" column:"type=jsonb,array"`
	Status   string   `json:"status" column:"type=enum,enum=active|banned"`
	Password string   `json:"password" column:"type=varchar"`
	Birthday string   `column:"type=date"`
	Session  string   `json:"-"`
	Ignored  string   `column:"-"`
}

type Page[T any] struct {
	Items []T `json:"items" column:"type=json,array"`
}

func TestStructTags(t *testing.T) {
	t.Run("columns", func(t *testing.T) {
		cols, err := StructTags{}.Columns(&User{})
		require.NoError(t, err)

		assert.Equal(t, []Column{
			{Property: "createdAt", Options: &ColumnOptions{Type: Timestamp}},
			{Property: "id", Options: &ColumnOptions{Type: Int4}},
			{Property: "email"},
			{Property: "roles", Options: &ColumnOptions{Type: JSONB, IsArray: true}},
			{Property: "status", Options: &ColumnOptions{Type: Enum, Enum: []string{"active", "banned"}}},
			{Property: "password", Options: &ColumnOptions{Type: Varchar}},
			{Property: "Birthday", Options: &ColumnOptions{Type: Date}},
		}, cols)
	})

	t.Run("slice of models", func(t *testing.T) {
		cols, err := StructTags{}.Columns([]User{})
		require.NoError(t, err)
		assert.Len(t, cols, 7)
	})

	t.Run("not a struct", func(t *testing.T) {
		_, err := StructTags{}.Columns(42)
		assert.Error(t, err)
	})
}

func TestName(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"value", User{}, "User"},
		{"pointer", &User{}, "User"},
		{"slice", []User{}, "User"},
		{"slice of pointers", []*User{}, "User"},
		{"array", [1]User{}, "User"},
		{"reflect type", reflect.TypeOf(User{}), "User"},
		{"generic", Page[User]{}, "PageUser"},
		{"generic list", Page[[]User]{}, "PageUserList"},
		{"not a struct", 1, ""},
		{"nil", nil, ""},
		{"anonymous struct", struct{ A int }{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.v))
		})
	}

	assert.True(t, IsModel(&User{}))
	assert.False(t, IsModel("User"))
}

func TestIntrospector(t *testing.T) {
	t.Run("schema", func(t *testing.T) {
		name, schema, err := NewIntrospector(nil).Schema(User{}, Options{})
		require.NoError(t, err)

		assert.Equal(t, "User", name)
		assert.Equal(t, "object", schema.Type)
		assert.Equal(t, []string{}, schema.Required)
		assert.Equal(t, &swagger.Schema{Type: "string"}, schema.Properties["email"], "column without options is varchar")
		assert.Equal(t, &swagger.Schema{Type: "number", Format: "date-time"}, schema.Properties["createdAt"])
		assert.Len(t, schema.Properties, 7)
	})

	t.Run("hidden and name override", func(t *testing.T) {
		name, schema, err := NewIntrospector(nil).Schema(&User{}, Options{
			Name:   "Account",
			Hidden: []string{"password", "roles"},
		})
		require.NoError(t, err)

		assert.Equal(t, "Account", name)
		assert.NotContains(t, schema.Properties, "password")
		assert.NotContains(t, schema.Properties, "roles")
		assert.Contains(t, schema.Properties, "id")
	})

	t.Run("custom source", func(t *testing.T) {
		src := ColumnSourceFunc(func(any) ([]Column, error) {
			return []Column{
				{Property: "price", Options: &ColumnOptions{Type: "money"}},
				{Property: "tags", Options: &ColumnOptions{Type: JSON, IsArray: true}},
			}, nil
		})

		_, schema, err := NewIntrospector(src).Schema(User{}, Options{})
		require.NoError(t, err)
		assert.Equal(t, map[string]*swagger.Schema{
			"price": {Type: "string"},
			"tags":  {Type: "array"},
		}, schema.Properties)
	})

	t.Run("source error", func(t *testing.T) {
		boom := errors.New("boom")
		src := ColumnSourceFunc(func(any) ([]Column, error) { return nil, boom })

		_, _, err := NewIntrospector(src).Schema(User{}, Options{})
		assert.True(t, errors.Is(err, boom))
	})

	t.Run("unnamed model", func(t *testing.T) {
		_, _, err := NewIntrospector(nil).Schema(struct{ A int }{}, Options{})
		assert.True(t, errors.Is(err, ErrUnnamedModel))
	})

	t.Run("register overwrites", func(t *testing.T) {
		doc := swagger.New(swagger.WithCollisionFunc(func(string, *swagger.Schema, *swagger.Schema) error {
			return nil
		}))
		in := NewIntrospector(nil)

		_, err := in.Register(doc, User{}, Options{})
		require.NoError(t, err)
		name, err := in.Register(doc, User{}, Options{Hidden: []string{"email"}})
		require.NoError(t, err)

		assert.Equal(t, "User", name)
		assert.NotContains(t, doc.Definition("User").Properties, "email")
	})

	t.Run("register strict collision", func(t *testing.T) {
		doc := swagger.New(swagger.WithCollisionFunc(swagger.RejectCollisions))
		in := NewIntrospector(nil)

		_, err := in.Register(doc, User{}, Options{})
		require.NoError(t, err)
		_, err = in.Register(doc, User{}, Options{Hidden: []string{"email"}})
		assert.True(t, errors.Is(err, swagger.ErrDefinitionCollision))
		assert.Contains(t, doc.Definition("User").Properties, "email")
	})
}
