package meta

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalyuk/swagdeco/swagger"
)

func TestStoreGet(t *testing.T) {
	t.Run("unknown entity", func(t *testing.T) {
		s := NewStore()

		_, err := s.Get("users", "list")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownEntity))
		assert.Contains(t, err.Error(), "users")
	})

	t.Run("unknown member", func(t *testing.T) {
		s := NewStore()
		s.Set("users", "list", Record{URL: "/users", Method: "get"})

		_, err := s.Get("users", "show")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownMember))
		assert.Contains(t, err.Error(), "users.show")
	})

	t.Run("returns a copy", func(t *testing.T) {
		s := NewStore()
		s.Set("users", "list", Record{Params: &swagger.Operation{Tags: []string{"users"}}})

		rec, err := s.Get("users", "list")
		require.NoError(t, err)
		rec.Params.Tags[0] = "changed"
		rec.Params.Summary = "changed"

		again, err := s.Get("users", "list")
		require.NoError(t, err)
		assert.Equal(t, []string{"users"}, again.Params.Tags)
		assert.Empty(t, again.Params.Summary)
	})

	t.Run("set copies the patch", func(t *testing.T) {
		s := NewStore()
		params := []*swagger.Parameter{{Name: "id", In: swagger.InPath}}
		s.Set("users", "show", Record{Params: &swagger.Operation{Parameters: params}})

		params[0].Name = "changed"

		rec, err := s.Get("users", "show")
		require.NoError(t, err)
		assert.Equal(t, "id", rec.Params.Parameters[0].Name)
	})
}

func TestStoreEntity(t *testing.T) {
	s := NewStore()
	s.Set("users", "list", Record{URL: "/users"})
	s.Set("users", "show", Record{URL: "/users/{id}"})
	s.Set("posts", "list", Record{URL: "/posts"})

	members, err := s.Entity("users")
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Equal(t, "/users/{id}", members["show"].URL)

	_, err = s.Entity("comments")
	assert.True(t, errors.Is(err, ErrUnknownEntity))

	assert.Equal(t, []string{"posts", "users"}, s.Entities())
	assert.Equal(t, []string{"list", "show"}, s.Members("users"))
	assert.True(t, s.Has("posts", "list"))
	assert.False(t, s.Has("posts", "show"))
}

func TestMergePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		first  Record
		second Record
		want   Record
	}{
		{
			name:   "scalars replaced",
			first:  Record{URL: "/users", Method: "get"},
			second: Record{Method: "post"},
			want:   Record{URL: "/users", Method: "post"},
		},
		{
			name:   "pagination fields fill gaps",
			first:  Record{Pagination: &Pagination{Type: Classic, PageSize: 10, Sizes: []int{10, 20}}},
			second: Record{Pagination: &Pagination{Type: Cursor}},
			want:   Record{Pagination: &Pagination{Type: Cursor, PageSize: 10, Sizes: []int{10, 20}}},
		},
		{
			name:   "slices replaced wholesale",
			first:  Record{Params: &swagger.Operation{Tags: []string{"a", "b"}}},
			second: Record{Params: &swagger.Operation{Tags: []string{"c"}}},
			want:   Record{Params: &swagger.Operation{Tags: []string{"c"}}},
		},
		{
			name:   "operation keys merge",
			first:  Record{URL: "/users", Params: &swagger.Operation{Tags: []string{"users"}}},
			second: Record{Params: &swagger.Operation{Summary: "List"}},
			want:   Record{URL: "/users", Params: &swagger.Operation{Tags: []string{"users"}, Summary: "List"}},
		},
		{
			name: "responses merge by status",
			first: Record{Params: &swagger.Operation{Responses: map[int]*swagger.Response{
				200: {Description: "ok", Schema: &swagger.Schema{Type: "object"}},
				404: {Description: "missing"},
			}}},
			second: Record{Params: &swagger.Operation{Responses: map[int]*swagger.Response{
				200: {Schema: &swagger.Schema{Properties: map[string]*swagger.Schema{"data": {Type: "object"}}}},
				201: {Description: "created"},
			}}},
			want: Record{Params: &swagger.Operation{Responses: map[int]*swagger.Response{
				200: {Description: "ok", Schema: &swagger.Schema{Type: "object", Properties: map[string]*swagger.Schema{"data": {Type: "object"}}}},
				201: {Description: "created"},
				404: {Description: "missing"},
			}}},
		},
		{
			name: "nested schema properties merge",
			first: Record{Params: &swagger.Operation{Responses: map[int]*swagger.Response{
				200: {Schema: &swagger.Schema{Properties: map[string]*swagger.Schema{
					"data": {Type: "object", Properties: map[string]*swagger.Schema{"item": swagger.RefTo("User")}},
				}}},
			}}},
			second: Record{Params: &swagger.Operation{Responses: map[int]*swagger.Response{
				200: {Schema: &swagger.Schema{Properties: map[string]*swagger.Schema{
					"data": {Properties: map[string]*swagger.Schema{"total": {Type: "number"}}},
				}}},
			}}},
			want: Record{Params: &swagger.Operation{Responses: map[int]*swagger.Response{
				200: {Schema: &swagger.Schema{Properties: map[string]*swagger.Schema{
					"data": {Type: "object", Properties: map[string]*swagger.Schema{
						"item":  swagger.RefTo("User"),
						"total": {Type: "number"},
					}},
				}}},
			}}},
		},
		{
			name:   "empty patch keeps everything",
			first:  Record{URL: "/users", Method: "get", Pagination: &Pagination{Type: Classic, PageSize: 10}},
			second: Record{},
			want:   Record{URL: "/users", Method: "get", Pagination: &Pagination{Type: Classic, PageSize: 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.Set("e", "m", tt.first)
			s.Set("e", "m", tt.second)

			got, err := s.Get("e", "m")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeValid(t *testing.T) {
	assert.True(t, Classic.Valid())
	assert.True(t, Cursor.Valid())
	assert.False(t, Mode("offset").Valid())
}
