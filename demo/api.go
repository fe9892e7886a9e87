package demo

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kalyuk/swagdeco/annotate"
	"github.com/kalyuk/swagdeco/directive"
	"github.com/kalyuk/swagdeco/meta"
	"github.com/kalyuk/swagdeco/model"
	"github.com/kalyuk/swagdeco/pagination"
	"github.com/kalyuk/swagdeco/route"
	"github.com/kalyuk/swagdeco/swagger"
)

// DocsPath is the route of the member serving the raw document.
const DocsPath = "/swagger"

// Register documents the demo models and registers the users, posts and
// docs controllers on reg. It returns the annotation errors recorded so far.
func Register(reg *annotate.Registry, repo *Repository) error {
	reg.Model(User{}, model.Options{Hidden: []string{"PasswordHash"}}).
		Model(NewUser{}).
		Model(Post{}).
		Model(NewPost{})

	h := &handlers{repo: repo}
	registerUsers(reg.Controller("users"), h)
	dirErr := registerPosts(reg.Controller("posts"), h)

	reg.Controller("docs").Member("swagger").
		GET(DocsPath, nil).
		SwaggerDoc()

	return errors.Join(dirErr, reg.Err())
}

func registerUsers(c *annotate.Controller, h *handlers) {
	idParam := annotate.ParamOptions{Type: "integer", Description: "User id"}

	c.Member("list").
		GET("/users", h.listUsers).
		Pagination(pagination.Config{Type: meta.Classic}).
		Swagger(&swagger.Operation{Summary: "List users", OperationID: "listUsers"}).
		Param("q", swagger.InQuery, annotate.ParamOptions{Type: "string", Description: "Filter by name"}).
		Response([]User{}, http.StatusOK, "A page of users")

	c.Member("get").
		GET("/users/{id}", h.getUser).
		Swagger(&swagger.Operation{Summary: "Get a user", OperationID: "getUser"}).
		Param("id", swagger.InPath, idParam).
		Response(User{}, http.StatusOK, "The user")

	c.Member("create").
		POST("/users", h.createUser).
		Swagger(&swagger.Operation{Summary: "Create a user", OperationID: "createUser"}).
		Param("body", swagger.InBody, annotate.ParamOptions{Schema: NewUser{}, Required: true}).
		Response(User{}, http.StatusCreated, "The created user").
		JSON(http.StatusCreated)

	c.Member("delete").
		DELETE("/users/{id}", h.deleteUser).
		Swagger(&swagger.Operation{Summary: "Delete a user", OperationID: "deleteUser"}).
		Param("id", swagger.InPath, idParam).
		Response(User{}, http.StatusOK, "The deleted user")
}

const (
	listPostsDoc = `
@GET /posts
@pagination cursor 20 sizes=[10,20,50]
@summary "List posts"
@id listPosts
@param author query type=integer description="Filter by author id"
@response 200 []Post "A page of posts"
`

	getPostDoc = `
@GET /posts/{id}
@summary "Get a post"
@id getPost
@param id path type=string format=uuid
@response 200 Post "The post"
`

	createPostDoc = `
@POST /posts
@summary "Create a post"
@id createPost
@param body body required schema=NewPost
@response 201 Post "The created post"
@json 201
`
)

func registerPosts(c *annotate.Controller, h *handlers) error {
	return errors.Join(
		directive.Bind(c.Member("list"), h.listPosts, listPostsDoc),
		directive.Bind(c.Member("get"), h.getPost, getPostDoc),
		directive.Bind(c.Member("create"), h.createPost, createPostDoc),
	)
}

type handlers struct {
	repo *Repository
}

func (h *handlers) listUsers(req *route.Request) (any, error) {
	p, _ := pagination.FromRequest(req)
	users, total := h.repo.Users(req.Query["q"], p.Offset, p.PageSize)
	return UserPage{Total: total, Page: p.Page, Items: users}, nil
}

func (h *handlers) getUser(req *route.Request) (any, error) {
	id, err := intParam(req, "id")
	if err != nil {
		return nil, err
	}
	u, err := h.repo.User(id)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (h *handlers) createUser(req *route.Request) (any, error) {
	var in NewUser
	if err := req.BindJSON(&in); err != nil {
		return nil, err
	}
	if in.Name == "" || in.Email == "" {
		return nil, route.NewHTTPError(http.StatusBadRequest, "name and email are required")
	}
	if in.Role != "" && in.Role != "admin" && in.Role != "member" {
		return nil, route.NewHTTPError(http.StatusBadRequest, "role must be admin or member")
	}
	return h.repo.CreateUser(in), nil
}

func (h *handlers) deleteUser(req *route.Request) (any, error) {
	id, err := intParam(req, "id")
	if err != nil {
		return nil, err
	}
	u, err := h.repo.DeleteUser(id)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (h *handlers) listPosts(req *route.Request) (any, error) {
	p, _ := pagination.FromRequest(req)

	author := 0
	if raw := req.Query["author"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, route.NewHTTPError(http.StatusBadRequest, "author must be an integer").Wrap(err)
		}
		author = n
	}

	posts, next, total, err := h.repo.Posts(author, p.Cursor, p.PageSize)
	if err != nil {
		return nil, route.NewHTTPError(http.StatusBadRequest, err.Error()).Wrap(err)
	}
	return PostPage{Total: total, Cursor: next, Items: posts}, nil
}

func (h *handlers) getPost(req *route.Request) (any, error) {
	id, _ := req.Params.String("id")
	p, err := h.repo.Post(id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (h *handlers) createPost(req *route.Request) (any, error) {
	var in NewPost
	if err := req.BindJSON(&in); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, route.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	p, err := h.repo.CreatePost(in)
	if errors.Is(err, ErrNotFound) {
		return nil, route.NewHTTPError(http.StatusUnprocessableEntity, "author does not exist").Wrap(err)
	}
	return p, err
}

func intParam(req *route.Request, name string) (int, error) {
	raw, _ := req.Params.String(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, route.NewHTTPError(http.StatusBadRequest, name+" must be an integer").Wrap(err)
	}
	return n, nil
}

func notFound(err error) error {
	return route.NewHTTPError(http.StatusNotFound, "").Wrap(err)
}
