package adapters

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalyuk/swagdeco/route"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serve dispatches req to srv and returns status and body.
func serve(t *testing.T, srv Server, req *http.Request) (int, string) {
	t.Helper()

	if f, ok := srv.(*Fiber); ok {
		resp, err := f.App().Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	h, ok := srv.(http.Handler)
	require.True(t, ok, "%s must implement http.Handler", srv.Name())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code, w.Body.String()
}

func newServers() map[string]Server {
	return map[string]Server{
		FrameworkStdlib: NewServeMux(nil),
		FrameworkEcho:   NewEcho(nil),
		FrameworkGin:    NewGin(nil),
		FrameworkFiber:  NewFiber(nil),
	}
}

func TestAdapters(t *testing.T) {
	handler := route.Envelope(http.StatusOK, func(req *route.Request) (any, error) {
		return map[string]any{
			"id":     req.Params["id"],
			"postId": req.Params["postId"],
			"q":      req.Query["q"],
		}, nil
	}, nil)

	for name, srv := range newServers() {
		t.Run(name, func(t *testing.T) {
			srv.Handle(http.MethodGet, "/users/{id}/posts/{postId}", handler)
			srv.Handle(http.MethodPost, "/users", route.Envelope(http.StatusCreated, func(*route.Request) (any, error) {
				return "created", nil
			}, nil))

			t.Run("path params and query", func(t *testing.T) {
				code, body := serve(t, srv, httptest.NewRequest(http.MethodGet, "/users/7/posts/42?q=go", nil))
				require.Equal(t, http.StatusOK, code, body)

				var got struct {
					Data map[string]string `json:"data"`
				}
				require.NoError(t, json.Unmarshal([]byte(body), &got))
				assert.Equal(t, map[string]string{"id": "7", "postId": "42", "q": "go"}, got.Data)
			})

			t.Run("method", func(t *testing.T) {
				code, body := serve(t, srv, httptest.NewRequest(http.MethodPost, "/users", nil))
				assert.Equal(t, http.StatusCreated, code)
				assert.JSONEq(t, `{"data":"created"}`, body)
			})

			t.Run("unknown path", func(t *testing.T) {
				code, _ := serve(t, srv, httptest.NewRequest(http.MethodGet, "/missing", nil))
				assert.Equal(t, http.StatusNotFound, code)
			})
		})
	}
}

func TestNew(t *testing.T) {
	tests := map[string]string{
		"":       "net/http",
		"stdlib": "net/http",
		"echo":   "Echo",
		"GIN":    "Gin",
		"fiber":  "Fiber",
	}
	for in, want := range tests {
		srv, err := New(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, srv.Name())
	}

	_, err := New("chi")
	assert.Error(t, err)
}

func TestStopBeforeStart(t *testing.T) {
	for name, srv := range newServers() {
		if name == FrameworkFiber {
			continue
		}
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, srv.Stop(t.Context()))
			assert.NoError(t, srv.Start("127.0.0.1:0"), "start after stop returns immediately")
		})
	}
}
