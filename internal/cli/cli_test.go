package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kalyuk/swagdeco/demo"
	"github.com/kalyuk/swagdeco/route"
)

func init() {
	color.NoColor = true
}

// execute runs the CLI with args inside an empty working directory.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExport(t *testing.T) {
	t.Run("json to stdout", func(t *testing.T) {
		out, _, err := execute(t, "export")
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "2.0", doc["swagger"])
		assert.Contains(t, doc["paths"], "/users/{id}")
		assert.Contains(t, doc["definitions"], "User")
	})

	t.Run("yaml to stdout", func(t *testing.T) {
		out, _, err := execute(t, "export", "--format", "YAML")
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "2.0", doc["swagger"])
	})

	t.Run("to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "swagger.json")
		out, stderr, err := execute(t, "export", "-o", path)
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Contains(t, stderr, "document written")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, json.Valid(data))
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, _, err := execute(t, "export", "--format", "xml")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUsage)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, _, err := execute(t, "export", "--nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUsage)
		assert.Contains(t, err.Error(), "Usage:")
	})
}

func TestConfigErrors(t *testing.T) {
	t.Run("missing explicit config", func(t *testing.T) {
		_, _, err := execute(t, "--config", "nope.yaml", "routes")
		assert.Error(t, err)
	})

	t.Run("invalid framework from env", func(t *testing.T) {
		t.Setenv("SWAGDECO_SERVER_FRAMEWORK", "martini")
		_, _, err := execute(t, "routes")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.framework")
	})
}

func TestRoutes(t *testing.T) {
	out, _, err := execute(t, "routes")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 1)
	assert.Regexp(t, `^METHOD\s+PATH\s+MEMBER\s+PAGINATED$`, lines[0])
	assert.Regexp(t, `GET\s+/users\s+users\.list\s+yes`, out)
	assert.Regexp(t, `DELETE\s+/users/\{id\}\s+users\.delete\s+-`, out)
	assert.Regexp(t, `GET\s+/posts\s+posts\.\w+\s+yes`, out)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
		return path
	}

	good := write("good.go", `package handlers

// @GET /users
// @pagination classic
// @response 200 []User
func List() {}
`)
	write("good_test.go", `package handlers

// @nope
func TestIgnored() {}
`)

	t.Run("valid file", func(t *testing.T) {
		out, _, err := execute(t, "check", good)
		require.NoError(t, err)
		assert.Contains(t, out, "ok "+good+":6 List (3 directives)")
	})

	bad := write("bad.go", `package handlers

// @POST /users
// @frobnicate
func Create() {}
`)

	t.Run("invalid directory", func(t *testing.T) {
		out, _, err := execute(t, "check", dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCheckFailed)
		assert.NotErrorIs(t, err, ErrUsage)
		assert.Contains(t, out, "error "+bad+":4")
		assert.Contains(t, out, "List (3 directives)")
		assert.NotContains(t, out, "TestIgnored")
	})

	t.Run("missing path", func(t *testing.T) {
		_, _, err := execute(t, "check", filepath.Join(dir, "missing.go"))
		assert.ErrorIs(t, err, ErrUsage)
	})
}

func newTestApp(t *testing.T) *app {
	t.Helper()
	t.Chdir(t.TempDir())

	a := &app{}
	require.NoError(t, a.load(io.Discard))
	return a
}

func TestServer(t *testing.T) {
	a := newTestApp(t)

	srv, err := a.server()
	require.NoError(t, err)
	handler, ok := srv.(http.Handler)
	require.True(t, ok)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("api", func(t *testing.T) {
		rec := get("/users")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

		rec = get("/users/999")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("docs", func(t *testing.T) {
		rec := get("/docs/swagger.json")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, json.Valid(rec.Body.Bytes()))

		rec = get("/docs/swagger.yaml")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = get("/docs")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/docs/swagger.json")
	})

	t.Run("metrics", func(t *testing.T) {
		rec := get("/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `swagdeco_http_requests_total{code="200",method="GET",route="/users"} 1`)
		assert.Contains(t, body, `route="/users/{id}"`)
		assert.Contains(t, body, "go_goroutines")
	})

	t.Run("metrics disabled", func(t *testing.T) {
		a := newTestApp(t)
		a.cfg.Metrics.Enabled = false
		a.cfg.Docs.Enabled = false

		srv, err := a.server()
		require.NoError(t, err)

		for _, path := range []string{"/metrics", "/docs/swagger.json"} {
			rec := httptest.NewRecorder()
			srv.(http.Handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusNotFound, rec.Code, path)
		}
	})

	t.Run("docs path colliding with a route", func(t *testing.T) {
		a := newTestApp(t)
		a.cfg.Docs.Path = demo.DocsPath

		_, err := a.server()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRouteConflict)
		assert.Contains(t, err.Error(), "GET /swagger is claimed by docs.swagger")
	})

	t.Run("metrics path colliding with docs", func(t *testing.T) {
		a := newTestApp(t)
		a.cfg.Metrics.Path = "/docs/swagger.json"

		_, err := a.server()
		assert.ErrorIs(t, err, ErrRouteConflict)
	})

	t.Run("unknown framework", func(t *testing.T) {
		a := newTestApp(t)
		a.cfg.Server.Framework = "martini"
		_, err := a.server()
		assert.ErrorIs(t, err, ErrUsage)
	})
}

// blockingServer blocks in Start until Stop is called.
type blockingServer struct {
	route.Router

	once    sync.Once
	done    chan struct{}
	startFn func() error
	stopped bool
}

func newBlockingServer() *blockingServer {
	return &blockingServer{done: make(chan struct{})}
}

func (s *blockingServer) Start(string) error {
	if s.startFn != nil {
		return s.startFn()
	}
	<-s.done
	return nil
}

func (s *blockingServer) Stop(context.Context) error {
	s.stopped = true
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *blockingServer) Name() string { return "blocking" }

func TestRun(t *testing.T) {
	t.Run("shutdown on cancel", func(t *testing.T) {
		a := newTestApp(t)
		srv := newBlockingServer()

		ctx, cancel := context.WithCancel(t.Context())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		assert.NoError(t, a.run(ctx, srv))
		assert.True(t, srv.stopped)
	})

	t.Run("start error", func(t *testing.T) {
		a := newTestApp(t)
		srv := newBlockingServer()
		srv.startFn = func() error { return assert.AnError }

		assert.ErrorIs(t, a.run(t.Context(), srv), assert.AnError)
		assert.False(t, srv.stopped)
	})
}
