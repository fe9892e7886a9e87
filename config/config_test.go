package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalyuk/swagdeco/swagger"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "stdlib", cfg.Server.Framework)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Docs.Enabled)
	assert.Equal(t, "/docs", cfg.Docs.Path)
	assert.Equal(t, "localhost", cfg.Swagger.Host)
	assert.Equal(t, []string{"http"}, cfg.Swagger.Schemes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("no config file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("discovered file", func(t *testing.T) {
		dir := t.TempDir()
		content := `
server:
  addr: ":9090"
  framework: gin
  shutdownTimeout: 3s
docs:
  ui: redoc
  jsonFilename: "-"
swagger:
  host: api.example.com
  basePath: /v1
  schemes: [https]
  info:
    title: Users
    version: "2.0.0"
  tags:
    - name: users
      description: User management
log:
  level: debug
  format: json
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "swagdeco.yaml"), []byte(content), 0o644))
		t.Chdir(dir)

		cfg, err := Load("")
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, "gin", cfg.Server.Framework)
		assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, "redoc", cfg.Docs.UI)
		assert.Equal(t, "-", cfg.Docs.JSONFilename)
		assert.Equal(t, "swagger.yaml", cfg.Docs.YAMLFilename)
		assert.Equal(t, "api.example.com", cfg.Swagger.Host)
		assert.Equal(t, "/v1", cfg.Swagger.BasePath)
		assert.Equal(t, []string{"https"}, cfg.Swagger.Schemes)
		assert.Equal(t, "Users", cfg.Swagger.Info.Title)
		assert.Equal(t, []TagConfig{{Name: "users", Description: "User management"}}, cfg.Swagger.Tags)
		assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	})

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("metrics:\n  enabled: false\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.False(t, cfg.Metrics.Enabled)
		assert.Equal(t, "/metrics", cfg.Metrics.Path)
	})

	t.Run("missing explicit path", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SWAGDECO_SERVER_ADDR", ":7000")
		t.Setenv("SWAGDECO_SERVER_FRAMEWORK", "echo")
		t.Setenv("SWAGDECO_METRICS_ENABLED", "false")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, ":7000", cfg.Server.Addr)
		assert.Equal(t, "echo", cfg.Server.Framework)
		assert.False(t, cfg.Metrics.Enabled)
	})
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindConfigFile(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".swagdeco.yaml"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, ".swagdeco.yaml"), FindConfigFile(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "swagdeco.yaml"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "swagdeco.yaml"), FindConfigFile(dir))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		fields []string
	}{
		{"valid", func(*Config) {}, nil},
		{"framework", func(c *Config) { c.Server.Framework = "chi" }, []string{"server.framework"}},
		{"framework case", func(c *Config) { c.Server.Framework = "Gin" }, nil},
		{"shutdown", func(c *Config) { c.Server.ShutdownTimeout = -time.Second }, []string{"server.shutdownTimeout"}},
		{"docs ui", func(c *Config) { c.Docs.UI = "elements" }, []string{"docs.ui"}},
		{"docs ui ignored when disabled", func(c *Config) { c.Docs.Enabled = false; c.Docs.UI = "elements" }, nil},
		{"docs path", func(c *Config) { c.Docs.Path = "docs" }, []string{"docs.path"}},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, []string{"metrics.path"}},
		{"base path", func(c *Config) { c.Swagger.BasePath = "v1" }, []string{"swagger.basePath"}},
		{"scheme", func(c *Config) { c.Swagger.Schemes = []string{"ftp"} }, []string{"swagger.schemes"}},
		{"title and version", func(c *Config) { c.Swagger.Info = InfoConfig{} }, []string{"swagger.info.title", "swagger.info.version"}},
		{"tag name", func(c *Config) { c.Swagger.Tags = []TagConfig{{Description: "x"}} }, []string{"swagger.tags[0].name"}},
		{"log", func(c *Config) { c.Log = LogConfig{Level: "trace", Format: "xml"} }, []string{"log.level", "log.format"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			fields := make([]string, 0, len(verrs))
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}

	t.Run("messages", func(t *testing.T) {
		one := ValidationErrors{{Field: "a", Message: "bad"}}
		assert.Equal(t, "config validation error: a: bad", one.Error())

		two := ValidationErrors{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}
		assert.Contains(t, two.Error(), "  - b: worse\n")
		assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
	})
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Swagger.BasePath = "/api"
	cfg.Swagger.Tags = []TagConfig{{Name: "users"}}
	cfg.Swagger.StrictDefinitions = true
	cfg.Docs.UI = "rapidoc"

	t.Run("settings", func(t *testing.T) {
		doc := swagger.New().Assign(cfg.Settings())
		assert.Equal(t, "/api", doc.BasePath)
		assert.Equal(t, "API", doc.Info.Title)
		assert.Equal(t, []swagger.Tag{{Name: "users"}}, doc.Tags)
	})

	t.Run("document options", func(t *testing.T) {
		doc := swagger.New(cfg.DocumentOptions(slog.Default())...)
		require.NoError(t, doc.UpsertDefinition("User", &swagger.Schema{Type: "object"}))
		assert.Error(t, doc.UpsertDefinition("User", &swagger.Schema{Type: "string"}))
	})

	t.Run("handle config", func(t *testing.T) {
		hc := cfg.HandleConfig()
		require.NotNil(t, hc)
		assert.Equal(t, swagger.DocsRapiDoc, hc.UI)
		assert.Equal(t, "swagger.json", hc.JSONFilename)

		cfg.Docs.Enabled = false
		assert.Nil(t, cfg.HandleConfig())
	})

	t.Run("log level fallback", func(t *testing.T) {
		assert.Equal(t, slog.LevelWarn, LogConfig{Level: "warn"}.SlogLevel())
		assert.Equal(t, slog.LevelInfo, LogConfig{Level: "loud"}.SlogLevel())
	})
}
