// Package config loads the swagdeco server configuration from a YAML file
// and SWAGDECO_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kalyuk/swagdeco/route/adapters"
	"github.com/kalyuk/swagdeco/swagger"
)

// EnvPrefix prefixes environment overrides: SWAGDECO_SERVER_ADDR
// overrides server.addr.
const EnvPrefix = "SWAGDECO"

// Config is the swagdeco configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server" json:"server"`
	Docs    DocsConfig    `mapstructure:"docs" yaml:"docs" json:"docs"`
	Swagger SwaggerConfig `mapstructure:"swagger" yaml:"swagger" json:"swagger"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr"`

	// Framework selects the router adapter (stdlib, echo, gin, fiber).
	Framework string `mapstructure:"framework" yaml:"framework" json:"framework"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout" yaml:"shutdownTimeout" json:"shutdownTimeout"`
}

// DocsConfig configures the documentation endpoints.
type DocsConfig struct {
	Enabled      bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Path         string `mapstructure:"path" yaml:"path" json:"path"`
	UI           string `mapstructure:"ui" yaml:"ui" json:"ui"`
	Title        string `mapstructure:"title" yaml:"title" json:"title"`
	JSONFilename string `mapstructure:"jsonFilename" yaml:"jsonFilename" json:"jsonFilename"`
	YAMLFilename string `mapstructure:"yamlFilename" yaml:"yamlFilename" json:"yamlFilename"`
}

// SwaggerConfig holds the document-level settings.
type SwaggerConfig struct {
	Host     string      `mapstructure:"host" yaml:"host" json:"host"`
	BasePath string      `mapstructure:"basePath" yaml:"basePath" json:"basePath"`
	Schemes  []string    `mapstructure:"schemes" yaml:"schemes" json:"schemes"`
	Info     InfoConfig  `mapstructure:"info" yaml:"info" json:"info"`
	Tags     []TagConfig `mapstructure:"tags" yaml:"tags" json:"tags"`

	// StrictDefinitions rejects conflicting definitions instead of
	// logging a warning.
	StrictDefinitions bool `mapstructure:"strictDefinitions" yaml:"strictDefinitions" json:"strictDefinitions"`
}

// InfoConfig contains API metadata.
type InfoConfig struct {
	Title          string `mapstructure:"title" yaml:"title" json:"title"`
	Description    string `mapstructure:"description" yaml:"description" json:"description"`
	Version        string `mapstructure:"version" yaml:"version" json:"version"`
	TermsOfService string `mapstructure:"termsOfService" yaml:"termsOfService" json:"termsOfService"`
}

// TagConfig describes one document tag.
type TagConfig struct {
	Name        string `mapstructure:"name" yaml:"name" json:"name"`
	Description string `mapstructure:"description" yaml:"description" json:"description"`
}

// LogConfig configures the logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level" json:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" yaml:"path" json:"path"`
}

// configFileNames is the list of config file names searched for, in order.
var configFileNames = []string{
	"swagdeco.yaml",
	"swagdeco.yml",
	".swagdeco.yaml",
}

var (
	supportedSchemes    = []string{"http", "https", "ws", "wss"}
	supportedLogLevels  = []string{"debug", "info", "warn", "error"}
	supportedLogFormats = []string{"text", "json"}
)

// ValidationError is a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Framework:       adapters.FrameworkStdlib,
			ShutdownTimeout: 10 * time.Second,
		},
		Docs: DocsConfig{
			Enabled:      true,
			Path:         "/docs",
			UI:           "swagger-ui",
			JSONFilename: "swagger.json",
			YAMLFilename: "swagger.yaml",
		},
		Swagger: SwaggerConfig{
			Host:    "localhost",
			Schemes: []string{"http"},
			Info: InfoConfig{
				Title:   "API",
				Version: "1.0.0",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.framework", d.Server.Framework)
	v.SetDefault("server.shutdownTimeout", d.Server.ShutdownTimeout)
	v.SetDefault("docs.enabled", d.Docs.Enabled)
	v.SetDefault("docs.path", d.Docs.Path)
	v.SetDefault("docs.ui", d.Docs.UI)
	v.SetDefault("docs.title", d.Docs.Title)
	v.SetDefault("docs.jsonFilename", d.Docs.JSONFilename)
	v.SetDefault("docs.yamlFilename", d.Docs.YAMLFilename)
	v.SetDefault("swagger.host", d.Swagger.Host)
	v.SetDefault("swagger.basePath", d.Swagger.BasePath)
	v.SetDefault("swagger.schemes", d.Swagger.Schemes)
	v.SetDefault("swagger.info.title", d.Swagger.Info.Title)
	v.SetDefault("swagger.info.version", d.Swagger.Info.Version)
	v.SetDefault("swagger.strictDefinitions", d.Swagger.StrictDefinitions)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
}

// Load reads the configuration. When configPath is empty the working
// directory is searched for swagdeco.yaml, swagdeco.yml and .swagdeco.yaml;
// finding none is not an error. Environment variables override file
// values in both cases.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = FindConfigFile(".")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// FindConfigFile returns the first config file found in dir, or "".
func FindConfigFile(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate reports every invalid field as ValidationErrors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if !slices.Contains(adapters.Frameworks, strings.ToLower(c.Server.Framework)) {
		errs = append(errs, ValidationError{
			Field:   "server.framework",
			Message: fmt.Sprintf("unsupported framework %q, must be one of: %s", c.Server.Framework, strings.Join(adapters.Frameworks, ", ")),
		})
	}

	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.shutdownTimeout",
			Message: "shutdown timeout must be non-negative",
		})
	}

	if c.Docs.Enabled {
		if _, err := swagger.ParseDocsUI(c.Docs.UI); err != nil {
			errs = append(errs, ValidationError{Field: "docs.ui", Message: err.Error()})
		}
		if c.Docs.Path != "" && !strings.HasPrefix(c.Docs.Path, "/") {
			errs = append(errs, ValidationError{Field: "docs.path", Message: "path must start with /"})
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, ValidationError{Field: "metrics.path", Message: "path must start with /"})
	}

	if c.Swagger.BasePath != "" && !strings.HasPrefix(c.Swagger.BasePath, "/") {
		errs = append(errs, ValidationError{Field: "swagger.basePath", Message: "base path must start with /"})
	}

	for _, s := range c.Swagger.Schemes {
		if !slices.Contains(supportedSchemes, s) {
			errs = append(errs, ValidationError{
				Field:   "swagger.schemes",
				Message: fmt.Sprintf("unsupported scheme %q, must be one of: %s", s, strings.Join(supportedSchemes, ", ")),
			})
		}
	}

	if c.Swagger.Info.Title == "" {
		errs = append(errs, ValidationError{Field: "swagger.info.title", Message: "title is required"})
	}
	if c.Swagger.Info.Version == "" {
		errs = append(errs, ValidationError{Field: "swagger.info.version", Message: "version is required"})
	}

	for i, tag := range c.Swagger.Tags {
		if tag.Name == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("swagger.tags[%d].name", i),
				Message: "name is required",
			})
		}
	}

	if !slices.Contains(supportedLogLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unsupported level %q, must be one of: %s", c.Log.Level, strings.Join(supportedLogLevels, ", ")),
		})
	}
	if !slices.Contains(supportedLogFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("unsupported format %q, must be one of: %s", c.Log.Format, strings.Join(supportedLogFormats, ", ")),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Settings converts the swagger section into document settings.
func (c *Config) Settings() swagger.Settings {
	s := swagger.Settings{
		Host:     c.Swagger.Host,
		BasePath: c.Swagger.BasePath,
		Schemes:  c.Swagger.Schemes,
		Info: &swagger.Info{
			Title:          c.Swagger.Info.Title,
			Description:    c.Swagger.Info.Description,
			Version:        c.Swagger.Info.Version,
			TermsOfService: c.Swagger.Info.TermsOfService,
		},
	}
	if len(c.Swagger.Tags) > 0 {
		s.Tags = make([]swagger.Tag, 0, len(c.Swagger.Tags))
		for _, t := range c.Swagger.Tags {
			s.Tags = append(s.Tags, swagger.Tag{Name: t.Name, Description: t.Description})
		}
	}
	return s
}

// DocumentOptions returns the swagger.Document options implied by the
// configuration.
func (c *Config) DocumentOptions(logger *slog.Logger) []swagger.Option {
	opts := []swagger.Option{swagger.WithLogger(logger)}
	if c.Swagger.StrictDefinitions {
		opts = append(opts, swagger.WithCollisionFunc(swagger.RejectCollisions))
	}
	return opts
}

// HandleConfig converts the docs section into swagger.Handle settings.
// It returns nil when the docs endpoints are disabled.
func (c *Config) HandleConfig() *swagger.HandleConfig {
	if !c.Docs.Enabled {
		return nil
	}
	ui, _ := swagger.ParseDocsUI(c.Docs.UI)
	return &swagger.HandleConfig{
		UI:           ui,
		Title:        c.Docs.Title,
		JSONFilename: c.Docs.JSONFilename,
		YAMLFilename: c.Docs.YAMLFilename,
	}
}

// SlogLevel returns the configured log level.
func (c LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
