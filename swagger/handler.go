package swagger

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/kalyuk/swagdeco/route"
)

// DocsUI selects which interactive documentation UI to serve.
type DocsUI int

const (
	DocsSwaggerUI DocsUI = iota
	DocsRapiDoc
	DocsRedoc
)

// ParseDocsUI maps a UI name ("swagger-ui", "rapidoc", "redoc") to a DocsUI.
func ParseDocsUI(name string) (DocsUI, error) {
	switch strings.ToLower(name) {
	case "", "swagger", "swagger-ui", "swaggerui":
		return DocsSwaggerUI, nil
	case "rapidoc":
		return DocsRapiDoc, nil
	case "redoc":
		return DocsRedoc, nil
	}
	return DocsSwaggerUI, fmt.Errorf("unknown docs ui %q", name)
}

// HandleConfig configures the endpoints registered by Handle.
type HandleConfig struct {
	// UI selects the interactive docs UI (default: DocsSwaggerUI).
	UI DocsUI

	// Title overrides the HTML page title (default: info.title).
	Title string

	// JSONFilename is the path for the JSON endpoint
	// (default: "swagger.json"). Set to "-" to disable.
	//
	// Relative paths are joined with the base path:
	//
	//	"swagger.json"      -> <basePath>/swagger.json
	//	"data/swagger.json" -> <basePath>/data/swagger.json
	//
	// Absolute paths (starting with "/") are used as-is.
	JSONFilename string

	// YAMLFilename is the path for the YAML endpoint
	// (default: "swagger.yaml"). Set to "-" to disable.
	YAMLFilename string

	// DisableDocs disables the interactive HTML docs UI endpoint.
	DisableDocs bool

	// SwaggerUIConfig provides additional SwaggerUIBundle options, rendered
	// as JavaScript object properties next to url and dom_id.
	//
	// See: https://swagger.io/docs/open-source-tools/swagger-ui/usage/configuration/
	SwaggerUIConfig map[string]any
}

func (cfg HandleConfig) jsonFilename() string {
	if cfg.JSONFilename == "" {
		return "swagger.json"
	}
	return cfg.JSONFilename
}

func (cfg HandleConfig) yamlFilename() string {
	if cfg.YAMLFilename == "" {
		return "swagger.yaml"
	}
	return cfg.YAMLFilename
}

// resolvePath returns the full route path for a filename. Absolute filenames
// are returned as-is; relative ones are joined under basePath.
func resolvePath(basePath, filename string) string {
	if strings.HasPrefix(filename, "/") {
		return filename
	}
	if basePath == "" {
		return "/" + filename
	}
	return basePath + "/" + filename
}

// Handle registers the documentation endpoints under basePath:
//
//	<basePath>/            - interactive HTML docs (unless DisableDocs)
//	<JSONFilename path>    - document as JSON (unless JSONFilename is "-")
//	<YAMLFilename path>    - document as YAML (unless YAMLFilename is "-")
//
// The config parameter is optional; pass nil for defaults:
//
//	doc.Handle(router, "/docs", nil)
//
// The document is serialized once on first request and cached, so Handle
// should be called after registration has finished.
func (d *Document) Handle(r route.Router, basePath string, cfg *HandleConfig) {
	if cfg == nil {
		cfg = &HandleConfig{}
	}
	jsonPath, yamlPath, uiPaths := cfg.endpoints(basePath)

	if jsonPath != "" {
		r.Handle(http.MethodGet, jsonPath, d.cached("application/json", "JSON", d.JSON))
	}
	if yamlPath != "" {
		r.Handle(http.MethodGet, yamlPath, d.cached("application/x-yaml", "YAML", d.YAML))
	}
	if len(uiPaths) == 0 {
		return
	}

	specURL := jsonPath
	if specURL == "" {
		specURL = yamlPath
	}
	docs := d.docsHandler(cfg, specURL)
	for _, p := range uiPaths {
		r.Handle(http.MethodGet, p, docs)
	}
}

// Paths returns the GET routes Handle registers for basePath with this
// config.
func (cfg HandleConfig) Paths(basePath string) []string {
	jsonPath, yamlPath, uiPaths := cfg.endpoints(basePath)

	var paths []string
	for _, p := range []string{jsonPath, yamlPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return append(paths, uiPaths...)
}

// endpoints resolves the JSON, YAML and UI routes. Disabled endpoints are
// empty; the UI needs at least one document endpoint.
func (cfg HandleConfig) endpoints(basePath string) (jsonPath, yamlPath string, uiPaths []string) {
	basePath = strings.TrimRight(basePath, "/")

	if f := cfg.jsonFilename(); f != "-" {
		jsonPath = resolvePath(basePath, f)
	}
	if f := cfg.yamlFilename(); f != "-" {
		yamlPath = resolvePath(basePath, f)
	}

	if cfg.DisableDocs || (jsonPath == "" && yamlPath == "") {
		return jsonPath, yamlPath, nil
	}
	if basePath == "" {
		return jsonPath, yamlPath, []string{"/"}
	}
	return jsonPath, yamlPath, []string{basePath, basePath + "/"}
}

func (d *Document) cached(contentType, format string, encode func() ([]byte, error)) http.Handler {
	var (
		once     sync.Once
		data     []byte
		buildErr error
	)
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() {
			defer func() {
				if rv := recover(); rv != nil {
					buildErr = fmt.Errorf("%v", rv)
				}
			}()
			data, buildErr = encode()
		})
		if buildErr != nil {
			d.logger.Error("swagger document serialization failed",
				"format", format,
				"error", buildErr,
			)
			http.Error(w, "failed to serialize swagger document as "+format, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

func (d *Document) docsHandler(cfg *HandleConfig, specURL string) http.Handler {
	var (
		once sync.Once
		data []byte
	)
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() {
			title := cfg.Title
			if title == "" {
				title = d.Info.Title
			}

			var page string
			switch cfg.UI {
			case DocsRapiDoc:
				page = rapidocTemplate(title, specURL)
			case DocsRedoc:
				page = redocTemplate(title, specURL)
			default:
				page = swaggerUITemplate(title, specURL, cfg.SwaggerUIConfig)
			}
			data = []byte(page)
		})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

func swaggerUITemplate(title, specPath string, config map[string]any) string {
	var extra string
	if len(config) > 0 {
		keys := make([]string, 0, len(config))
		for k := range config {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf strings.Builder
		for _, k := range keys {
			v, err := json.Marshal(config[k])
			if err != nil {
				continue
			}
			fmt.Fprintf(&buf, ", %q: %s", k, v)
		}
		extra = buf.String()
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"%s});
</script>
</body>
</html>`, html.EscapeString(title), specPath, extra)
}

func rapidocTemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>%s</title>
<script type="module" src="https://unpkg.com/rapidoc/dist/rapidoc-min.js"></script>
</head>
<body>
<rapi-doc spec-url=%q></rapi-doc>
</body>
</html>`, html.EscapeString(title), specPath)
}

func redocTemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>%s</title>
</head>
<body>
<redoc spec-url=%q></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`, html.EscapeString(title), specPath)
}
