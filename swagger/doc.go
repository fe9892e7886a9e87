// Package swagger holds the Swagger 2.0 document assembled from controller
// and model registrations, and serves it over HTTP.
//
// A Document is created once by the bootstrap code and passed by reference to
// every component that contributes to it:
//
//	doc := swagger.New(swagger.WithLogger(logger))
//	doc.Assign(swagger.Settings{Info: &swagger.Info{Title: "Blog", Version: "1.0.0"}})
//
// Paths are updated with UpsertPath, which shallow-assigns the set fields of
// an Operation fragment onto paths[url][method], and definitions with
// UpsertDefinition. Both are idempotent for identical input.
//
// Serving the document:
//
//	doc.Handle(router, "/docs", nil)
//	// GET /docs/             -> Swagger UI
//	// GET /docs/swagger.json -> JSON
//	// GET /docs/swagger.yaml -> YAML
//
// See: https://swagger.io/specification/v2/
package swagger
