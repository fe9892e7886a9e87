package swagger

// Version is the value of the top-level "swagger" field.
const Version = "2.0"

// Parameter locations accepted by Parameter.In.
//
// See: https://swagger.io/specification/v2/#parameter-object
const (
	InBody   = "body"
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InCookie = "cookie"
)

// ValidIn reports whether in is a known parameter location.
func ValidIn(in string) bool {
	switch in {
	case InBody, InPath, InQuery, InHeader, InCookie:
		return true
	}
	return false
}

// Info provides metadata about the API.
//
// See: https://swagger.io/specification/v2/#info-object
type Info struct {
	Title          string   `json:"title,omitempty"`
	Description    string   `json:"description,omitempty"`
	Version        string   `json:"version,omitempty"`
	TermsOfService string   `json:"termsOfService,omitempty"`
	Contact        *Contact `json:"contact,omitempty"`
	License        *License `json:"license,omitempty"`
}

// Contact represents contact information for the API.
//
// See: https://swagger.io/specification/v2/#contact-object
type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

// License represents license information for the API.
//
// See: https://swagger.io/specification/v2/#license-object
type License struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Tag adds metadata to a single tag used by operations.
//
// See: https://swagger.io/specification/v2/#tag-object
type Tag struct {
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	ExternalDocs *ExternalDocs `json:"externalDocs,omitempty"`
}

// ExternalDocs allows referencing external documentation.
//
// See: https://swagger.io/specification/v2/#external-documentation-object
type ExternalDocs struct {
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

// PathItem maps a lowercase HTTP verb to the operation documented for it.
//
// See: https://swagger.io/specification/v2/#path-item-object
type PathItem map[string]*Operation

// Operation describes a single API operation on a path. It doubles as the
// documentation fragment accumulated by annotations: every top-level field
// that is set on a fragment replaces the field of the stored operation.
//
// See: https://swagger.io/specification/v2/#operation-object
type Operation struct {
	Tags        []string          `json:"tags,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	OperationID string            `json:"operationId,omitempty"`
	Consumes    []string          `json:"consumes,omitempty"`
	Produces    []string          `json:"produces,omitempty"`
	Parameters  []*Parameter      `json:"parameters,omitempty"`
	Responses   map[int]*Response `json:"responses,omitempty"`
	Deprecated  bool              `json:"deprecated,omitempty"`
}

// Parameter describes a single operation parameter. Body parameters carry
// a Schema; other locations describe their value with the inline Type,
// Format, Items, Enum and Default fields.
//
// See: https://swagger.io/specification/v2/#parameter-object
type Parameter struct {
	Name             string  `json:"name"`
	In               string  `json:"in"`
	Description      string  `json:"description,omitempty"`
	Required         bool    `json:"required,omitempty"`
	Schema           *Schema `json:"schema,omitempty"`
	Type             string  `json:"type,omitempty"`
	Format           string  `json:"format,omitempty"`
	Items            *Schema `json:"items,omitempty"`
	CollectionFormat string  `json:"collectionFormat,omitempty"`
	Enum             []any   `json:"enum,omitempty"`
	Default          any     `json:"default,omitempty"`
}

// Response describes a single response from an API operation.
//
// See: https://swagger.io/specification/v2/#response-object
type Response struct {
	Description string  `json:"description"`
	Schema      *Schema `json:"schema,omitempty"`
}

// Schema is the subset of the Swagger 2.0 Schema Object produced by this
// package. Required uses omitzero so that definitions keep an explicit
// empty "required" list while nested schemas omit it.
//
// See: https://swagger.io/specification/v2/#schema-object
type Schema struct {
	Ref                  string             `json:"$ref,omitempty"`
	Type                 string             `json:"type,omitempty"`
	Format               string             `json:"format,omitempty"`
	Title                string             `json:"title,omitempty"`
	Description          string             `json:"description,omitempty"`
	Default              any                `json:"default,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Required             []string           `json:"required,omitzero"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`
	ReadOnly             bool               `json:"readOnly,omitempty"`
	Example              any                `json:"example,omitempty"`
}

// RefTo returns a schema pointing at the named definition.
func RefTo(name string) *Schema {
	return &Schema{Ref: DefinitionRef(name)}
}

// DefinitionRef returns the JSON reference of the named definition.
func DefinitionRef(name string) string {
	return "#/definitions/" + name
}
