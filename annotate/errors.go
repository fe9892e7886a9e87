package annotate

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAction is returned when a documentation annotation runs on a
	// member that has no url and method yet.
	ErrNoAction = errors.New("member has no action")

	// ErrNoHandler is returned by Mount for an action without a handler.
	ErrNoHandler = errors.New("action has no handler")

	// ErrInvalidMethod is returned for an unsupported HTTP method.
	ErrInvalidMethod = errors.New("invalid http method")

	// ErrInvalidURL is returned for an empty or relative route url.
	ErrInvalidURL = errors.New("invalid url")

	// ErrActionRebound is returned when a member that already has an
	// action is bound to a different method or url.
	ErrActionRebound = errors.New("action already bound")

	// ErrInvalidLocation is returned for a parameter location outside
	// body, path, query, header and cookie.
	ErrInvalidLocation = errors.New("invalid parameter location")

	// ErrInvalidSchema is returned when a parameter schema is neither a
	// model nor a *swagger.Schema.
	ErrInvalidSchema = errors.New("invalid parameter schema")

	// ErrInvalidModel is returned when a response reference is not a model.
	ErrInvalidModel = errors.New("invalid model reference")
)

// AnnotationError records which annotation failed on which member.
type AnnotationError struct {
	Entity     string
	Member     string
	Annotation string
	Err        error
}

// Error implements the error interface.
func (e *AnnotationError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("annotate: %s: %s: %v", e.Entity, e.Annotation, e.Err)
	}
	return fmt.Sprintf("annotate: %s.%s: %s: %v", e.Entity, e.Member, e.Annotation, e.Err)
}

// Unwrap returns the underlying error.
func (e *AnnotationError) Unwrap() error {
	return e.Err
}
