// Package adapters binds route.Router to concrete HTTP frameworks.
//
// Every adapter translates {name} path templates to the framework syntax,
// collects the matched path variables and attaches them to the request with
// route.WithPathParams before calling the bound http.Handler.
package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/kalyuk/swagdeco/route"
)

// Server is a route.Router that can also run the HTTP listener.
type Server interface {
	route.Router

	// Start listens on addr and blocks until the server stops.
	Start(addr string) error

	// Stop gracefully shuts the server down.
	Stop(ctx context.Context) error

	// Name returns the adapter name.
	Name() string
}

// Framework names accepted by New.
const (
	FrameworkStdlib = "stdlib"
	FrameworkEcho   = "echo"
	FrameworkGin    = "gin"
	FrameworkFiber  = "fiber"
)

// Frameworks lists the names accepted by New.
var Frameworks = []string{FrameworkStdlib, FrameworkEcho, FrameworkGin, FrameworkFiber}

// New creates a server for the named framework.
func New(framework string) (Server, error) {
	switch strings.ToLower(framework) {
	case "", FrameworkStdlib:
		return NewServeMux(nil), nil
	case FrameworkEcho:
		return NewEcho(nil), nil
	case FrameworkGin:
		return NewGin(nil), nil
	case FrameworkFiber:
		return NewFiber(nil), nil
	}
	return nil, fmt.Errorf("unknown framework %q", framework)
}
