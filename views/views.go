package views

import (
	"strings"

	"github.com/shaogx/bocadillo/web"
)

// Method identifies one of the HTTP methods a view may handle. WEBSOCKET is
// a pseudo-method used to route upgrade requests to a websocket handler.
type Method string

const (
	GET       Method = "GET"
	POST      Method = "POST"
	PUT       Method = "PUT"
	PATCH     Method = "PATCH"
	DELETE    Method = "DELETE"
	HEAD      Method = "HEAD"
	OPTIONS   Method = "OPTIONS"
	WEBSOCKET Method = "WEBSOCKET"
)

// AllMethods lists every recognized method in a fixed order. Code that needs
// deterministic iteration over a handler table should range over this slice
// instead of the map.
var AllMethods = []Method{GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS, WEBSOCKET}

var methodSet = func() map[Method]bool {
	set := make(map[Method]bool, len(AllMethods))
	for _, m := range AllMethods {
		set[m] = true
	}
	return set
}()

// ParseMethod normalizes a method name and reports whether it belongs to the
// recognized set. Lookups are case-insensitive; an unknown method is a
// first-class miss, never a panic.
func ParseMethod(name string) (Method, bool) {
	m := Method(strings.ToUpper(name))
	return m, methodSet[m]
}

// Params holds the route parameters extracted from a matched URL path.
type Params map[string]string

// Get returns the value bound to name, or the empty string.
func (p Params) Get(name string) string {
	return p[name]
}

// HandlerFunc is the invocation surface every handler exposes: it receives
// the request, the deferred response and the route parameters, and returns
// an error for the translation layer to surface.
type HandlerFunc func(req *web.Request, res *web.Response, params Params) error

// Handler pairs a handler function with the names of the route parameters it
// expects. The declared names are cross-checked against the route pattern at
// registration time.
type Handler struct {
	Func   HandlerFunc
	Params []string
}

// View is the contract every route target satisfies: a table of handlers
// keyed by method. A view with no handler for a method is valid; only a
// request for that method is an error, and only at request time.
type View interface {
	Handlers() map[Method]Handler
}

// Named is an optional interface a View may implement to supply the default
// route name used when registration does not provide one.
type Named interface {
	ViewName() string
}
