package routing

import (
	"github.com/pkg/errors"

	"github.com/shaogx/bocadillo/views"
	"github.com/shaogx/bocadillo/web"
)

// Route is the immutable binding of one URL pattern to one view under one
// name. Routes are created by Router.Register and never mutated afterwards;
// the handler table is materialized once at registration so dispatch never
// consults the view again.
type Route struct {
	name     string
	pattern  *pattern
	view     views.View
	handlers map[views.Method]views.Handler
}

// Name returns the route's effective (possibly namespaced) name.
func (r *Route) Name() string {
	return r.name
}

// Pattern returns the raw pattern string the route was registered with.
func (r *Route) Pattern() string {
	return r.pattern.raw
}

// Params returns the pattern's placeholder names in order of appearance.
func (r *Route) Params() []string {
	params := make([]string, len(r.pattern.params))
	copy(params, r.pattern.params)
	return params
}

// Methods returns the methods the view handles, in the fixed recognized
// order.
func (r *Route) Methods() []views.Method {
	var methods []views.Method
	for _, m := range views.AllMethods {
		if _, ok := r.handlers[m]; ok {
			methods = append(methods, m)
		}
	}
	return methods
}

// URL substitutes the supplied parameters into the pattern, producing a
// concrete path. Extra entries are ignored; a missing one fails with
// ErrMissingParameter.
func (r *Route) URL(params map[string]interface{}) (string, error) {
	return r.pattern.expand(params)
}

// Parse matches path against the route's pattern and returns the extracted
// parameters, or false when the path does not match.
func (r *Route) Parse(path string) (views.Params, bool) {
	return r.pattern.match(path)
}

// Dispatch resolves the handler for the request's method and invokes it with
// the extracted parameters. A method the view does not handle fails with
// ErrMethodNotAllowed; a handler error propagates unchanged.
func (r *Route) Dispatch(req *web.Request, res *web.Response, params views.Params) error {
	method, ok := views.ParseMethod(req.Method())
	if !ok {
		return errors.Wrapf(ErrMethodNotAllowed, "method %q on route %q", req.Method(), r.name)
	}
	handler, ok := r.handlers[method]
	if !ok {
		return errors.Wrapf(ErrMethodNotAllowed, "%s on route %q", method, r.name)
	}
	return handler.Func(req, res, params)
}
