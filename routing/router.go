package routing

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/shaogx/bocadillo/views"
)

// RouteMatch pairs a matched route with the parameters extracted from the
// path. It is created fresh per lookup and holds no state of its own.
type RouteMatch struct {
	Route  *Route
	Params views.Params
}

// Option adjusts a single registration.
type Option func(*registration)

type registration struct {
	name      string
	namespace string
}

// WithName sets the route name; registering the same name again replaces the
// prior route. Absent, the name derives from the view.
func WithName(name string) Option {
	return func(r *registration) { r.name = name }
}

// WithNamespace prefixes the effective name with "namespace:".
func WithNamespace(namespace string) Option {
	return func(r *registration) { r.namespace = namespace }
}

// Router is a registry of named routes. Registration happens during setup;
// matching and resolution are read-only and safe for concurrent use. Runtime
// registration is permitted and guarded, so readers always observe a
// consistent snapshot.
type Router struct {
	mu     sync.RWMutex
	routes map[string]*Route
	order  []string
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{routes: make(map[string]*Route)}
}

// Register validates and registers a route for view under pattern, returning
// the new Route. Validation failures are *DeclarationError and leave the
// registry untouched. Re-registering an existing name replaces the route in
// its original position within the matching order.
func (rt *Router) Register(view views.View, pattern string, opts ...Option) (*Route, error) {
	var reg registration
	for _, opt := range opts {
		opt(&reg)
	}

	name := reg.name
	if name == "" {
		name = camelToSnake(viewName(view))
	}
	if reg.namespace != "" {
		name = reg.namespace + ":" + name
	}

	p, err := newPattern(pattern)
	if err != nil {
		return nil, &DeclarationError{Pattern: pattern, View: viewName(view), Detail: err.Error()}
	}

	// The view contract is consulted exactly once, never at request time.
	handlers := view.Handlers()
	if err := checkRoute(p, viewName(view), handlers); err != nil {
		return nil, err
	}

	route := &Route{name: name, pattern: p, view: view, handlers: handlers}

	rt.mu.Lock()
	if _, exists := rt.routes[name]; !exists {
		rt.order = append(rt.order, name)
	}
	rt.routes[name] = route
	rt.mu.Unlock()

	return route, nil
}

// Match attempts to match path against the registered routes in registration
// order. First-registered wins among patterns that could both match; there
// is no specificity ranking.
func (rt *Router) Match(path string) (RouteMatch, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	for _, name := range rt.order {
		route := rt.routes[name]
		if params, ok := route.pattern.match(path); ok {
			return RouteMatch{Route: route, Params: params}, true
		}
	}
	return RouteMatch{}, false
}

// Resolve looks a route up by name, failing with ErrRouteNotFound when no
// route is registered under it.
func (rt *Router) Resolve(name string) (*Route, error) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	route, ok := rt.routes[name]
	if !ok {
		return nil, errors.Wrapf(ErrRouteNotFound, "name %q", name)
	}
	return route, nil
}

// URLFor builds the URL path for a named route: Resolve composed with URL.
func (rt *Router) URLFor(name string, params map[string]interface{}) (string, error) {
	route, err := rt.Resolve(name)
	if err != nil {
		return "", err
	}
	return route.URL(params)
}

// Routes returns a snapshot of the registered routes in registration order.
func (rt *Router) Routes() []*Route {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	routes := make([]*Route, 0, len(rt.order))
	for _, name := range rt.order {
		routes = append(routes, rt.routes[name])
	}
	return routes
}

var camelBoundary = regexp.MustCompile("([a-z0-9])([A-Z])")

// camelToSnake converts CamelCase view names to the snake_case route-name
// convention.
func camelToSnake(s string) string {
	return strings.ToLower(camelBoundary.ReplaceAllString(s, "${1}_${2}"))
}

// viewName reports a view's declared name, falling back to its type name.
func viewName(v views.View) string {
	if named, ok := v.(views.Named); ok {
		return named.ViewName()
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
