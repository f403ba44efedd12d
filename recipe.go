package bocadillo

import (
	"github.com/pkg/errors"

	"github.com/shaogx/bocadillo/routing"
	"github.com/shaogx/bocadillo/views"
)

// Recipe collects route declarations to be mounted later on an App under a
// shared path prefix and name namespace. Declarations are deferred: nothing
// is validated until Mount runs.
type Recipe struct {
	name   string
	prefix string
	routes []recipeRoute
}

type recipeRoute struct {
	pattern string
	view    views.View
	opts    []routing.Option
}

// RecipeOption adjusts a recipe at construction.
type RecipeOption func(*Recipe)

// WithPrefix overrides the mount prefix, which defaults to "/" + name. The
// prefix must start with '/' and not end with one.
func WithPrefix(prefix string) RecipeOption {
	return func(r *Recipe) { r.prefix = prefix }
}

// NewRecipe creates a recipe named name, mounted under "/name" by default.
func NewRecipe(name string, opts ...RecipeOption) *Recipe {
	r := &Recipe{name: name, prefix: "/" + name}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the recipe's name, used as the route namespace at mount time.
func (r *Recipe) Name() string {
	return r.name
}

// Route queues view for registration under pattern when the recipe is
// mounted.
func (r *Recipe) Route(pattern string, view views.View, opts ...routing.Option) {
	r.routes = append(r.routes, recipeRoute{pattern: pattern, view: view, opts: opts})
}

// RouteFunc queues a plain handler function.
func (r *Recipe) RouteFunc(pattern string, fn views.HandlerFunc, params ...string) {
	r.Route(pattern, views.Func(fn, params...))
}

// Mount registers every route the recipe declared, prefixing patterns with
// the recipe prefix and namespacing names with the recipe name, so a route
// named "links" on recipe "admin" resolves as "admin:links".
func (r *Recipe) Mount(app *App) error {
	for _, rr := range r.routes {
		opts := append([]routing.Option{routing.WithNamespace(r.name)}, rr.opts...)
		if _, err := app.Route(r.prefix+rr.pattern, rr.view, opts...); err != nil {
			return errors.Wrapf(err, "mount recipe %q", r.name)
		}
	}
	return nil
}

// Mount registers all of recipe's deferred routes on the app.
func (a *App) Mount(recipe *Recipe) error {
	return recipe.Mount(a)
}
