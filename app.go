// Package bocadillo glues the routing core to the net/http transport: it
// owns the application facade, the request/response adaptation, error
// translation and request logging. The router itself stays transport-free.
package bocadillo

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/shaogx/bocadillo/routing"
	"github.com/shaogx/bocadillo/views"
	"github.com/shaogx/bocadillo/web"
)

// Config carries the optional collaborators of an App.
type Config struct {
	// Logger receives request completion and error logs. Nil disables logging.
	Logger *zap.Logger

	// MediaType selects the default response media type. Empty keeps
	// application/json. An unregistered type fails construction.
	MediaType string

	// Metrics, when set, receives request counters and latency histograms.
	Metrics prometheus.Registerer
}

// ErrorHandler translates an error raised while handling a request into a
// response. It replaces the default translation when installed via OnError.
type ErrorHandler func(req *web.Request, res *web.Response, err error)

// App is a router with an HTTP face: it matches incoming paths, dispatches
// to views and translates the abstract routing conditions into status codes.
type App struct {
	router  *routing.Router
	media   *web.Media
	log     *zap.Logger
	metrics *metrics
	onError ErrorHandler
}

// New builds an App from cfg.
func New(cfg Config) (*App, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	media := web.NewMedia()
	if cfg.MediaType != "" {
		if err := media.SetType(cfg.MediaType); err != nil {
			return nil, err
		}
	}

	app := &App{
		router: routing.NewRouter(),
		media:  media,
		log:    log,
	}
	app.onError = app.translateError
	if cfg.Metrics != nil {
		app.metrics = newMetrics(cfg.Metrics)
	}
	return app, nil
}

// Media exposes the response media registry for handler replacement.
func (a *App) Media() *web.Media {
	return a.media
}

// Route registers view under pattern.
func (a *App) Route(pattern string, view views.View, opts ...routing.Option) (*routing.Route, error) {
	return a.router.Register(view, pattern, opts...)
}

// RouteFunc registers a plain handler function under pattern. params names
// the route parameters the function expects.
func (a *App) RouteFunc(pattern string, fn views.HandlerFunc, params ...string) (*routing.Route, error) {
	return a.router.Register(views.Func(fn, params...), pattern)
}

// URLFor builds the URL path for a named route.
func (a *App) URLFor(name string, params map[string]interface{}) (string, error) {
	return a.router.URLFor(name, params)
}

// Routes returns the registered routes in registration order.
func (a *App) Routes() []*routing.Route {
	return a.router.Routes()
}

// OnError replaces the default error translation.
func (a *App) OnError(h ErrorHandler) {
	a.onError = h
}

// ServeHTTP adapts one HTTP request onto the router: match, dispatch,
// translate, send, log.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := web.NewRequest(r)
	res := web.NewResponse(w, a.media)

	a.handle(req, res)

	if err := res.Send(); err != nil {
		a.log.Error("write response", zap.Error(err))
	}

	elapsed := time.Since(start)
	a.log.Info("request completed",
		zap.String("http_method", r.Method),
		zap.String("uri", r.RequestURI),
		zap.String("remote_addr", r.RemoteAddr),
		zap.String("user_agent", r.UserAgent()),
		zap.Int("status", res.StatusCode()),
		zap.Float64("resp_elapsed_ms", float64(elapsed.Nanoseconds())/1000000.0),
	)
	if a.metrics != nil {
		a.metrics.observe(r.Method, res.StatusCode(), elapsed)
	}
}

func (a *App) handle(req *web.Request, res *web.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Error("handler panic",
				zap.String("panic", fmt.Sprintf("%+v", rec)),
				zap.String("stack", string(debug.Stack())),
			)
			a.onError(req, res, web.NewHTTPError(http.StatusInternalServerError, ""))
		}
	}()

	match, ok := a.router.Match(req.Path())
	if !ok {
		a.onError(req, res, routing.ErrRouteNotFound)
		return
	}

	err := match.Route.Dispatch(req, res, match.Params)
	if err == nil {
		return
	}
	if errors.Is(err, routing.ErrMethodNotAllowed) {
		res.Header().Set("Allow", allowHeader(match.Route))
	}
	a.onError(req, res, err)
}

// translateError is the default translation of the abstract routing
// conditions into HTTP statuses: ErrRouteNotFound becomes 404,
// ErrMethodNotAllowed 405, an HTTPError keeps its status and anything else
// is a logged 500.
func (a *App) translateError(req *web.Request, res *web.Response, err error) {
	status := http.StatusInternalServerError
	detail := ""

	var httpErr *web.HTTPError
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Status
		detail = httpErr.Detail
	case errors.Is(err, routing.ErrRouteNotFound):
		status = http.StatusNotFound
	case errors.Is(err, routing.ErrMethodNotAllowed):
		status = http.StatusMethodNotAllowed
	default:
		a.log.Error("unhandled error", zap.String("uri", req.Path()), zap.Error(err))
	}

	if detail == "" {
		detail = http.StatusText(status)
	}
	res.Status(status)
	res.Media(map[string]interface{}{
		"error":  detail,
		"status": status,
	})
}

// allowHeader renders the Allow header value for a 405 reply. The WEBSOCKET
// pseudo-method is not an HTTP method and stays out of it.
func allowHeader(route *routing.Route) string {
	var allowed []string
	for _, m := range route.Methods() {
		if m == views.WEBSOCKET {
			continue
		}
		allowed = append(allowed, string(m))
	}
	return strings.Join(allowed, ", ")
}
