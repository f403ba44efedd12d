package bocadillo

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaogx/bocadillo/routing"
	"github.com/shaogx/bocadillo/views"
	"github.com/shaogx/bocadillo/web"
)

type itemView struct{}

func (itemView) Get(req *web.Request, res *web.Response, params views.Params) error {
	res.Media(map[string]string{"id": params.Get("id")})
	return nil
}

func newItemApp(t *testing.T) *App {
	app, err := New(Config{})
	require.NoError(t, err)

	view, err := views.Of(itemView{}, "id")
	require.NoError(t, err)
	_, err = app.Route("/items/{id}", view, routing.WithName("item"))
	require.NoError(t, err)

	return app
}

func testRequest(t *testing.T, ts *httptest.Server, method, path string, body io.Reader) (*http.Response, string) {
	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()

	respBody, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(respBody)
}

func TestAppEndToEnd(t *testing.T) {
	app := newItemApp(t)
	ts := httptest.NewServer(app)
	defer ts.Close()

	resp, body := testRequest(t, ts, "GET", "/items/7", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, web.JSONType, resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"id": "7"}`, body)

	url, err := app.URLFor("item", map[string]interface{}{"id": 7})
	require.NoError(t, err)
	assert.Equal(t, "/items/7", url)
}

func TestAppNotFound(t *testing.T) {
	app := newItemApp(t)
	ts := httptest.NewServer(app)
	defer ts.Close()

	resp, body := testRequest(t, ts, "GET", "/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, fmt.Sprintf(`{"error": "Not Found", "status": %d}`, http.StatusNotFound), body)
}

func TestAppMethodNotAllowed(t *testing.T) {
	app := newItemApp(t)
	ts := httptest.NewServer(app)
	defer ts.Close()

	resp, _ := testRequest(t, ts, "DELETE", "/items/7", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "GET, HEAD", resp.Header.Get("Allow"))
}

func TestAppHTTPErrorPassthrough(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	_, err = app.RouteFunc("/teapot", func(req *web.Request, res *web.Response, params views.Params) error {
		return web.NewHTTPError(http.StatusTeapot, "short and stout")
	})
	require.NoError(t, err)

	ts := httptest.NewServer(app)
	defer ts.Close()

	resp, body := testRequest(t, ts, "GET", "/teapot", nil)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Contains(t, body, "short and stout")
}

func TestAppPanicBecomes500(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	_, err = app.RouteFunc("/panic", func(req *web.Request, res *web.Response, params views.Params) error {
		panic("kaboom")
	})
	require.NoError(t, err)

	ts := httptest.NewServer(app)
	defer ts.Close()

	resp, _ := testRequest(t, ts, "GET", "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestAppUnhandledErrorBecomes500(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	_, err = app.RouteFunc("/oops", func(req *web.Request, res *web.Response, params views.Params) error {
		return fmt.Errorf("database on fire")
	})
	require.NoError(t, err)

	ts := httptest.NewServer(app)
	defer ts.Close()

	resp, body := testRequest(t, ts, "GET", "/oops", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	// Internal details never leak into the body.
	assert.NotContains(t, body, "database on fire")
}

func TestAppOnErrorHook(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	app.OnError(func(req *web.Request, res *web.Response, err error) {
		res.Status(http.StatusServiceUnavailable)
		res.Text("custom: " + err.Error())
	})

	ts := httptest.NewServer(app)
	defer ts.Close()

	resp, body := testRequest(t, ts, "GET", "/anywhere", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "custom:")
}

func TestAppUnsupportedMediaType(t *testing.T) {
	_, err := New(Config{MediaType: "application/nope"})
	require.Error(t, err)

	var unsupported *web.UnsupportedMediaTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "application/nope", unsupported.Type)
}

func TestAppRecipeMount(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)

	admin := NewRecipe("admin")
	admin.Route("/links", views.Func(func(req *web.Request, res *web.Response, params views.Params) error {
		res.Media(map[string]bool{"admin": true})
		return nil
	}), routing.WithName("links"))
	require.NoError(t, app.Mount(admin))

	url, err := app.URLFor("admin:links", nil)
	require.NoError(t, err)
	assert.Equal(t, "/admin/links", url)

	ts := httptest.NewServer(app)
	defer ts.Close()

	resp, body := testRequest(t, ts, "GET", "/admin/links", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"admin": true}`, body)
}

func TestAppRecipeMountInvalidRoute(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)

	broken := NewRecipe("broken")
	broken.RouteFunc("/links/{id}", func(req *web.Request, res *web.Response, params views.Params) error {
		return nil
	})

	err = app.Mount(broken)
	require.Error(t, err)
	var decl *routing.DeclarationError
	assert.ErrorAs(t, err, &decl)
}

func TestAppMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	app, err := New(Config{Metrics: registry})
	require.NoError(t, err)

	view, err := views.Of(itemView{}, "id")
	require.NoError(t, err)
	_, err = app.Route("/items/{id}", view, routing.WithName("item"))
	require.NoError(t, err)

	ts := httptest.NewServer(app)
	defer ts.Close()

	testRequest(t, ts, "GET", "/items/7", nil)
	testRequest(t, ts, "GET", "/items/8", nil)
	testRequest(t, ts, "GET", "/missing", nil)

	assert.Equal(t, float64(2), testutil.ToFloat64(
		app.metrics.requests.WithLabelValues("GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		app.metrics.requests.WithLabelValues("GET", "404")))
}
