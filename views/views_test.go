package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaogx/bocadillo/web"
)

func TestParseMethod(t *testing.T) {
	m, ok := ParseMethod("get")
	require.True(t, ok)
	assert.Equal(t, GET, m)

	m, ok = ParseMethod("Delete")
	require.True(t, ok)
	assert.Equal(t, DELETE, m)

	m, ok = ParseMethod("websocket")
	require.True(t, ok)
	assert.Equal(t, WEBSOCKET, m)

	_, ok = ParseMethod("BREW")
	assert.False(t, ok)
}

func TestParamsGet(t *testing.T) {
	p := Params{"id": "7"}
	assert.Equal(t, "7", p.Get("id"))
	assert.Equal(t, "", p.Get("missing"))
}

func named(req *web.Request, res *web.Response, params Params) error {
	return nil
}

func TestFuncViewCatchAll(t *testing.T) {
	v := Func(named, "id")
	handlers := v.Handlers()
	require.Len(t, handlers, len(AllMethods))
	for _, m := range AllMethods {
		h, ok := handlers[m]
		require.True(t, ok, m)
		assert.Equal(t, []string{"id"}, h.Params)
	}
}

func TestFuncViewNarrowed(t *testing.T) {
	v := Func(named).Methods(GET, POST)
	handlers := v.Handlers()
	require.Len(t, handlers, 2)
	_, ok := handlers[GET]
	assert.True(t, ok)
	_, ok = handlers[DELETE]
	assert.False(t, ok)
}

func TestFuncViewName(t *testing.T) {
	assert.Equal(t, "named", Func(named).ViewName())
}

type crudView struct{}

func (crudView) Get(req *web.Request, res *web.Response, params Params) error    { return nil }
func (crudView) Post(req *web.Request, res *web.Response, params Params) error   { return nil }
func (crudView) Delete(req *web.Request, res *web.Response, params Params) error { return nil }

func TestOfDiscoversHandlers(t *testing.T) {
	v, err := Of(crudView{}, "id")
	require.NoError(t, err)

	handlers := v.Handlers()
	for _, m := range []Method{GET, POST, DELETE} {
		h, ok := handlers[m]
		require.True(t, ok, m)
		assert.Equal(t, []string{"id"}, h.Params)
	}
	_, ok := handlers[PUT]
	assert.False(t, ok)

	// GET stands in for HEAD when no explicit Head is defined.
	_, ok = handlers[HEAD]
	assert.True(t, ok)

	named, ok := v.(Named)
	require.True(t, ok)
	assert.Equal(t, "crudView", named.ViewName())
}

type catchAllView struct {
	handled []string
}

func (v *catchAllView) Handle(req *web.Request, res *web.Response, params Params) error {
	v.handled = append(v.handled, "catch-all")
	return nil
}

func (v *catchAllView) Get(req *web.Request, res *web.Response, params Params) error {
	v.handled = append(v.handled, "get")
	return nil
}

func TestOfCatchAllWithOverride(t *testing.T) {
	target := &catchAllView{}
	v, err := Of(target)
	require.NoError(t, err)

	handlers := v.Handlers()
	require.Len(t, handlers, len(AllMethods))

	// The explicit Get wins over the catch-all.
	require.NoError(t, handlers[GET].Func(nil, nil, nil))
	require.NoError(t, handlers[POST].Func(nil, nil, nil))
	assert.Equal(t, []string{"get", "catch-all"}, target.handled)
}

type badView struct{}

func (badView) Get(req *web.Request) error { return nil }

func TestOfRejectsWrongSignature(t *testing.T) {
	_, err := Of(badView{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Get")
}

func TestOfEmptyView(t *testing.T) {
	v, err := Of(struct{}{})
	require.NoError(t, err)
	assert.Empty(t, v.Handlers())
}
