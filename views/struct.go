package views

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/shaogx/bocadillo/web"
)

// handlerMethods maps exported method names to the methods they serve.
var handlerMethods = map[string]Method{
	"Get":       GET,
	"Post":      POST,
	"Put":       PUT,
	"Patch":     PATCH,
	"Delete":    DELETE,
	"Head":      HEAD,
	"Options":   OPTIONS,
	"Websocket": WEBSOCKET,
}

type structView struct {
	name     string
	handlers map[Method]Handler
}

func (v *structView) Handlers() map[Method]Handler {
	return v.handlers
}

func (v *structView) ViewName() string {
	return v.name
}

// Of adapts a struct into the View contract by discovering its handler
// methods. A method named after a recognized HTTP method (Get, Post, ...,
// Websocket) serves that method; a Handle method serves every method not
// covered by an explicit one; Head falls back to Get when absent. params
// names the route parameters the handlers expect.
//
// A method whose name matches but whose signature differs is a declaration
// mistake and fails loudly rather than being silently skipped. A struct with
// zero handler methods is a valid, empty view.
func Of(v interface{}, params ...string) (View, error) {
	rv := reflect.ValueOf(v)
	handlers := make(map[Method]Handler)

	adapt := func(name string) (HandlerFunc, bool, error) {
		mv := rv.MethodByName(name)
		if !mv.IsValid() {
			return nil, false, nil
		}
		fn, ok := mv.Interface().(func(*web.Request, *web.Response, Params) error)
		if !ok {
			return nil, false, errors.Errorf(
				"view %T: method %s must be func(*web.Request, *web.Response, views.Params) error",
				v, name,
			)
		}
		return fn, true, nil
	}

	if fn, ok, err := adapt("Handle"); err != nil {
		return nil, err
	} else if ok {
		for _, m := range AllMethods {
			handlers[m] = Handler{Func: fn, Params: params}
		}
	}

	for name, method := range handlerMethods {
		fn, ok, err := adapt(name)
		if err != nil {
			return nil, err
		}
		if ok {
			handlers[method] = Handler{Func: fn, Params: params}
		}
	}

	// A view that answers GET answers HEAD as well unless it says otherwise.
	if _, ok := handlers[HEAD]; !ok {
		if get, ok := handlers[GET]; ok {
			handlers[HEAD] = get
		}
	}

	t := reflect.Indirect(reflect.ValueOf(v)).Type()
	return &structView{name: t.Name(), handlers: handlers}, nil
}
