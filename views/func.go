package views

import (
	"reflect"
	"runtime"
	"strings"
)

// FuncView adapts a plain handler function into the View contract. By default
// the function answers every recognized method; Methods narrows the set.
type FuncView struct {
	name    string
	fn      HandlerFunc
	params  []string
	methods []Method
}

// Func wraps fn into a view. params names the route parameters the function
// expects, in declaration order.
func Func(fn HandlerFunc, params ...string) *FuncView {
	return &FuncView{
		name:    funcName(fn),
		fn:      fn,
		params:  params,
		methods: AllMethods,
	}
}

// Methods restricts the view to the given methods and returns the view for
// chaining.
func (v *FuncView) Methods(methods ...Method) *FuncView {
	v.methods = methods
	return v
}

// Handlers builds the handler table, one entry per allowed method, all backed
// by the same function.
func (v *FuncView) Handlers() map[Method]Handler {
	handlers := make(map[Method]Handler, len(v.methods))
	for _, m := range v.methods {
		handlers[m] = Handler{Func: v.fn, Params: v.params}
	}
	return handlers
}

// ViewName reports the wrapped function's symbol name.
func (v *FuncView) ViewName() string {
	return v.name
}

func funcName(fn HandlerFunc) string {
	name := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
