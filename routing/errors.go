package routing

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrRouteNotFound is returned by name-based resolution when no route is
	// registered under the requested name. The translation layer conventionally
	// maps it to a 404.
	ErrRouteNotFound = errors.New("route not found")

	// ErrMethodNotAllowed is returned by dispatch when the matched route's
	// view has no handler for the request method. Conventionally a 405.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrMissingParameter is returned by reverse URL generation when a
	// pattern placeholder has no corresponding value.
	ErrMissingParameter = errors.New("missing route parameter")
)

// DeclarationError reports an invalid route declaration: a malformed pattern
// or an irreconcilable mismatch between the pattern's parameters and a
// handler's. It is only ever produced at registration time and must abort
// application startup when unhandled.
type DeclarationError struct {
	Pattern string
	View    string
	Detail  string
}

func (e *DeclarationError) Error() string {
	if e.View == "" {
		return fmt.Sprintf("route %q: %s", e.Pattern, e.Detail)
	}
	return fmt.Sprintf("route %q on view %q: %s", e.Pattern, e.View, e.Detail)
}
