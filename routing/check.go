package routing

import (
	"fmt"

	"github.com/shaogx/bocadillo/views"
)

// checkRoute cross-checks the parameter set a pattern declares against the
// parameter set every handler on the view expects. It runs once per
// registration and never at request time: a successful registration
// guarantees a matched request can always be forwarded without a missing- or
// extra-parameter failure.
//
// The check is two-directional. Every pattern placeholder must be accepted
// by every handler, and every handler parameter must be supplied by the
// pattern. A view with zero handlers passes vacuously.
func checkRoute(p *pattern, viewName string, handlers map[views.Method]views.Handler) error {
	declared := make(map[string]bool, len(p.params))
	for _, name := range p.params {
		declared[name] = true
	}

	// Fixed method order keeps failure messages deterministic.
	for _, method := range views.AllMethods {
		h, ok := handlers[method]
		if !ok {
			continue
		}

		expected := make(map[string]bool, len(h.Params))
		for _, name := range h.Params {
			expected[name] = true
		}

		for _, name := range p.params {
			if !expected[name] {
				return &DeclarationError{
					Pattern: p.raw,
					View:    viewName,
					Detail: fmt.Sprintf(
						"pattern declares parameter %q but the %s handler does not accept it",
						name, method,
					),
				}
			}
		}
		for _, name := range h.Params {
			if !declared[name] {
				return &DeclarationError{
					Pattern: p.raw,
					View:    viewName,
					Detail: fmt.Sprintf(
						"%s handler expects parameter %q but the pattern never supplies it",
						method, name,
					),
				}
			}
		}
	}
	return nil
}
