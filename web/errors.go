package web

import (
	"fmt"
	"net/http"
)

// HTTPError carries an HTTP status through the error return of a handler so
// the translation layer can render it. The routing core itself never builds
// one; it is reserved for handlers and the error translation layer.
type HTTPError struct {
	Status int
	Detail string
}

// NewHTTPError builds an HTTPError. An empty detail falls back to the
// standard status text when rendered.
func NewHTTPError(status int, detail string) *HTTPError {
	return &HTTPError{Status: status, Detail: detail}
}

func (e *HTTPError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Detail)
}

// DetailOr returns the error detail, or fallback when none was given.
func (e *HTTPError) DetailOr(fallback string) string {
	if e.Detail == "" {
		return fallback
	}
	return e.Detail
}
