package web

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// MethodWebSocket is the pseudo-method reported for upgrade requests so the
// router can bind websocket endpoints next to plain HTTP ones.
const MethodWebSocket = "WEBSOCKET"

// Request wraps the transport-layer request with the accessors handlers
// need. Construction is owned by the HTTP adapter, never by the router.
type Request struct {
	raw *http.Request
}

// NewRequest wraps r.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw exposes the underlying *http.Request.
func (r *Request) Raw() *http.Request {
	return r.raw
}

// Context returns the request context.
func (r *Request) Context() context.Context {
	return r.raw.Context()
}

// Method returns the upper-cased request method, or WEBSOCKET when the
// request asks for a websocket upgrade.
func (r *Request) Method() string {
	if r.IsUpgrade() {
		return MethodWebSocket
	}
	return strings.ToUpper(r.raw.Method)
}

// IsUpgrade reports whether the request carries a websocket upgrade
// handshake.
func (r *Request) IsUpgrade() bool {
	if !strings.EqualFold(r.raw.Header.Get("Upgrade"), "websocket") {
		return false
	}
	return strings.Contains(strings.ToLower(r.raw.Header.Get("Connection")), "upgrade")
}

// Path returns the URL path the router matches against.
func (r *Request) Path() string {
	return r.raw.URL.Path
}

// Query returns the parsed query string.
func (r *Request) Query() url.Values {
	return r.raw.URL.Query()
}

// Header returns the request headers.
func (r *Request) Header() http.Header {
	return r.raw.Header
}

// JSON decodes the request body into v and drains the remainder so the
// connection can be reused.
func (r *Request) JSON(v interface{}) error {
	defer func() {
		_, _ = io.Copy(ioutil.Discard, r.raw.Body)
	}()
	if err := json.NewDecoder(r.raw.Body).Decode(v); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}
