package web

import (
	"net/http"

	"github.com/pkg/errors"
)

// Response buffers a reply until the request has been fully handled, then
// writes it out exactly once. Handlers mutate it freely; only Send touches
// the wire.
type Response struct {
	w         http.ResponseWriter
	media     *Media
	status    int
	header    http.Header
	body      []byte
	mediaBody interface{}
	hasMedia  bool
	committed bool
	sent      bool
}

// NewResponse builds a response writing to w, encoding media values through
// the given registry.
func NewResponse(w http.ResponseWriter, media *Media) *Response {
	return &Response{w: w, media: media, header: make(http.Header)}
}

// Status sets the response status code. Unset, it defaults to 200.
func (r *Response) Status(code int) {
	r.status = code
}

// StatusCode reports the status code Send will write (or wrote).
func (r *Response) StatusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// Header returns the buffered response headers.
func (r *Response) Header() http.Header {
	return r.header
}

// Text sets a plain-text body.
func (r *Response) Text(s string) {
	r.Content([]byte(s), "text/plain; charset=utf-8")
}

// HTML sets an HTML body.
func (r *Response) HTML(s string) {
	r.Content([]byte(s), "text/html; charset=utf-8")
}

// Content sets a raw body with an explicit content type. It clears any media
// value set earlier; last writer wins.
func (r *Response) Content(body []byte, contentType string) {
	r.body = body
	r.hasMedia = false
	r.header.Set("Content-Type", contentType)
}

// Media defers serialization of v to the media registry; the body is encoded
// when Send runs.
func (r *Response) Media(v interface{}) {
	r.mediaBody = v
	r.hasMedia = true
}

// Redirect points the client at url. The status defaults to 302 Found and
// can be overridden with Status before or after this call.
func (r *Response) Redirect(url string) {
	r.header.Set("Location", url)
	if r.status == 0 {
		r.status = http.StatusFound
	}
}

// Commit marks the response as already written on the wire, as after a
// websocket upgrade. Send becomes a no-op.
func (r *Response) Commit() {
	r.committed = true
}

// Committed reports whether the connection was taken over.
func (r *Response) Committed() bool {
	return r.committed
}

// Send writes the buffered response. Repeated calls after the first are
// no-ops, as are calls on a committed response.
func (r *Response) Send() error {
	if r.sent || r.committed {
		return nil
	}
	r.sent = true

	body := r.body
	if r.hasMedia {
		encoded, contentType, err := r.media.Encode(r.mediaBody)
		if err != nil {
			r.w.WriteHeader(http.StatusInternalServerError)
			return errors.Wrap(err, "media encode")
		}
		body = encoded
		r.header.Set("Content-Type", contentType)
	}

	for key, values := range r.header {
		for _, value := range values {
			r.w.Header().Add(key, value)
		}
	}
	r.w.WriteHeader(r.StatusCode())

	if len(body) == 0 {
		return nil
	}
	if _, err := r.w.Write(body); err != nil {
		return errors.Wrap(err, "write response body")
	}
	return nil
}
