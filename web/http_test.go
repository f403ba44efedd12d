package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestMethodNormalization(t *testing.T) {
	req := NewRequest(httptest.NewRequest("get", "/x", nil))
	assert.Equal(t, "GET", req.Method())

	raw := httptest.NewRequest("GET", "/ws", nil)
	raw.Header.Set("Upgrade", "websocket")
	raw.Header.Set("Connection", "keep-alive, Upgrade")
	req = NewRequest(raw)
	assert.Equal(t, MethodWebSocket, req.Method())
	assert.True(t, req.IsUpgrade())

	// Upgrade header alone is not a handshake.
	raw = httptest.NewRequest("GET", "/ws", nil)
	raw.Header.Set("Upgrade", "websocket")
	req = NewRequest(raw)
	assert.Equal(t, "GET", req.Method())
}

func TestRequestJSON(t *testing.T) {
	raw := httptest.NewRequest("POST", "/links", strings.NewReader(`{"target": "http://example.com"}`))
	req := NewRequest(raw)

	var body struct {
		Target string `json:"target"`
	}
	require.NoError(t, req.JSON(&body))
	assert.Equal(t, "http://example.com", body.Target)

	raw = httptest.NewRequest("POST", "/links", strings.NewReader("not json"))
	require.Error(t, NewRequest(raw).JSON(&body))
}

func TestRequestAccessors(t *testing.T) {
	raw := httptest.NewRequest("GET", "/links?term=abc", nil)
	req := NewRequest(raw)
	assert.Equal(t, "/links", req.Path())
	assert.Equal(t, "abc", req.Query().Get("term"))
	assert.Equal(t, raw, req.Raw())
}

func TestResponseText(t *testing.T) {
	rec := httptest.NewRecorder()
	res := NewResponse(rec, NewMedia())
	res.Text("hello")
	require.NoError(t, res.Send())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestResponseMedia(t *testing.T) {
	rec := httptest.NewRecorder()
	res := NewResponse(rec, NewMedia())
	res.Status(http.StatusCreated)
	res.Media(map[string]string{"status": "ok"})
	require.NoError(t, res.Send())

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, JSONType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestResponseRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	res := NewResponse(rec, NewMedia())
	res.Redirect("http://example.com")
	require.NoError(t, res.Send())

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://example.com", rec.Header().Get("Location"))
}

func TestResponseSendsOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	res := NewResponse(rec, NewMedia())
	res.Text("once")
	require.NoError(t, res.Send())
	require.NoError(t, res.Send())
	assert.Equal(t, "once", rec.Body.String())
}

func TestResponseCommittedSuppressesSend(t *testing.T) {
	rec := httptest.NewRecorder()
	res := NewResponse(rec, NewMedia())
	res.Text("never written")
	res.Commit()
	require.NoError(t, res.Send())
	assert.Empty(t, rec.Body.String())
	assert.True(t, res.Committed())
}
