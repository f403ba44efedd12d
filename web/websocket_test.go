package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpgradeEcho(t *testing.T) {
	done := make(chan error, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := NewRequest(r)
		res := NewResponse(w, NewMedia())

		ws, err := Upgrade(req, res)
		if err != nil {
			done <- err
			return
		}
		defer ws.Close()

		msg, err := ws.ReceiveText()
		if err != nil {
			done <- err
			return
		}
		done <- ws.SendText("echo: " + msg)

		// The upgrade committed the response; Send must stay silent.
		assert.True(t, res.Committed())
		assert.NoError(t, res.Send())
	}))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hi")))
	_, reply, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", string(reply))

	require.NoError(t, <-done)
}
