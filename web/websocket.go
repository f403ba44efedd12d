package web

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocket is a thin wrapper around an upgraded connection.
type WebSocket struct {
	conn *websocket.Conn
}

// Upgrade switches the request's connection to the websocket protocol and
// commits the response, so the HTTP adapter will not write a second reply.
func Upgrade(req *Request, res *Response) (*WebSocket, error) {
	conn, err := upgrader.Upgrade(res.w, req.raw, res.header)
	if err != nil {
		return nil, errors.Wrap(err, "websocket upgrade")
	}
	res.Commit()
	return &WebSocket{conn: conn}, nil
}

// SendText writes a text message.
func (ws *WebSocket) SendText(s string) error {
	return errors.Wrap(ws.conn.WriteMessage(websocket.TextMessage, []byte(s)), "websocket write")
}

// SendJSON writes v as a JSON text message.
func (ws *WebSocket) SendJSON(v interface{}) error {
	return errors.Wrap(ws.conn.WriteJSON(v), "websocket write json")
}

// ReceiveText reads the next text message.
func (ws *WebSocket) ReceiveText() (string, error) {
	_, msg, err := ws.conn.ReadMessage()
	if err != nil {
		return "", errors.Wrap(err, "websocket read")
	}
	return string(msg), nil
}

// ReceiveJSON reads the next message and decodes it into v.
func (ws *WebSocket) ReceiveJSON(v interface{}) error {
	return errors.Wrap(ws.conn.ReadJSON(v), "websocket read json")
}

// Close performs a normal closure handshake and releases the connection.
func (ws *WebSocket) Close() error {
	_ = ws.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	return ws.conn.Close()
}
