package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	// readTimeout outlives the longest gap between client pings; a test
	// taker may sit on one question for minutes without touching the
	// connection.
	readTimeout = 5 * time.Minute
)

// WriteTyped sends one typed event (tick, submitted, pong, error) to the
// countdown stream client.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse over the stream.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON decodes the next client message under the read deadline.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	return conn.ReadJSON(v)
}
