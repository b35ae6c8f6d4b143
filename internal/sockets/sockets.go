package sockets

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// SocketID is the transport-level connection identifier, assigned by the
// server at connect time and stable for the socket's lifetime.
type SocketID string

type Socket interface {
	WriteJSON(v interface{}) error
	ReadJSON(v interface{}) error
	Close() error
}

type socketImpl struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func NewSocket(conn *websocket.Conn) Socket {
	return &socketImpl{ws: conn}
}

// WriteJSON serializes writes; the relay and the ping loop may both write
// to the same socket.
func (s *socketImpl) WriteJSON(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.ws.WriteJSON(v)
}

func (s *socketImpl) ReadJSON(v interface{}) error {
	return s.ws.ReadJSON(v)
}

func (s *socketImpl) Close() error {
	return s.ws.Close()
}
