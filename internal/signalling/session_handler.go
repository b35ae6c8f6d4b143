package signalling

import (
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/videocall/relay/internal/metrics"
	"github.com/videocall/relay/internal/sockets"
)

type Session struct {
	Socket   sockets.Socket
	SocketID sockets.SocketID
	Loop     *ConnectionLoop
	Cleanup  func()
}

// SessionHandler owns the socket pool and the per-connection write loops.
// A session binds the three together for the lifetime of one websocket.
type SessionHandler struct {
	clientSockets *sockets.SocketPool
	loops         *SyncMapWrapper[sockets.SocketID, *ConnectionLoop]
}

func NewSessionHandler(clientSockets *sockets.SocketPool, loops *SyncMapWrapper[sockets.SocketID, *ConnectionLoop]) *SessionHandler {
	return &SessionHandler{
		clientSockets: clientSockets,
		loops:         loops,
	}
}

func (h *SessionHandler) RegisterClientSession(conn *websocket.Conn, connID string, pingInterval time.Duration) *Session {
	socketID := sockets.SocketID(connID)
	socket := h.clientSockets.AddSocket(socketID, conn)

	loop := NewConnectionLoop(socket, socketID, pingInterval)
	h.loops.Store(socketID, loop)
	loop.Start()

	metrics.ActiveWebSocketConnections.Inc()
	metrics.WebSocketConnectionsTotal.Inc()

	cleanup := func() {
		metrics.ActiveWebSocketConnections.Dec()
		metrics.WebSocketDisconnectionsTotal.Inc()
		h.loops.Delete(socketID)
		loop.Stop()
		h.clientSockets.CloseSocket(socketID)
	}

	slog.Info("client session started", "connID", connID, "remote", conn.NetConn().RemoteAddr())

	return &Session{
		Socket:   socket,
		SocketID: socketID,
		Loop:     loop,
		Cleanup:  cleanup,
	}
}
