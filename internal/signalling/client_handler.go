package signalling

import (
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/videocall/relay/internal/api"
	"github.com/videocall/relay/internal/config"
	"github.com/videocall/relay/internal/domain"
	"github.com/videocall/relay/internal/metrics"
	"github.com/videocall/relay/internal/service"
)

// ClientHandler drives one client websocket: it registers the connection,
// announces the peer-connection config, then dispatches incoming messages
// by event until the socket closes. On disconnect the registry and room
// directory are reconciled and the remaining members notified.
type ClientHandler struct {
	config         *config.Manager
	roomService    *service.RoomService
	relayService   *service.RelayService
	sessionHandler *SessionHandler
}

func NewClientHandler(
	cfg *config.Manager,
	roomService *service.RoomService,
	relayService *service.RelayService,
	sessionHandler *SessionHandler,
) *ClientHandler {
	return &ClientHandler{
		config:         cfg,
		roomService:    roomService,
		relayService:   relayService,
		sessionHandler: sessionHandler,
	}
}

func (h *ClientHandler) HandleSocket(c *websocket.Conn) {
	conn, err := h.roomService.Register()
	if err != nil {
		slog.Error("failed to register connection", "error", err)
		return
	}

	cfg := h.config.Get()
	pingInterval := time.Duration(cfg.Server.PingInterval) * time.Millisecond
	session := h.sessionHandler.RegisterClientSession(c, conn.ID, pingInterval)
	defer session.Cleanup()
	defer h.disconnect(conn.ID)

	if err := session.Socket.WriteJSON(api.ServerMessage{
		Event: api.ServerMessageEventInit,
		Init: &api.InitMessage{
			PcConfig:     cfg.WebRTC.PeerConnectionConfig,
			PingInterval: cfg.Server.PingInterval,
		},
	}); err != nil {
		slog.Error("failed to send init", "connID", conn.ID)
		return
	}

	var message api.ClientMessage
	for {
		if err := session.Socket.ReadJSON(&message); err != nil {
			slog.Debug("client disconnected", "connID", conn.ID)
			break
		}

		metrics.SignallingMessagesTotal.WithLabelValues(string(message.Event), "in").Inc()
		h.processMessage(session, conn.ID, message)
	}
}

// disconnect reconciles registry and directory; once it returns, no relay
// delivery will target this connection again.
func (h *ClientHandler) disconnect(connID string) {
	userID, rooms, err := h.roomService.Disconnect(connID)
	if err != nil {
		slog.Error("disconnect reconciliation failed", "connID", connID, "error", err)
		return
	}
	for _, roomID := range rooms {
		h.relayService.BroadcastLeave(roomID, userID)
	}
}

func (h *ClientHandler) processMessage(session *Session, connID string, m api.ClientMessage) {
	switch m.Event {
	case api.ClientMessageEventJoinRoom:
		h.handleJoin(session, connID, m)
	case api.ClientMessageEventSignal:
		h.handleSignal(connID, m)
	case api.ClientMessageEventLeaveRoom:
		h.handleLeave(connID, m)
	case api.ClientMessageEventPong:
		// keepalive response, nothing to do
	default:
		slog.Warn("unknown message event", "event", m.Event, "connID", connID)
	}
}

func (h *ClientHandler) handleJoin(session *Session, connID string, m api.ClientMessage) {
	if m.Join == nil || m.Join.RoomID == "" || m.Join.UserID == "" {
		metrics.MalformedMessagesTotal.Inc()
		slog.Warn("malformed join-room message", "connID", connID)
		session.Loop.Send(api.ServerMessage{
			Event: api.ServerMessageEventError,
			Error: &api.ErrorMessage{Message: "join-room requires roomId and userId"},
		})
		return
	}

	prior, err := h.roomService.Join(connID, m.Join.RoomID, m.Join.UserID)
	if err != nil {
		slog.Warn("join failed", "connID", connID, "roomID", m.Join.RoomID, "error", err)
		session.Loop.Send(api.ServerMessage{
			Event: api.ServerMessageEventError,
			Error: &api.ErrorMessage{Message: "failed to join room"},
		})
		return
	}

	h.relayService.BroadcastJoin(m.Join.RoomID, m.Join.UserID, prior)
}

func (h *ClientHandler) handleSignal(connID string, m api.ClientMessage) {
	if m.Signal == nil {
		metrics.MalformedMessagesTotal.Inc()
		slog.Warn("malformed signal message", "connID", connID)
		return
	}

	err := h.relayService.Relay(domain.Envelope{
		RoomID:       m.Signal.RoomID,
		SenderUserID: m.Signal.UserID,
		Payload:      m.Signal.SignalData,
	})
	if err != nil {
		// Malformed envelopes are dropped; one misbehaving client must
		// not affect anyone else's room.
		slog.Warn("refusing to relay envelope", "connID", connID, "error", err)
	}
}

func (h *ClientHandler) handleLeave(connID string, m api.ClientMessage) {
	if m.Leave == nil || m.Leave.RoomID == "" {
		metrics.MalformedMessagesTotal.Inc()
		slog.Warn("malformed leave-room message", "connID", connID)
		return
	}

	userID, err := h.roomService.Leave(connID, m.Leave.RoomID)
	if err != nil {
		slog.Warn("leave failed", "connID", connID, "roomID", m.Leave.RoomID, "error", err)
		return
	}
	if userID != "" {
		h.relayService.BroadcastLeave(m.Leave.RoomID, userID)
	}
}
