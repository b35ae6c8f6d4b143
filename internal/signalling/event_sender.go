package signalling

import (
	"github.com/videocall/relay/internal/api"
	"github.com/videocall/relay/internal/domain"
	"github.com/videocall/relay/internal/metrics"
	"github.com/videocall/relay/internal/sockets"
)

// WebSocketEventSender implements domain.EventSender by enqueueing server
// events onto the target connection's write loop. Delivery is best effort:
// a missing or saturated connection drops the event rather than failing
// the sender.
type WebSocketEventSender struct {
	loops *SyncMapWrapper[sockets.SocketID, *ConnectionLoop]
}

func NewWebSocketEventSender(loops *SyncMapWrapper[sockets.SocketID, *ConnectionLoop]) *WebSocketEventSender {
	return &WebSocketEventSender{loops: loops}
}

var _ domain.EventSender = (*WebSocketEventSender)(nil)

func (w *WebSocketEventSender) SendUserConnected(connID, userID string) error {
	return w.enqueue(connID, "user-connected", api.ServerMessage{
		Event:         api.ServerMessageEventUserConnected,
		UserConnected: &api.UserEventMessage{UserID: userID},
	})
}

func (w *WebSocketEventSender) SendUserDisconnected(connID, userID string) error {
	return w.enqueue(connID, "user-disconnected", api.ServerMessage{
		Event:            api.ServerMessageEventUserDisconnected,
		UserDisconnected: &api.UserEventMessage{UserID: userID},
	})
}

func (w *WebSocketEventSender) SendSignal(connID string, envelope domain.Envelope) error {
	return w.enqueue(connID, "signal", api.ServerMessage{
		Event: api.ServerMessageEventSignal,
		Signal: &api.SignalMessage{
			RoomID:     envelope.RoomID,
			UserID:     envelope.SenderUserID,
			SignalData: envelope.Payload,
		},
	})
}

func (w *WebSocketEventSender) enqueue(connID, event string, msg api.ServerMessage) error {
	loop, ok := w.loops.Load(sockets.SocketID(connID))
	if !ok {
		metrics.EnvelopesDroppedTotal.WithLabelValues("no_connection").Inc()
		return domain.ErrConnectionNotFound
	}
	// Send drops on a full buffer and counts the drop itself; report it so
	// the caller does not also count the message as delivered.
	if !loop.Send(msg) {
		return domain.ErrDeliveryDropped
	}
	metrics.SignallingMessagesTotal.WithLabelValues(event, "out").Inc()
	return nil
}
