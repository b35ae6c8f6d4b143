package service

import (
	"errors"
	"log/slog"

	"github.com/videocall/relay/internal/domain"
	"github.com/videocall/relay/internal/metrics"
)

// RelayService routes signaling events to room members. It never inspects
// envelope payloads and never fails a sender because a recipient is gone:
// delivery is best effort and a room with nobody else in it is simply a
// no-op.
type RelayService struct {
	conns  domain.ConnectionRepository
	rooms  domain.RoomRepository
	sender domain.EventSender
}

func NewRelayService(conns domain.ConnectionRepository, rooms domain.RoomRepository, sender domain.EventSender) *RelayService {
	return &RelayService{
		conns:  conns,
		rooms:  rooms,
		sender: sender,
	}
}

// BroadcastJoin tells every member present before the join that a new user
// arrived. The joiner itself is never notified, even on an idempotent
// re-join where it appears in the prior snapshot.
func (s *RelayService) BroadcastJoin(roomID, userID string, prior []string) {
	for _, member := range prior {
		if member == userID {
			continue
		}
		conn, err := s.conns.GetByUserID(member)
		if err != nil {
			slog.Debug("skipping stale member", "userID", member, "roomID", roomID)
			continue
		}
		if err := s.sender.SendUserConnected(conn.ID, userID); err != nil && !errors.Is(err, domain.ErrDeliveryDropped) {
			slog.Warn("failed to notify member of join", "userID", member, "roomID", roomID, "error", err)
		}
	}
}

// BroadcastLeave tells the remaining members of a room that a user is gone,
// either by explicit leave or by disconnect.
func (s *RelayService) BroadcastLeave(roomID, userID string) {
	members, err := s.rooms.Members(roomID)
	if err != nil {
		return
	}
	for _, member := range members {
		if member == userID {
			continue
		}
		conn, err := s.conns.GetByUserID(member)
		if err != nil {
			continue
		}
		if err := s.sender.SendUserDisconnected(conn.ID, userID); err != nil && !errors.Is(err, domain.ErrDeliveryDropped) {
			slog.Warn("failed to notify member of leave", "userID", member, "roomID", roomID, "error", err)
		}
	}
}

// Relay delivers the envelope to every member connection in the room except
// the sender's own. Zero recipients is not an error; a signal sent before any
// counterpart joins goes nowhere.
func (s *RelayService) Relay(envelope domain.Envelope) error {
	if err := envelope.Validate(); err != nil {
		metrics.MalformedMessagesTotal.Inc()
		return err
	}

	members, err := s.rooms.Members(envelope.RoomID)
	if err != nil {
		// The room may have been dropped by the last leave mid-flight.
		return nil
	}

	for _, member := range members {
		if member == envelope.SenderUserID {
			continue
		}
		conn, err := s.conns.GetByUserID(member)
		if err != nil {
			metrics.EnvelopesDroppedTotal.WithLabelValues("no_connection").Inc()
			continue
		}
		if err := s.sender.SendSignal(conn.ID, envelope); err != nil {
			// A buffer-full drop was already logged and counted downstream.
			if !errors.Is(err, domain.ErrDeliveryDropped) {
				slog.Warn("failed to relay signal", "to", member, "roomID", envelope.RoomID, "error", err)
			}
			continue
		}
		metrics.EnvelopesRelayedTotal.Inc()
	}
	return nil
}
