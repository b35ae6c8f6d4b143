package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/videocall/relay/internal/domain"
	"github.com/videocall/relay/internal/metrics"
)

// RoomService owns the connection registry and the room directory. All
// membership changes go through here so the two stay consistent: joins are
// recorded on both sides, and a disconnect unwinds exactly the rooms the
// connection had joined.
type RoomService struct {
	conns domain.ConnectionRepository
	rooms domain.RoomRepository
}

func NewRoomService(conns domain.ConnectionRepository, rooms domain.RoomRepository) *RoomService {
	return &RoomService{
		conns: conns,
		rooms: rooms,
	}
}

// Register allocates a fresh connection with no user bound yet.
func (s *RoomService) Register() (domain.Connection, error) {
	conn := domain.Connection{
		ID:          uuid.NewString(),
		Rooms:       make(map[string]struct{}),
		ConnectedAt: time.Now(),
	}
	if err := s.conns.Save(conn); err != nil {
		return domain.Connection{}, fmt.Errorf("failed to register connection: %w", err)
	}
	return conn, nil
}

// Bind associates a logical user identity with a live connection.
func (s *RoomService) Bind(connID, userID string) error {
	return s.conns.Bind(connID, userID)
}

// Join binds the user to the connection, adds it to the room and returns
// the member set as it stood before the add. Re-joining is idempotent.
func (s *RoomService) Join(connID, roomID, userID string) ([]string, error) {
	if err := s.conns.Bind(connID, userID); err != nil {
		return nil, err
	}

	prior, err := s.rooms.Join(roomID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.conns.AddRoom(connID, roomID); err != nil {
		// The connection vanished between bind and join; undo the
		// membership so no stale entry lingers.
		_, _ = s.rooms.Leave(roomID, userID)
		return nil, err
	}

	metrics.RoomJoinsTotal.Inc()
	slog.Info("user joined room", "userID", userID, "roomID", roomID, "connID", connID)
	return prior, nil
}

// Leave removes the connection's user from the room. Leaving a room the
// user never joined is a no-op: the empty userID tells the caller there is
// nothing to announce.
func (s *RoomService) Leave(connID, roomID string) (string, error) {
	conn, err := s.conns.GetByID(connID)
	if err != nil {
		return "", err
	}
	if conn.UserID == "" {
		return "", nil
	}

	removed, err := s.rooms.Leave(roomID, conn.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			return "", nil
		}
		return "", err
	}
	if !removed {
		return "", nil
	}
	_ = s.conns.RemoveRoom(connID, roomID)

	slog.Info("user left room", "userID", conn.UserID, "roomID", roomID)
	return conn.UserID, nil
}

// MembersOf returns the current member set; an unknown room is the empty set.
func (s *RoomService) MembersOf(roomID string) []string {
	members, err := s.rooms.Members(roomID)
	if err != nil {
		return nil
	}
	return members
}

// Disconnect removes the connection and sweeps its user out of every room
// it had joined. It is idempotent: disconnecting an unknown connection does
// nothing. Returns the user and the rooms it was removed from so the caller
// can notify the remaining members.
func (s *RoomService) Disconnect(connID string) (string, []string, error) {
	conn, err := s.conns.GetByID(connID)
	if err != nil {
		if errors.Is(err, domain.ErrConnectionNotFound) {
			return "", nil, nil
		}
		return "", nil, err
	}

	if err := s.conns.Delete(connID); err != nil && !errors.Is(err, domain.ErrConnectionNotFound) {
		return "", nil, err
	}

	if conn.UserID == "" {
		return "", nil, nil
	}

	// Membership was recorded by userID, so cleanup resolves the user
	// through the registry binding rather than filtering by transport id.
	var left []string
	for _, roomID := range conn.JoinedRooms() {
		if removed, err := s.rooms.Leave(roomID, conn.UserID); err == nil && removed {
			left = append(left, roomID)
		}
	}

	slog.Info("connection disconnected", "connID", connID, "userID", conn.UserID, "rooms", len(left))
	return conn.UserID, left, nil
}

// Rooms returns a snapshot of every room and its members.
func (s *RoomService) Rooms() ([]domain.Room, error) {
	return s.rooms.GetAll()
}
