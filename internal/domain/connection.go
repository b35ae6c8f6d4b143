package domain

import (
	"errors"
	"time"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrUserAlreadyBound   = errors.New("connection already bound to a different user")
)

// Connection is one live transport session. The ID is allocated by the
// server on connect and never reused; UserID is empty until the client
// announces itself with a join.
type Connection struct {
	ID          string
	UserID      string
	Rooms       map[string]struct{}
	ConnectedAt time.Time
}

func (c *Connection) JoinedRooms() []string {
	rooms := make([]string, 0, len(c.Rooms))
	for roomID := range c.Rooms {
		rooms = append(rooms, roomID)
	}
	return rooms
}

type ConnectionRepository interface {
	Save(conn Connection) error
	GetByID(id string) (Connection, error)
	GetByUserID(userID string) (Connection, error)
	Bind(id, userID string) error
	AddRoom(id, roomID string) error
	RemoveRoom(id, roomID string) error
	Delete(id string) error
}
