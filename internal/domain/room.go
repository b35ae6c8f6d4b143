package domain

import (
	"errors"
	"time"
)

var ErrRoomNotFound = errors.New("room not found")

// Room groups the users that may signal each other. Membership is a set of
// logical user IDs; the room exists only while it has at least one member.
type Room struct {
	ID        string
	Members   map[string]struct{}
	CreatedAt time.Time
}

func (r *Room) MemberIDs() []string {
	members := make([]string, 0, len(r.Members))
	for userID := range r.Members {
		members = append(members, userID)
	}
	return members
}

type RoomRepository interface {
	// Join adds userID to the room, creating it if absent, and returns the
	// member set as it stood before the add. Re-joining is idempotent.
	Join(roomID, userID string) ([]string, error)
	// Leave removes userID from the room and reports whether it was
	// actually a member; removing a non-member is a no-op, not an error.
	Leave(roomID, userID string) (bool, error)
	Members(roomID string) ([]string, error)
	GetAll() ([]Room, error)
}
