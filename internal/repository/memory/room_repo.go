package memory

import (
	"sync"
	"time"

	"github.com/videocall/relay/internal/domain"
	"github.com/videocall/relay/internal/metrics"
)

// RoomRepository is the in-memory room directory. A single mutex serializes
// all membership mutations, which is enough at the expected scale of tens of
// rooms; two concurrent joins to a new room cannot both see it as absent.
type RoomRepository struct {
	rooms map[string]*domain.Room
	mu    sync.RWMutex
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{
		rooms: make(map[string]*domain.Room),
	}
}

func (r *RoomRepository) Join(roomID, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = &domain.Room{
			ID:        roomID,
			Members:   make(map[string]struct{}),
			CreatedAt: time.Now(),
		}
		r.rooms[roomID] = room
		metrics.ActiveRooms.Set(float64(len(r.rooms)))
	}

	prior := room.MemberIDs()
	room.Members[userID] = struct{}{}
	metrics.RoomMembers.Set(float64(r.memberCount()))
	return prior, nil
}

func (r *RoomRepository) Leave(roomID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return false, domain.ErrRoomNotFound
	}
	if _, member := room.Members[userID]; !member {
		return false, nil
	}
	delete(room.Members, userID)
	r.dropIfEmpty(room)
	metrics.RoomMembers.Set(float64(r.memberCount()))
	return true, nil
}

func (r *RoomRepository) Members(roomID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room.MemberIDs(), nil
}

func (r *RoomRepository) GetAll() ([]domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		copied := *room
		copied.Members = make(map[string]struct{}, len(room.Members))
		for userID := range room.Members {
			copied.Members[userID] = struct{}{}
		}
		rooms = append(rooms, copied)
	}
	return rooms, nil
}

// dropIfEmpty deletes an empty room entry. An empty room is logically
// absent either way; deleting keeps the table from accumulating dead keys.
func (r *RoomRepository) dropIfEmpty(room *domain.Room) {
	if len(room.Members) == 0 {
		delete(r.rooms, room.ID)
		metrics.ActiveRooms.Set(float64(len(r.rooms)))
	}
}

func (r *RoomRepository) memberCount() int {
	count := 0
	for _, room := range r.rooms {
		count += len(room.Members)
	}
	return count
}
