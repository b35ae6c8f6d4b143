package memory

import (
	"sync"

	"github.com/videocall/relay/internal/domain"
	"github.com/videocall/relay/internal/metrics"
)

// ConnectionRepository is the in-memory connection registry. It owns the
// connectionID -> userID binding and the per-connection set of joined rooms,
// so disconnect reconciliation is proportional to the rooms actually joined.
type ConnectionRepository struct {
	conns  map[string]*domain.Connection
	byUser map[string]string
	mu     sync.RWMutex
}

func NewConnectionRepository() *ConnectionRepository {
	return &ConnectionRepository{
		conns:  make(map[string]*domain.Connection),
		byUser: make(map[string]string),
	}
}

func (r *ConnectionRepository) Save(conn domain.Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := conn
	if stored.Rooms == nil {
		stored.Rooms = make(map[string]struct{})
	}
	r.conns[conn.ID] = &stored
	if conn.UserID != "" {
		r.byUser[conn.UserID] = conn.ID
	}
	metrics.StoredConnections.Set(float64(len(r.conns)))
	return nil
}

func (r *ConnectionRepository) GetByID(id string) (domain.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[id]
	if !ok {
		return domain.Connection{}, domain.ErrConnectionNotFound
	}
	return snapshot(conn), nil
}

func (r *ConnectionRepository) GetByUserID(userID string) (domain.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUser[userID]
	if !ok {
		return domain.Connection{}, domain.ErrConnectionNotFound
	}
	conn, ok := r.conns[id]
	if !ok {
		return domain.Connection{}, domain.ErrConnectionNotFound
	}
	return snapshot(conn), nil
}

func (r *ConnectionRepository) Bind(id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[id]
	if !ok {
		return domain.ErrConnectionNotFound
	}
	if conn.UserID != "" && conn.UserID != userID {
		return domain.ErrUserAlreadyBound
	}
	conn.UserID = userID
	r.byUser[userID] = id
	return nil
}

func (r *ConnectionRepository) AddRoom(id, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[id]
	if !ok {
		return domain.ErrConnectionNotFound
	}
	conn.Rooms[roomID] = struct{}{}
	return nil
}

func (r *ConnectionRepository) RemoveRoom(id, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[id]
	if !ok {
		return domain.ErrConnectionNotFound
	}
	delete(conn.Rooms, roomID)
	return nil
}

func (r *ConnectionRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[id]
	if !ok {
		return domain.ErrConnectionNotFound
	}
	if conn.UserID != "" && r.byUser[conn.UserID] == id {
		delete(r.byUser, conn.UserID)
	}
	delete(r.conns, id)
	metrics.StoredConnections.Set(float64(len(r.conns)))
	return nil
}

func snapshot(conn *domain.Connection) domain.Connection {
	copied := *conn
	copied.Rooms = make(map[string]struct{}, len(conn.Rooms))
	for roomID := range conn.Rooms {
		copied.Rooms[roomID] = struct{}{}
	}
	return copied
}
