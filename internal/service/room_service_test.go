package service_test

import (
	"errors"
	"testing"

	"github.com/videocall/relay/internal/domain"
	"github.com/videocall/relay/internal/repository/memory"
	"github.com/videocall/relay/internal/service"
)

func newRoomService() (*service.RoomService, *memory.ConnectionRepository, *memory.RoomRepository) {
	conns := memory.NewConnectionRepository()
	rooms := memory.NewRoomRepository()
	return service.NewRoomService(conns, rooms), conns, rooms
}

func TestRegisterAllocatesUniqueConnections(t *testing.T) {
	svc, conns, _ := newRoomService()

	c1, err := svc.Register()
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	c2, err := svc.Register()
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if c1.ID == c2.ID {
		t.Error("two registrations returned the same connection id")
	}
	if c1.UserID != "" {
		t.Errorf("fresh connection must have no user bound, got %q", c1.UserID)
	}
	if _, err := conns.GetByID(c1.ID); err != nil {
		t.Errorf("registered connection not in repository: %v", err)
	}
}

func TestJoinBindsUserAndReturnsPrior(t *testing.T) {
	svc, _, _ := newRoomService()

	alice, _ := svc.Register()
	prior, err := svc.Join(alice.ID, "r1", "alice")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if len(prior) != 0 {
		t.Errorf("expected no prior members, got %v", prior)
	}

	bob, _ := svc.Register()
	prior, err = svc.Join(bob.ID, "r1", "bob")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if len(prior) != 1 || prior[0] != "alice" {
		t.Errorf("expected prior [alice], got %v", prior)
	}

	members := svc.MembersOf("r1")
	if len(members) != 2 {
		t.Errorf("expected 2 members, got %v", members)
	}
}

func TestJoinUnknownConnection(t *testing.T) {
	svc, _, _ := newRoomService()

	if _, err := svc.Join("ghost", "r1", "alice"); !errors.Is(err, domain.ErrConnectionNotFound) {
		t.Errorf("expected ErrConnectionNotFound, got %v", err)
	}
	if members := svc.MembersOf("r1"); len(members) != 0 {
		t.Errorf("failed join must not create membership, got %v", members)
	}
}

func TestJoinThenLeaveEmptiesRoom(t *testing.T) {
	svc, _, _ := newRoomService()

	alice, _ := svc.Register()
	svc.Join(alice.ID, "r1", "alice")

	userID, err := svc.Leave(alice.ID, "r1")
	if err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if userID != "alice" {
		t.Errorf("expected leaving user alice, got %q", userID)
	}
	if members := svc.MembersOf("r1"); len(members) != 0 {
		t.Errorf("expected empty room after leave, got %v", members)
	}
}

func TestLeaveRoomNeverJoined(t *testing.T) {
	svc, _, _ := newRoomService()

	alice, _ := svc.Register()
	svc.Join(alice.ID, "r1", "alice")

	userID, err := svc.Leave(alice.ID, "other")
	if err != nil {
		t.Fatalf("Leave of unknown room must be a no-op, got %v", err)
	}
	if userID != "" {
		t.Errorf("expected no user reported for no-op leave, got %q", userID)
	}
}

func TestLeaveRoomNotMemberOf(t *testing.T) {
	svc, _, _ := newRoomService()

	alice, _ := svc.Register()
	svc.Join(alice.ID, "r1", "alice")

	bob, _ := svc.Register()
	svc.Join(bob.ID, "r2", "bob")

	// bob leaves a room he is in fact a stranger to.
	userID, err := svc.Leave(bob.ID, "r1")
	if err != nil {
		t.Fatalf("Leave of a non-member must be a no-op, got %v", err)
	}
	if userID != "" {
		t.Errorf("no user must be reported as having left, got %q", userID)
	}
	members := svc.MembersOf("r1")
	if len(members) != 1 || members[0] != "alice" {
		t.Errorf("expected r1 members [alice], got %v", members)
	}
}

func TestDisconnectReconciliation(t *testing.T) {
	svc, conns, _ := newRoomService()

	alice, _ := svc.Register()
	svc.Join(alice.ID, "r1", "alice")
	svc.Join(alice.ID, "r2", "alice")

	bob, _ := svc.Register()
	svc.Join(bob.ID, "r1", "bob")

	userID, rooms, err := svc.Disconnect(alice.ID)
	if err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}
	if userID != "alice" {
		t.Errorf("expected reconciled user alice, got %q", userID)
	}
	if len(rooms) != 2 {
		t.Errorf("expected removal from 2 rooms, got %v", rooms)
	}

	members := svc.MembersOf("r1")
	if len(members) != 1 || members[0] != "bob" {
		t.Errorf("expected r1 members [bob], got %v", members)
	}
	if members := svc.MembersOf("r2"); len(members) != 0 {
		t.Errorf("expected r2 empty, got %v", members)
	}
	if _, err := conns.GetByID(alice.ID); !errors.Is(err, domain.ErrConnectionNotFound) {
		t.Errorf("expected connection removed, got %v", err)
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	svc, _, _ := newRoomService()

	alice, _ := svc.Register()
	svc.Join(alice.ID, "r1", "alice")

	if _, _, err := svc.Disconnect(alice.ID); err != nil {
		t.Fatalf("first Disconnect failed: %v", err)
	}
	userID, rooms, err := svc.Disconnect(alice.ID)
	if err != nil {
		t.Fatalf("second Disconnect must be a no-op, got %v", err)
	}
	if userID != "" || rooms != nil {
		t.Errorf("second Disconnect reported work: user=%q rooms=%v", userID, rooms)
	}
}

func TestDisconnectUnboundConnection(t *testing.T) {
	svc, _, _ := newRoomService()

	conn, _ := svc.Register()
	userID, rooms, err := svc.Disconnect(conn.ID)
	if err != nil {
		t.Fatalf("Disconnect of unbound connection failed: %v", err)
	}
	if userID != "" || len(rooms) != 0 {
		t.Errorf("unbound connection had nothing to reconcile, got user=%q rooms=%v", userID, rooms)
	}
}
