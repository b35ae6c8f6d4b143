package signalling

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/videocall/relay/internal/domain"
	"github.com/videocall/relay/internal/sockets"
)

// blockingSocket stalls every write until release is closed, pinning the
// writer goroutine so the outbound buffer can be filled deterministically.
type blockingSocket struct {
	writeStarted chan struct{}
	release      chan struct{}
	startedOnce  sync.Once
}

func newBlockingSocket() *blockingSocket {
	return &blockingSocket{
		writeStarted: make(chan struct{}),
		release:      make(chan struct{}),
	}
}

func (s *blockingSocket) WriteJSON(v interface{}) error {
	s.startedOnce.Do(func() { close(s.writeStarted) })
	<-s.release
	return nil
}

func (s *blockingSocket) ReadJSON(v interface{}) error { return nil }
func (s *blockingSocket) Close() error                 { return nil }

func TestSendDropsWhenBufferFull(t *testing.T) {
	sock := newBlockingSocket()
	loop := NewConnectionLoop(sock, "c1", time.Hour)
	loop.Start()

	if !loop.Send("first") {
		t.Fatal("first Send must be accepted")
	}
	// Wait until the writer holds the first message; from here on nothing
	// drains the channel.
	<-sock.writeStarted

	for i := 0; i < outboundBufferSize; i++ {
		if !loop.Send(i) {
			t.Fatalf("Send %d rejected before the buffer was full", i)
		}
	}

	if loop.Send("overflow") {
		t.Error("Send must drop once the buffer is full")
	}

	close(sock.release)
	loop.Stop()
}

func TestSendAfterStopIsRejected(t *testing.T) {
	sock := newBlockingSocket()
	close(sock.release)

	loop := NewConnectionLoop(sock, "c1", time.Hour)
	loop.Start()
	loop.Stop()

	if loop.Send("late") {
		t.Error("Send after Stop must be rejected")
	}
	// Stop is idempotent.
	loop.Stop()
}

func TestEventSenderReportsDroppedDelivery(t *testing.T) {
	sock := newBlockingSocket()
	loop := NewConnectionLoop(sock, "c1", time.Hour)
	loop.Start()
	defer func() {
		close(sock.release)
		loop.Stop()
	}()

	loops := NewSyncMapWrapper[sockets.SocketID, *ConnectionLoop]()
	loops.Store("c1", loop)
	sender := NewWebSocketEventSender(loops)

	if err := sender.SendUserConnected("c1", "alice"); err != nil {
		t.Fatalf("delivery into an empty buffer failed: %v", err)
	}
	<-sock.writeStarted

	// Saturate the buffer, then expect the next delivery to be reported
	// as dropped rather than silently claimed as sent.
	for i := 0; i < outboundBufferSize; i++ {
		if !loop.Send(i) {
			t.Fatalf("Send %d rejected before the buffer was full", i)
		}
	}
	if err := sender.SendSignal("c1", domain.Envelope{RoomID: "r1", SenderUserID: "alice"}); !errors.Is(err, domain.ErrDeliveryDropped) {
		t.Errorf("expected ErrDeliveryDropped, got %v", err)
	}
}

func TestEventSenderUnknownConnection(t *testing.T) {
	loops := NewSyncMapWrapper[sockets.SocketID, *ConnectionLoop]()
	sender := NewWebSocketEventSender(loops)

	if err := sender.SendUserConnected("ghost", "alice"); !errors.Is(err, domain.ErrConnectionNotFound) {
		t.Errorf("expected ErrConnectionNotFound, got %v", err)
	}
}
