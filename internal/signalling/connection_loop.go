package signalling

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/videocall/relay/internal/api"
	"github.com/videocall/relay/internal/metrics"
	"github.com/videocall/relay/internal/sockets"
)

const outboundBufferSize = 64

// ConnectionLoop owns all writes to one client connection: a writer
// goroutine drains the outbound channel in FIFO order and a ping ticker
// keeps the connection alive. Because each sender enqueues its messages
// from a single goroutine, per-sender order is preserved end to end.
type ConnectionLoop struct {
	socket     sockets.Socket
	socketID   sockets.SocketID
	messages   chan interface{}
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	pingTicker *time.Ticker
	closeOnce  sync.Once
}

func NewConnectionLoop(socket sockets.Socket, socketID sockets.SocketID, pingInterval time.Duration) *ConnectionLoop {
	ctx, cancel := context.WithCancel(context.Background())
	return &ConnectionLoop{
		socket:     socket,
		socketID:   socketID,
		messages:   make(chan interface{}, outboundBufferSize),
		ctx:        ctx,
		cancel:     cancel,
		pingTicker: time.NewTicker(pingInterval),
	}
}

func (l *ConnectionLoop) Start() {
	l.wg.Add(2)
	go l.messageWriterLoop()
	go l.pingLoop()
}

func (l *ConnectionLoop) Stop() {
	l.closeOnce.Do(func() {
		l.cancel()
		l.pingTicker.Stop()
		l.wg.Wait()
	})
}

// Send enqueues a message without blocking. When the buffer is full the
// message is dropped; a slow recipient must never stall the relay for
// anyone else.
func (l *ConnectionLoop) Send(msg interface{}) bool {
	select {
	case <-l.ctx.Done():
		return false
	default:
	}

	select {
	case l.messages <- msg:
		return true
	default:
		metrics.EnvelopesDroppedTotal.WithLabelValues("buffer_full").Inc()
		slog.Warn("outbound buffer full, dropping message", "socketID", l.socketID)
		return false
	}
}

func (l *ConnectionLoop) messageWriterLoop() {
	defer l.wg.Done()

	for {
		select {
		case msg, ok := <-l.messages:
			if !ok {
				return
			}
			if err := l.socket.WriteJSON(msg); err != nil {
				slog.Debug("failed to write to client", "socketID", l.socketID, "error", err)
				return
			}
		case <-l.ctx.Done():
			return
		}
	}
}

func (l *ConnectionLoop) pingLoop() {
	defer l.wg.Done()

	for {
		select {
		case <-l.pingTicker.C:
			if err := l.socket.WriteJSON(api.ServerMessage{
				Event: api.ServerMessageEventPing,
				Ping:  &api.PingMessage{Timestamp: time.Now().Unix()},
			}); err != nil {
				return
			}
		case <-l.ctx.Done():
			return
		}
	}
}
