package signalling

import (
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/videocall/relay/internal/config"
	"github.com/videocall/relay/internal/metrics"
	"github.com/videocall/relay/internal/repository/memory"
	"github.com/videocall/relay/internal/service"
	"github.com/videocall/relay/internal/sockets"
)

// Server wires the signaling core to its websocket transport.
//
// Endpoints:
//   - GET /            : plain banner, useful as a liveness probe
//   - GET /ws/rooms    : client endpoint for join-room/signal traffic
//   - GET /ws/admin    : room monitoring (IP whitelist + credential)
//   - GET /api/admin/* : room listing REST API (basic auth)
//   - GET /metrics     : prometheus scrape endpoint
type Server struct {
	app    *fiber.App
	config *config.Manager

	clientSockets *sockets.SocketPool
	loops         *SyncMapWrapper[sockets.SocketID, *ConnectionLoop]

	roomService  *service.RoomService
	relayService *service.RelayService

	clientHandler *ClientHandler
	adminHandler  *AdminHandler
}

func NewServer(cfg *config.Manager, app *fiber.App) *Server {
	clientSockets := sockets.NewSocketPool()
	loops := NewSyncMapWrapper[sockets.SocketID, *ConnectionLoop]()

	connRepo := memory.NewConnectionRepository()
	roomRepo := memory.NewRoomRepository()

	roomService := service.NewRoomService(connRepo, roomRepo)
	relayService := service.NewRelayService(connRepo, roomRepo, NewWebSocketEventSender(loops))

	sessionHandler := NewSessionHandler(clientSockets, loops)
	authHandler := NewAuthHandler(cfg)

	server := &Server{
		app:           app,
		config:        cfg,
		clientSockets: clientSockets,
		loops:         loops,
		roomService:   roomService,
		relayService:  relayService,
		clientHandler: NewClientHandler(cfg, roomService, relayService, sessionHandler),
		adminHandler:  NewAdminHandler(roomService, authHandler),
	}

	metrics.StartTime.Set(float64(time.Now().Unix()))
	return server
}

func (s *Server) Close() {
	s.loops.Range(func(_ sockets.SocketID, loop *ConnectionLoop) bool {
		loop.Stop()
		return true
	})
	s.clientSockets.Close()
}

func (s *Server) SetupWebSocketsAndApi() {
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Video Call Signaling Server")
	})

	s.app.Get("/ws/rooms", websocket.New(func(c *websocket.Conn) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic in /ws/rooms", "error", err)
			}
		}()
		s.clientHandler.HandleSocket(c)
	}))

	s.app.Get("/ws/admin", websocket.New(func(c *websocket.Conn) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic in /ws/admin", "error", err)
			}
		}()
		s.adminHandler.HandleSocket(c)
	}))

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.setupAdminApi()
}
