package signalling

import (
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/videocall/relay/internal/api"
	"github.com/videocall/relay/internal/service"
	"github.com/videocall/relay/internal/utils"
)

const AdminSendRoomStatusInterval = 5 * time.Second

// AdminHandler serves the monitoring websocket: after authentication it
// pushes a room/membership snapshot every few seconds until the admin
// disconnects.
type AdminHandler struct {
	roomService *service.RoomService
	authHandler *AuthHandler
}

func NewAdminHandler(roomService *service.RoomService, authHandler *AuthHandler) *AdminHandler {
	return &AdminHandler{
		roomService: roomService,
		authHandler: authHandler,
	}
}

func (h *AdminHandler) HandleSocket(c *websocket.Conn) {
	if !h.authHandler.AuthenticateAdmin(c) {
		return
	}

	remote := c.NetConn().RemoteAddr().String()
	slog.Info("admin session started", "remote", remote)

	sendRoomStatus := func() {
		rooms, err := h.roomService.Rooms()
		if err != nil {
			slog.Error("failed to snapshot rooms", "error", err)
			return
		}
		_ = c.WriteJSON(api.AdminMessage{
			Event:       api.AdminMessageEventRoomStatus,
			RoomsStatus: api.ToRoomStatuses(rooms),
		})
	}

	sendRoomStatus()
	timer := utils.SetIntervalTimer(AdminSendRoomStatusInterval, sendRoomStatus)
	defer timer.Stop()

	var message api.AdminMessage
	for {
		if err := c.ReadJSON(&message); err != nil {
			slog.Debug("admin disconnected", "remote", remote)
			break
		}
	}
}
