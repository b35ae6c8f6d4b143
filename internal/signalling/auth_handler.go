package signalling

import (
	"log/slog"
	"net/netip"

	"github.com/gofiber/contrib/websocket"
	"github.com/videocall/relay/internal/api"
	"github.com/videocall/relay/internal/config"
)

type AuthHandler struct {
	config *config.Manager
}

func NewAuthHandler(cfg *config.Manager) *AuthHandler {
	return &AuthHandler{config: cfg}
}

func (h *AuthHandler) CheckAdminCredential(credential string) bool {
	expected := h.config.Get().Security.AdminCredential
	return expected == nil || *expected == credential
}

func (h *AuthHandler) IsAdminIP(addrPort string) bool {
	ip, err := netip.ParseAddrPort(addrPort)
	if err != nil {
		slog.Error("failed to parse IP address", "addr", addrPort, "error", err)
		return false
	}

	for _, n := range h.config.Get().Security.AdminsRawNetworks {
		if n.Contains(ip.Addr()) {
			return true
		}
	}
	return false
}

func (h *AuthHandler) AuthenticateAdmin(c *websocket.Conn) bool {
	remote := c.NetConn().RemoteAddr().String()

	if !h.IsAdminIP(remote) {
		slog.Warn("IP not in admin whitelist", "remote", remote)
		accessMessage := "Forbidden. IP address black listed"
		_ = c.WriteJSON(api.AdminMessage{
			Event:         api.AdminMessageEventAuthFailed,
			AccessMessage: &accessMessage,
		})
		return false
	}

	if err := c.WriteJSON(api.AdminMessage{Event: api.AdminMessageEventAuthRequest}); err != nil {
		return false
	}

	var message api.AdminMessage
	if err := c.ReadJSON(&message); err != nil {
		slog.Debug("disconnected during admin auth", "remote", remote)
		return false
	}

	if message.Event != api.AdminMessageEventAuth || message.Auth == nil || !h.CheckAdminCredential(message.Auth.Credential) {
		accessMessage := "Forbidden. Incorrect credential"
		_ = c.WriteJSON(api.AdminMessage{
			Event:         api.AdminMessageEventAuthFailed,
			AccessMessage: &accessMessage,
		})
		slog.Warn("admin authentication failed", "remote", remote)
		return false
	}

	return true
}
