package signalling

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/videocall/relay/internal/api"
)

func (s *Server) setupAdminApi() {
	s.app.Route("/api/admin", func(router fiber.Router) {
		router.Use(basicauth.New(basicauth.Config{
			Realm: "Forbidden",
			Authorizer: func(user, pass string) bool {
				credential := s.config.Get().Security.AdminCredential
				return credential == nil || user == "admin" && pass == *credential
			},
		}))

		router.Get("/rooms", func(c *fiber.Ctx) error {
			rooms, err := s.roomService.Rooms()
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Failed to list rooms")
			}
			return c.JSON(api.ToRoomStatuses(rooms))
		})

		router.Get("/rooms/:roomId/members", func(c *fiber.Ctx) error {
			members := s.roomService.MembersOf(c.Params("roomId"))
			if members == nil {
				members = []string{}
			}
			return c.JSON(members)
		})
	})
}
