package realtime

import (
	"khesed-tek/internal/common/api"
	"khesed-tek/internal/config"
	"khesed-tek/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type RealtimeApi struct {
	Controller *RealtimeController
	config     *config.Config
}

func NewRealtimeApi(controller *RealtimeController, config *config.Config) api.Route {
	return &RealtimeApi{
		Controller: controller,
		config:     config,
	}
}

func (h *RealtimeApi) Setup(app *fiber.App) {
	app.Use("/api/realtime/ws", middleware.AuthMiddleware(h.config.SkipAuth), func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		c.Locals(churchLocal, middleware.ChurchID(c))
		return c.Next()
	})
	app.Get("/api/realtime/ws", websocket.New(h.Controller.HandleWebSocket))
}
