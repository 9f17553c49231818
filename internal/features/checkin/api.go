package checkin

import (
	"khesed-tek/internal/common/api"
	"khesed-tek/internal/config"
	"khesed-tek/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CheckInApi struct {
	controller *CheckInController
	config     *config.Config
}

func NewCheckInApi(controller *CheckInController, config *config.Config) api.Route {
	return &CheckInApi{
		controller: controller,
		config:     config,
	}
}

func (h *CheckInApi) Setup(app *fiber.App) {
	group := app.Group("/api/check-ins", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", h.controller.Create)
	group.Get("/", h.controller.List)
}
