package prayer

import (
	"khesed-tek/internal/common/api"
	"khesed-tek/internal/config"
	"khesed-tek/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PrayerApi struct {
	controller *PrayerController
	config     *config.Config
}

func NewPrayerApi(controller *PrayerController, config *config.Config) api.Route {
	return &PrayerApi{
		controller: controller,
		config:     config,
	}
}

func (h *PrayerApi) Setup(app *fiber.App) {
	group := app.Group("/api/prayer-requests", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", h.controller.Submit)
	group.Get("/",
		middleware.RequireRole(h.config.SkipAuth, middleware.RoleAdmin, middleware.RolePastor, middleware.RoleSuperAdmin),
		h.controller.List)
}
