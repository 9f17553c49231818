package automation

import (
	"time"

	"khesed-tek/internal/common/api"
	"khesed-tek/internal/config"
	"khesed-tek/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type AutomationApi struct {
	controller *AutomationController
	config     *config.Config
}

func NewAutomationApi(controller *AutomationController, config *config.Config) api.Route {
	return &AutomationApi{
		controller: controller,
		config:     config,
	}
}

func (h *AutomationApi) Setup(app *fiber.App) {
	group := app.Group("/api/automation",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(h.config.SkipAuth, middleware.RoleAdmin, middleware.RolePastor, middleware.RoleSuperAdmin),
	)

	group.Get("/rules", h.controller.ListRules)
	group.Get("/rules/:id", h.controller.GetRule)
	group.Post("/rules", h.controller.CreateRule)
	group.Put("/rules/:id", h.controller.UpdateRule)
	group.Delete("/rules/:id", h.controller.DeleteRule)
	group.Patch("/rules/:id/enabled", h.controller.SetRuleEnabled)

	group.Get("/executions", h.controller.ListExecutions)
	group.Get("/executions/export", h.controller.ExportExecutions)
	group.Get("/executions/:id", h.controller.GetExecution)

	group.Post("/trigger", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "automation-trigger:" + middleware.ChurchID(c)
		},
	}), h.controller.Trigger)
}
