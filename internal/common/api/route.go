package api

import "github.com/gofiber/fiber/v2"

// Route is implemented by every feature API and mounted at startup
type Route interface {
	Setup(app *fiber.App)
}
