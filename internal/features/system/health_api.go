package system

import (
	"context"
	"time"

	"khesed-tek/internal/database"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	mongodb *database.MongodbDB
	redis   *redis.Client
}

// NewHealthApi takes a nil redis client when the rule cache is disabled
func NewHealthApi(mongodb *database.MongodbDB, redisClient *redis.Client) *HealthApi {
	return &HealthApi{
		mongodb: mongodb,
		redis:   redisClient,
	}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Reports database and cache reachability
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthApi) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.Map{"mongo": "ok", "redis": "disabled"}
	code := fiber.StatusOK

	if err := h.mongodb.DB.Client().Ping(ctx, nil); err != nil {
		status["mongo"] = err.Error()
		code = fiber.StatusServiceUnavailable
	}
	if h.redis != nil {
		status["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			// the rule cache is optional, so a redis outage does not fail the check
			status["redis"] = err.Error()
		}
	}

	return c.Status(code).JSON(status)
}
