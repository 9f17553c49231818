package checkin

import (
	"errors"
	"strconv"

	"khesed-tek/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CheckInController struct {
	Service CheckInService
}

func NewCheckInController(service CheckInService) *CheckInController {
	return &CheckInController{Service: service}
}

// Create godoc
// @Summary Record a visitor check-in
// @Description Stores the check-in and starts the church's visitor automations in the background.
// @Description Each check-in fires exactly one trigger: VISITOR_FIRST_TIME when is_first_time is set,
// @Description otherwise VISITOR_CHECKED_IN. VISITOR_CHECKED_IN rules do not run for first-time visitors.
// @Tags check-ins
// @Accept json
// @Produce json
// @Param checkIn body CheckIn true "Check-in"
// @Success 201 {object} CheckIn
// @Failure 400 {object} map[string]interface{}
// @Router /api/check-ins [post]
func (ctrl *CheckInController) Create(c *fiber.Ctx) error {
	var checkIn CheckIn
	if err := c.BodyParser(&checkIn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	err := ctrl.Service.CheckIn(c.UserContext(), middleware.ChurchID(c), &checkIn)
	if errors.Is(err, ErrInvalidCheckIn) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(checkIn)
}

// List godoc
// @Summary List check-ins
// @Tags check-ins
// @Produce json
// @Param first_time query bool false "Only first-time visitors"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} CheckIn
// @Router /api/check-ins [get]
func (ctrl *CheckInController) List(c *fiber.Ctx) error {
	firstTime := c.QueryBool("first_time", false)
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)

	checkIns, err := ctrl.Service.List(c.UserContext(), middleware.ChurchID(c), firstTime, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(checkIns)
}
