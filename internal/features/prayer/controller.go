package prayer

import (
	"errors"

	"khesed-tek/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PrayerController struct {
	Service *PrayerService
}

func NewPrayerController(service *PrayerService) *PrayerController {
	return &PrayerController{Service: service}
}

// Submit godoc
// @Summary Submit a prayer request
// @Description Stores the request and starts automations in the background. Each request fires exactly
// @Description one trigger: PRAYER_REQUEST_URGENT when is_urgent is set, otherwise PRAYER_REQUEST_SUBMITTED.
// @Description PRAYER_REQUEST_SUBMITTED rules do not run for urgent requests.
// @Tags prayer-requests
// @Accept json
// @Produce json
// @Param request body PrayerRequest true "Prayer request"
// @Success 201 {object} PrayerRequest
// @Failure 400 {object} map[string]interface{}
// @Router /api/prayer-requests [post]
func (ctrl *PrayerController) Submit(c *fiber.Ctx) error {
	var req PrayerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	err := ctrl.Service.Submit(c.UserContext(), middleware.ChurchID(c), &req)
	if errors.Is(err, ErrInvalidPrayerRequest) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

// List godoc
// @Summary List prayer requests
// @Tags prayer-requests
// @Produce json
// @Param status query string false "OPEN, PRAYING or ANSWERED"
// @Param urgent query bool false "Only urgent requests"
// @Success 200 {array} PrayerRequest
// @Router /api/prayer-requests [get]
func (ctrl *PrayerController) List(c *fiber.Ctx) error {
	requests, err := ctrl.Service.List(c.UserContext(), middleware.ChurchID(c), Status(c.Query("status")), c.QueryBool("urgent", false))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(requests)
}
