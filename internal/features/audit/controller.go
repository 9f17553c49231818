package audit

import (
	"errors"
	"strconv"

	"khesed-tek/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// ListLogs godoc
// @Summary List audit logs of the current church
// @Tags audit
// @Produce json
// @Param module query string false "Module, e.g. automation_rules"
// @Param record_id query string false "Record ID"
// @Param action query string false "CREATE, UPDATE or DELETE"
// @Param actor_id query string false "User who made the change"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size (max 100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/audit-logs [get]
func (ctrl *AuditController) ListLogs(c *fiber.Ctx) error {
	filter := LogFilter{
		Module:   c.Query("module"),
		RecordID: c.Query("record_id"),
		Action:   c.Query("action"),
		ActorID:  c.Query("actor_id"),
	}
	filter.Page, _ = strconv.ParseInt(c.Query("page", "1"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	filter.normalize()

	logs, err := ctrl.Service.ListLogs(c.UserContext(), middleware.ChurchID(c), filter)
	if errors.Is(err, ErrMissingChurch) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}
