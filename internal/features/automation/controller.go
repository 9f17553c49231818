package automation

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"khesed-tek/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AutomationController struct {
	Service AutomationService
}

func NewAutomationController(service AutomationService) *AutomationController {
	return &AutomationController{
		Service: service,
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrRuleNotFound), errors.Is(err, ErrExecutionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidRule), errors.Is(err, ErrInvalidEvent):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
}

// CreateRule godoc
// @Summary Create automation rule
// @Description Create a new automation rule for the current church
// @Tags automation
// @Accept json
// @Produce json
// @Param rule body AutomationRule true "Automation Rule"
// @Success 201 {object} AutomationRule
// @Failure 400 {object} map[string]interface{}
// @Router /api/automation/rules [post]
func (ctrl *AutomationController) CreateRule(c *fiber.Ctx) error {
	var rule AutomationRule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.Service.CreateRule(c.UserContext(), &rule); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(rule)
}

// GetRule godoc
// @Summary Get automation rule
// @Tags automation
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} AutomationRule
// @Failure 404 {object} map[string]interface{}
// @Router /api/automation/rules/{id} [get]
func (ctrl *AutomationController) GetRule(c *fiber.Ctx) error {
	rule, err := ctrl.Service.GetRule(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rule)
}

// ListRules godoc
// @Summary List automation rules
// @Tags automation
// @Produce json
// @Param trigger_type query string false "Filter by trigger type"
// @Param enabled query bool false "Filter by enabled flag"
// @Success 200 {array} AutomationRule
// @Router /api/automation/rules [get]
func (ctrl *AutomationController) ListRules(c *fiber.Ctx) error {
	filter := RuleFilter{TriggerType: TriggerType(c.Query("trigger_type"))}
	if raw := c.Query("enabled"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enabled must be a boolean"})
		}
		filter.Enabled = &enabled
	}

	rules, err := ctrl.Service.ListRules(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rules)
}

// UpdateRule godoc
// @Summary Update automation rule
// @Tags automation
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param rule body AutomationRule true "Automation Rule"
// @Success 200 {object} AutomationRule
// @Router /api/automation/rules/{id} [put]
func (ctrl *AutomationController) UpdateRule(c *fiber.Ctx) error {
	var rule AutomationRule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrRuleNotFound.Error()})
	}
	rule.ID = oid

	if err := ctrl.Service.UpdateRule(c.UserContext(), &rule); err != nil {
		return respondError(c, err)
	}
	return c.JSON(rule)
}

// DeleteRule godoc
// @Summary Delete automation rule
// @Tags automation
// @Param id path string true "Rule ID"
// @Success 204 {object} nil
// @Router /api/automation/rules/{id} [delete]
func (ctrl *AutomationController) DeleteRule(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteRule(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type enabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// SetRuleEnabled godoc
// @Summary Enable or disable a rule
// @Tags automation
// @Accept json
// @Param id path string true "Rule ID"
// @Success 204 {object} nil
// @Router /api/automation/rules/{id}/enabled [patch]
func (ctrl *AutomationController) SetRuleEnabled(c *fiber.Ctx) error {
	var body enabledRequest
	if err := c.BodyParser(&body); err != nil || body.Enabled == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enabled is required"})
	}
	if err := ctrl.Service.SetRuleEnabled(c.UserContext(), c.Params("id"), *body.Enabled); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListExecutions godoc
// @Summary List automation executions
// @Tags automation
// @Produce json
// @Param rule_id query string false "Rule ID"
// @Param source_type query string false "Source type"
// @Param source_id query string false "Source ID"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} AutomationExecution
// @Router /api/automation/executions [get]
func (ctrl *AutomationController) ListExecutions(c *fiber.Ctx) error {
	filter := ExecutionFilter{
		RuleID:     c.Query("rule_id"),
		SourceType: c.Query("source_type"),
		SourceID:   c.Query("source_id"),
	}
	filter.Limit, _ = strconv.ParseInt(c.Query("limit", "50"), 10, 64)

	executions, err := ctrl.Service.ListExecutions(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(executions)
}

// ExportExecutions godoc
// @Summary Export automation executions
// @Description Downloads the filtered execution log as an Excel workbook
// @Tags automation
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param rule_id query string false "Rule ID"
// @Success 200 {file} file
// @Router /api/automation/executions/export [get]
func (ctrl *AutomationController) ExportExecutions(c *fiber.Ctx) error {
	executions, err := ctrl.Service.ListExecutions(c.UserContext(), ExecutionFilter{
		RuleID:     c.Query("rule_id"),
		SourceType: c.Query("source_type"),
		SourceID:   c.Query("source_id"),
		Limit:      200,
	})
	if err != nil {
		return respondError(c, err)
	}

	data, err := ExportExecutionsToExcel(executions)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	filename := fmt.Sprintf("automation_executions_%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}

// GetExecution godoc
// @Summary Get automation execution
// @Tags automation
// @Produce json
// @Param id path string true "Execution ID"
// @Success 200 {object} AutomationExecution
// @Router /api/automation/executions/{id} [get]
func (ctrl *AutomationController) GetExecution(c *fiber.Ctx) error {
	execution, err := ctrl.Service.GetExecution(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(execution)
}

// Trigger godoc
// @Summary Run automations for a test event
// @Description Runs the church's rules synchronously and returns the summary
// @Tags automation
// @Accept json
// @Produce json
// @Param request body TriggerRequest true "Trigger request"
// @Success 200 {object} TriggerSummary
// @Router /api/automation/trigger [post]
func (ctrl *AutomationController) Trigger(c *fiber.Ctx) error {
	var req TriggerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.ChurchID = middleware.ChurchID(c)

	summary, err := ctrl.Service.TriggerAutomations(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
