package task

import (
	"errors"

	"khesed-tek/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TaskController struct {
	Repo TaskRepository
}

func NewTaskController(repo TaskRepository) *TaskController {
	return &TaskController{Repo: repo}
}

// List godoc
// @Summary List follow-up tasks
// @Tags tasks
// @Produce json
// @Param assigned_to query string false "Assignee user ID"
// @Param status query string false "PENDING or COMPLETED"
// @Success 200 {array} Task
// @Router /api/tasks [get]
func (ctrl *TaskController) List(c *fiber.Ctx) error {
	tasks, err := ctrl.Repo.List(c.UserContext(), middleware.ChurchID(c), c.Query("assigned_to"), Status(c.Query("status")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(tasks)
}

// Complete godoc
// @Summary Complete a task
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Router /api/tasks/{id}/complete [post]
func (ctrl *TaskController) Complete(c *fiber.Ctx) error {
	err := ctrl.Repo.Complete(c.UserContext(), middleware.ChurchID(c), c.Params("id"))
	if errors.Is(err, ErrTaskNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
