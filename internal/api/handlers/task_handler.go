package handlers

import (
	"strconv"

	"fintrack/internal/dto"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService *service.TaskService
	logger      *zap.Logger
}

func NewTaskHandler(taskService *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.TaskRequest true "Task"
// @Security Bearer
// @Success 201 {object} models.Task
// @Failure 400 {object} map[string]string
// @Router /api/v1/tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.taskService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create task")
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// List godoc
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Param done query bool false "Filter by completion"
// @Security Bearer
// @Success 200 {array} models.Task
// @Router /api/v1/tasks [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var done *bool
	if raw := c.Query("done"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "Invalid done filter")
		}
		done = &v
	}

	tasks, err := h.taskService.List(c.Context(), userID, done)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list tasks")
	}
	return c.JSON(tasks)
}

// Get godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Security Bearer
// @Success 200 {object} models.Task
// @Failure 404 {object} map[string]string
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	task, err := h.taskService.Get(c.Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get task")
	}
	return c.JSON(task)
}

// Update godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.TaskRequest true "Task"
// @Security Bearer
// @Success 200 {object} models.Task
// @Failure 404 {object} map[string]string
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.taskService.Update(c.Context(), userID, id, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update task")
	}
	return c.JSON(task)
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Param id path string true "Task ID"
// @Security Bearer
// @Success 204
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	if err := h.taskService.Delete(c.Context(), userID, id); err != nil {
		return respondError(c, h.logger, err, "Failed to delete task")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Complete godoc
// @Summary Mark a task done
// @Description An empty body marks the task done; {"done": false} reopens it.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.CompleteTaskRequest false "Completion"
// @Security Bearer
// @Success 200 {object} models.Task
// @Failure 404 {object} map[string]string
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	var req dto.CompleteTaskRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}
	done := req.Done == nil || *req.Done

	task, err := h.taskService.Complete(c.Context(), userID, id, done)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to complete task")
	}
	return c.JSON(task)
}
