package handlers

import (
	"fintrack/internal/dto"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type GoalHandler struct {
	goalService *service.GoalService
	logger      *zap.Logger
}

func NewGoalHandler(goalService *service.GoalService, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{goalService: goalService, logger: logger}
}

// Create godoc
// @Summary Create a savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Param request body dto.GoalRequest true "Goal"
// @Security Bearer
// @Success 201 {object} models.Goal
// @Failure 400 {object} map[string]string
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.GoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	g, err := h.goalService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create goal")
	}
	return c.Status(fiber.StatusCreated).JSON(g)
}

// List godoc
// @Summary List goals
// @Tags goals
// @Produce json
// @Security Bearer
// @Success 200 {array} models.Goal
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	goals, err := h.goalService.List(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list goals")
	}
	return c.JSON(goals)
}

// Get godoc
// @Summary Get a goal
// @Tags goals
// @Produce json
// @Param id path string true "Goal ID"
// @Security Bearer
// @Success 200 {object} models.Goal
// @Failure 404 {object} map[string]string
// @Router /api/v1/goals/{id} [get]
func (h *GoalHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	g, err := h.goalService.Get(c.Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get goal")
	}
	return c.JSON(g)
}

// Update godoc
// @Summary Update a goal
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param request body dto.GoalRequest true "Goal"
// @Security Bearer
// @Success 200 {object} models.Goal
// @Failure 404 {object} map[string]string
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	var req dto.GoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	g, err := h.goalService.Update(c.Context(), userID, id, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update goal")
	}
	return c.JSON(g)
}

// Delete godoc
// @Summary Delete a goal
// @Tags goals
// @Param id path string true "Goal ID"
// @Security Bearer
// @Success 204
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	if err := h.goalService.Delete(c.Context(), userID, id); err != nil {
		return respondError(c, h.logger, err, "Failed to delete goal")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Contribute godoc
// @Summary Add money to a goal
// @Description The goal is completed once the current amount reaches the target.
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param request body dto.AmountRequest true "Contribution"
// @Security Bearer
// @Success 200 {object} models.Goal
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/goals/{id}/contribute [post]
func (h *GoalHandler) Contribute(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	var req dto.AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	g, err := h.goalService.Contribute(c.Context(), userID, id, req.Amount)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to record contribution")
	}
	return c.JSON(g)
}
