package handlers

import (
	"fintrack/internal/dto"
	"fintrack/internal/service"
	"fintrack/pkg/calendar"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type BudgetHandler struct {
	budgetService *service.BudgetService
	logger        *zap.Logger
}

func NewBudgetHandler(budgetService *service.BudgetService, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, logger: logger}
}

// Create godoc
// @Summary Create a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param request body dto.BudgetRequest true "Budget"
// @Security Bearer
// @Success 201 {object} models.Budget
// @Failure 400 {object} map[string]string
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.BudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	b, err := h.budgetService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create budget")
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

// List godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Security Bearer
// @Success 200 {array} models.Budget
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	budgets, err := h.budgetService.List(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list budgets")
	}
	return c.JSON(budgets)
}

// Get godoc
// @Summary Get a budget
// @Tags budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Security Bearer
// @Success 200 {object} models.Budget
// @Failure 404 {object} map[string]string
// @Router /api/v1/budgets/{id} [get]
func (h *BudgetHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	b, err := h.budgetService.Get(c.Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get budget")
	}
	return c.JSON(b)
}

// Update godoc
// @Summary Update a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body dto.BudgetRequest true "Budget"
// @Security Bearer
// @Success 200 {object} models.Budget
// @Failure 404 {object} map[string]string
// @Router /api/v1/budgets/{id} [put]
func (h *BudgetHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	var req dto.BudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	b, err := h.budgetService.Update(c.Context(), userID, id, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update budget")
	}
	return c.JSON(b)
}

// Delete godoc
// @Summary Delete a budget
// @Tags budgets
// @Param id path string true "Budget ID"
// @Security Bearer
// @Success 204
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	if err := h.budgetService.Delete(c.Context(), userID, id); err != nil {
		return respondError(c, h.logger, err, "Failed to delete budget")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Progress godoc
// @Summary Budget progress
// @Description Spending inside the budget period that contains the given day (today by default).
// @Tags budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Param on query string false "Day inside the period (YYYY-MM-DD)"
// @Security Bearer
// @Success 200 {object} models.BudgetProgress
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/budgets/{id}/progress [get]
func (h *BudgetHandler) Progress(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	on, err := queryDate(c, "on")
	if err != nil {
		return badRequest(c, "Invalid date, use YYYY-MM-DD")
	}
	day := calendar.Today()
	if on != nil {
		day = *on
	}

	p, err := h.budgetService.Progress(c.Context(), userID, id, day)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to compute budget progress")
	}
	return c.JSON(p)
}
