package handlers

import (
	"fintrack/internal/dto"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DebtHandler struct {
	debtService *service.DebtService
	logger      *zap.Logger
}

func NewDebtHandler(debtService *service.DebtService, logger *zap.Logger) *DebtHandler {
	return &DebtHandler{debtService: debtService, logger: logger}
}

// Create godoc
// @Summary Create a debt
// @Tags debts
// @Accept json
// @Produce json
// @Param request body dto.DebtRequest true "Debt"
// @Security Bearer
// @Success 201 {object} models.Debt
// @Failure 400 {object} map[string]string
// @Router /api/v1/debts [post]
func (h *DebtHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.DebtRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	d, err := h.debtService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create debt")
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

// List godoc
// @Summary List debts
// @Tags debts
// @Produce json
// @Security Bearer
// @Success 200 {array} models.Debt
// @Router /api/v1/debts [get]
func (h *DebtHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	debts, err := h.debtService.List(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list debts")
	}
	return c.JSON(debts)
}

// Get godoc
// @Summary Get a debt
// @Tags debts
// @Produce json
// @Param id path string true "Debt ID"
// @Security Bearer
// @Success 200 {object} models.Debt
// @Failure 404 {object} map[string]string
// @Router /api/v1/debts/{id} [get]
func (h *DebtHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	d, err := h.debtService.Get(c.Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get debt")
	}
	return c.JSON(d)
}

// Update godoc
// @Summary Update a debt
// @Tags debts
// @Accept json
// @Produce json
// @Param id path string true "Debt ID"
// @Param request body dto.DebtRequest true "Debt"
// @Security Bearer
// @Success 200 {object} models.Debt
// @Failure 404 {object} map[string]string
// @Router /api/v1/debts/{id} [put]
func (h *DebtHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	var req dto.DebtRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	d, err := h.debtService.Update(c.Context(), userID, id, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update debt")
	}
	return c.JSON(d)
}

// Delete godoc
// @Summary Delete a debt
// @Tags debts
// @Param id path string true "Debt ID"
// @Security Bearer
// @Success 204
// @Router /api/v1/debts/{id} [delete]
func (h *DebtHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	if err := h.debtService.Delete(c.Context(), userID, id); err != nil {
		return respondError(c, h.logger, err, "Failed to delete debt")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecordPayment godoc
// @Summary Record a debt payment
// @Description Reduces the remaining balance; the debt is settled when nothing remains. Paying more than what is left is rejected.
// @Tags debts
// @Accept json
// @Produce json
// @Param id path string true "Debt ID"
// @Param request body dto.AmountRequest true "Payment"
// @Security Bearer
// @Success 200 {object} models.Debt
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/debts/{id}/payments [post]
func (h *DebtHandler) RecordPayment(c *fiber.Ctx) error {
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

	d, err := h.debtService.RecordPayment(c.Context(), userID, id, req.Amount)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to record payment")
	}
	return c.JSON(d)
}
