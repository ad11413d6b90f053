package handlers

import (
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/service"
	"fintrack/pkg/calendar"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RecurringHandler struct {
	recurringService *service.RecurringService
	logger           *zap.Logger
}

func NewRecurringHandler(recurringService *service.RecurringService, logger *zap.Logger) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService, logger: logger}
}

// Create godoc
// @Summary Create a recurring transaction
// @Tags recurring
// @Accept json
// @Produce json
// @Param request body dto.RecurringRequest true "Recurring transaction"
// @Security Bearer
// @Success 201 {object} models.RecurringTransaction
// @Failure 400 {object} map[string]string
// @Router /api/v1/recurring [post]
func (h *RecurringHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.RecurringRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	rt, err := h.recurringService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create recurring transaction")
	}
	return c.Status(fiber.StatusCreated).JSON(rt)
}

// List godoc
// @Summary List recurring transactions
// @Tags recurring
// @Produce json
// @Security Bearer
// @Success 200 {array} models.RecurringTransaction
// @Router /api/v1/recurring [get]
func (h *RecurringHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	list, err := h.recurringService.List(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list recurring transactions")
	}
	return c.JSON(list)
}

// Get godoc
// @Summary Get a recurring transaction
// @Tags recurring
// @Produce json
// @Param id path string true "Recurring transaction ID"
// @Security Bearer
// @Success 200 {object} models.RecurringTransaction
// @Failure 404 {object} map[string]string
// @Router /api/v1/recurring/{id} [get]
func (h *RecurringHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	rt, err := h.recurringService.Get(c.Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get recurring transaction")
	}
	return c.JSON(rt)
}

// Update godoc
// @Summary Update a recurring transaction
// @Tags recurring
// @Accept json
// @Produce json
// @Param id path string true "Recurring transaction ID"
// @Param request body dto.RecurringRequest true "Recurring transaction"
// @Security Bearer
// @Success 200 {object} models.RecurringTransaction
// @Failure 404 {object} map[string]string
// @Router /api/v1/recurring/{id} [put]
func (h *RecurringHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	var req dto.RecurringRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	rt, err := h.recurringService.Update(c.Context(), userID, id, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update recurring transaction")
	}
	return c.JSON(rt)
}

// Delete godoc
// @Summary Delete a recurring transaction
// @Tags recurring
// @Param id path string true "Recurring transaction ID"
// @Security Bearer
// @Success 204
// @Router /api/v1/recurring/{id} [delete]
func (h *RecurringHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	if err := h.recurringService.Delete(c.Context(), userID, id); err != nil {
		return respondError(c, h.logger, err, "Failed to delete recurring transaction")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Generate godoc
// @Summary Generate the next occurrence now
// @Description Realizes the template's next occurrence even if it is not due yet, then catches up on any other due ones.
// @Tags recurring
// @Produce json
// @Param id path string true "Recurring transaction ID"
// @Security Bearer
// @Success 200 {object} service.GenerationReport
// @Failure 404 {object} map[string]string
// @Router /api/v1/recurring/{id}/generate [post]
func (h *RecurringHandler) Generate(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	report, err := h.recurringService.GenerateOne(c.Context(), userID, id, calendar.Today())
	if err != nil {
		return respondError(c, h.logger, err, "Failed to generate transaction")
	}
	return c.JSON(report)
}

// GenerateDue godoc
// @Summary Generate all due occurrences
// @Description Runs the generator over the caller's due templates. Future as_of dates are rejected.
// @Tags recurring
// @Produce json
// @Param as_of query string false "Generate up to this day (YYYY-MM-DD), today by default"
// @Security Bearer
// @Success 200 {object} service.GenerationReport
// @Failure 400 {object} map[string]string
// @Router /api/v1/recurring/generate [post]
func (h *RecurringHandler) GenerateDue(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	asOf, err := asOfDay(c)
	if err != nil {
		return badRequest(c, "Invalid as_of, use YYYY-MM-DD")
	}
	if asOf.After(calendar.Today()) {
		return badRequest(c, "as_of must not be in the future")
	}

	report, err := h.recurringService.GenerateDue(c.Context(), &userID, asOf)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to generate transactions")
	}
	return c.JSON(report)
}

// RunAll godoc
// @Summary Scheduled generator run
// @Description Runs the generator for every user. Called by an external scheduler with the X-Cron-Secret header.
// @Tags internal
// @Produce json
// @Param X-Cron-Secret header string true "Shared secret"
// @Param as_of query string false "Generate up to this day (YYYY-MM-DD), today by default"
// @Success 200 {object} service.GenerationReport
// @Failure 401 {object} map[string]string
// @Router /internal/recurring/run [post]
func (h *RecurringHandler) RunAll(c *fiber.Ctx) error {
	asOf, err := asOfDay(c)
	if err != nil {
		return badRequest(c, "Invalid as_of, use YYYY-MM-DD")
	}

	report, err := h.recurringService.GenerateDue(c.Context(), nil, asOf)
	if err != nil {
		return respondError(c, h.logger, err, "Recurring run failed")
	}
	return c.JSON(report)
}

func asOfDay(c *fiber.Ctx) (time.Time, error) {
	on, err := queryDate(c, "as_of")
	if err != nil {
		return time.Time{}, err
	}
	if on == nil {
		return calendar.Today(), nil
	}
	return *on, nil
}
