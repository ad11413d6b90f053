package handlers

import (
	"fintrack/internal/dto"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TagHandler struct {
	tagService *service.TagService
	logger     *zap.Logger
}

func NewTagHandler(tagService *service.TagService, logger *zap.Logger) *TagHandler {
	return &TagHandler{tagService: tagService, logger: logger}
}

// Create godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param request body dto.TagRequest true "Tag"
// @Security Bearer
// @Success 201 {object} models.Tag
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/tags [post]
func (h *TagHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.TagRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	tag, err := h.tagService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create tag")
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// List godoc
// @Summary List tags
// @Tags tags
// @Produce json
// @Security Bearer
// @Success 200 {array} models.Tag
// @Router /api/v1/tags [get]
func (h *TagHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	tags, err := h.tagService.List(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list tags")
	}
	return c.JSON(tags)
}

// Update godoc
// @Summary Update a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param id path string true "Tag ID"
// @Param request body dto.TagRequest true "Tag"
// @Security Bearer
// @Success 200 {object} models.Tag
// @Failure 404 {object} map[string]string
// @Router /api/v1/tags/{id} [put]
func (h *TagHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	var req dto.TagRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	tag, err := h.tagService.Update(c.Context(), userID, id, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update tag")
	}
	return c.JSON(tag)
}

// Delete godoc
// @Summary Delete a tag
// @Tags tags
// @Param id path string true "Tag ID"
// @Security Bearer
// @Success 204
// @Router /api/v1/tags/{id} [delete]
func (h *TagHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	if err := h.tagService.Delete(c.Context(), userID, id); err != nil {
		return respondError(c, h.logger, err, "Failed to delete tag")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
