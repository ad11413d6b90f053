package handlers

import (
	"fintrack/internal/dto"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AssetHandler struct {
	assetService *service.AssetService
	logger       *zap.Logger
}

func NewAssetHandler(assetService *service.AssetService, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{assetService: assetService, logger: logger}
}

// Create godoc
// @Summary Create an asset
// @Tags assets
// @Accept json
// @Produce json
// @Param request body dto.AssetRequest true "Asset"
// @Security Bearer
// @Success 201 {object} models.Asset
// @Failure 400 {object} map[string]string
// @Router /api/v1/assets [post]
func (h *AssetHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.AssetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	a, err := h.assetService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create asset")
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// List godoc
// @Summary List assets
// @Tags assets
// @Produce json
// @Security Bearer
// @Success 200 {array} models.Asset
// @Router /api/v1/assets [get]
func (h *AssetHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	assets, err := h.assetService.List(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list assets")
	}
	return c.JSON(assets)
}

// Get godoc
// @Summary Get an asset
// @Tags assets
// @Produce json
// @Param id path string true "Asset ID"
// @Security Bearer
// @Success 200 {object} models.Asset
// @Failure 404 {object} map[string]string
// @Router /api/v1/assets/{id} [get]
func (h *AssetHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	a, err := h.assetService.Get(c.Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get asset")
	}
	return c.JSON(a)
}

// Update godoc
// @Summary Update an asset
// @Tags assets
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param request body dto.AssetRequest true "Asset"
// @Security Bearer
// @Success 200 {object} models.Asset
// @Failure 404 {object} map[string]string
// @Router /api/v1/assets/{id} [put]
func (h *AssetHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	var req dto.AssetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	a, err := h.assetService.Update(c.Context(), userID, id, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update asset")
	}
	return c.JSON(a)
}

// Delete godoc
// @Summary Delete an asset
// @Tags assets
// @Param id path string true "Asset ID"
// @Security Bearer
// @Success 204
// @Router /api/v1/assets/{id} [delete]
func (h *AssetHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	if err := h.assetService.Delete(c.Context(), userID, id); err != nil {
		return respondError(c, h.logger, err, "Failed to delete asset")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SyncPrices godoc
// @Summary Refresh asset prices
// @Description Fetches the latest quote for every priced asset of the user. Assets without a symbol or with a failed quote are reported and left unchanged.
// @Tags assets
// @Produce json
// @Security Bearer
// @Success 200 {object} service.SyncReport
// @Failure 401 {object} map[string]string
// @Router /api/v1/assets/sync [post]
func (h *AssetHandler) SyncPrices(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	report, err := h.assetService.SyncPrices(c.Context(), &userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to sync prices")
	}
	return c.JSON(report)
}
