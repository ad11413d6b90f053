package handlers

import (
	"fintrack/internal/dto"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type WalletHandler struct {
	walletService *service.WalletService
	logger        *zap.Logger
}

func NewWalletHandler(walletService *service.WalletService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		logger:        logger,
	}
}

// Create godoc
// @Summary Create a wallet
// @Tags wallets
// @Accept json
// @Produce json
// @Param request body dto.WalletRequest true "Wallet"
// @Security Bearer
// @Success 201 {object} models.Wallet
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/wallets [post]
func (h *WalletHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.WalletRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	w, err := h.walletService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create wallet")
	}
	return c.Status(fiber.StatusCreated).JSON(w)
}

// List godoc
// @Summary List wallets
// @Tags wallets
// @Produce json
// @Param archived query bool false "Include archived wallets"
// @Security Bearer
// @Success 200 {array} models.Wallet
// @Failure 401 {object} map[string]string
// @Router /api/v1/wallets [get]
func (h *WalletHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	wallets, err := h.walletService.List(c.Context(), userID, c.QueryBool("archived", false))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list wallets")
	}
	return c.JSON(wallets)
}

// Get godoc
// @Summary Get a wallet
// @Tags wallets
// @Produce json
// @Param id path string true "Wallet ID"
// @Security Bearer
// @Success 200 {object} models.Wallet
// @Failure 404 {object} map[string]string
// @Router /api/v1/wallets/{id} [get]
func (h *WalletHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	w, err := h.walletService.Get(c.Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get wallet")
	}
	return c.JSON(w)
}

// Update godoc
// @Summary Update a wallet
// @Description Also archives or restores the wallet via is_archived.
// @Tags wallets
// @Accept json
// @Produce json
// @Param id path string true "Wallet ID"
// @Param request body dto.WalletRequest true "Wallet"
// @Security Bearer
// @Success 200 {object} models.Wallet
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/wallets/{id} [put]
func (h *WalletHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	var req dto.WalletRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	w, err := h.walletService.Update(c.Context(), userID, id, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update wallet")
	}
	return c.JSON(w)
}

// Delete godoc
// @Summary Delete a wallet
// @Tags wallets
// @Param id path string true "Wallet ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/wallets/{id} [delete]
func (h *WalletHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	if err := h.walletService.Delete(c.Context(), userID, id); err != nil {
		return respondError(c, h.logger, err, "Failed to delete wallet")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Balance godoc
// @Summary Wallet balance
// @Description Initial balance plus income, minus expense, plus incoming and minus outgoing transfers.
// @Tags wallets
// @Produce json
// @Param id path string true "Wallet ID"
// @Security Bearer
// @Success 200 {object} models.WalletBalance
// @Failure 404 {object} map[string]string
// @Router /api/v1/wallets/{id}/balance [get]
func (h *WalletHandler) Balance(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	b, err := h.walletService.Balance(c.Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to compute balance")
	}
	return c.JSON(b)
}
