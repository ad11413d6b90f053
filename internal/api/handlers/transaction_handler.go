package handlers

import (
	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService         *service.TransactionService
	attachmentService *service.AttachmentService
	logger            *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, attachmentService *service.AttachmentService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService:         txService,
		attachmentService: attachmentService,
		logger:            logger,
	}
}

// Create godoc
// @Summary Create a transaction
// @Description Income and expense take an optional category of the same type. Transfers need to_wallet_id and are never categorized.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.TransactionRequest true "Transaction"
// @Security Bearer
// @Success 201 {object} models.Transaction
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	t, err := h.txService.Save(c.Context(), userID, nil, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create transaction")
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// Update godoc
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.TransactionRequest true "Transaction"
// @Security Bearer
// @Success 200 {object} models.Transaction
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	t, err := h.txService.Save(c.Context(), userID, &id, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update transaction")
	}
	return c.JSON(t)
}

// List godoc
// @Summary List transactions
// @Description Newest first. All filters are optional.
// @Tags transactions
// @Produce json
// @Param from query string false "From day (YYYY-MM-DD)"
// @Param to query string false "To day (YYYY-MM-DD)"
// @Param wallet_id query string false "Wallet ID, either side of a transfer"
// @Param category_id query string false "Category ID"
// @Param tag_id query string false "Tag ID"
// @Param type query string false "income, expense or transfer"
// @Param q query string false "Search in description and note"
// @Param limit query int false "Limit" default(100)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} models.Transaction
// @Failure 400 {object} map[string]string
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	f := models.TransactionFilter{
		Type:   models.TransactionType(c.Query("type")),
		Search: c.Query("q"),
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	}
	if f.From, err = queryDate(c, "from"); err != nil {
		return badRequest(c, "Invalid from date, use YYYY-MM-DD")
	}
	if f.To, err = queryDate(c, "to"); err != nil {
		return badRequest(c, "Invalid to date, use YYYY-MM-DD")
	}
	if f.WalletID, err = queryUUID(c, "wallet_id"); err != nil {
		return badRequest(c, "Invalid wallet_id")
	}
	if f.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		return badRequest(c, "Invalid category_id")
	}
	if f.TagID, err = queryUUID(c, "tag_id"); err != nil {
		return badRequest(c, "Invalid tag_id")
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	transactions, err := h.txService.List(c.Context(), userID, f)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list transactions")
	}
	return c.JSON(transactions)
}

// Get godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Success 200 {object} models.Transaction
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	t, err := h.txService.Get(c.Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get transaction")
	}
	return c.JSON(t)
}

// Delete godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	if err := h.txService.Delete(c.Context(), userID, id); err != nil {
		return respondError(c, h.logger, err, "Failed to delete transaction")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadAttachment godoc
// @Summary Attach a receipt
// @Description Upload a receipt image or PDF for a transaction
// @Tags transactions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Transaction ID"
// @Param file formData file true "Receipt (jpg, png, webp, pdf)"
// @Security Bearer
// @Success 201 {object} dto.AttachmentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id}/attachments [post]
func (h *TransactionHandler) UploadAttachment(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "File is required")
	}

	src, err := file.Open()
	if err != nil {
		return badRequest(c, "Failed to open file")
	}
	defer src.Close()

	att, err := h.attachmentService.Upload(c.Context(), userID, id, src, file.Filename, file.Size)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to upload attachment")
	}
	return c.Status(fiber.StatusCreated).JSON(att)
}

// ListAttachments godoc
// @Summary List receipts of a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Success 200 {array} dto.AttachmentResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id}/attachments [get]
func (h *TransactionHandler) ListAttachments(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return nil
	}

	atts, err := h.attachmentService.List(c.Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list attachments")
	}
	return c.JSON(atts)
}
