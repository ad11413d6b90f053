package handlers

import (
	"time"

	"fintrack/internal/report"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, logger: logger}
}

// Monthly godoc
// @Summary Monthly report
// @Description Income, expense and net for a month with a per-category breakdown, wallet balances and budget progress.
// @Tags reports
// @Produce json,text/markdown,text/html
// @Param year query int false "Year, current by default"
// @Param month query int false "Month 1-12, current by default"
// @Param format query string false "json, markdown or html" default(json)
// @Security Bearer
// @Success 200 {object} report.Monthly
// @Failure 400 {object} map[string]string
// @Router /api/v1/reports/monthly [get]
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	now := time.Now().UTC()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	if month < 1 || month > 12 || year < 1970 || year > 9999 {
		return badRequest(c, "Invalid year or month")
	}

	m, err := h.reportService.Monthly(c.Context(), userID, year, time.Month(month))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to build report")
	}

	switch c.Query("format", "json") {
	case "json":
		return c.JSON(m)
	case "markdown", "md":
		md, err := report.Markdown(m)
		if err != nil {
			return respondError(c, h.logger, err, "Failed to render report")
		}
		c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
		return c.SendString(md)
	case "html":
		md, err := report.Markdown(m)
		if err != nil {
			return respondError(c, h.logger, err, "Failed to render report")
		}
		html, err := report.HTML(md)
		if err != nil {
			return respondError(c, h.logger, err, "Failed to render report")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(html)
	}
	return badRequest(c, "Unknown format, use json, markdown or html")
}
