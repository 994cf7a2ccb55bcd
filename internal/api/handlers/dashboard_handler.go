package handlers

import (
	"gastos-server/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	reportService    *service.ReportService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, reportService *service.ReportService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		reportService:    reportService,
		logger:           logger,
	}
}

// Summary godoc
// @Summary Dashboard aggregates for a billing period
// @Tags dashboard
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Param account query string false "Account filter"
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} map[string]string
// @Security Bearer
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	year, month, ok := parsePeriod(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": service.ErrMissingPeriod.Error()})
	}

	resp, err := h.dashboardService.GetSummary(c.Context(), ownerID, year, month, accountFilter(c))
	if err != nil {
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Error("Dashboard summary failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Dashboard summary failed"})
	}

	return c.JSON(resp)
}

// MonthlyReport godoc
// @Summary Monthly expense report as PDF
// @Tags dashboard
// @Produce application/pdf
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Param account query string false "Account filter"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Security Bearer
// @Router /api/v1/reports/monthly [get]
func (h *DashboardHandler) MonthlyReport(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	year, month, ok := parsePeriod(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": service.ErrMissingPeriod.Error()})
	}

	pdfBytes, fileName, err := h.reportService.MonthlyReport(c.Context(), ownerID, year, month, accountFilter(c))
	if err != nil {
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Error("Report generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Report generation failed"})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Send(pdfBytes)
}
