package handlers

import (
	"errors"

	"gastos-server/internal/dto"
	"gastos-server/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RecurringHandler struct {
	recurringService *service.RecurringService
	logger           *zap.Logger
}

func NewRecurringHandler(recurringService *service.RecurringService, logger *zap.Logger) *RecurringHandler {
	return &RecurringHandler{
		recurringService: recurringService,
		logger:           logger,
	}
}

// Create godoc
// @Summary Create a recurring expense template
// @Tags recurring
// @Accept json
// @Produce json
// @Param request body dto.CreateRecurringTemplateRequest true "Template"
// @Success 201 {object} dto.RecurringTemplateResponse
// @Failure 400 {object} map[string]string
// @Security Bearer
// @Router /api/v1/recurring [post]
func (h *RecurringHandler) Create(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	var req dto.CreateRecurringTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resp, err := h.recurringService.Create(c.Context(), ownerID, &req)
	if err != nil {
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Error("Template creation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Template creation failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary List recurring expense templates
// @Tags recurring
// @Produce json
// @Param include_inactive query bool false "Also return deactivated templates"
// @Success 200 {array} dto.RecurringTemplateResponse
// @Security Bearer
// @Router /api/v1/recurring [get]
func (h *RecurringHandler) List(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	resp, err := h.recurringService.List(c.Context(), ownerID, c.QueryBool("include_inactive"))
	if err != nil {
		h.logger.Error("Template listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Template listing failed"})
	}

	return c.JSON(resp)
}

// Update godoc
// @Summary Update a recurring expense template
// @Tags recurring
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.UpdateRecurringTemplateRequest true "Template"
// @Success 200 {object} dto.RecurringTemplateResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security Bearer
// @Router /api/v1/recurring/{id} [put]
func (h *RecurringHandler) Update(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template id"})
	}

	var req dto.UpdateRecurringTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resp, err := h.recurringService.Update(c.Context(), ownerID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
		case isValidationError(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Error("Template update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Template update failed"})
	}

	return c.JSON(resp)
}

// Deactivate godoc
// @Summary Deactivate a recurring expense template
// @Tags recurring
// @Param id path string true "Template ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security Bearer
// @Router /api/v1/recurring/{id} [delete]
func (h *RecurringHandler) Deactivate(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template id"})
	}

	if err := h.recurringService.Deactivate(c.Context(), ownerID, id); err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
		}
		h.logger.Error("Template deactivation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Template deactivation failed"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Process godoc
// @Summary Materialize recurring expenses for a month (idempotent)
// @Tags recurring
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} dto.ProcessRecurringResponse
// @Failure 400 {object} map[string]string
// @Security Bearer
// @Router /api/v1/recurring/process [post]
func (h *RecurringHandler) Process(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	year, month, ok := parsePeriod(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": service.ErrMissingPeriod.Error()})
	}

	resp, err := h.recurringService.Process(c.Context(), ownerID, year, month)
	if err != nil {
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Error("Recurring processing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Recurring processing failed"})
	}

	return c.JSON(resp)
}
