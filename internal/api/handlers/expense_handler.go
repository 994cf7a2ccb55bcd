package handlers

import (
	"errors"

	"gastos-server/internal/billing"
	"gastos-server/internal/dto"
	"gastos-server/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ExpenseHandler struct {
	expenseService *service.ExpenseService
	logger         *zap.Logger
}

func NewExpenseHandler(expenseService *service.ExpenseService, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		logger:         logger,
	}
}

// Create godoc
// @Summary Create an expense, expanding installments
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body dto.CreateExpenseRequest true "Expense"
// @Success 201 {array} dto.ExpenseResponse
// @Failure 400 {object} map[string]string
// @Security Bearer
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	var req dto.CreateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resp, err := h.expenseService.Create(c.Context(), ownerID, &req)
	if err != nil {
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Error("Expense creation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Expense creation failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary List expenses for a billing period
// @Tags expenses
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Param account query string false "Account filter"
// @Success 200 {object} dto.ExpenseListResponse
// @Failure 400 {object} map[string]string
// @Security Bearer
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	year, month, ok := parsePeriod(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": service.ErrMissingPeriod.Error()})
	}

	resp, err := h.expenseService.List(c.Context(), ownerID, year, month, accountFilter(c))
	if err != nil {
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Error("Expense listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Expense listing failed"})
	}

	return c.JSON(resp)
}

// Get godoc
// @Summary Get a single expense
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string
// @Security Bearer
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expense id"})
	}

	resp, err := h.expenseService.Get(c.Context(), ownerID, id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Expense not found"})
	}

	return c.JSON(resp)
}

// Update godoc
// @Summary Update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body dto.UpdateExpenseRequest true "Expense"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security Bearer
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expense id"})
	}

	var req dto.UpdateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resp, err := h.expenseService.Update(c.Context(), ownerID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExpenseNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Expense not found"})
		case isValidationError(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Error("Expense update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Expense update failed"})
	}

	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete an expense
// @Tags expenses
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security Bearer
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expense id"})
	}

	if err := h.expenseService.Delete(c.Context(), ownerID, id); err != nil {
		if errors.Is(err, service.ErrExpenseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Expense not found"})
		}
		h.logger.Error("Expense deletion failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Expense deletion failed"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AttachInvoice godoc
// @Summary Attach an invoice file to the first installment
// @Tags expenses
// @Accept mpfd
// @Produce json
// @Param id path string true "Expense ID"
// @Param file formData file true "Invoice file"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security Bearer
// @Router /api/v1/expenses/{id}/invoice [post]
func (h *ExpenseHandler) AttachInvoice(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expense id"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invoice file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read invoice file"})
	}
	defer file.Close()

	resp, err := h.expenseService.AttachInvoice(c.Context(), ownerID, id, file, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExpenseNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Expense not found"})
		case errors.Is(err, service.ErrNotFirstInstallment):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.Error("Invoice attachment failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Invoice attachment failed"})
	}

	return c.JSON(resp)
}

// Accounts godoc
// @Summary List configured payment accounts and billing rules
// @Tags expenses
// @Produce json
// @Success 200 {array} dto.AccountResponse
// @Security Bearer
// @Router /api/v1/accounts [get]
func (h *ExpenseHandler) Accounts(c *fiber.Ctx) error {
	return c.JSON(h.expenseService.Accounts())
}

// isValidationError reports whether the error is the caller's fault and maps
// to a 400.
func isValidationError(err error) bool {
	return errors.Is(err, service.ErrInvalidDate) ||
		errors.Is(err, service.ErrInvalidAmount) ||
		errors.Is(err, service.ErrEmptyDescription) ||
		errors.Is(err, service.ErrBusinessWithPlanCode) ||
		errors.Is(err, service.ErrInvalidDayOfMonth) ||
		errors.Is(err, service.ErrNotRecurringEligible) ||
		errors.Is(err, billing.ErrUnknownAccount) ||
		errors.Is(err, billing.ErrInvalidMonth) ||
		errors.Is(err, billing.ErrInvalidInstallmentCount) ||
		errors.Is(err, billing.ErrNonPositiveAmount)
}
