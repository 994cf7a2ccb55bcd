package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gastos-server/internal/billing"
	"gastos-server/internal/cache"
	"gastos-server/internal/dto"
	"gastos-server/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type ExpenseService struct {
	store     ExpenseStore
	cache     *cache.Cache
	uploadDir string
	logger    *zap.Logger
}

func NewExpenseService(store ExpenseStore, cache *cache.Cache, uploadDir string, logger *zap.Logger) *ExpenseService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		logger.Warn("Failed to create upload directory", zap.Error(err))
	}

	return &ExpenseService{
		store:     store,
		cache:     cache,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// Create validates the request, expands it into installment drafts and
// persists all of them atomically. The response lists every created row.
func (s *ExpenseService) Create(ctx context.Context, ownerID uuid.UUID, req *dto.CreateExpenseRequest) ([]dto.ExpenseResponse, error) {
	txDate, err := time.Parse(dateLayout, req.TransactionDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrEmptyDescription
	}
	if req.IsBusinessExpense && req.AccountPlanCode != nil {
		return nil, ErrBusinessWithPlanCode
	}

	count := req.Installments
	if count == 0 {
		count = 1
	}

	drafts, err := billing.ExpandInstallments(billing.Purchase{
		TransactionDate:   txDate,
		Amount:            amount,
		Count:             count,
		Description:       strings.TrimSpace(req.Description),
		Account:           models.Account(req.Account),
		IsBusinessExpense: req.IsBusinessExpense,
		AccountPlanCode:   req.AccountPlanCode,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expenses := make([]*models.Expense, 0, len(drafts))
	for i := range drafts {
		e := drafts[i]
		e.ID = uuid.New()
		e.OwnerID = ownerID
		e.CreatedAt = now
		e.UpdatedAt = now
		expenses = append(expenses, &e)
	}

	if err := s.store.CreateBatch(ctx, expenses); err != nil {
		return nil, fmt.Errorf("failed to persist installments: %w", err)
	}

	s.cache.InvalidateOwner(ownerID.String())
	s.logger.Info("Expenses created",
		zap.String("owner_id", ownerID.String()),
		zap.Int("installments", len(expenses)),
	)

	responses := make([]dto.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		responses = append(responses, expenseResponse(e))
	}
	return responses, nil
}

// List returns the owner's expenses inside the billing window of (account,
// year, month). Without an account filter the window is the calendar month.
func (s *ExpenseService) List(ctx context.Context, ownerID uuid.UUID, year, month int, account *models.Account) (*dto.ExpenseListResponse, error) {
	window, err := resolveQueryWindow(year, month, account)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListWindow(ctx, ownerID, window.Start, window.End, account)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	total := decimal.Zero
	responses := make([]dto.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		total = total.Add(e.Amount)
		responses = append(responses, expenseResponse(e))
	}

	return &dto.ExpenseListResponse{
		Period: dto.PeriodResponse{
			Start: window.Start.Format(dateLayout),
			End:   window.End.Format(dateLayout),
		},
		Total:    total.StringFixed(2),
		Expenses: responses,
	}, nil
}

func (s *ExpenseService) Get(ctx context.Context, ownerID, id uuid.UUID) (*dto.ExpenseResponse, error) {
	e, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, ErrExpenseNotFound
	}
	resp := expenseResponse(e)
	return &resp, nil
}

func (s *ExpenseService) Update(ctx context.Context, ownerID, id uuid.UUID, req *dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	e, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, ErrExpenseNotFound
	}

	txDate, err := time.Parse(dateLayout, req.TransactionDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrEmptyDescription
	}
	if req.IsBusinessExpense && req.AccountPlanCode != nil {
		return nil, ErrBusinessWithPlanCode
	}
	if !billing.IsKnownAccount(models.Account(req.Account)) {
		return nil, billing.ErrUnknownAccount
	}

	e.TransactionDate = txDate
	e.Amount = amount
	e.Description = strings.TrimSpace(req.Description)
	e.Account = models.Account(req.Account)
	e.IsBusinessExpense = req.IsBusinessExpense
	e.AccountPlanCode = req.AccountPlanCode
	if e.TotalInstallments == 1 {
		e.TotalPurchaseAmount = amount
	}

	if err := s.store.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	s.cache.InvalidateOwner(ownerID.String())
	resp := expenseResponse(e)
	return &resp, nil
}

// Delete removes the expense row, then cleans up any attached invoice file.
// File removal after a committed delete is best effort; a failure is logged,
// never surfaced.
func (s *ExpenseService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	e, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return ErrExpenseNotFound
	}

	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	if e.HasInvoice && e.InvoicePath != "" {
		path := filepath.Join(s.uploadDir, filepath.Base(e.InvoicePath))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to remove invoice file",
				zap.String("expense_id", id.String()),
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}

	s.cache.InvalidateOwner(ownerID.String())
	return nil
}

// AttachInvoice stores an uploaded invoice file and links it to the expense.
// Only the first installment of a purchase may carry the invoice.
func (s *ExpenseService) AttachInvoice(ctx context.Context, ownerID, id uuid.UUID, file io.Reader, fileName string) (*dto.ExpenseResponse, error) {
	e, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, ErrExpenseNotFound
	}
	if e.InstallmentNumber != 1 {
		return nil, ErrNotFirstInstallment
	}

	newFileName := uuid.New().String() + filepath.Ext(fileName)
	path := filepath.Join(s.uploadDir, newFileName)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to save invoice file: %w", err)
	}

	invoiceURL := "/uploads/" + newFileName
	if err := s.store.SetInvoice(ctx, ownerID, id, invoiceURL); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to attach invoice: %w", err)
	}

	e.HasInvoice = true
	e.InvoicePath = invoiceURL
	resp := expenseResponse(e)
	return &resp, nil
}

// Accounts describes the configured payment accounts and their billing rules.
func (s *ExpenseService) Accounts() []dto.AccountResponse {
	accounts := billing.KnownAccounts()
	responses := make([]dto.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		rule, _ := billing.RuleFor(account)
		responses = append(responses, dto.AccountResponse{
			Name:              string(account),
			StartDay:          rule.StartDay,
			EndDay:            rule.EndDay,
			IsRecurring:       rule.IsRecurring,
			RecurringEligible: billing.IsRecurringEligible(account),
		})
	}
	return responses
}

// resolveQueryWindow maps the query period to a date window: the account's
// billing window when a filter is present, the calendar month otherwise.
func resolveQueryWindow(year, month int, account *models.Account) (billing.Window, error) {
	if account != nil {
		return billing.ResolveAccountWindow(*account, year, month)
	}
	return billing.ResolveWindow(billing.PeriodRule{IsRecurring: true}, year, month)
}

func expenseResponse(e *models.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:                  e.ID.String(),
		TransactionDate:     e.TransactionDate.Format(dateLayout),
		Amount:              e.Amount.StringFixed(2),
		Description:         e.Description,
		Account:             string(e.Account),
		IsBusinessExpense:   e.IsBusinessExpense,
		AccountPlanCode:     e.AccountPlanCode,
		HasInvoice:          e.HasInvoice,
		InvoiceURL:          e.InvoicePath,
		TotalPurchaseAmount: e.TotalPurchaseAmount.StringFixed(2),
		InstallmentNumber:   e.InstallmentNumber,
		TotalInstallments:   e.TotalInstallments,
		IsRecurringExpense:  e.IsRecurringExpense,
		CreatedAt:           e.CreatedAt.Format(time.RFC3339),
	}
}
