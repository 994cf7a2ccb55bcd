package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gastos-server/internal/billing"
	"gastos-server/internal/cache"
	"gastos-server/internal/dto"
	"gastos-server/internal/models"
	"gastos-server/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RecurringService struct {
	store  RecurringStore
	cache  *cache.Cache
	logger *zap.Logger
}

func NewRecurringService(store RecurringStore, cache *cache.Cache, logger *zap.Logger) *RecurringService {
	return &RecurringService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

func (s *RecurringService) Create(ctx context.Context, ownerID uuid.UUID, req *dto.CreateRecurringTemplateRequest) (*dto.RecurringTemplateResponse, error) {
	amount, account, err := validateTemplateFields(req.Amount, req.Account, req.Description, req.DayOfMonth, req.IsBusinessExpense, req.AccountPlanCode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	template := &models.RecurringExpenseTemplate{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		Description:       strings.TrimSpace(req.Description),
		Amount:            amount,
		Account:           account,
		AccountPlanCode:   req.AccountPlanCode,
		IsBusinessExpense: req.IsBusinessExpense,
		DayOfMonth:        req.DayOfMonth,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.store.CreateTemplate(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create recurring template: %w", err)
	}

	resp := templateResponse(template)
	return &resp, nil
}

func (s *RecurringService) List(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]dto.RecurringTemplateResponse, error) {
	templates, err := s.store.ListTemplates(ctx, ownerID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring templates: %w", err)
	}

	responses := make([]dto.RecurringTemplateResponse, 0, len(templates))
	for _, t := range templates {
		responses = append(responses, templateResponse(t))
	}
	return responses, nil
}

func (s *RecurringService) Update(ctx context.Context, ownerID, id uuid.UUID, req *dto.UpdateRecurringTemplateRequest) (*dto.RecurringTemplateResponse, error) {
	template, err := s.store.GetTemplateByID(ctx, ownerID, id)
	if err != nil {
		return nil, ErrTemplateNotFound
	}

	amount, account, err := validateTemplateFields(req.Amount, req.Account, req.Description, req.DayOfMonth, req.IsBusinessExpense, req.AccountPlanCode)
	if err != nil {
		return nil, err
	}

	template.Description = strings.TrimSpace(req.Description)
	template.Amount = amount
	template.Account = account
	template.AccountPlanCode = req.AccountPlanCode
	template.IsBusinessExpense = req.IsBusinessExpense
	template.DayOfMonth = req.DayOfMonth

	if err := s.store.UpdateTemplate(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to update recurring template: %w", err)
	}

	resp := templateResponse(template)
	return &resp, nil
}

// Deactivate soft-deletes a template; its materialized expenses and ledger
// history stay untouched.
func (s *RecurringService) Deactivate(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.store.DeactivateTemplate(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("failed to deactivate recurring template: %w", err)
	}
	return nil
}

// Process materializes every active template of the owner into a concrete
// expense for (year, month), exactly once per template and month. Running it
// again for the same period is a no-op: already-ledgered templates are
// skipped, and a concurrent duplicate insert rejected by the ledger's unique
// constraint counts as a skip rather than an error.
func (s *RecurringService) Process(ctx context.Context, ownerID uuid.UUID, year, month int) (*dto.ProcessRecurringResponse, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: got %d", billing.ErrInvalidMonth, month)
	}

	templates, err := s.store.ListTemplates(ctx, ownerID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring templates: %w", err)
	}

	monthKey := billing.MonthKey(year, month)
	resp := &dto.ProcessRecurringResponse{CreatedExpenseIDs: []string{}}

	for _, template := range templates {
		processed, err := s.processTemplate(ctx, template, year, month, monthKey)
		if err != nil {
			return nil, err
		}
		if processed == uuid.Nil {
			resp.SkippedCount++
			continue
		}
		resp.ProcessedCount++
		resp.CreatedExpenseIDs = append(resp.CreatedExpenseIDs, processed.String())
	}

	if resp.ProcessedCount > 0 {
		s.cache.InvalidateOwner(ownerID.String())
	}

	s.logger.Info("Recurring expenses processed",
		zap.String("owner_id", ownerID.String()),
		zap.String("month", monthKey),
		zap.Int("processed", resp.ProcessedCount),
		zap.Int("skipped", resp.SkippedCount),
	)
	return resp, nil
}

// processTemplate returns the created expense id, or uuid.Nil when the
// template was already handled for the month.
func (s *RecurringService) processTemplate(ctx context.Context, template *models.RecurringExpenseTemplate, year, month int, monthKey string) (uuid.UUID, error) {
	exists, err := s.store.HasLedgerEntry(ctx, template.ID, monthKey)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to check processing ledger: %w", err)
	}
	if exists {
		return uuid.Nil, nil
	}

	now := time.Now()
	chargeDate := clampedMonthDay(year, month, template.DayOfMonth)

	expense := &models.Expense{
		ID:                  uuid.New(),
		OwnerID:             template.OwnerID,
		TransactionDate:     chargeDate,
		Amount:              template.Amount,
		Description:         template.Description,
		Account:             template.Account,
		IsBusinessExpense:   template.IsBusinessExpense,
		AccountPlanCode:     template.AccountPlanCode,
		TotalPurchaseAmount: template.Amount,
		InstallmentNumber:   1,
		TotalInstallments:   1,
		IsRecurringExpense:  true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	entry := &models.ProcessingLedgerEntry{
		ID:                  uuid.New(),
		RecurringTemplateID: template.ID,
		ProcessedMonth:      monthKey,
		ResultingExpenseID:  expense.ID,
		CreatedAt:           now,
	}

	err = s.store.MaterializeTemplate(ctx, expense, entry)
	if errors.Is(err, repository.ErrAlreadyProcessed) {
		// Lost a race with a concurrent run; its row stands, ours rolled back.
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to materialize template %s: %w", template.ID, err)
	}
	return expense.ID, nil
}

func validateTemplateFields(rawAmount, rawAccount, description string, dayOfMonth int, isBusiness bool, planCode *int) (decimal.Decimal, models.Account, error) {
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, "", ErrInvalidAmount
	}
	if strings.TrimSpace(description) == "" {
		return decimal.Zero, "", ErrEmptyDescription
	}
	if dayOfMonth < 1 || dayOfMonth > 31 {
		return decimal.Zero, "", ErrInvalidDayOfMonth
	}
	if isBusiness && planCode != nil {
		return decimal.Zero, "", ErrBusinessWithPlanCode
	}

	account := models.Account(rawAccount)
	if !billing.IsKnownAccount(account) {
		return decimal.Zero, "", billing.ErrUnknownAccount
	}
	if !billing.IsRecurringEligible(account) {
		return decimal.Zero, "", ErrNotRecurringEligible
	}
	return amount, account, nil
}

func clampedMonthDay(year, month, day int) time.Time {
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func templateResponse(t *models.RecurringExpenseTemplate) dto.RecurringTemplateResponse {
	return dto.RecurringTemplateResponse{
		ID:                t.ID.String(),
		Description:       t.Description,
		Amount:            t.Amount.StringFixed(2),
		Account:           string(t.Account),
		AccountPlanCode:   t.AccountPlanCode,
		IsBusinessExpense: t.IsBusinessExpense,
		DayOfMonth:        t.DayOfMonth,
		IsActive:          t.IsActive,
		CreatedAt:         t.CreatedAt.Format(time.RFC3339),
	}
}
