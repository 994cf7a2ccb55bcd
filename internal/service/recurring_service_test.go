package service

import (
	"context"
	"testing"
	"time"

	"gastos-server/internal/cache"
	"gastos-server/internal/dto"
	"gastos-server/internal/models"
	"gastos-server/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRecurringService(t *testing.T, store RecurringStore) *RecurringService {
	t.Helper()
	c, err := cache.New()
	require.NoError(t, err)
	return NewRecurringService(store, c, zap.NewNop())
}

func activeTemplate(ownerID uuid.UUID, dayOfMonth int) *models.RecurringExpenseTemplate {
	now := time.Now()
	return &models.RecurringExpenseTemplate{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Description: "Internet",
		Amount:      decimal.RequireFromString("120.00"),
		Account:     models.AccountBoleto,
		DayOfMonth:  dayOfMonth,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestProcess_SecondRunIsNoOp(t *testing.T) {
	ownerID := uuid.New()
	store := newFakeRecurringStore()
	store.templates = append(store.templates, activeTemplate(ownerID, 10))
	svc := newRecurringService(t, store)

	first, err := svc.Process(context.Background(), ownerID, 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ProcessedCount)
	assert.Equal(t, 0, first.SkippedCount)
	require.Len(t, first.CreatedExpenseIDs, 1)

	second, err := svc.Process(context.Background(), ownerID, 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ProcessedCount)
	assert.Equal(t, 1, second.SkippedCount)
	assert.Empty(t, second.CreatedExpenseIDs)

	// exactly one expense was ever materialized
	assert.Len(t, store.created, 1)
}

func TestProcess_MaterializedExpenseShape(t *testing.T) {
	ownerID := uuid.New()
	store := newFakeRecurringStore()
	template := activeTemplate(ownerID, 10)
	store.templates = append(store.templates, template)
	svc := newRecurringService(t, store)

	_, err := svc.Process(context.Background(), ownerID, 2024, 6)
	require.NoError(t, err)
	require.Len(t, store.created, 1)

	e := store.created[0]
	assert.Equal(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), e.TransactionDate)
	assert.True(t, e.Amount.Equal(template.Amount))
	assert.True(t, e.TotalPurchaseAmount.Equal(template.Amount))
	assert.Equal(t, template.Account, e.Account)
	assert.Equal(t, 1, e.InstallmentNumber)
	assert.Equal(t, 1, e.TotalInstallments)
	assert.True(t, e.IsRecurringExpense)
}

func TestProcess_ClampsDayOfMonthToShortMonth(t *testing.T) {
	ownerID := uuid.New()
	store := newFakeRecurringStore()
	store.templates = append(store.templates, activeTemplate(ownerID, 31))
	svc := newRecurringService(t, store)

	_, err := svc.Process(context.Background(), ownerID, 2024, 2)
	require.NoError(t, err)
	require.Len(t, store.created, 1)

	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), store.created[0].TransactionDate)
}

func TestProcess_ConcurrentDuplicateCountsAsSkip(t *testing.T) {
	ownerID := uuid.New()
	store := newFakeRecurringStore()
	store.templates = append(store.templates, activeTemplate(ownerID, 5))
	// Pre-check passes, but another run commits first: the unique constraint
	// rejects our insert.
	store.materializeFunc = func(ctx context.Context, expense *models.Expense, entry *models.ProcessingLedgerEntry) error {
		return repository.ErrAlreadyProcessed
	}
	svc := newRecurringService(t, store)

	resp, err := svc.Process(context.Background(), ownerID, 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.ProcessedCount)
	assert.Equal(t, 1, resp.SkippedCount)
}

func TestProcess_InactiveTemplatesIgnored(t *testing.T) {
	ownerID := uuid.New()
	store := newFakeRecurringStore()
	inactive := activeTemplate(ownerID, 5)
	inactive.IsActive = false
	store.templates = append(store.templates, inactive)
	svc := newRecurringService(t, store)

	resp, err := svc.Process(context.Background(), ownerID, 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.ProcessedCount)
	assert.Equal(t, 0, resp.SkippedCount)
	assert.Empty(t, store.created)
}

func TestProcess_InvalidMonth(t *testing.T) {
	svc := newRecurringService(t, newFakeRecurringStore())

	_, err := svc.Process(context.Background(), uuid.New(), 2024, 0)
	assert.Error(t, err)
}

func TestCreateTemplate_RejectsNonRecurringAccount(t *testing.T) {
	svc := newRecurringService(t, newFakeRecurringStore())

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateRecurringTemplateRequest{
		Description: "Fatura",
		Amount:      "50.00",
		Account:     string(models.AccountOurocardKetlyn),
		DayOfMonth:  10,
	})
	assert.ErrorIs(t, err, ErrNotRecurringEligible)
}

func TestCreateTemplate_Validation(t *testing.T) {
	svc := newRecurringService(t, newFakeRecurringStore())
	ownerID := uuid.New()
	planCode := 2

	_, err := svc.Create(context.Background(), ownerID, &dto.CreateRecurringTemplateRequest{
		Description: "Internet", Amount: "abc", Account: string(models.AccountPix), DayOfMonth: 10,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Create(context.Background(), ownerID, &dto.CreateRecurringTemplateRequest{
		Description: "Internet", Amount: "10.00", Account: string(models.AccountPix), DayOfMonth: 32,
	})
	assert.ErrorIs(t, err, ErrInvalidDayOfMonth)

	_, err = svc.Create(context.Background(), ownerID, &dto.CreateRecurringTemplateRequest{
		Description: "Internet", Amount: "10.00", Account: string(models.AccountPix), DayOfMonth: 10,
		IsBusinessExpense: true, AccountPlanCode: &planCode,
	})
	assert.ErrorIs(t, err, ErrBusinessWithPlanCode)
}

func TestDeactivate_SoftDeletes(t *testing.T) {
	ownerID := uuid.New()
	store := newFakeRecurringStore()
	template := activeTemplate(ownerID, 10)
	store.templates = append(store.templates, template)
	svc := newRecurringService(t, store)

	require.NoError(t, svc.Deactivate(context.Background(), ownerID, template.ID))
	assert.False(t, template.IsActive)

	// deactivated templates stay listed when asked for
	all, err := svc.List(context.Background(), ownerID, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	active, err := svc.List(context.Background(), ownerID, false)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDeactivate_NotFound(t *testing.T) {
	svc := newRecurringService(t, newFakeRecurringStore())

	err := svc.Deactivate(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
