package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gastos-server/internal/billing"
	"gastos-server/internal/cache"
	"gastos-server/internal/dto"
	"gastos-server/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newExpenseService(t *testing.T, store ExpenseStore) *ExpenseService {
	t.Helper()
	c, err := cache.New()
	require.NoError(t, err)
	return NewExpenseService(store, c, t.TempDir(), zap.NewNop())
}

func TestCreateExpense_ExpandsAndPersistsTogether(t *testing.T) {
	store := &fakeExpenseStore{}
	var batches [][]*models.Expense
	store.createBatchFunc = func(ctx context.Context, expenses []*models.Expense) error {
		batches = append(batches, expenses)
		store.expenses = append(store.expenses, expenses...)
		return nil
	}
	svc := newExpenseService(t, store)
	ownerID := uuid.New()

	resp, err := svc.Create(context.Background(), ownerID, &dto.CreateExpenseRequest{
		TransactionDate: "2024-01-31",
		Amount:          "100.00",
		Description:     "Notebook",
		Account:         string(models.AccountOurocardKetlyn),
		Installments:    3,
	})
	require.NoError(t, err)
	require.Len(t, resp, 3)

	// one batch, all three rows in it
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 3)

	assert.Equal(t, "2024-01-31", resp[0].TransactionDate)
	assert.Equal(t, "2024-02-29", resp[1].TransactionDate)
	assert.Equal(t, "2024-03-31", resp[2].TransactionDate)
	for i, r := range resp {
		assert.Equal(t, "100.00", r.Amount)
		assert.Equal(t, "300.00", r.TotalPurchaseAmount)
		assert.Equal(t, i+1, r.InstallmentNumber)
	}

	for _, e := range store.expenses {
		assert.Equal(t, ownerID, e.OwnerID)
		assert.NotEqual(t, uuid.Nil, e.ID)
	}
}

func TestCreateExpense_NothingPersistedOnStorageFailure(t *testing.T) {
	store := &fakeExpenseStore{}
	store.createBatchFunc = func(ctx context.Context, expenses []*models.Expense) error {
		return errors.New("connection reset")
	}
	svc := newExpenseService(t, store)

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateExpenseRequest{
		TransactionDate: "2024-03-01",
		Amount:          "10.00",
		Description:     "Mercado",
		Account:         string(models.AccountPix),
	})
	require.Error(t, err)
	assert.Empty(t, store.expenses)
}

func TestCreateExpense_Validation(t *testing.T) {
	svc := newExpenseService(t, &fakeExpenseStore{})
	ownerID := uuid.New()
	planCode := 1

	cases := []struct {
		name string
		req  dto.CreateExpenseRequest
		want error
	}{
		{"bad date", dto.CreateExpenseRequest{TransactionDate: "31/01/2024", Amount: "10.00", Description: "x", Account: "PIX"}, ErrInvalidDate},
		{"bad amount", dto.CreateExpenseRequest{TransactionDate: "2024-01-31", Amount: "zero", Description: "x", Account: "PIX"}, ErrInvalidAmount},
		{"negative amount", dto.CreateExpenseRequest{TransactionDate: "2024-01-31", Amount: "-1.00", Description: "x", Account: "PIX"}, ErrInvalidAmount},
		{"empty description", dto.CreateExpenseRequest{TransactionDate: "2024-01-31", Amount: "10.00", Description: "  ", Account: "PIX"}, ErrEmptyDescription},
		{"business with plan code", dto.CreateExpenseRequest{TransactionDate: "2024-01-31", Amount: "10.00", Description: "x", Account: "PIX", IsBusinessExpense: true, AccountPlanCode: &planCode}, ErrBusinessWithPlanCode},
		{"unknown account", dto.CreateExpenseRequest{TransactionDate: "2024-01-31", Amount: "10.00", Description: "x", Account: "Fantasma"}, billing.ErrUnknownAccount},
		{"too many installments", dto.CreateExpenseRequest{TransactionDate: "2024-01-31", Amount: "10.00", Description: "x", Account: "PIX", Installments: 61}, billing.ErrInvalidInstallmentCount},
	}

	for _, tc := range cases {
		_, err := svc.Create(context.Background(), ownerID, &tc.req)
		assert.ErrorIs(t, err, tc.want, tc.name)
	}
}

func TestListExpenses_BillingWindowAndTotal(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeExpenseStore{}
	svc := newExpenseService(t, store)

	add := func(d time.Time, amount string, account models.Account) {
		store.expenses = append(store.expenses, &models.Expense{
			ID:                  uuid.New(),
			OwnerID:             ownerID,
			TransactionDate:     d,
			Amount:              decimal.RequireFromString(amount),
			Description:         "x",
			Account:             account,
			TotalPurchaseAmount: decimal.RequireFromString(amount),
			InstallmentNumber:   1,
			TotalInstallments:   1,
		})
	}
	add(time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC), "99.00", models.AccountOurocardKetlyn) // before window
	add(time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC), "10.00", models.AccountOurocardKetlyn)
	add(time.Date(2024, time.April, 16, 0, 0, 0, 0, time.UTC), "25.50", models.AccountOurocardKetlyn)
	add(time.Date(2024, time.April, 17, 0, 0, 0, 0, time.UTC), "7.00", models.AccountOurocardKetlyn) // after window

	account := models.AccountOurocardKetlyn
	resp, err := svc.List(context.Background(), ownerID, 2024, 3, &account)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-17", resp.Period.Start)
	assert.Equal(t, "2024-04-16", resp.Period.End)
	assert.Len(t, resp.Expenses, 2)
	assert.Equal(t, "35.50", resp.Total)
}

func TestListExpenses_NoAccountUsesCalendarMonth(t *testing.T) {
	svc := newExpenseService(t, &fakeExpenseStore{})

	resp, err := svc.List(context.Background(), uuid.New(), 2024, 2, nil)
	require.NoError(t, err)

	assert.Equal(t, "2024-02-01", resp.Period.Start)
	assert.Equal(t, "2024-02-29", resp.Period.End)
	assert.Empty(t, resp.Expenses)
	assert.Equal(t, "0.00", resp.Total)
}

func TestUpdateExpense_NotFound(t *testing.T) {
	svc := newExpenseService(t, &fakeExpenseStore{})

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), &dto.UpdateExpenseRequest{
		TransactionDate: "2024-03-01",
		Amount:          "10.00",
		Description:     "x",
		Account:         "PIX",
	})
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestAttachInvoice_FirstInstallmentOnly(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeExpenseStore{}
	second := &models.Expense{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		InstallmentNumber: 2,
		TotalInstallments: 3,
	}
	store.expenses = append(store.expenses, second)
	svc := newExpenseService(t, store)

	_, err := svc.AttachInvoice(context.Background(), ownerID, second.ID, strings.NewReader("pdf"), "nota.pdf")
	assert.ErrorIs(t, err, ErrNotFirstInstallment)
}

func TestAttachInvoice_SavesFileAndLinks(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeExpenseStore{}
	first := &models.Expense{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		InstallmentNumber: 1,
		TotalInstallments: 3,
	}
	store.expenses = append(store.expenses, first)
	svc := newExpenseService(t, store)

	resp, err := svc.AttachInvoice(context.Background(), ownerID, first.ID, strings.NewReader("pdf"), "nota.pdf")
	require.NoError(t, err)

	assert.True(t, resp.HasInvoice)
	assert.True(t, strings.HasPrefix(resp.InvoiceURL, "/uploads/"))
	assert.True(t, strings.HasSuffix(resp.InvoiceURL, ".pdf"))
}

func TestDeleteExpense(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeExpenseStore{}
	e := &models.Expense{ID: uuid.New(), OwnerID: ownerID, InstallmentNumber: 1, TotalInstallments: 1}
	store.expenses = append(store.expenses, e)
	svc := newExpenseService(t, store)

	require.NoError(t, svc.Delete(context.Background(), ownerID, e.ID))
	assert.Empty(t, store.expenses)

	err := svc.Delete(context.Background(), ownerID, e.ID)
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestAccounts_ListsConfiguredRules(t *testing.T) {
	svc := newExpenseService(t, &fakeExpenseStore{})

	accounts := svc.Accounts()
	require.Len(t, accounts, len(billing.KnownAccounts()))

	byName := make(map[string]dto.AccountResponse)
	for _, a := range accounts {
		byName[a.Name] = a
	}

	ourocard := byName[string(models.AccountOurocardKetlyn)]
	assert.Equal(t, 17, ourocard.StartDay)
	assert.Equal(t, 16, ourocard.EndDay)
	assert.False(t, ourocard.RecurringEligible)

	pix := byName[string(models.AccountPix)]
	assert.True(t, pix.IsRecurring)
	assert.True(t, pix.RecurringEligible)
}
