package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"gastos-server/internal/models"
)

// MaxInstallments bounds how far a purchase may be split.
const MaxInstallments = 60

var (
	ErrInvalidInstallmentCount = errors.New("installment count must be between 1 and 60")
	ErrNonPositiveAmount       = errors.New("amount must be positive")
)

// Purchase is the validated input to installment expansion: one purchase to
// be split into Count monthly charges of Amount each.
type Purchase struct {
	TransactionDate   time.Time
	Amount            decimal.Decimal // per-installment value
	Count             int
	Description       string
	Account           models.Account
	IsBusinessExpense bool
	AccountPlanCode   *int
	InvoicePath       string
}

// ExpandInstallments turns a purchase into its ordered installment drafts.
// Draft i is dated i calendar months after the purchase date (day clamped to
// the target month's length), numbered i+1 of Count, and carries the full
// purchase total Amount*Count for display. The invoice reference, when
// present, is attached to the first draft only.
//
// The total is Amount*Count with no remainder redistribution; last-cent drift
// on non-divisible purchases is accepted rather than silently corrected.
//
// ID and OwnerID on the drafts are zero; persisting them, atomically and all
// together, is the caller's job.
func ExpandInstallments(p Purchase) ([]models.Expense, error) {
	if p.Count < 1 || p.Count > MaxInstallments {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidInstallmentCount, p.Count)
	}
	if !p.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if !IsKnownAccount(p.Account) {
		return nil, ErrUnknownAccount
	}

	total := p.Amount.Mul(decimal.NewFromInt(int64(p.Count)))

	drafts := make([]models.Expense, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		description := p.Description
		if p.Count > 1 {
			description = fmt.Sprintf("%s (Parcela %d/%d)", p.Description, i+1, p.Count)
		}

		draft := models.Expense{
			TransactionDate:     AddMonths(p.TransactionDate, i),
			Amount:              p.Amount,
			Description:         description,
			Account:             p.Account,
			IsBusinessExpense:   p.IsBusinessExpense,
			AccountPlanCode:     p.AccountPlanCode,
			TotalPurchaseAmount: total,
			InstallmentNumber:   i + 1,
			TotalInstallments:   p.Count,
		}
		if i == 0 && p.InvoicePath != "" {
			draft.HasInvoice = true
			draft.InvoicePath = p.InvoicePath
		}
		drafts = append(drafts, draft)
	}

	return drafts, nil
}
