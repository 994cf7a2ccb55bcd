package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is one of the fixed payment accounts an expense can be charged to.
// The set is closed; billing period rules are keyed by these values.
type Account string

const (
	AccountOurocardKetlyn    Account = "Ourocard Ketlyn"
	AccountOurocardAlexandre Account = "Ourocard Alexandre"
	AccountNubank            Account = "Nubank"
	AccountPix               Account = "PIX"
	AccountBoleto            Account = "Boleto"
)

// Expense is a single financial transaction, or one installment of a
// multi-installment purchase. Installments of the same purchase share
// TotalPurchaseAmount and TotalInstallments, with InstallmentNumber
// running 1..TotalInstallments one calendar month apart.
type Expense struct {
	ID                  uuid.UUID       `db:"id"`
	OwnerID             uuid.UUID       `db:"owner_id"`
	TransactionDate     time.Time       `db:"transaction_date"`
	Amount              decimal.Decimal `db:"amount"`
	Description         string          `db:"description"`
	Account             Account         `db:"account"`
	IsBusinessExpense   bool            `db:"is_business_expense"`
	AccountPlanCode     *int            `db:"account_plan_code"`
	HasInvoice          bool            `db:"has_invoice"`
	InvoicePath         string          `db:"invoice_path"`
	TotalPurchaseAmount decimal.Decimal `db:"total_purchase_amount"`
	InstallmentNumber   int             `db:"installment_number"`
	TotalInstallments   int             `db:"total_installments"`
	IsRecurringExpense  bool            `db:"is_recurring_expense"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}
