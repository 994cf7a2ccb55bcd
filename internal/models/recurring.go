package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringExpenseTemplate is a user-defined monthly obligation. Templates are
// never hard-deleted, only deactivated; each active template is materialized
// into one concrete Expense per calendar month by the recurring processor.
type RecurringExpenseTemplate struct {
	ID                uuid.UUID       `db:"id"`
	OwnerID           uuid.UUID       `db:"owner_id"`
	Description       string          `db:"description"`
	Amount            decimal.Decimal `db:"amount"`
	Account           Account         `db:"account"`
	AccountPlanCode   *int            `db:"account_plan_code"`
	IsBusinessExpense bool            `db:"is_business_expense"`
	DayOfMonth        int             `db:"day_of_month"`
	IsActive          bool            `db:"is_active"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// ProcessingLedgerEntry records that a template has already been materialized
// for a month. At most one entry exists per (template, month) pair; the
// uniqueness constraint on that pair is the at-most-once guarantee.
type ProcessingLedgerEntry struct {
	ID                  uuid.UUID `db:"id"`
	RecurringTemplateID uuid.UUID `db:"recurring_template_id"`
	ProcessedMonth      string    `db:"processed_month"`
	ResultingExpenseID  uuid.UUID `db:"resulting_expense_id"`
	CreatedAt           time.Time `db:"created_at"`
}
