package dto

type CreateRecurringTemplateRequest struct {
	Description       string `json:"description"`
	Amount            string `json:"amount"`
	Account           string `json:"account"`
	AccountPlanCode   *int   `json:"account_plan_code,omitempty"`
	IsBusinessExpense bool   `json:"is_business_expense"`
	DayOfMonth        int    `json:"day_of_month"`
}

type UpdateRecurringTemplateRequest struct {
	Description       string `json:"description"`
	Amount            string `json:"amount"`
	Account           string `json:"account"`
	AccountPlanCode   *int   `json:"account_plan_code,omitempty"`
	IsBusinessExpense bool   `json:"is_business_expense"`
	DayOfMonth        int    `json:"day_of_month"`
}

type RecurringTemplateResponse struct {
	ID                string `json:"id"`
	Description       string `json:"description"`
	Amount            string `json:"amount"`
	Account           string `json:"account"`
	AccountPlanCode   *int   `json:"account_plan_code,omitempty"`
	IsBusinessExpense bool   `json:"is_business_expense"`
	DayOfMonth        int    `json:"day_of_month"`
	IsActive          bool   `json:"is_active"`
	CreatedAt         string `json:"created_at"`
}

// ProcessRecurringResponse reports one materialization run. Reprocessing an
// already-handled month yields processed_count 0 and a skipped_count equal to
// the active template count.
type ProcessRecurringResponse struct {
	ProcessedCount    int      `json:"processed_count"`
	SkippedCount      int      `json:"skipped_count"`
	CreatedExpenseIDs []string `json:"created_expense_ids"`
}
