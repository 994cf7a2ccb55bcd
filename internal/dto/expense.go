package dto

// Dates cross the boundary as "2006-01-02" strings and currency values as
// numeric strings with two decimal places; decimal arithmetic stays inside.

type CreateExpenseRequest struct {
	TransactionDate   string `json:"transaction_date"`
	Amount            string `json:"amount"` // per-installment value
	Description       string `json:"description"`
	Account           string `json:"account"`
	IsBusinessExpense bool   `json:"is_business_expense"`
	AccountPlanCode   *int   `json:"account_plan_code,omitempty"`
	Installments      int    `json:"installments"` // 1 when absent
}

type UpdateExpenseRequest struct {
	TransactionDate   string `json:"transaction_date"`
	Amount            string `json:"amount"`
	Description       string `json:"description"`
	Account           string `json:"account"`
	IsBusinessExpense bool   `json:"is_business_expense"`
	AccountPlanCode   *int   `json:"account_plan_code,omitempty"`
}

type ExpenseResponse struct {
	ID                  string `json:"id"`
	TransactionDate     string `json:"transaction_date"`
	Amount              string `json:"amount"`
	Description         string `json:"description"`
	Account             string `json:"account"`
	IsBusinessExpense   bool   `json:"is_business_expense"`
	AccountPlanCode     *int   `json:"account_plan_code,omitempty"`
	HasInvoice          bool   `json:"has_invoice"`
	InvoiceURL          string `json:"invoice_url,omitempty"`
	TotalPurchaseAmount string `json:"total_purchase_amount"`
	InstallmentNumber   int    `json:"installment_number"`
	TotalInstallments   int    `json:"total_installments"`
	IsRecurringExpense  bool   `json:"is_recurring_expense"`
	CreatedAt           string `json:"created_at"`
}

type PeriodResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ExpenseListResponse struct {
	Period   PeriodResponse    `json:"period"`
	Total    string            `json:"total"`
	Expenses []ExpenseResponse `json:"expenses"`
}

type AccountResponse struct {
	Name              string `json:"name"`
	StartDay          int    `json:"start_day,omitempty"`
	EndDay            int    `json:"end_day,omitempty"`
	IsRecurring       bool   `json:"is_recurring"`
	RecurringEligible bool   `json:"recurring_eligible"`
}
