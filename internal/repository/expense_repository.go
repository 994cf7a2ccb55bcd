package repository

import (
	"context"
	"errors"
	"time"

	"gastos-server/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var expenseColumns = []string{
	"id", "owner_id", "transaction_date", "amount", "description", "account",
	"is_business_expense", "account_plan_code", "has_invoice", "invoice_path",
	"total_purchase_amount", "installment_number", "total_installments",
	"is_recurring_expense", "created_at", "updated_at",
}

type ExpenseRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewExpenseRepository(db *pgxpool.Pool, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

// CreateBatch persists every expense in a single transaction: all rows commit
// together or none do. A split purchase must never be observable as a partial
// installment set.
func (r *ExpenseRepository) CreateBatch(ctx context.Context, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	builder := squirrel.Insert("expenses").
		Columns(expenseColumns...).
		PlaceholderFormat(squirrel.Dollar)

	for _, e := range expenses {
		builder = builder.Values(
			e.ID, e.OwnerID, e.TransactionDate, e.Amount, e.Description, e.Account,
			e.IsBusinessExpense, e.AccountPlanCode, e.HasInvoice, e.InvoicePath,
			e.TotalPurchaseAmount, e.InstallmentNumber, e.TotalInstallments,
			e.IsRecurringExpense, e.CreatedAt, e.UpdatedAt,
		)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ExpenseRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Expense, error) {
	query := squirrel.Select(expenseColumns...).
		From("expenses").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var e models.Expense
	err = r.db.QueryRow(ctx, sql, args...).Scan(scanTargets(&e)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// ListWindow returns the owner's expenses dated inside [start, end],
// optionally restricted to one account, ordered by transaction date.
func (r *ExpenseRepository) ListWindow(ctx context.Context, ownerID uuid.UUID, start, end time.Time, account *models.Account) ([]*models.Expense, error) {
	query := squirrel.Select(expenseColumns...).
		From("expenses").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where(squirrel.GtOrEq{"transaction_date": start}).
		Where(squirrel.LtOrEq{"transaction_date": end}).
		OrderBy("transaction_date ASC", "created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if account != nil {
		query = query.Where(squirrel.Eq{"account": *account})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(scanTargets(&e)...); err != nil {
			return nil, err
		}
		expenses = append(expenses, &e)
	}

	return expenses, rows.Err()
}

func (r *ExpenseRepository) Update(ctx context.Context, e *models.Expense) error {
	query := squirrel.Update("expenses").
		Set("transaction_date", e.TransactionDate).
		Set("amount", e.Amount).
		Set("description", e.Description).
		Set("account", e.Account).
		Set("is_business_expense", e.IsBusinessExpense).
		Set("account_plan_code", e.AccountPlanCode).
		Set("total_purchase_amount", e.TotalPurchaseAmount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": e.ID, "owner_id": e.OwnerID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetInvoice attaches an invoice file reference to an expense.
func (r *ExpenseRepository) SetInvoice(ctx context.Context, ownerID, id uuid.UUID, invoicePath string) error {
	query := squirrel.Update("expenses").
		Set("has_invoice", true).
		Set("invoice_path", invoicePath).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := squirrel.Delete("expenses").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTargets(e *models.Expense) []interface{} {
	return []interface{}{
		&e.ID, &e.OwnerID, &e.TransactionDate, &e.Amount, &e.Description, &e.Account,
		&e.IsBusinessExpense, &e.AccountPlanCode, &e.HasInvoice, &e.InvoicePath,
		&e.TotalPurchaseAmount, &e.InstallmentNumber, &e.TotalInstallments,
		&e.IsRecurringExpense, &e.CreatedAt, &e.UpdatedAt,
	}
}
