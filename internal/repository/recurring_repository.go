package repository

import (
	"context"
	"errors"

	"gastos-server/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Postgres unique_violation
const uniqueViolationCode = "23505"

var templateColumns = []string{
	"id", "owner_id", "description", "amount", "account", "account_plan_code",
	"is_business_expense", "day_of_month", "is_active", "created_at", "updated_at",
}

type RecurringRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRecurringRepository(db *pgxpool.Pool, logger *zap.Logger) *RecurringRepository {
	return &RecurringRepository{
		db:     db,
		logger: logger,
	}
}

func (r *RecurringRepository) CreateTemplate(ctx context.Context, t *models.RecurringExpenseTemplate) error {
	query := squirrel.Insert("recurring_expense_templates").
		Columns(templateColumns...).
		Values(t.ID, t.OwnerID, t.Description, t.Amount, t.Account, t.AccountPlanCode,
			t.IsBusinessExpense, t.DayOfMonth, t.IsActive, t.CreatedAt, t.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *RecurringRepository) GetTemplateByID(ctx context.Context, ownerID, id uuid.UUID) (*models.RecurringExpenseTemplate, error) {
	query := squirrel.Select(templateColumns...).
		From("recurring_expense_templates").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var t models.RecurringExpenseTemplate
	err = r.db.QueryRow(ctx, sql, args...).Scan(templateScanTargets(&t)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// ListTemplates returns the owner's templates, active ones only unless
// includeInactive is set, newest first.
func (r *RecurringRepository) ListTemplates(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]*models.RecurringExpenseTemplate, error) {
	query := squirrel.Select(templateColumns...).
		From("recurring_expense_templates").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if !includeInactive {
		query = query.Where(squirrel.Eq{"is_active": true})
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

	var templates []*models.RecurringExpenseTemplate
	for rows.Next() {
		var t models.RecurringExpenseTemplate
		if err := rows.Scan(templateScanTargets(&t)...); err != nil {
			return nil, err
		}
		templates = append(templates, &t)
	}

	return templates, rows.Err()
}

func (r *RecurringRepository) UpdateTemplate(ctx context.Context, t *models.RecurringExpenseTemplate) error {
	query := squirrel.Update("recurring_expense_templates").
		Set("description", t.Description).
		Set("amount", t.Amount).
		Set("account", t.Account).
		Set("account_plan_code", t.AccountPlanCode).
		Set("is_business_expense", t.IsBusinessExpense).
		Set("day_of_month", t.DayOfMonth).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": t.ID, "owner_id": t.OwnerID}).
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

// DeactivateTemplate soft-deletes a template. Templates are never removed,
// their ledger history must stay referable.
func (r *RecurringRepository) DeactivateTemplate(ctx context.Context, ownerID, id uuid.UUID) error {
	query := squirrel.Update("recurring_expense_templates").
		Set("is_active", false).
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

// HasLedgerEntry reports whether a (template, month) pair was already
// materialized. This is only a cheap pre-check; the authoritative guard is
// the unique constraint enforced inside MaterializeTemplate.
func (r *RecurringRepository) HasLedgerEntry(ctx context.Context, templateID uuid.UUID, monthKey string) (bool, error) {
	query := squirrel.Select("1").
		From("recurring_processing_ledger").
		Where(squirrel.Eq{"recurring_template_id": templateID, "processed_month": monthKey}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MaterializeTemplate inserts a concrete expense and its ledger entry in one
// transaction. The UNIQUE (recurring_template_id, processed_month) constraint
// makes the check-and-insert atomic under concurrent invocation: a duplicate
// rolls back the expense row too and surfaces as ErrAlreadyProcessed.
func (r *RecurringRepository) MaterializeTemplate(ctx context.Context, expense *models.Expense, entry *models.ProcessingLedgerEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	insertExpense := squirrel.Insert("expenses").
		Columns(expenseColumns...).
		Values(
			expense.ID, expense.OwnerID, expense.TransactionDate, expense.Amount,
			expense.Description, expense.Account, expense.IsBusinessExpense,
			expense.AccountPlanCode, expense.HasInvoice, expense.InvoicePath,
			expense.TotalPurchaseAmount, expense.InstallmentNumber,
			expense.TotalInstallments, expense.IsRecurringExpense,
			expense.CreatedAt, expense.UpdatedAt,
		).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := insertExpense.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return err
	}

	insertEntry := squirrel.Insert("recurring_processing_ledger").
		Columns("id", "recurring_template_id", "processed_month", "resulting_expense_id", "created_at").
		Values(entry.ID, entry.RecurringTemplateID, entry.ProcessedMonth, entry.ResultingExpenseID, entry.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err = insertEntry.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrAlreadyProcessed
		}
		return err
	}

	return tx.Commit(ctx)
}

func templateScanTargets(t *models.RecurringExpenseTemplate) []interface{} {
	return []interface{}{
		&t.ID, &t.OwnerID, &t.Description, &t.Amount, &t.Account, &t.AccountPlanCode,
		&t.IsBusinessExpense, &t.DayOfMonth, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	}
}
