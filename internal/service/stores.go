package service

import (
	"context"
	"time"

	"gastos-server/internal/models"

	"github.com/google/uuid"
)

// Storage collaborators are taken as interfaces so core logic never reaches
// for a pool directly and tests can substitute in-memory fakes. The pgx
// repositories in internal/repository satisfy them.

type ExpenseStore interface {
	CreateBatch(ctx context.Context, expenses []*models.Expense) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Expense, error)
	ListWindow(ctx context.Context, ownerID uuid.UUID, start, end time.Time, account *models.Account) ([]*models.Expense, error)
	Update(ctx context.Context, e *models.Expense) error
	SetInvoice(ctx context.Context, ownerID, id uuid.UUID, invoicePath string) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type RecurringStore interface {
	CreateTemplate(ctx context.Context, t *models.RecurringExpenseTemplate) error
	GetTemplateByID(ctx context.Context, ownerID, id uuid.UUID) (*models.RecurringExpenseTemplate, error)
	ListTemplates(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]*models.RecurringExpenseTemplate, error)
	UpdateTemplate(ctx context.Context, t *models.RecurringExpenseTemplate) error
	DeactivateTemplate(ctx context.Context, ownerID, id uuid.UUID) error
	HasLedgerEntry(ctx context.Context, templateID uuid.UUID, monthKey string) (bool, error)
	MaterializeTemplate(ctx context.Context, expense *models.Expense, entry *models.ProcessingLedgerEntry) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
