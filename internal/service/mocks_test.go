package service

import (
	"context"
	"time"

	"gastos-server/internal/models"
	"gastos-server/internal/repository"

	"github.com/google/uuid"
)

// In-memory stand-ins for the pgx repositories. Behavior overrides hang off
// func fields; the defaults act like an empty database.

type fakeExpenseStore struct {
	expenses []*models.Expense

	createBatchFunc func(ctx context.Context, expenses []*models.Expense) error
	listWindowFunc  func(ctx context.Context, ownerID uuid.UUID, start, end time.Time, account *models.Account) ([]*models.Expense, error)
}

func (f *fakeExpenseStore) CreateBatch(ctx context.Context, expenses []*models.Expense) error {
	if f.createBatchFunc != nil {
		return f.createBatchFunc(ctx, expenses)
	}
	f.expenses = append(f.expenses, expenses...)
	return nil
}

func (f *fakeExpenseStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Expense, error) {
	for _, e := range f.expenses {
		if e.ID == id && e.OwnerID == ownerID {
			return e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExpenseStore) ListWindow(ctx context.Context, ownerID uuid.UUID, start, end time.Time, account *models.Account) ([]*models.Expense, error) {
	if f.listWindowFunc != nil {
		return f.listWindowFunc(ctx, ownerID, start, end, account)
	}
	var out []*models.Expense
	for _, e := range f.expenses {
		if e.OwnerID != ownerID {
			continue
		}
		if e.TransactionDate.Before(start) || e.TransactionDate.After(end) {
			continue
		}
		if account != nil && e.Account != *account {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeExpenseStore) Update(ctx context.Context, e *models.Expense) error {
	for i, existing := range f.expenses {
		if existing.ID == e.ID && existing.OwnerID == e.OwnerID {
			f.expenses[i] = e
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeExpenseStore) SetInvoice(ctx context.Context, ownerID, id uuid.UUID, invoicePath string) error {
	e, err := f.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	e.HasInvoice = true
	e.InvoicePath = invoicePath
	return nil
}

func (f *fakeExpenseStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	for i, e := range f.expenses {
		if e.ID == id && e.OwnerID == ownerID {
			f.expenses = append(f.expenses[:i], f.expenses[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeRecurringStore struct {
	templates []*models.RecurringExpenseTemplate
	ledger    map[string]uuid.UUID // templateID+monthKey -> expense id
	created   []*models.Expense

	materializeFunc func(ctx context.Context, expense *models.Expense, entry *models.ProcessingLedgerEntry) error
}

func newFakeRecurringStore() *fakeRecurringStore {
	return &fakeRecurringStore{ledger: make(map[string]uuid.UUID)}
}

func ledgerKey(templateID uuid.UUID, monthKey string) string {
	return templateID.String() + "|" + monthKey
}

func (f *fakeRecurringStore) CreateTemplate(ctx context.Context, t *models.RecurringExpenseTemplate) error {
	f.templates = append(f.templates, t)
	return nil
}

func (f *fakeRecurringStore) GetTemplateByID(ctx context.Context, ownerID, id uuid.UUID) (*models.RecurringExpenseTemplate, error) {
	for _, t := range f.templates {
		if t.ID == id && t.OwnerID == ownerID {
			return t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRecurringStore) ListTemplates(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]*models.RecurringExpenseTemplate, error) {
	var out []*models.RecurringExpenseTemplate
	for _, t := range f.templates {
		if t.OwnerID != ownerID {
			continue
		}
		if !includeInactive && !t.IsActive {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeRecurringStore) UpdateTemplate(ctx context.Context, t *models.RecurringExpenseTemplate) error {
	for i, existing := range f.templates {
		if existing.ID == t.ID && existing.OwnerID == t.OwnerID {
			f.templates[i] = t
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeRecurringStore) DeactivateTemplate(ctx context.Context, ownerID, id uuid.UUID) error {
	for _, t := range f.templates {
		if t.ID == id && t.OwnerID == ownerID {
			t.IsActive = false
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeRecurringStore) HasLedgerEntry(ctx context.Context, templateID uuid.UUID, monthKey string) (bool, error) {
	_, ok := f.ledger[ledgerKey(templateID, monthKey)]
	return ok, nil
}

func (f *fakeRecurringStore) MaterializeTemplate(ctx context.Context, expense *models.Expense, entry *models.ProcessingLedgerEntry) error {
	if f.materializeFunc != nil {
		return f.materializeFunc(ctx, expense, entry)
	}
	key := ledgerKey(entry.RecurringTemplateID, entry.ProcessedMonth)
	if _, exists := f.ledger[key]; exists {
		return repository.ErrAlreadyProcessed
	}
	f.ledger[key] = expense.ID
	f.created = append(f.created, expense)
	return nil
}

type fakeUserStore struct {
	users []*models.User
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}
