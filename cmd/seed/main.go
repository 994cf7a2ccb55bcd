package main

import (
	"context"
	"log"
	"time"

	"gastos-server/internal/billing"
	"gastos-server/internal/models"
	"gastos-server/internal/repository"
	"gastos-server/pkg/auth"
	"gastos-server/pkg/config"
	"gastos-server/pkg/logger"
	"gastos-server/pkg/postgres"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Seeds a demo user with a few months of expenses and two recurring
// templates. Intended for local development only.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	expenseRepo := repository.NewExpenseRepository(db, appLogger)
	recurringRepo := repository.NewRecurringRepository(db, appLogger)

	appLogger.Info("Starting database seeding...")

	now := time.Now()
	hash, err := auth.HashPassword("demo1234")
	if err != nil {
		appLogger.Fatal("Failed to hash demo password", zap.Error(err))
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         "Demo",
		Email:        "demo@example.com",
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if existing, _ := userRepo.GetByEmail(ctx, user.Email); existing != nil {
		appLogger.Info("Demo user already exists, skipping", zap.String("email", user.Email))
		return
	}
	if err := userRepo.Create(ctx, user); err != nil {
		appLogger.Fatal("Failed to create demo user", zap.Error(err))
	}

	planMercado := 1
	planLazer := 3

	expenses := []*models.Expense{
		singleExpense(user.ID, now, date(2024, 3, 18), "150.00", models.AccountOurocardKetlyn, &planMercado),
		singleExpense(user.ID, now, date(2024, 3, 22), "89.90", models.AccountNubank, &planLazer),
		singleExpense(user.ID, now, date(2024, 4, 2), "230.00", models.AccountPix, &planMercado),
	}

	// A three-installment purchase dated across a leap-year February
	drafts, err := billing.ExpandInstallments(billing.Purchase{
		TransactionDate: date(2024, 1, 31),
		Amount:          decimal.RequireFromString("100.00"),
		Count:           3,
		Description:     "Notebook",
		Account:         models.AccountOurocardKetlyn,
		AccountPlanCode: &planLazer,
	})
	if err != nil {
		appLogger.Fatal("Failed to expand seed installments", zap.Error(err))
	}
	for i := range drafts {
		e := drafts[i]
		e.ID = uuid.New()
		e.OwnerID = user.ID
		e.CreatedAt = now
		e.UpdatedAt = now
		expenses = append(expenses, &e)
	}

	if err := expenseRepo.CreateBatch(ctx, expenses); err != nil {
		appLogger.Fatal("Failed to seed expenses", zap.Error(err))
	}

	templates := []*models.RecurringExpenseTemplate{
		{
			ID:          uuid.New(),
			OwnerID:     user.ID,
			Description: "Internet",
			Amount:      decimal.RequireFromString("120.00"),
			Account:     models.AccountBoleto,
			DayOfMonth:  10,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:                uuid.New(),
			OwnerID:           user.ID,
			Description:       "Aluguel escritório",
			Amount:            decimal.RequireFromString("950.00"),
			Account:           models.AccountPix,
			IsBusinessExpense: true,
			DayOfMonth:        5,
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
	}
	for _, t := range templates {
		if err := recurringRepo.CreateTemplate(ctx, t); err != nil {
			appLogger.Fatal("Failed to seed recurring template", zap.Error(err))
		}
	}

	appLogger.Info("Database seeding completed successfully!",
		zap.Int("expenses", len(expenses)),
		zap.Int("templates", len(templates)),
	)
}

func singleExpense(ownerID uuid.UUID, now, txDate time.Time, amount string, account models.Account, planCode *int) *models.Expense {
	value := decimal.RequireFromString(amount)
	return &models.Expense{
		ID:                  uuid.New(),
		OwnerID:             ownerID,
		TransactionDate:     txDate,
		Amount:              value,
		Description:         "Seed expense",
		Account:             account,
		AccountPlanCode:     planCode,
		TotalPurchaseAmount: value,
		InstallmentNumber:   1,
		TotalInstallments:   1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
