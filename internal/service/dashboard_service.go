package service

import (
	"context"
	"fmt"

	"gastos-server/internal/billing"
	"gastos-server/internal/cache"
	"gastos-server/internal/dto"
	"gastos-server/internal/goals"
	"gastos-server/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type DashboardService struct {
	store  ExpenseStore
	cache  *cache.Cache
	logger *zap.Logger
}

func NewDashboardService(store ExpenseStore, cache *cache.Cache, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// GetSummary reduces the owner's expense rows for the period into the
// dashboard aggregates: daily totals over the billing window, per-account and
// personal/business splits, per-plan-code totals with ceiling alerts, and the
// next-month projection (spend already posted for the following month, which
// pre-dated installments routinely produce). A period without any rows yields
// all-zero aggregates.
func (s *DashboardService) GetSummary(ctx context.Context, ownerID uuid.UUID, year, month int, account *models.Account) (*dto.DashboardResponse, error) {
	key := summaryCacheKey(ownerID, year, month, account)
	if cached, ok := s.cache.Get(key); ok {
		if resp, ok := cached.(*dto.DashboardResponse); ok {
			return resp, nil
		}
	}

	window, err := resolveQueryWindow(year, month, account)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListWindow(ctx, ownerID, window.Start, window.End, account)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	projection, err := s.nextMonthProjection(ctx, ownerID, year, month, account)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Period: dto.PeriodResponse{
			Start: window.Start.Format(dateLayout),
			End:   window.End.Format(dateLayout),
		},
		Total:               sumAmounts(rows).StringFixed(2),
		DailyTotals:         dailyTotals(window, rows),
		ByAccount:           accountTotals(rows),
		ByPlanCode:          planCodeStatuses(rows),
		NextMonthProjection: projection.StringFixed(2),
	}

	s.cache.Set(ownerID.String(), key, resp)
	return resp, nil
}

// nextMonthProjection sums what has already posted for the calendar month
// after the query month. Not a forecast.
func (s *DashboardService) nextMonthProjection(ctx context.Context, ownerID uuid.UUID, year, month int, account *models.Account) (decimal.Decimal, error) {
	nextYear, nextMonth := billing.NextMonth(year, month)
	window, err := resolveQueryWindow(nextYear, nextMonth, account)
	if err != nil {
		return decimal.Zero, err
	}

	rows, err := s.store.ListWindow(ctx, ownerID, window.Start, window.End, account)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch next-month expenses: %w", err)
	}
	return sumAmounts(rows), nil
}

func sumAmounts(rows []*models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range rows {
		total = total.Add(e.Amount)
	}
	return total
}

// dailyTotals emits one entry per day of the window, zero-filled for days
// with no spend.
func dailyTotals(window billing.Window, rows []*models.Expense) []dto.DayTotal {
	byDate := make(map[string]decimal.Decimal)
	for _, e := range rows {
		key := e.TransactionDate.Format(dateLayout)
		byDate[key] = byDate[key].Add(e.Amount)
	}

	totals := make([]dto.DayTotal, 0, window.Days())
	for d := window.Start; !d.After(window.End); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		totals = append(totals, dto.DayTotal{
			Date:  key,
			Total: byDate[key].StringFixed(2),
		})
	}
	return totals
}

// accountTotals splits each account's spend into personal and business.
// Accounts appear in the configured order; accounts with no rows are omitted.
func accountTotals(rows []*models.Expense) []dto.AccountTotal {
	type split struct {
		total, personal, business decimal.Decimal
	}
	byAccount := make(map[models.Account]*split)
	for _, e := range rows {
		sp, ok := byAccount[e.Account]
		if !ok {
			sp = &split{}
			byAccount[e.Account] = sp
		}
		sp.total = sp.total.Add(e.Amount)
		if e.IsBusinessExpense {
			sp.business = sp.business.Add(e.Amount)
		} else {
			sp.personal = sp.personal.Add(e.Amount)
		}
	}

	totals := make([]dto.AccountTotal, 0, len(byAccount))
	for _, account := range billing.KnownAccounts() {
		sp, ok := byAccount[account]
		if !ok {
			continue
		}
		totals = append(totals, dto.AccountTotal{
			Account:  string(account),
			Total:    sp.total.StringFixed(2),
			Personal: sp.personal.StringFixed(2),
			Business: sp.business.StringFixed(2),
		})
	}
	return totals
}

// planCodeStatuses aggregates personal spend per plan code and layers the
// ceiling evaluation on top. Business rows never carry a plan code and are
// excluded.
func planCodeStatuses(rows []*models.Expense) []dto.PlanCodeStatus {
	totals := make(map[int]decimal.Decimal)
	for _, e := range rows {
		if e.IsBusinessExpense || e.AccountPlanCode == nil {
			continue
		}
		code := *e.AccountPlanCode
		totals[code] = totals[code].Add(e.Amount)
	}

	statuses := goals.EvaluateCeilings(totals)
	out := make([]dto.PlanCodeStatus, 0, len(statuses))
	for _, st := range statuses {
		percent, _ := st.Percent.Round(2).Float64()
		out = append(out, dto.PlanCodeStatus{
			PlanCode: st.PlanCode,
			Total:    st.Total.StringFixed(2),
			Ceiling:  st.Ceiling.StringFixed(2),
			Percent:  percent,
			Alert:    st.Alert,
		})
	}
	return out
}

func summaryCacheKey(ownerID uuid.UUID, year, month int, account *models.Account) string {
	acc := ""
	if account != nil {
		acc = string(*account)
	}
	return fmt.Sprintf("dashboard:%s:%04d-%02d:%s", ownerID, year, month, acc)
}
