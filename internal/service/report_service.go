package service

import (
	"bytes"
	"context"
	"fmt"

	"gastos-server/internal/models"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// ReportService renders a monthly expense report as a PDF: the dashboard
// summary followed by the expense listing for the period.
type ReportService struct {
	expenses  *ExpenseService
	dashboard *DashboardService
	logger    *zap.Logger
}

func NewReportService(expenses *ExpenseService, dashboard *DashboardService, logger *zap.Logger) *ReportService {
	return &ReportService{
		expenses:  expenses,
		dashboard: dashboard,
		logger:    logger,
	}
}

// MonthlyReport builds the PDF and returns its bytes plus a file name.
func (s *ReportService) MonthlyReport(ctx context.Context, ownerID uuid.UUID, year, month int, account *models.Account) ([]byte, string, error) {
	summary, err := s.dashboard.GetSummary(ctx, ownerID, year, month, account)
	if err != nil {
		return nil, "", err
	}
	listing, err := s.expenses.List(ctx, ownerID, year, month, account)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Expense Report", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Expense Report %04d-%02d", year, month))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", summary.Period.Start, summary.Period.End))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s    Next month already posted: %s", summary.Total, summary.NextMonthProjection))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "By account")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 9)
	for _, at := range summary.ByAccount {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %s (personal %s / business %s)", at.Account, at.Total, at.Personal, at.Business))
		pdf.Ln(5)
	}

	if len(summary.ByPlanCode) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 8, "Plan codes")
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 9)
		for _, pc := range summary.ByPlanCode {
			line := fmt.Sprintf("Plan %d: %s of %s (%.1f%%)", pc.PlanCode, pc.Total, pc.Ceiling, pc.Percent)
			if pc.Alert != "" {
				line += "  [" + pc.Alert + "]"
			}
			pdf.Cell(0, 6, line)
			pdf.Ln(5)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "Expenses")
	pdf.Ln(7)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(24, 6, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(86, 6, "Description", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 6, "Account", "1", 0, "", false, 0, "")
	pdf.CellFormat(24, 6, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, e := range listing.Expenses {
		pdf.CellFormat(24, 6, e.TransactionDate, "1", 0, "", false, 0, "")
		pdf.CellFormat(86, 6, e.Description, "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 6, e.Account, "1", 0, "", false, 0, "")
		pdf.CellFormat(24, 6, e.Amount, "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render report: %w", err)
	}

	fileName := fmt.Sprintf("expense-report-%04d-%02d.pdf", year, month)
	return buf.Bytes(), fileName, nil
}
