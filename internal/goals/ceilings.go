// Package goals evaluates aggregated personal spending against the configured
// per-plan-code ceilings and attaches graduated threshold alerts.
package goals

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Static configuration: intended maximum monthly spend per plan code. Not
// user-specific; a plan code without an entry has no ceiling and never alerts.
var ceilings = map[int]decimal.Decimal{
	1: decimal.NewFromInt(1000), // mercado
	2: decimal.NewFromInt(400),  // transporte
	3: decimal.NewFromInt(600),  // lazer
	4: decimal.NewFromInt(800),  // saúde
	5: decimal.NewFromInt(500),  // educação
	6: decimal.NewFromInt(350),  // assinaturas
}

// alert tiers, highest first. The first tier whose bound the percentage
// crosses wins; below 50% no alert is attached.
var tiers = []struct {
	bound     float64
	exclusive bool
	label     string
}{
	{bound: 101, exclusive: true, label: "exceeded"},
	{bound: 100, label: "reached"},
	{bound: 95, label: "95%"},
	{bound: 90, label: "90%"},
	{bound: 85, label: "85%"},
	{bound: 80, label: "80%"},
	{bound: 70, label: "70%"},
	{bound: 50, label: "50%"},
}

// CeilingStatus is the evaluation result for one plan code.
type CeilingStatus struct {
	PlanCode int
	Total    decimal.Decimal
	Ceiling  decimal.Decimal
	Percent  decimal.Decimal
	Alert    string // empty when below every tier
}

// CeilingFor returns the configured ceiling for a plan code, zero when
// unconfigured.
func CeilingFor(planCode int) decimal.Decimal {
	if c, ok := ceilings[planCode]; ok {
		return c
	}
	return decimal.Zero
}

// EvaluateCeilings compares per-plan-code totals against their ceilings.
// Results are ordered by plan code. Exactly one alert, the highest applicable
// tier, is attached per plan code; codes below 50% of their ceiling, and codes
// without a configured ceiling, carry none.
func EvaluateCeilings(totalsByPlanCode map[int]decimal.Decimal) []CeilingStatus {
	statuses := make([]CeilingStatus, 0, len(totalsByPlanCode))
	for planCode, total := range totalsByPlanCode {
		ceiling := CeilingFor(planCode)

		percent := decimal.Zero
		if ceiling.IsPositive() {
			percent = total.Div(ceiling).Mul(decimal.NewFromInt(100))
		}

		statuses = append(statuses, CeilingStatus{
			PlanCode: planCode,
			Total:    total,
			Ceiling:  ceiling,
			Percent:  percent,
			Alert:    alertFor(percent),
		})
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].PlanCode < statuses[j].PlanCode
	})
	return statuses
}

func alertFor(percent decimal.Decimal) string {
	p, _ := percent.Float64()
	for _, tier := range tiers {
		if tier.exclusive {
			if p > tier.bound {
				return tier.label
			}
			continue
		}
		if p >= tier.bound {
			return tier.label
		}
	}
	return ""
}
