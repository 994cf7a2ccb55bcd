package dto

type DayTotal struct {
	Date  string `json:"date"`
	Total string `json:"total"`
}

type AccountTotal struct {
	Account  string `json:"account"`
	Total    string `json:"total"`
	Personal string `json:"personal"`
	Business string `json:"business"`
}

type PlanCodeStatus struct {
	PlanCode int     `json:"plan_code"`
	Total    string  `json:"total"`
	Ceiling  string  `json:"ceiling"`
	Percent  float64 `json:"percent"`
	Alert    string  `json:"alert,omitempty"`
}

type DashboardResponse struct {
	Period              PeriodResponse   `json:"period"`
	Total               string           `json:"total"`
	DailyTotals         []DayTotal       `json:"daily_totals"`
	ByAccount           []AccountTotal   `json:"by_account"`
	ByPlanCode          []PlanCodeStatus `json:"by_plan_code"`
	NextMonthProjection string           `json:"next_month_projection"`
}
