package models

import "time"

// ProfitLossStatement is the derived P&L view. Amounts are minor units;
// margins are percentages.
type ProfitLossStatement struct {
	PeriodStart        *time.Time       `json:"period_start,omitempty"`
	PeriodEnd          *time.Time       `json:"period_end,omitempty"`
	Revenue            int64            `json:"revenue"`
	COGS               int64            `json:"cogs"`
	GrossProfit        int64            `json:"gross_profit"`
	GrossMarginPercent float64          `json:"gross_margin_percent"`
	ExpensesByCategory []CategoryAmount `json:"expenses_by_category"`
	TotalExpenses      int64            `json:"total_expenses"`
	OperatingIncome    int64            `json:"operating_income"`
	NetProfit          int64            `json:"net_profit"`
}

// CategoryAmount is one expense bucket in the P&L.
type CategoryAmount struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// CashFlowStatement is the direct-method cash flow view, cumulative from
// inception (starting cash is assumed zero).
type CashFlowStatement struct {
	OperatingInflow  int64 `json:"operating_inflow"`
	OperatingOutflow int64 `json:"operating_outflow"`
	OperatingNet     int64 `json:"operating_net"`
	InvestingOutflow int64 `json:"investing_outflow"`
	InvestingNet     int64 `json:"investing_net"`
	FinancingInflow  int64 `json:"financing_inflow"`
	FinancingOutflow int64 `json:"financing_outflow"`
	FinancingNet     int64 `json:"financing_net"`
	NetCashFlow      int64 `json:"net_cash_flow"`
	EndingCash       int64 `json:"ending_cash"`
}

// BalanceSheet always balances by construction: retained earnings is the
// plug figure totalAssets - liabilities - capital.
type BalanceSheet struct {
	Cash             int64 `json:"cash"`
	InventoryValue   int64 `json:"inventory_value"`
	FixedAssets      int64 `json:"fixed_assets"`
	TotalAssets      int64 `json:"total_assets"`
	TotalLiabilities int64 `json:"total_liabilities"`
	Capital          int64 `json:"capital"`
	RetainedEarnings int64 `json:"retained_earnings"`
	TotalEquity      int64 `json:"total_equity"`
}

// DashboardSummary is the landing-page aggregate.
type DashboardSummary struct {
	TodaySales        int64           `json:"today_sales"`
	MonthRevenue      int64           `json:"month_revenue"`
	MonthExpenses     int64           `json:"month_expenses"`
	RevenueGrowthPct  float64         `json:"revenue_growth_pct"` // month over month
	AverageOrderValue int64           `json:"average_order_value"`
	TopProducts       []TopProduct    `json:"top_products"`
	LowStock          []LowStockAlert `json:"low_stock"`
	DailyTrend        []DailyPoint    `json:"daily_trend"` // last 30 days, display only
}

// TopProduct ranks products by summed sale revenue.
type TopProduct struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	Revenue     int64  `json:"revenue"`
}

// LowStockAlert flags a GOODS product at or below the reorder threshold.
type LowStockAlert struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Stock     int64  `json:"stock"`
}

// DailyPoint is one day of aggregated sales.
type DailyPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Total int64  `json:"total"`
}

// ForecastResult is the linear-regression revenue projection.
type ForecastResult struct {
	Trend           string          `json:"trend"` // "Upward" or "Downward"
	Slope           float64         `json:"slope"`
	Intercept       float64         `json:"intercept"`
	DailyGrowthRate float64         `json:"daily_growth_rate"`
	Series          []ForecastPoint `json:"series"`
}

// ForecastPoint is one projected day. Projected values are clamped at zero.
type ForecastPoint struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Projected int64  `json:"projected"`
}

// DividendAllocation is one investor's slice of a distribution.
type DividendAllocation struct {
	InvestorID    int64   `json:"investor_id"`
	InvestorName  string  `json:"investor_name"`
	SharePercent  float64 `json:"share_percent"` // rounded for display
	Payout        int64   `json:"payout"`
	TransactionID int64   `json:"transaction_id"`
}

// DividendDistributionResult reports a completed (or no-op) distribution.
// An empty Allocations list with zero totals is the valid no-eligible-investors
// outcome, not an error.
type DividendDistributionResult struct {
	TotalDistributed int64                `json:"total_distributed"`
	TotalCapitalBase int64                `json:"total_capital_base"`
	Allocations      []DividendAllocation `json:"allocations"`
}

// AssetWithValue is an asset plus its recomputed book value.
type AssetWithValue struct {
	Asset
	CurrentValue      int64 `json:"current_value"`
	TotalDepreciation int64 `json:"total_depreciation"`
}
