package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/processors"
	"github.com/username/tokoledger/backend/src/store"
)

const (
	ckDashboard    = "report_dashboard"
	ckBalanceSheet = "report_balance_sheet"
	ckCashFlow     = "report_cash_flow"
	ckProfitLoss   = "report_pnl_%s_%s"

	topProductsLimit = 5
	trendDays        = 30
)

type reportServiceImpl struct {
	store             store.LedgerStore
	statements        *processors.StatementProcessor
	reportCache       *cache.Cache
	lowStockThreshold int64
}

func NewReportService(st store.LedgerStore, reportCache *cache.Cache, lowStockThreshold int64) ReportService {
	return &reportServiceImpl{
		store:             st,
		statements:        processors.NewStatementProcessor(),
		reportCache:       reportCache,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *reportServiceImpl) Invalidate() {
	if s.reportCache != nil {
		s.reportCache.Flush()
	}
}

func (s *reportServiceImpl) cacheGet(key string) (any, bool) {
	if s.reportCache == nil {
		return nil, false
	}
	return s.reportCache.Get(key)
}

func (s *reportServiceImpl) cacheSet(key string, v any) {
	if s.reportCache != nil {
		s.reportCache.Set(key, v, cache.DefaultExpiration)
	}
}

func pnlCacheKey(from, to *time.Time) string {
	f, t := "-", "-"
	if from != nil {
		f = from.UTC().Format("2006-01-02")
	}
	if to != nil {
		t = to.UTC().Format("2006-01-02")
	}
	return fmt.Sprintf(ckProfitLoss, f, t)
}

func (s *reportServiceImpl) ProfitLoss(ctx context.Context, from, to *time.Time) (*models.ProfitLossStatement, error) {
	key := pnlCacheKey(from, to)
	if cached, found := s.cacheGet(key); found {
		return cached.(*models.ProfitLossStatement), nil
	}

	txs, err := s.store.ListTransactions(ctx, store.TransactionFilter{From: from, To: to, WithLines: true})
	if err != nil {
		return nil, err
	}
	productList, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	products := make(map[int64]models.Product, len(productList))
	for _, p := range productList {
		products[p.ID] = p
	}

	st := s.statements.ProfitLoss(txs, products)
	st.PeriodStart, st.PeriodEnd = from, to
	s.cacheSet(key, &st)
	return &st, nil
}

func (s *reportServiceImpl) CashFlow(ctx context.Context) (*models.CashFlowStatement, error) {
	if cached, found := s.cacheGet(ckCashFlow); found {
		return cached.(*models.CashFlowStatement), nil
	}

	// Cash flow is cumulative from inception, so the full transaction set is
	// always scanned.
	txs, err := s.store.ListTransactions(ctx, store.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	st := s.statements.CashFlow(txs)
	s.cacheSet(ckCashFlow, &st)
	return &st, nil
}

func (s *reportServiceImpl) BalanceSheet(ctx context.Context) (*models.BalanceSheet, error) {
	if cached, found := s.cacheGet(ckBalanceSheet); found {
		return cached.(*models.BalanceSheet), nil
	}

	txs, err := s.store.ListTransactions(ctx, store.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	assets, err := s.store.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	investors, err := s.store.ListInvestors(ctx)
	if err != nil {
		return nil, err
	}

	st := s.statements.BalanceSheet(txs, products, assets, investors, time.Now().UTC())
	s.cacheSet(ckBalanceSheet, &st)
	return &st, nil
}

func (s *reportServiceImpl) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	if cached, found := s.cacheGet(ckDashboard); found {
		return cached.(*models.DashboardSummary), nil
	}

	now := time.Now().UTC()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	startOfPrevMonth := startOfMonth.AddDate(0, -1, 0)
	endOfPrevMonth := startOfMonth.Add(-time.Nanosecond)

	summary := &models.DashboardSummary{}

	var err error
	if summary.TodaySales, err = s.store.SumTransactionsByKind(ctx, models.KindSale, &startOfToday, nil); err != nil {
		return nil, err
	}
	if summary.MonthRevenue, err = s.store.SumTransactionsByKind(ctx, models.KindSale, &startOfMonth, nil); err != nil {
		return nil, err
	}
	if summary.MonthExpenses, err = s.store.SumTransactionsByKind(ctx, models.KindExpense, &startOfMonth, nil); err != nil {
		return nil, err
	}

	prevRevenue, err := s.store.SumTransactionsByKind(ctx, models.KindSale, &startOfPrevMonth, &endOfPrevMonth)
	if err != nil {
		return nil, err
	}
	// A zero baseline with any current revenue reads as 100% growth rather
	// than dividing by zero.
	switch {
	case prevRevenue > 0:
		summary.RevenueGrowthPct = float64(summary.MonthRevenue-prevRevenue) / float64(prevRevenue) * 100
	case summary.MonthRevenue > 0:
		summary.RevenueGrowthPct = 100
	}

	saleCount, err := s.store.CountTransactionsByKind(ctx, models.KindSale, &startOfMonth, nil)
	if err != nil {
		return nil, err
	}
	if saleCount > 0 {
		summary.AverageOrderValue = summary.MonthRevenue / saleCount
	}

	if summary.TopProducts, err = s.store.TopSellingProducts(ctx, nil, topProductsLimit); err != nil {
		return nil, err
	}

	lowStock, err := s.store.ListLowStockProducts(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	for _, p := range lowStock {
		summary.LowStock = append(summary.LowStock, models.LowStockAlert{
			ProductID: p.ID, Name: p.Name, SKU: p.SKU, Stock: p.Stock,
		})
	}

	trendStart := startOfToday.AddDate(0, 0, -trendDays+1)
	if summary.DailyTrend, err = s.store.DailySaleTotals(ctx, &trendStart, nil); err != nil {
		return nil, err
	}

	s.cacheSet(ckDashboard, summary)
	return summary, nil
}
