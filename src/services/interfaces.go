package services

import (
	"context"
	"time"

	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/store"
)

// SaleLine is one requested checkout line. The unit price is never
// client-supplied; it is snapshotted from the product inside the atomic unit.
type SaleLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// SaleInput is the checkout request.
type SaleInput struct {
	Lines          []SaleLine `json:"lines"`
	PaymentMethod  string     `json:"payment_method"`
	TaxRatePercent float64    `json:"tax_rate_percent"`
	AdminFee       int64      `json:"admin_fee"`
	ActorID        *int64     `json:"actor_id,omitempty"`
}

// ExpenseInput records a one-off operating expense.
type ExpenseInput struct {
	Category      string `json:"category"`
	Amount        int64  `json:"amount"`
	Description   string `json:"description"`
	PaymentMethod string `json:"payment_method"`
	Unpaid        bool   `json:"unpaid"`
	ActorID       *int64 `json:"actor_id,omitempty"`
}

// CapitalInput records investor capital moving in or out.
type CapitalInput struct {
	InvestorID  int64  `json:"investor_id"`
	Amount      int64  `json:"amount"`
	Withdrawal  bool   `json:"withdrawal"` // false = CAPITAL_IN, true = CAPITAL_OUT
	Description string `json:"description"`
	ActorID     *int64 `json:"actor_id,omitempty"`
}

// AssetPurchaseInput registers a fixed asset together with its purchase
// transaction.
type AssetPurchaseInput struct {
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	PurchasePrice    int64     `json:"purchase_price"`
	PurchaseDate     time.Time `json:"purchase_date"`
	UsefulLifeMonths int64     `json:"useful_life_months"`
	PaymentMethod    string    `json:"payment_method"`
	ActorID          *int64    `json:"actor_id,omitempty"`
}

// RestockInput adds stock for a GOODS product.
type RestockInput struct {
	ProductID  int64  `json:"product_id"`
	Quantity   int64  `json:"quantity"`
	SupplierID *int64 `json:"supplier_id,omitempty"`
	UnitCost   *int64 `json:"unit_cost,omitempty"`
	Note       string `json:"note"`
	ActorID    *int64 `json:"actor_id,omitempty"`
}

// LedgerService validates and commits ledger transactions.
type LedgerService interface {
	RecordSale(ctx context.Context, in SaleInput) (*models.Transaction, error)
	RecordExpense(ctx context.Context, in ExpenseInput) (*models.Transaction, error)
	RecordCapital(ctx context.Context, in CapitalInput) (*models.Transaction, error)
	RecordAssetPurchase(ctx context.Context, in AssetPurchaseInput) (*models.Asset, *models.Transaction, error)
	ListTransactions(ctx context.Context, f store.TransactionFilter) ([]models.Transaction, error)
}

// StockService maintains product stock levels and the movement log.
type StockService interface {
	Restock(ctx context.Context, in RestockInput) (*models.StockEvent, error)
	Movements(ctx context.Context, productID int64) ([]models.StockEvent, error)

	// ApplySaleDecrement runs inside the caller's atomic unit so that the
	// stock change and the caller's transaction commit or fail together.
	// SERVICE products are exempt: no check, no event, nil result.
	ApplySaleDecrement(ctx context.Context, atx *store.AtomicTx, product *models.Product, quantity int64, transactionID int64, actorID *int64) (*models.StockEvent, error)
}

// ReportService derives financial statements and the dashboard summary.
type ReportService interface {
	ProfitLoss(ctx context.Context, from, to *time.Time) (*models.ProfitLossStatement, error)
	CashFlow(ctx context.Context) (*models.CashFlowStatement, error)
	BalanceSheet(ctx context.Context) (*models.BalanceSheet, error)
	Dashboard(ctx context.Context) (*models.DashboardSummary, error)
	Invalidate()
}

// ForecastService projects near-term revenue.
type ForecastService interface {
	Forecast(ctx context.Context, daysToPredict int) (*models.ForecastResult, error)
}

// DividendService allocates a profit pool across investors.
type DividendService interface {
	Distribute(ctx context.Context, totalAmount int64, actorID *int64) (*models.DividendDistributionResult, error)
}

// AssetService exposes fixed assets with recomputed book values.
type AssetService interface {
	ListWithValue(ctx context.Context, asOf time.Time) ([]models.AssetWithValue, error)
}
