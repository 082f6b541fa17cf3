package store

import (
	"context"
	"time"

	"github.com/username/tokoledger/backend/src/models"
)

// TransactionFilter narrows ListTransactions. Nil fields are ignored.
type TransactionFilter struct {
	Kind       *models.TransactionKind
	From       *time.Time
	To         *time.Time
	InvestorID *int64
	WithLines  bool
}

// LedgerStore is the persistence boundary of the ledger core. Every method is
// safe for concurrent use; multi-write invariants are guarded by RunAtomic.
type LedgerStore interface {
	// RunAtomic executes fn inside one all-or-nothing unit. Validation errors
	// returned by fn abort the unit and are surfaced unchanged; store-level
	// failures are retried once before surfacing models.ErrAtomicWriteFailed.
	RunAtomic(ctx context.Context, fn func(tx *AtomicTx) error) error

	// Products
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ListLowStockProducts(ctx context.Context, threshold int64) ([]models.Product, error)

	// Transactions (read side; writes go through RunAtomic)
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error)
	SumTransactionsByKind(ctx context.Context, kind models.TransactionKind, from, to *time.Time) (int64, error)
	CountTransactionsByKind(ctx context.Context, kind models.TransactionKind, from, to *time.Time) (int64, error)
	DailySaleTotals(ctx context.Context, from, to *time.Time) ([]models.DailyPoint, error)
	TopSellingProducts(ctx context.Context, since *time.Time, limit int) ([]models.TopProduct, error)

	// Stock events
	ListStockEvents(ctx context.Context, productID int64) ([]models.StockEvent, error)

	// Investors
	CreateInvestor(ctx context.Context, inv *models.Investor) error
	GetInvestor(ctx context.Context, id int64) (*models.Investor, error)
	ListInvestors(ctx context.Context) ([]models.Investor, error)
	ListEligibleInvestors(ctx context.Context) ([]models.Investor, error)
	UpdateInvestor(ctx context.Context, inv *models.Investor) error

	// Assets
	CreateAsset(ctx context.Context, a *models.Asset) error
	GetAsset(ctx context.Context, id int64) (*models.Asset, error)
	ListAssets(ctx context.Context) ([]models.Asset, error)

	// Recurring expenses
	CreateRecurringExpense(ctx context.Context, r *models.RecurringExpense) error
	ListRecurringExpenses(ctx context.Context) ([]models.RecurringExpense, error)
	ListDueRecurringExpenses(ctx context.Context, now time.Time) ([]models.RecurringExpense, error)
	SetRecurringExpenseActive(ctx context.Context, id int64, active bool) error

	// Users and suppliers (thin actor/reference records)
	CreateUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateSupplier(ctx context.Context, s *models.Supplier) error
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)

	Close() error
}
