package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/username/tokoledger/backend/src/models"
)

// --- Products ---

func (s *sqliteStore) CreateProduct(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (sku, name, kind, price, cost, stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SKU, p.Name, string(p.Kind), p.Price, nullInt64(p.Cost), p.Stock,
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	p.ID, _ = res.LastInsertId()
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

func (s *sqliteStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, sku, name, kind, price, cost, stock, created_at, updated_at
		FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProductNotFound
	}
	return p, err
}

func (s *sqliteStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sku, name, kind, price, cost, stock, created_at, updated_at
		FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (s *sqliteStore) ListLowStockProducts(ctx context.Context, threshold int64) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sku, name, kind, price, cost, stock, created_at, updated_at
		FROM products WHERE kind = 'GOODS' AND stock <= ? ORDER BY stock ASC`, threshold)
	if err != nil {
		return nil, fmt.Errorf("listing low-stock products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	var out []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdateProduct writes name, sku, kind, price and cost. Stock is deliberately
// excluded: it only moves through AdjustProductStock.
func (s *sqliteStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET sku = ?, name = ?, kind = ?, price = ?, cost = ?, updated_at = ?
		WHERE id = ?`,
		p.SKU, p.Name, string(p.Kind), p.Price, nullInt64(p.Cost),
		time.Now().UTC().Format(timeLayout), p.ID)
	if err != nil {
		return fmt.Errorf("updating product %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

func (s *sqliteStore) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

// --- Transactions ---

const transactionColumns = `id, kind, amount, payment_method, payment_status, category, description, date, created_by, investor_id, created_at`

func scanTransaction(r rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	var kind, status, date, createdAt string
	var createdBy, investorID sql.NullInt64
	if err := r.Scan(&t.ID, &kind, &t.Amount, &t.PaymentMethod, &status, &t.Category,
		&t.Description, &date, &createdBy, &investorID, &createdAt); err != nil {
		return nil, err
	}
	t.Kind = models.TransactionKind(kind)
	t.PaymentStatus = models.PaymentStatus(status)
	t.Date = parseStoredTime(date)
	t.CreatedBy = int64Ptr(createdBy)
	t.InvestorID = int64Ptr(investorID)
	t.CreatedAt = parseStoredTime(createdAt)
	return &t, nil
}

func (s *sqliteStore) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	lines, err := s.linesForTransaction(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Lines = lines
	return t, nil
}

func (s *sqliteStore) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	var conds []string
	var args []any
	if f.Kind != nil {
		conds = append(conds, "kind = ?")
		args = append(args, string(*f.Kind))
	}
	if f.From != nil {
		conds = append(conds, "date >= ?")
		args = append(args, f.From.UTC().Format(timeLayout))
	}
	if f.To != nil {
		conds = append(conds, "date <= ?")
		args = append(args, f.To.UTC().Format(timeLayout))
	}
	if f.InvestorID != nil {
		conds = append(conds, "investor_id = ?")
		args = append(args, *f.InvestorID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if f.WithLines {
		for i := range out {
			lines, err := s.linesForTransaction(ctx, out[i].ID)
			if err != nil {
				return nil, err
			}
			out[i].Lines = lines
		}
	}
	return out, nil
}

func (s *sqliteStore) linesForTransaction(ctx context.Context, txID int64) ([]models.TransactionLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transaction_id, product_id, product_name, quantity, price_at_time, subtotal
		FROM transaction_lines WHERE transaction_id = ? ORDER BY id ASC`, txID)
	if err != nil {
		return nil, fmt.Errorf("listing lines for transaction %d: %w", txID, err)
	}
	defer rows.Close()

	var out []models.TransactionLine
	for rows.Next() {
		var l models.TransactionLine
		if err := rows.Scan(&l.ID, &l.TransactionID, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.PriceAtTime, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scanning transaction line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *sqliteStore) SumTransactionsByKind(ctx context.Context, kind models.TransactionKind, from, to *time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE kind = ?`
	args := []any{string(kind)}
	if from != nil {
		query += " AND date >= ?"
		args = append(args, from.UTC().Format(timeLayout))
	}
	if to != nil {
		query += " AND date <= ?"
		args = append(args, to.UTC().Format(timeLayout))
	}
	var sum int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("summing %s transactions: %w", kind, err)
	}
	return sum, nil
}

func (s *sqliteStore) CountTransactionsByKind(ctx context.Context, kind models.TransactionKind, from, to *time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE kind = ?`
	args := []any{string(kind)}
	if from != nil {
		query += " AND date >= ?"
		args = append(args, from.UTC().Format(timeLayout))
	}
	if to != nil {
		query += " AND date <= ?"
		args = append(args, to.UTC().Format(timeLayout))
	}
	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting %s transactions: %w", kind, err)
	}
	return count, nil
}

// DailySaleTotals aggregates SALE amounts per calendar day, ascending. Days
// with no sales produce no row.
func (s *sqliteStore) DailySaleTotals(ctx context.Context, from, to *time.Time) ([]models.DailyPoint, error) {
	query := `SELECT substr(date, 1, 10) AS day, SUM(amount) FROM transactions WHERE kind = 'SALE'`
	var args []any
	if from != nil {
		query += " AND date >= ?"
		args = append(args, from.UTC().Format(timeLayout))
	}
	if to != nil {
		query += " AND date <= ?"
		args = append(args, to.UTC().Format(timeLayout))
	}
	query += " GROUP BY day ORDER BY day ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregating daily sales: %w", err)
	}
	defer rows.Close()

	var out []models.DailyPoint
	for rows.Next() {
		var p models.DailyPoint
		if err := rows.Scan(&p.Date, &p.Total); err != nil {
			return nil, fmt.Errorf("scanning daily total: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *sqliteStore) TopSellingProducts(ctx context.Context, since *time.Time, limit int) ([]models.TopProduct, error) {
	query := `
		SELECT l.product_id, l.product_name, SUM(l.quantity), SUM(l.subtotal)
		FROM transaction_lines l
		JOIN transactions t ON t.id = l.transaction_id
		WHERE t.kind = 'SALE'`
	var args []any
	if since != nil {
		query += " AND t.date >= ?"
		args = append(args, since.UTC().Format(timeLayout))
	}
	query += " GROUP BY l.product_id, l.product_name ORDER BY SUM(l.subtotal) DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ranking top products: %w", err)
	}
	defer rows.Close()

	var out []models.TopProduct
	for rows.Next() {
		var p models.TopProduct
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Quantity, &p.Revenue); err != nil {
			return nil, fmt.Errorf("scanning top product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// --- Stock events ---

func (s *sqliteStore) ListStockEvents(ctx context.Context, productID int64) ([]models.StockEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, change, resulting_stock, kind, transaction_id, supplier_id, unit_cost, note, created_by, created_at
		FROM stock_events WHERE product_id = ? ORDER BY id ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("listing stock events for product %d: %w", productID, err)
	}
	defer rows.Close()

	var out []models.StockEvent
	for rows.Next() {
		var e models.StockEvent
		var kind, createdAt string
		var txID, supplierID, unitCost, createdBy sql.NullInt64
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Change, &e.ResultingStock, &kind,
			&txID, &supplierID, &unitCost, &e.Note, &createdBy, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning stock event: %w", err)
		}
		e.Kind = models.StockEventKind(kind)
		e.TransactionID = int64Ptr(txID)
		e.SupplierID = int64Ptr(supplierID)
		e.UnitCost = int64Ptr(unitCost)
		e.CreatedBy = int64Ptr(createdBy)
		e.CreatedAt = parseStoredTime(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// --- Investors ---

func scanInvestor(r rowScanner) (*models.Investor, error) {
	var inv models.Investor
	var userID sql.NullInt64
	var createdAt string
	if err := r.Scan(&inv.ID, &userID, &inv.Name, &inv.TotalInvestment, &inv.SharePercent, &createdAt); err != nil {
		return nil, err
	}
	inv.UserID = int64Ptr(userID)
	inv.CreatedAt = parseStoredTime(createdAt)
	return &inv, nil
}

func (s *sqliteStore) CreateInvestor(ctx context.Context, inv *models.Investor) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO investors (user_id, name, total_investment, share_percent, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		nullInt64(inv.UserID), inv.Name, inv.TotalInvestment, inv.SharePercent, now.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting investor: %w", err)
	}
	inv.ID, _ = res.LastInsertId()
	inv.CreatedAt = now
	return nil
}

func (s *sqliteStore) GetInvestor(ctx context.Context, id int64) (*models.Investor, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, total_investment, share_percent, created_at
		FROM investors WHERE id = ?`, id)
	inv, err := scanInvestor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return inv, err
}

func (s *sqliteStore) ListInvestors(ctx context.Context) ([]models.Investor, error) {
	return s.listInvestors(ctx, `SELECT id, user_id, name, total_investment, share_percent, created_at FROM investors ORDER BY id ASC`)
}

// ListEligibleInvestors returns investors with positive capital, the
// denominator set for dividend allocation.
func (s *sqliteStore) ListEligibleInvestors(ctx context.Context) ([]models.Investor, error) {
	return s.listInvestors(ctx, `SELECT id, user_id, name, total_investment, share_percent, created_at FROM investors WHERE total_investment > 0 ORDER BY id ASC`)
}

func (s *sqliteStore) listInvestors(ctx context.Context, query string) ([]models.Investor, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing investors: %w", err)
	}
	defer rows.Close()

	var out []models.Investor
	for rows.Next() {
		inv, err := scanInvestor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning investor: %w", err)
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func (s *sqliteStore) UpdateInvestor(ctx context.Context, inv *models.Investor) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE investors SET name = ?, total_investment = ?, share_percent = ? WHERE id = ?`,
		inv.Name, inv.TotalInvestment, inv.SharePercent, inv.ID)
	if err != nil {
		return fmt.Errorf("updating investor %d: %w", inv.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// --- Assets ---

func scanAsset(r rowScanner) (*models.Asset, error) {
	var a models.Asset
	var purchaseDate, createdAt string
	if err := r.Scan(&a.ID, &a.Name, &a.Category, &a.PurchasePrice, &purchaseDate, &a.UsefulLifeMonths, &createdAt); err != nil {
		return nil, err
	}
	a.PurchaseDate = parseStoredTime(purchaseDate)
	a.CreatedAt = parseStoredTime(createdAt)
	return &a, nil
}

func (s *sqliteStore) CreateAsset(ctx context.Context, a *models.Asset) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO assets (name, category, purchase_price, purchase_date, useful_life_months, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.Name, a.Category, a.PurchasePrice, a.PurchaseDate.UTC().Format(timeLayout), a.UsefulLifeMonths, now.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting asset: %w", err)
	}
	a.ID, _ = res.LastInsertId()
	a.CreatedAt = now
	return nil
}

func (s *sqliteStore) GetAsset(ctx context.Context, id int64) (*models.Asset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, purchase_price, purchase_date, useful_life_months, created_at
		FROM assets WHERE id = ?`, id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return a, err
}

func (s *sqliteStore) ListAssets(ctx context.Context) ([]models.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, purchase_price, purchase_date, useful_life_months, created_at
		FROM assets ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	defer rows.Close()

	var out []models.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// --- Recurring expenses ---

func scanRecurring(r rowScanner) (*models.RecurringExpense, error) {
	var re models.RecurringExpense
	var freq, nextDue, createdAt string
	var active int
	if err := r.Scan(&re.ID, &re.Name, &re.Amount, &re.Category, &freq, &nextDue, &active, &createdAt); err != nil {
		return nil, err
	}
	re.Frequency = models.Frequency(freq)
	re.NextDueDate = parseStoredTime(nextDue)
	re.Active = active != 0
	re.CreatedAt = parseStoredTime(createdAt)
	return &re, nil
}

func (s *sqliteStore) CreateRecurringExpense(ctx context.Context, r *models.RecurringExpense) error {
	now := time.Now().UTC()
	active := 0
	if r.Active {
		active = 1
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO recurring_expenses (name, amount, category, frequency, next_due_date, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.Amount, r.Category, string(r.Frequency), r.NextDueDate.UTC().Format(timeLayout), active, now.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting recurring expense: %w", err)
	}
	r.ID, _ = res.LastInsertId()
	r.CreatedAt = now
	return nil
}

func (s *sqliteStore) ListRecurringExpenses(ctx context.Context) ([]models.RecurringExpense, error) {
	return s.listRecurring(ctx, `
		SELECT id, name, amount, category, frequency, next_due_date, active, created_at
		FROM recurring_expenses ORDER BY id ASC`)
}

// ListDueRecurringExpenses uses the (active, next_due_date) index for the
// daily "due now" scan.
func (s *sqliteStore) ListDueRecurringExpenses(ctx context.Context, now time.Time) ([]models.RecurringExpense, error) {
	return s.listRecurring(ctx, `
		SELECT id, name, amount, category, frequency, next_due_date, active, created_at
		FROM recurring_expenses WHERE active = 1 AND next_due_date <= ? ORDER BY next_due_date ASC`,
		now.UTC().Format(timeLayout))
}

func (s *sqliteStore) listRecurring(ctx context.Context, query string, args ...any) ([]models.RecurringExpense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recurring expenses: %w", err)
	}
	defer rows.Close()

	var out []models.RecurringExpense
	for rows.Next() {
		re, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recurring expense: %w", err)
		}
		out = append(out, *re)
	}
	return out, rows.Err()
}

func (s *sqliteStore) SetRecurringExpenseActive(ctx context.Context, id int64, active bool) error {
	v := 0
	if active {
		v = 1
	}
	res, err := s.db.ExecContext(ctx, `UPDATE recurring_expenses SET active = ? WHERE id = ?`, v, id)
	if err != nil {
		return fmt.Errorf("updating recurring expense %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// --- Users and suppliers ---

func (s *sqliteStore) CreateUser(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx, `INSERT INTO users (username, role) VALUES (?, ?)`, u.Username, u.Role)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	u.ID, _ = res.LastInsertId()
	return nil
}

func (s *sqliteStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username, role FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *sqliteStore) CreateSupplier(ctx context.Context, sp *models.Supplier) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (name, contact, created_at) VALUES (?, ?, ?)`,
		sp.Name, sp.Contact, now.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting supplier: %w", err)
	}
	sp.ID, _ = res.LastInsertId()
	sp.CreatedAt = now
	return nil
}

func (s *sqliteStore) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, contact, created_at FROM suppliers ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	defer rows.Close()

	var out []models.Supplier
	for rows.Next() {
		var sp models.Supplier
		var createdAt string
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Contact, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning supplier: %w", err)
		}
		sp.CreatedAt = parseStoredTime(createdAt)
		out = append(out, sp)
	}
	return out, rows.Err()
}
