package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"tokopos/internal/domain"
	"tokopos/internal/store"
	"tokopos/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the pool for migrations and health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

const productColumns = `id, name, sku, barcode, price, cost_price, stock_quantity, min_stock_level, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p        domain.Product
		barcode  sql.NullString
		cost     decimal.NullDecimal
		minLevel sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &barcode, &p.Price, &cost, &p.StockQuantity, &minLevel, &p.UpdatedAt); err != nil {
		return domain.Product{}, err
	}
	p.Barcode = barcode.String
	if cost.Valid {
		c := cost.Decimal
		p.CostPrice = &c
	}
	if minLevel.Valid {
		level := int(minLevel.Int64)
		p.MinStockLevel = &level
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) GetProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(ids))
	valid := validUUIDs(ids)
	if len(valid) == 0 {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products WHERE id::text = ANY($1)`, valid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) UpdateProductPrice(ctx context.Context, id string, price decimal.Decimal, at time.Time) (*domain.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `
		UPDATE products
		SET price = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+productColumns, id, price, at))
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) CreatePriceHistory(ctx context.Context, entry domain.ProductPriceHistory) error {
	if entry.ID == "" {
		entry.ID = xid.New()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO price_history (id, product_id, old_price, new_price, source, changed_by, changed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, entry.ID, entry.ProductID, entry.OldPrice, entry.NewPrice, entry.Source, entry.ChangedBy, entry.ChangedAt)
	if isForeignKeyViolation(err) {
		return store.ErrNotFound
	}
	return err
}

const movementColumns = `id, product_id, type, quantity, reference, notes, batch_id, user_id, created_at`

func scanMovements(rows *sql.Rows) ([]domain.StockMovement, error) {
	defer rows.Close()

	out := make([]domain.StockMovement, 0, 16)
	for rows.Next() {
		var (
			m       domain.StockMovement
			notes   sql.NullString
			batchID sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Reference, &notes, &batchID, &m.UserID, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Notes = notes.String
		m.BatchID = batchID.String
		m.CreatedAt = m.CreatedAt.UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListProductMovements(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 200
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+movementColumns+`
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, productID, limit)
	if err != nil {
		return nil, err
	}
	return scanMovements(rows)
}

func (s *Store) ListLowStockProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE min_stock_level IS NOT NULL AND stock_quantity <= min_stock_level
		ORDER BY stock_quantity ASC, name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 16)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) CreateStockAlert(ctx context.Context, alert domain.StockAlert) error {
	if alert.ID == "" {
		alert.ID = xid.New()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_alerts (id, product_id, product_name, stock_quantity, min_stock_level, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, alert.ID, alert.ProductID, alert.ProductName, alert.StockQuantity, alert.MinStockLevel, alert.CreatedAt)
	return err
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*domain.RegisteredCustomer, error) {
	var (
		c     domain.RegisteredCustomer
		phone sql.NullString
		email sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, loyalty_enabled, loyalty_points
		FROM customers
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &phone, &email, &c.LoyaltyEnabled, &c.LoyaltyPoints)
	if err != nil {
		return nil, notFound(err)
	}
	c.Phone = phone.String
	c.Email = email.String
	return &c, nil
}

func (s *Store) ListLoyaltyTransactions(ctx context.Context, customerID string, limit int) ([]domain.LoyaltyTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_id, sale_id, points, type, description, created_at
		FROM loyalty_transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, customerID, limit)
	if err != nil {
		return nil, notFound(err)
	}
	defer rows.Close()

	out := make([]domain.LoyaltyTransaction, 0, 16)
	for rows.Next() {
		var (
			entry       domain.LoyaltyTransaction
			saleID      sql.NullString
			description sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.CustomerID, &saleID, &entry.Points, &entry.Type, &description, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.SaleID = saleID.String
		entry.Description = description.String
		entry.CreatedAt = entry.CreatedAt.UTC()
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const saleColumns = `id, customer_id, customer_name, customer_phone, customer_email, subtotal, tax, total,
	payment_method, received_amount, change_amount, status, user_id, created_at, updated_at`

func scanSale(row rowScanner, extra ...any) (domain.Sale, error) {
	var (
		sale       domain.Sale
		customerID sql.NullString
		phone      sql.NullString
		email      sql.NullString
	)
	dest := []any{
		&sale.ID, &customerID, &sale.Customer.Name, &phone, &email, &sale.Subtotal, &sale.Tax, &sale.Total,
		&sale.PaymentMethod, &sale.ReceivedAmount, &sale.ChangeAmount, &sale.Status, &sale.UserID, &sale.CreatedAt, &sale.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.Sale{}, err
	}
	if customerID.Valid {
		id := customerID.String
		sale.CustomerID = &id
	}
	sale.Customer.Phone = phone.String
	sale.Customer.Email = email.String
	sale.CreatedAt = sale.CreatedAt.UTC()
	sale.UpdatedAt = sale.UpdatedAt.UTC()
	return sale, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadSale(ctx context.Context, q querier, id string, lock bool) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	sale, err := scanSale(q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT si.id, si.sale_id, si.product_id, p.name, p.sku, si.quantity, si.price, si.total
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = $1
		ORDER BY p.name, si.id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sale.Items = make([]domain.SaleItem, 0, 8)
	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName, &item.ProductSKU, &item.Quantity, &item.UnitPrice, &item.Total); err != nil {
			return nil, err
		}
		sale.Items = append(sale.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *Store) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return loadSale(ctx, s.db, id, false)
}

func (s *Store) ListSales(ctx context.Context, limit int) ([]domain.SaleSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+saleColumns+`,
			(SELECT COUNT(*) FROM sale_items si WHERE si.sale_id = sales.id)
		FROM sales
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.SaleSummary, 0, limit)
	for rows.Next() {
		var count int
		sale, err := scanSale(rows, &count)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.SaleSummary{Sale: sale, ItemsCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DailySummary(ctx context.Context, from time.Time, to time.Time) (domain.DailySummary, error) {
	summary := domain.DailySummary{Date: from.UTC().Format("2006-01-02")}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(SUM(total) FILTER (WHERE status = 'completed'), 0),
			COALESCE(SUM(tax) FILTER (WHERE status = 'completed'), 0)
		FROM sales
		WHERE created_at >= $1 AND created_at < $2
	`, from, to).Scan(&summary.SalesCount, &summary.CancelledCount, &summary.GrossTotal, &summary.TaxTotal)
	if err != nil {
		return domain.DailySummary{}, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(si.quantity), 0)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.status = 'completed' AND s.created_at >= $1 AND s.created_at < $2
	`, from, to).Scan(&summary.ItemsSold)
	if err != nil {
		return domain.DailySummary{}, err
	}
	return summary, nil
}

func (s *Store) GetBatch(ctx context.Context, id string) (*domain.StockBatch, error) {
	var (
		b        domain.StockBatch
		supplier sql.NullString
		notes    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, type, reference, supplier, notes, status, total_items, total_quantity, total_value, user_id, created_at
		FROM stock_batches
		WHERE id = $1
	`, id).Scan(&b.ID, &b.Type, &b.Reference, &supplier, &notes, &b.Status, &b.TotalItems, &b.TotalQuantity, &b.TotalValue, &b.UserID, &b.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	b.Supplier = supplier.String
	b.Notes = notes.String
	b.CreatedAt = b.CreatedAt.UTC()
	return &b, nil
}

func (s *Store) ListBatchMovements(ctx context.Context, batchID string) ([]domain.StockMovement, error) {
	if _, err := s.GetBatch(ctx, batchID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+movementColumns+`
		FROM stock_movements
		WHERE batch_id = $1
		ORDER BY created_at, id
	`, batchID)
	if err != nil {
		return nil, err
	}
	return scanMovements(rows)
}

func (s *Store) CreatePrintJob(ctx context.Context, job domain.PrintJob) error {
	if job.ID == "" {
		job.ID = xid.New()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO print_queue (id, sale_id, receipt_number, status, attempts, last_error, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, job.ID, job.SaleID, job.ReceiptNumber, job.Status, job.Attempts, nullIfEmpty(job.LastError), job.CreatedAt, job.UpdatedAt)
	switch {
	case isUniqueViolation(err):
		return store.ErrConflict
	case isForeignKeyViolation(err):
		return store.ErrNotFound
	}
	return err
}

func (s *Store) ListPrintJobs(ctx context.Context, status domain.PrintStatus, limit int) ([]domain.PrintJob, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sale_id, receipt_number, status, attempts, last_error, created_at, updated_at
		FROM print_queue
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at ASC
		LIMIT $2
	`, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.PrintJob, 0, 16)
	for rows.Next() {
		var (
			job     domain.PrintJob
			lastErr sql.NullString
		)
		if err := rows.Scan(&job.ID, &job.SaleID, &job.ReceiptNumber, &job.Status, &job.Attempts, &lastErr, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, err
		}
		job.LastError = lastErr.String
		job.CreatedAt = job.CreatedAt.UTC()
		job.UpdatedAt = job.UpdatedAt.UTC()
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdatePrintJob(ctx context.Context, job domain.PrintJob) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE print_queue
		SET status = $2, attempts = $3, last_error = $4, updated_at = $5
		WHERE id = $1
	`, job.ID, job.Status, job.Attempts, nullIfEmpty(job.LastError), job.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	return expectAffected(res)
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Role == "" {
		user.Role = "cashier"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role, active, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Username, store.ErrConflict)
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password_hash, role, active, created_at
		FROM users
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2
		WHERE username = $1
	`, strings.ToLower(strings.TrimSpace(username)), password)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// WithinTx runs fn inside a read-committed transaction. Stock is adjusted with
// relative updates and sale rows are locked explicitly, so concurrent units
// do not need serializable isolation.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	pgTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = pgTx.Rollback() }()

	if err := fn(ctx, &unit{tx: pgTx}); err != nil {
		return err
	}
	return pgTx.Commit()
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// notFound maps a missing row, or an id that is not a valid uuid, to
// store.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) || hasCode(err, "22P02") {
		return store.ErrNotFound
	}
	return err
}

func validUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if xid.Valid(id) {
			out = append(out, strings.ToLower(id))
		}
	}
	return out
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

func isUniqueViolation(err error) bool {
	return hasCode(err, "23505")
}

func isForeignKeyViolation(err error) bool {
	return hasCode(err, "23503")
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}

func nullString(val *string) any {
	if val == nil {
		return nil
	}
	return *val
}
