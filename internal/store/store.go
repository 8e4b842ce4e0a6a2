package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"tokopos/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

//go:generate mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks

type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
	UpdateProductPrice(ctx context.Context, id string, price decimal.Decimal, at time.Time) (*domain.Product, error)
	CreatePriceHistory(ctx context.Context, entry domain.ProductPriceHistory) error
	ListProductMovements(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error)
	ListLowStockProducts(ctx context.Context) ([]domain.Product, error)
	CreateStockAlert(ctx context.Context, alert domain.StockAlert) error

	GetCustomer(ctx context.Context, id string) (*domain.RegisteredCustomer, error)
	ListLoyaltyTransactions(ctx context.Context, customerID string, limit int) ([]domain.LoyaltyTransaction, error)

	GetSale(ctx context.Context, id string) (*domain.Sale, error)
	ListSales(ctx context.Context, limit int) ([]domain.SaleSummary, error)
	DailySummary(ctx context.Context, from time.Time, to time.Time) (domain.DailySummary, error)

	GetBatch(ctx context.Context, id string) (*domain.StockBatch, error)
	ListBatchMovements(ctx context.Context, batchID string) ([]domain.StockMovement, error)

	CreatePrintJob(ctx context.Context, job domain.PrintJob) error
	ListPrintJobs(ctx context.Context, status domain.PrintStatus, limit int) ([]domain.PrintJob, error)
	UpdatePrintJob(ctx context.Context, job domain.PrintJob) error

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error

	// WithinTx runs fn as one atomic unit. Returning an error from fn rolls
	// back every write made through tx.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the write surface of one unit of work. A failed peripheral write
// (PostStockMovement, AddLoyaltyPoints, InsertLoyaltyTransaction) leaves the
// unit usable so the caller may log it and carry on.
type Tx interface {
	InsertSale(ctx context.Context, sale domain.Sale) error
	InsertSaleItems(ctx context.Context, items []domain.SaleItem) error
	LockSale(ctx context.Context, id string) (*domain.Sale, error)
	UpdateSaleStatus(ctx context.Context, id string, status domain.SaleStatus, at time.Time) error
	UpdateSaleItem(ctx context.Context, item domain.SaleItem) error
	DeleteSaleItem(ctx context.Context, itemID string) error
	UpdateSaleTotals(ctx context.Context, id string, subtotal decimal.Decimal, tax decimal.Decimal, total decimal.Decimal, at time.Time) error

	// PostStockMovement appends movement and applies its delta to the product's
	// stock quantity.
	PostStockMovement(ctx context.Context, movement domain.StockMovement) error
	AddLoyaltyPoints(ctx context.Context, customerID string, points int64) error
	InsertLoyaltyTransaction(ctx context.Context, entry domain.LoyaltyTransaction) error

	InsertBatch(ctx context.Context, batch domain.StockBatch) error
	LockProduct(ctx context.Context, id string) (*domain.Product, error)
	ProductMovements(ctx context.Context, productID string) ([]domain.StockMovement, error)
	SetStockQuantity(ctx context.Context, productID string, qty int) error
}
