package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tokopos/internal/domain"
	"tokopos/internal/logger"
	"tokopos/internal/store"
	"tokopos/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// ReceiptQueue accepts sales whose receipts should be printed.
type ReceiptQueue interface {
	Enqueue(ctx context.Context, sale domain.Sale) (*domain.PrintJob, error)
}

type Options struct {
	// Timeout bounds each service call. Zero disables the bound.
	Timeout time.Duration
	// Printer receives completed sales when AutoPrint is set.
	Printer   ReceiptQueue
	AutoPrint bool
	Now       func() time.Time
}

type Service struct {
	repo      store.Repository
	logger    *zap.Logger
	timeout   time.Duration
	printer   ReceiptQueue
	autoPrint bool
	now       func() time.Time

	editMu sync.Mutex
	edits  map[string]*EditSession
}

func New(repo store.Repository, log *zap.Logger, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		repo:      repo,
		logger:    logger.OrNop(log).Named("service"),
		timeout:   opts.Timeout,
		printer:   opts.Printer,
		autoPrint: opts.AutoPrint,
		now:       opts.Now,
		edits:     make(map[string]*EditSession),
	}
}

// SetPrinter attaches the receipt queue after construction; the queue itself
// renders receipts through the service.
func (s *Service) SetPrinter(printer ReceiptQueue, autoPrint bool) {
	s.printer = printer
	s.autoPrint = autoPrint
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func requireActor(ctx context.Context) (domain.Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || strings.TrimSpace(actor.Username) == "" {
		return domain.Actor{}, domain.ErrUnauthenticated
	}
	return actor, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) ListProductMovements(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListProductMovements(ctx, productID, limit)
}

// SetCatalogPrice changes a product's list price and records the change.
// A failed history write is logged; the price change stands.
func (s *Service) SetCatalogPrice(ctx context.Context, productID string, price decimal.Decimal, source string) (*domain.Product, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, domain.Invalid("price", "must not be negative")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	existing, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if existing.Price.Equal(price) {
		return existing, nil
	}

	now := s.now()
	updated, err := s.repo.UpdateProductPrice(ctx, productID, price, now)
	if err != nil {
		return nil, domain.Persist("update product price", err)
	}

	if err := s.repo.CreatePriceHistory(ctx, domain.ProductPriceHistory{
		ID:        xid.New(),
		ProductID: productID,
		OldPrice:  existing.Price,
		NewPrice:  price,
		Source:    source,
		ChangedBy: actor.Username,
		ChangedAt: now,
	}); err != nil {
		s.logger.Warn("failed to record price history", zap.String("product_id", productID), zap.Error(err))
	}
	return updated, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*domain.RegisteredCustomer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.GetCustomer(ctx, id)
}

type LoyaltyHistory struct {
	Customer     domain.RegisteredCustomer   `json:"customer"`
	Transactions []domain.LoyaltyTransaction `json:"transactions"`
}

func (s *Service) CustomerLoyalty(ctx context.Context, customerID string, limit int) (LoyaltyHistory, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	customer, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		return LoyaltyHistory{}, err
	}
	entries, err := s.repo.ListLoyaltyTransactions(ctx, customerID, limit)
	if err != nil {
		return LoyaltyHistory{}, err
	}
	return LoyaltyHistory{Customer: *customer, Transactions: entries}, nil
}

func (s *Service) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.GetSale(ctx, id)
}

func (s *Service) ListSales(ctx context.Context, limit int) ([]domain.SaleSummary, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListSales(ctx, limit)
}

// DailySummary reports the UTC day given as YYYY-MM-DD, or today when date
// is empty.
func (s *Service) DailySummary(ctx context.Context, date string) (domain.DailySummary, error) {
	var day time.Time
	if strings.TrimSpace(date) == "" {
		now := s.now()
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return domain.DailySummary{}, domain.Invalid("date", "expected YYYY-MM-DD")
		}
		day = parsed.UTC()
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	summary, err := s.repo.DailySummary(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		return domain.DailySummary{}, err
	}
	summary.Date = day.Format("2006-01-02")
	return summary, nil
}

// ScanLowStock records an alert for every product at or below its minimum
// level.
func (s *Service) ScanLowStock(ctx context.Context) ([]domain.StockAlert, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	products, err := s.repo.ListLowStockProducts(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	alerts := make([]domain.StockAlert, 0, len(products))
	for _, p := range products {
		alert := domain.StockAlert{
			ID:            xid.New(),
			ProductID:     p.ID,
			ProductName:   p.Name,
			StockQuantity: p.StockQuantity,
			MinStockLevel: *p.MinStockLevel,
			CreatedAt:     now,
		}
		if err := s.repo.CreateStockAlert(ctx, alert); err != nil {
			s.logger.Warn("failed to record stock alert", zap.String("product_id", p.ID), zap.Error(err))
			continue
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// PrintSale queues a receipt for an existing sale.
func (s *Service) PrintSale(ctx context.Context, saleID string) (*domain.PrintJob, error) {
	if s.printer == nil {
		return nil, domain.Invalid("printer", "receipt printing is not configured")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sale, err := s.repo.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return s.printer.Enqueue(ctx, *sale)
}

func (s *Service) autoEnqueue(ctx context.Context, sale domain.Sale) {
	if !s.autoPrint || s.printer == nil {
		return
	}
	if _, err := s.printer.Enqueue(ctx, sale); err != nil {
		s.logger.Warn("failed to queue receipt", zap.String("sale_id", sale.ID), zap.Error(err))
	}
}

// lockSale maps a missing sale through untouched and wraps anything else as
// a persistence failure.
func lockSale(ctx context.Context, tx store.Tx, saleID string) (*domain.Sale, error) {
	sale, err := tx.LockSale(ctx, saleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("sale %s: %w", saleID, store.ErrNotFound)
		}
		return nil, domain.Persist("lock sale", err)
	}
	return sale, nil
}

func decimalQty(qty int) decimal.Decimal {
	return decimal.NewFromInt(int64(qty))
}

// txError passes caller-facing errors through and wraps the rest as a
// persistence failure of op.
func txError(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, domain.ErrUnauthenticated) || domain.IsValidation(err) {
		return err
	}
	return domain.Persist(op, err)
}
