package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tokopos/internal/cache"
	"tokopos/internal/domain"
	"tokopos/internal/logger"
	"tokopos/internal/store"
	"tokopos/internal/xid"
)

// Catalog is the read side carts need. store.Repository satisfies it.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetCustomer(ctx context.Context, id string) (*domain.RegisteredCustomer, error)
}

// PriceWriter persists a cart price override to the product catalog.
type PriceWriter interface {
	SetCatalogPrice(ctx context.Context, productID string, price decimal.Decimal, source string) (*domain.Product, error)
}

type Options struct {
	TTL                    time.Duration
	OverrideUpdatesCatalog bool
}

// Sessions owns the open carts. Every mutation loads the snapshot, applies
// the change and saves it back under one lock.
type Sessions struct {
	carts   cache.CartStore
	catalog Catalog
	prices  PriceWriter
	opts    Options
	logger  *zap.Logger
	mu      sync.Mutex
}

func NewSessions(carts cache.CartStore, catalog Catalog, prices PriceWriter, opts Options, log *zap.Logger) *Sessions {
	if opts.TTL <= 0 {
		opts.TTL = 12 * time.Hour
	}
	return &Sessions{
		carts:   carts,
		catalog: catalog,
		prices:  prices,
		opts:    opts,
		logger:  logger.OrNop(log).Named("cart"),
	}
}

func (s *Sessions) Open(ctx context.Context) (*Cart, error) {
	c := New(xid.New(), s.logger)
	if err := s.carts.Save(ctx, c.Snapshot(), s.opts.TTL); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}

func (s *Sessions) Get(ctx context.Context, id string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, id)
}

func (s *Sessions) load(ctx context.Context, id string) (*Cart, error) {
	snap, ok, err := s.carts.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("cart %s: %w", id, store.ErrNotFound)
	}
	return Restore(*snap, s.logger), nil
}

func (s *Sessions) mutate(ctx context.Context, id string, fn func(c *Cart) error) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c.Snapshot(), s.opts.TTL); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}

// AddItem reads the product fresh from the catalog so the line carries the
// current list price.
func (s *Sessions) AddItem(ctx context.Context, id string, productID string, quantity int) (*Cart, error) {
	return s.mutate(ctx, id, func(c *Cart) error {
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("product %s: %w", productID, err)
		}
		c.AddItem(*product, quantity)
		return nil
	})
}

func (s *Sessions) SetQuantity(ctx context.Context, id string, productID string, quantity int) (*Cart, error) {
	return s.mutate(ctx, id, func(c *Cart) error {
		c.SetQuantity(productID, quantity)
		return nil
	})
}

func (s *Sessions) RemoveItem(ctx context.Context, id string, productID string) (*Cart, error) {
	return s.mutate(ctx, id, func(c *Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

// OverridePrice applies price to the cart line and, when configured, writes
// it through to the catalog so later carts pick it up.
func (s *Sessions) OverridePrice(ctx context.Context, id string, productID string, price decimal.Decimal) (*Cart, error) {
	return s.mutate(ctx, id, func(c *Cart) error {
		if err := c.OverridePrice(productID, price); err != nil {
			return err
		}
		if !s.opts.OverrideUpdatesCatalog || s.prices == nil {
			return nil
		}
		if _, err := s.prices.SetCatalogPrice(ctx, productID, price, "cart_override"); err != nil {
			return err
		}
		s.logger.Info("cart override written to catalog",
			zap.String("cart_id", id),
			zap.String("product_id", productID),
			zap.String("price", price.String()),
		)
		return nil
	})
}

// SetCustomer selects a registered customer, or walk-in when customerID is
// empty.
func (s *Sessions) SetCustomer(ctx context.Context, id string, customerID string) (*Cart, error) {
	return s.mutate(ctx, id, func(c *Cart) error {
		if customerID == "" {
			c.SetCustomer(domain.WalkIn{})
			return nil
		}
		customer, err := s.catalog.GetCustomer(ctx, customerID)
		if err != nil {
			return fmt.Errorf("customer %s: %w", customerID, err)
		}
		c.SetCustomer(*customer)
		return nil
	})
}

func (s *Sessions) Clear(ctx context.Context, id string) (*Cart, error) {
	return s.mutate(ctx, id, func(c *Cart) error {
		c.Clear()
		return nil
	})
}

func (s *Sessions) Discard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts.Delete(ctx, id)
}

// Checkout hands the cart to checkout and discards the session once the sale
// is recorded. A failed checkout leaves the cart in place.
func (s *Sessions) Checkout(ctx context.Context, id string, paymentMethod string, received decimal.Decimal, checkout func(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error)) (*domain.CheckoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, domain.Invalid("items", "cart is empty")
	}

	result, err := checkout(ctx, c.CheckoutRequest(paymentMethod, received))
	if err != nil {
		return nil, err
	}
	if err := s.carts.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to discard cart after checkout", zap.String("cart_id", id), zap.Error(err))
	}
	return result, nil
}
