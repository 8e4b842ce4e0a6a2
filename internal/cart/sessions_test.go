package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokopos/internal/cache"
	"tokopos/internal/domain"
	"tokopos/internal/store"
	"tokopos/internal/store/memory"
)

// catalogPrices writes overrides straight into the memory store.
type catalogPrices struct {
	repo  *memory.Store
	calls int
}

func (p *catalogPrices) SetCatalogPrice(ctx context.Context, productID string, price decimal.Decimal, _ string) (*domain.Product, error) {
	p.calls++
	return p.repo.UpdateProductPrice(ctx, productID, price, time.Now().UTC())
}

func newTestSessions(t *testing.T, updateCatalog bool) (*Sessions, *memory.Store, *catalogPrices) {
	t.Helper()
	repo := memory.NewSeeded()
	prices := &catalogPrices{repo: repo}
	sessions := NewSessions(cache.NewMemoryCartStore(), repo, prices, Options{TTL: time.Hour, OverrideUpdatesCatalog: updateCatalog}, nil)
	return sessions, repo, prices
}

func TestOverridePricePersistsToCatalog(t *testing.T) {
	sessions, _, prices := newTestSessions(t, true)
	ctx := context.Background()

	first, err := sessions.Open(ctx)
	require.NoError(t, err)
	_, err = sessions.AddItem(ctx, first.ID(), "prod-widget-01", 1)
	require.NoError(t, err)
	_, err = sessions.OverridePrice(ctx, first.ID(), "prod-widget-01", decimal.RequireFromString("15.00"))
	require.NoError(t, err)
	assert.Equal(t, 1, prices.calls)

	fresh, err := sessions.Open(ctx)
	require.NoError(t, err)
	fresh, err = sessions.AddItem(ctx, fresh.ID(), "prod-widget-01", 1)
	require.NoError(t, err)

	items := fresh.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].UnitPrice().Equal(decimal.NewFromInt(15)), "fresh cart should use 15.00, got %s", items[0].UnitPrice())
	assert.Nil(t, items[0].OverridePrice)
}

func TestOverridePriceStaysLocalWhenCouplingDisabled(t *testing.T) {
	sessions, repo, prices := newTestSessions(t, false)
	ctx := context.Background()

	c, err := sessions.Open(ctx)
	require.NoError(t, err)
	_, err = sessions.AddItem(ctx, c.ID(), "prod-widget-01", 1)
	require.NoError(t, err)
	c, err = sessions.OverridePrice(ctx, c.ID(), "prod-widget-01", decimal.NewFromInt(15))
	require.NoError(t, err)

	assert.Zero(t, prices.calls)
	assert.True(t, c.Total().Total.Equal(decimal.NewFromInt(15)))

	p, err := repo.GetProduct(ctx, "prod-widget-01")
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(10)))
}

func TestOverrideNegativePriceIsRejectedWithoutWrites(t *testing.T) {
	sessions, _, prices := newTestSessions(t, true)
	ctx := context.Background()

	c, err := sessions.Open(ctx)
	require.NoError(t, err)
	_, err = sessions.AddItem(ctx, c.ID(), "prod-widget-01", 1)
	require.NoError(t, err)

	_, err = sessions.OverridePrice(ctx, c.ID(), "prod-widget-01", decimal.NewFromInt(-5))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Zero(t, prices.calls)

	reloaded, err := sessions.Get(ctx, c.ID())
	require.NoError(t, err)
	assert.Nil(t, reloaded.Items()[0].OverridePrice)
}

func TestSessionsPersistMutations(t *testing.T) {
	sessions, _, _ := newTestSessions(t, true)
	ctx := context.Background()

	c, err := sessions.Open(ctx)
	require.NoError(t, err)
	_, err = sessions.AddItem(ctx, c.ID(), "prod-widget-01", 2)
	require.NoError(t, err)
	_, err = sessions.AddItem(ctx, c.ID(), "prod-kopi-01", 1)
	require.NoError(t, err)
	_, err = sessions.SetQuantity(ctx, c.ID(), "prod-widget-01", 5)
	require.NoError(t, err)
	_, err = sessions.RemoveItem(ctx, c.ID(), "prod-kopi-01")
	require.NoError(t, err)
	_, err = sessions.SetCustomer(ctx, c.ID(), "cust-budi")
	require.NoError(t, err)

	got, err := sessions.Get(ctx, c.ID())
	require.NoError(t, err)
	require.Len(t, got.Items(), 1)
	assert.Equal(t, 5, got.Items()[0].Quantity)
	assert.Equal(t, "Budi Santoso", got.Customer().Snapshot().Name)

	got, err = sessions.Clear(ctx, c.ID())
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestSessionsUnknownCartAndProduct(t *testing.T) {
	sessions, _, _ := newTestSessions(t, true)
	ctx := context.Background()

	_, err := sessions.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	c, err := sessions.Open(ctx)
	require.NoError(t, err)
	_, err = sessions.AddItem(ctx, c.ID(), "prod-missing", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = sessions.SetCustomer(ctx, c.ID(), "cust-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCheckoutDiscardsCartOnlyOnSuccess(t *testing.T) {
	sessions, _, _ := newTestSessions(t, true)
	ctx := context.Background()

	c, err := sessions.Open(ctx)
	require.NoError(t, err)

	_, err = sessions.Checkout(ctx, c.ID(), "cash", decimal.NewFromInt(50), nil)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err), "empty carts cannot check out")

	_, err = sessions.AddItem(ctx, c.ID(), "prod-widget-01", 3)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = sessions.Checkout(ctx, c.ID(), "cash", decimal.NewFromInt(50), func(context.Context, domain.CheckoutRequest) (*domain.CheckoutResult, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	_, err = sessions.Get(ctx, c.ID())
	require.NoError(t, err, "failed checkout keeps the cart")

	var seen domain.CheckoutRequest
	_, err = sessions.Checkout(ctx, c.ID(), "cash", decimal.NewFromInt(50), func(_ context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
		seen = req
		return &domain.CheckoutResult{Success: true}, nil
	})
	require.NoError(t, err)
	assert.True(t, seen.Total.Equal(decimal.NewFromInt(30)))
	_, walkIn := seen.Customer.(domain.WalkIn)
	assert.True(t, walkIn)

	_, err = sessions.Get(ctx, c.ID())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
