package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokopos/internal/domain"
)

func sampleCart() domain.CartSnapshot {
	override := decimal.NewFromInt(15)
	return domain.CartSnapshot{
		ID:       "cart-1",
		Customer: &domain.RegisteredCustomer{ID: "cust-budi", Name: "Budi", LoyaltyEnabled: true},
		Items: []domain.CartItemSnapshot{{
			Product:       domain.Product{ID: "prod-widget-01", Name: "Widget", Price: decimal.NewFromInt(10)},
			Quantity:      3,
			OverridePrice: &override,
		}},
	}
}

func TestMemoryCartStoreRoundTrip(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleCart(), time.Minute))

	got, ok, err := store.Load(ctx, "cart-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.Equal(t, "cust-budi", got.Customer.ID)

	got.Items[0].Quantity = 99
	again, _, _ := store.Load(ctx, "cart-1")
	assert.Equal(t, 3, again.Items[0].Quantity, "loaded carts must not alias stored state")

	require.NoError(t, store.Delete(ctx, "cart-1"))
	_, ok, err = store.Load(ctx, "cart-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCartStoreExpires(t *testing.T) {
	store := NewMemoryCartStore()
	now := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleCart(), time.Minute))
	now = now.Add(59 * time.Second)
	_, ok, _ := store.Load(ctx, "cart-1")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = store.Load(ctx, "cart-1")
	assert.False(t, ok)
}

func TestMemoryCartStoreMissingIsNotAnError(t *testing.T) {
	cart, ok, err := NewMemoryCartStore().Load(context.Background(), "nope")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, cart)
}
