package cache

import (
	"context"
	"sync"
	"time"

	"tokopos/internal/domain"
)

// CartStore keeps open cart sessions between requests. A missing or expired
// cart loads as (nil, false, nil).
type CartStore interface {
	Load(ctx context.Context, id string) (*domain.CartSnapshot, bool, error)
	Save(ctx context.Context, cart domain.CartSnapshot, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	cart      domain.CartSnapshot
	expiresAt time.Time
}

// MemoryCartStore is the in-process CartStore used when Redis is not
// configured.
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{
		carts: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (c *MemoryCartStore) Load(_ context.Context, id string) (*domain.CartSnapshot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.carts[id]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		delete(c.carts, id)
		return nil, false, nil
	}
	cart := cloneCart(entry.cart)
	return &cart, true, nil
}

func (c *MemoryCartStore) Save(_ context.Context, cart domain.CartSnapshot, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := memoryEntry{cart: cloneCart(cart)}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.carts[cart.ID] = entry
	return nil
}

func (c *MemoryCartStore) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.carts, id)
	return nil
}

func cloneCart(cart domain.CartSnapshot) domain.CartSnapshot {
	out := cart
	out.Items = make([]domain.CartItemSnapshot, len(cart.Items))
	copy(out.Items, cart.Items)
	if cart.Customer != nil {
		customer := *cart.Customer
		out.Customer = &customer
	}
	return out
}
