package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"tokopos/internal/domain"
	"tokopos/internal/store"
)

// unit is the store.Tx handed to WithinTx callbacks. The enclosing WithinTx
// holds the write lock, so unit touches state directly.
type unit struct {
	st *state
}

func (u *unit) InsertSale(_ context.Context, sale domain.Sale) error {
	if sale.ID == "" {
		return fmt.Errorf("sale id required: %w", store.ErrConflict)
	}
	if _, exists := u.st.sales[sale.ID]; exists {
		return fmt.Errorf("sale %s: %w", sale.ID, store.ErrConflict)
	}
	sale.Items = nil
	u.st.sales[sale.ID] = sale
	return nil
}

func (u *unit) InsertSaleItems(_ context.Context, items []domain.SaleItem) error {
	for _, item := range items {
		if _, ok := u.st.sales[item.SaleID]; !ok {
			return fmt.Errorf("sale %s: %w", item.SaleID, store.ErrNotFound)
		}
		if _, ok := u.st.products[item.ProductID]; !ok {
			return fmt.Errorf("product %s: %w", item.ProductID, store.ErrNotFound)
		}
	}
	for _, item := range items {
		item.ProductName = ""
		item.ProductSKU = ""
		u.st.saleItems[item.SaleID] = append(u.st.saleItems[item.SaleID], item)
	}
	return nil
}

func (u *unit) LockSale(_ context.Context, id string) (*domain.Sale, error) {
	return u.st.sale(id)
}

func (u *unit) UpdateSaleStatus(_ context.Context, id string, status domain.SaleStatus, at time.Time) error {
	sale, ok := u.st.sales[id]
	if !ok {
		return store.ErrNotFound
	}
	sale.Status = status
	sale.UpdatedAt = at
	u.st.sales[id] = sale
	return nil
}

func (u *unit) UpdateSaleItem(_ context.Context, item domain.SaleItem) error {
	items := u.st.saleItems[item.SaleID]
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity = item.Quantity
			items[i].Total = item.Total
			return nil
		}
	}
	return store.ErrNotFound
}

func (u *unit) DeleteSaleItem(_ context.Context, itemID string) error {
	for saleID, items := range u.st.saleItems {
		idx := slices.IndexFunc(items, func(item domain.SaleItem) bool { return item.ID == itemID })
		if idx < 0 {
			continue
		}
		u.st.saleItems[saleID] = slices.Delete(items, idx, idx+1)
		return nil
	}
	return store.ErrNotFound
}

func (u *unit) UpdateSaleTotals(_ context.Context, id string, subtotal decimal.Decimal, tax decimal.Decimal, total decimal.Decimal, at time.Time) error {
	sale, ok := u.st.sales[id]
	if !ok {
		return store.ErrNotFound
	}
	sale.Subtotal = subtotal
	sale.Tax = tax
	sale.Total = total
	sale.UpdatedAt = at
	u.st.sales[id] = sale
	return nil
}

func (u *unit) PostStockMovement(_ context.Context, movement domain.StockMovement) error {
	if movement.Quantity <= 0 {
		return fmt.Errorf("movement quantity must be positive, got %d", movement.Quantity)
	}
	p, ok := u.st.products[movement.ProductID]
	if !ok {
		return fmt.Errorf("product %s: %w", movement.ProductID, store.ErrNotFound)
	}
	if movement.BatchID != "" {
		if _, ok := u.st.batches[movement.BatchID]; !ok {
			return fmt.Errorf("batch %s: %w", movement.BatchID, store.ErrNotFound)
		}
	}
	p.StockQuantity += movement.Delta()
	p.UpdatedAt = movement.CreatedAt
	u.st.products[p.ID] = p
	u.st.movements = append(u.st.movements, movement)
	return nil
}

func (u *unit) AddLoyaltyPoints(_ context.Context, customerID string, points int64) error {
	c, ok := u.st.customers[customerID]
	if !ok {
		return store.ErrNotFound
	}
	c.LoyaltyPoints += points
	u.st.customers[customerID] = c
	return nil
}

func (u *unit) InsertLoyaltyTransaction(_ context.Context, entry domain.LoyaltyTransaction) error {
	if _, ok := u.st.customers[entry.CustomerID]; !ok {
		return store.ErrNotFound
	}
	u.st.loyalty = append(u.st.loyalty, entry)
	return nil
}

func (u *unit) InsertBatch(_ context.Context, batch domain.StockBatch) error {
	if _, exists := u.st.batches[batch.ID]; exists {
		return fmt.Errorf("batch %s: %w", batch.ID, store.ErrConflict)
	}
	u.st.batches[batch.ID] = batch
	return nil
}

func (u *unit) LockProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := u.st.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (u *unit) ProductMovements(_ context.Context, productID string) ([]domain.StockMovement, error) {
	out := make([]domain.StockMovement, 0, 16)
	for _, m := range u.st.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (u *unit) SetStockQuantity(_ context.Context, productID string, qty int) error {
	p, ok := u.st.products[productID]
	if !ok {
		return store.ErrNotFound
	}
	p.StockQuantity = qty
	p.UpdatedAt = time.Now().UTC()
	u.st.products[productID] = p
	return nil
}
