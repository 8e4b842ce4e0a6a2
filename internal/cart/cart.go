// Package cart holds the session-scoped shopping cart used to build a
// checkout request.
package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tokopos/internal/domain"
	"tokopos/internal/logger"
)

type Item struct {
	Product       domain.Product   `json:"product"`
	Quantity      int              `json:"quantity"`
	OverridePrice *decimal.Decimal `json:"override_price,omitempty"`
}

// UnitPrice is the override when set, else the catalog price.
func (i Item) UnitPrice() decimal.Decimal {
	if i.OverridePrice != nil {
		return *i.OverridePrice
	}
	return i.Product.Price
}

func (i Item) Total() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Cart is not safe for concurrent use; Sessions serializes access.
type Cart struct {
	id       string
	items    []Item
	customer *domain.RegisteredCustomer
	logger   *zap.Logger
}

func New(id string, log *zap.Logger) *Cart {
	return &Cart{id: id, logger: logger.OrNop(log)}
}

func (c *Cart) ID() string {
	return c.id
}

func (c *Cart) index(productID string) int {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddItem increments the line for product, or appends it. Quantities below 1
// count as 1. Stock is not a cap.
func (c *Cart) AddItem(product domain.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	idx := c.index(product.ID)
	if idx < 0 {
		c.items = append(c.items, Item{Product: product, Quantity: quantity})
		idx = len(c.items) - 1
	} else {
		c.items[idx].Product = product
		c.items[idx].Quantity += quantity
	}
	c.warnOverStock(c.items[idx])
}

// SetQuantity sets the line quantity exactly; quantity <= 0 removes the line.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	idx := c.index(productID)
	if idx < 0 {
		return
	}
	c.items[idx].Quantity = quantity
	c.warnOverStock(c.items[idx])
}

func (c *Cart) RemoveItem(productID string) {
	if idx := c.index(productID); idx >= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	}
}

func (c *Cart) OverridePrice(productID string, price decimal.Decimal) error {
	if price.IsNegative() {
		return domain.Invalid("price", "must not be negative")
	}
	idx := c.index(productID)
	if idx < 0 {
		return domain.Invalid("product_id", "not in cart")
	}
	override := price
	c.items[idx].OverridePrice = &override
	return nil
}

// Total sums effective prices. Tax and discount are not computed.
func (c *Cart) Total() Totals {
	subtotal := decimal.Zero
	for _, item := range c.items {
		subtotal = subtotal.Add(item.Total())
	}
	return Totals{Subtotal: subtotal, Tax: decimal.Zero, Total: subtotal}
}

// Clear drops every line and override. The selected customer stays.
func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) SetCustomer(customer domain.Customer) {
	if reg, ok := customer.(domain.RegisteredCustomer); ok && reg.ID != "" {
		c.customer = &reg
		return
	}
	c.customer = nil
}

func (c *Cart) Customer() domain.Customer {
	if c.customer == nil {
		return domain.WalkIn{}
	}
	return *c.customer
}

func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Lines converts the cart into checkout lines at effective prices.
func (c *Cart) Lines() []domain.CheckoutLine {
	lines := make([]domain.CheckoutLine, 0, len(c.items))
	for _, item := range c.items {
		lines = append(lines, domain.CheckoutLine{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			ProductSKU:  item.Product.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice(),
		})
	}
	return lines
}

// CheckoutRequest prepares the request Service.Checkout consumes.
func (c *Cart) CheckoutRequest(paymentMethod string, received decimal.Decimal) domain.CheckoutRequest {
	totals := c.Total()
	return domain.CheckoutRequest{
		Customer:       c.Customer(),
		Lines:          c.Lines(),
		Subtotal:       totals.Subtotal,
		Tax:            totals.Tax,
		Total:          totals.Total,
		PaymentMethod:  paymentMethod,
		ReceivedAmount: received,
	}
}

func (c *Cart) Snapshot() domain.CartSnapshot {
	snap := domain.CartSnapshot{
		ID:        c.id,
		Items:     make([]domain.CartItemSnapshot, 0, len(c.items)),
		UpdatedAt: time.Now().UTC(),
	}
	if c.customer != nil {
		customer := *c.customer
		snap.Customer = &customer
	}
	for _, item := range c.items {
		snap.Items = append(snap.Items, domain.CartItemSnapshot{
			Product:       item.Product,
			Quantity:      item.Quantity,
			OverridePrice: item.OverridePrice,
		})
	}
	return snap
}

func Restore(snap domain.CartSnapshot, log *zap.Logger) *Cart {
	c := New(snap.ID, log)
	if snap.Customer != nil {
		customer := *snap.Customer
		c.customer = &customer
	}
	for _, item := range snap.Items {
		c.items = append(c.items, Item{
			Product:       item.Product,
			Quantity:      item.Quantity,
			OverridePrice: item.OverridePrice,
		})
	}
	return c
}

func (c *Cart) warnOverStock(item Item) {
	if item.Quantity > item.Product.StockQuantity {
		c.logger.Warn("cart quantity exceeds known stock",
			zap.String("cart_id", c.id),
			zap.String("product_id", item.Product.ID),
			zap.Int("quantity", item.Quantity),
			zap.Int("stock_quantity", item.Product.StockQuantity),
		)
	}
}
