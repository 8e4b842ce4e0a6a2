package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	SKU           string           `json:"sku"`
	Barcode       string           `json:"barcode,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	CostPrice     *decimal.Decimal `json:"cost_price,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
	MinStockLevel *int             `json:"min_stock_level,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// LowOnStock reports whether the product sits at or below its minimum level.
// Products without a minimum level are never low.
func (p Product) LowOnStock() bool {
	return p.MinStockLevel != nil && p.StockQuantity <= *p.MinStockLevel
}

type ProductPriceHistory struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	Source    string          `json:"source"`
	ChangedBy string          `json:"changed_by"`
	ChangedAt time.Time       `json:"changed_at"`
}

type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

type StockMovement struct {
	ID        string       `json:"id"`
	ProductID string       `json:"product_id"`
	Type      MovementType `json:"type"`
	Quantity  int          `json:"quantity"`
	Reference string       `json:"reference"`
	Notes     string       `json:"notes"`
	BatchID   string       `json:"batch_id,omitempty"`
	UserID    string       `json:"user_id"`
	CreatedAt time.Time    `json:"created_at"`
}

// Delta is the signed effect of the movement on stock.
func (m StockMovement) Delta() int {
	if m.Type == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}

type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
	SaleStatusRefunded  SaleStatus = "refunded"
)

type CustomerSnapshot struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type Sale struct {
	ID             string           `json:"id"`
	CustomerID     *string          `json:"customer_id"`
	Customer       CustomerSnapshot `json:"customer"`
	Subtotal       decimal.Decimal  `json:"subtotal"`
	Tax            decimal.Decimal  `json:"tax"`
	Total          decimal.Decimal  `json:"total"`
	PaymentMethod  string           `json:"payment_method"`
	ReceivedAmount decimal.Decimal  `json:"received_amount"`
	ChangeAmount   decimal.Decimal  `json:"change_amount"`
	Status         SaleStatus       `json:"status"`
	UserID         string           `json:"user_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Items          []SaleItem       `json:"items,omitempty"`
}

type SaleItem struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	ProductSKU  string          `json:"product_sku,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

type SaleSummary struct {
	Sale
	ItemsCount int `json:"items_count"`
}

type CheckoutLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type CheckoutRequest struct {
	Customer       Customer        `json:"-"`
	Lines          []CheckoutLine  `json:"lines"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	PaymentMethod  string          `json:"payment_method"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
}

type CheckoutResult struct {
	Success   bool       `json:"success"`
	Sale      Sale       `json:"sale"`
	SaleItems []SaleItem `json:"sale_items"`
}

type VoidResult struct {
	Sale      Sale            `json:"sale"`
	Movements []StockMovement `json:"movements"`
}

type EditResult struct {
	Sale      Sale            `json:"sale"`
	Movements []StockMovement `json:"movements"`
}

// CartSnapshot is the persisted form of an open cart session.
type CartSnapshot struct {
	ID        string              `json:"id"`
	Customer  *RegisteredCustomer `json:"customer,omitempty"`
	Items     []CartItemSnapshot  `json:"items"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type CartItemSnapshot struct {
	Product       Product          `json:"product"`
	Quantity      int              `json:"quantity"`
	OverridePrice *decimal.Decimal `json:"override_price,omitempty"`
}

type LoyaltyTransaction struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	SaleID      string    `json:"sale_id"`
	Points      int64     `json:"points"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

const LoyaltyEarned = "earned"

type StockBatch struct {
	ID            string          `json:"id"`
	Type          MovementType    `json:"type"`
	Reference     string          `json:"reference"`
	Supplier      string          `json:"supplier,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Status        string          `json:"status"`
	TotalItems    int             `json:"total_items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
	UserID        string          `json:"user_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

const BatchStatusReceived = "received"

type BatchLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

type BatchReceiveRequest struct {
	Reference string      `json:"reference"`
	Supplier  string      `json:"supplier"`
	Notes     string      `json:"notes"`
	Lines     []BatchLine `json:"lines"`
}

type BatchReceiveResult struct {
	Batch     StockBatch      `json:"batch"`
	Movements []StockMovement `json:"movements"`
}

// BatchLabel is one printable sticker. Gap entries separate products on the
// sheet and carry no product data.
type BatchLabel struct {
	Gap          bool            `json:"gap,omitempty"`
	ProductID    string          `json:"product_id,omitempty"`
	Name         string          `json:"name,omitempty"`
	BarcodeValue string          `json:"barcode_value,omitempty"`
	Price        decimal.Decimal `json:"price"`
}

// LabelSheet is one page of a batch's label sequence. NextOffset is set when
// more labels follow.
type LabelSheet struct {
	Labels     []BatchLabel `json:"labels"`
	Offset     int          `json:"offset"`
	Total      int          `json:"total"`
	NextOffset *int         `json:"next_offset,omitempty"`
}

type ReceiptLineItem struct {
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

type Receipt struct {
	ReceiptNumber  string            `json:"receipt_number"`
	SaleID         string            `json:"sale_id"`
	Status         SaleStatus        `json:"status"`
	Customer       CustomerSnapshot  `json:"customer"`
	Lines          []ReceiptLineItem `json:"lines"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	Tax            decimal.Decimal   `json:"tax"`
	Total          decimal.Decimal   `json:"total"`
	PaymentMethod  string            `json:"payment_method"`
	ReceivedAmount decimal.Decimal   `json:"received_amount"`
	ChangeAmount   decimal.Decimal   `json:"change_amount"`
	IssuedAt       time.Time         `json:"issued_at"`
}

type PrintStatus string

const (
	PrintQueued  PrintStatus = "queued"
	PrintPrinted PrintStatus = "printed"
	PrintFailed  PrintStatus = "failed"
)

type PrintJob struct {
	ID            string      `json:"id"`
	SaleID        string      `json:"sale_id"`
	ReceiptNumber string      `json:"receipt_number"`
	Status        PrintStatus `json:"status"`
	Attempts      int         `json:"attempts"`
	LastError     string      `json:"last_error,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type StockAlert struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	StockQuantity int       `json:"stock_quantity"`
	MinStockLevel int       `json:"min_stock_level"`
	CreatedAt     time.Time `json:"created_at"`
}

type DailySummary struct {
	Date           string          `json:"date"`
	SalesCount     int             `json:"sales_count"`
	CancelledCount int             `json:"cancelled_count"`
	GrossTotal     decimal.Decimal `json:"gross_total"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	ItemsSold      int             `json:"items_sold"`
}

type StockReconciliation struct {
	ProductID  string `json:"product_id"`
	Before     int    `json:"before"`
	Projected  int    `json:"projected"`
	Drift      int    `json:"drift"`
	Movements  int    `json:"movements"`
	Reconciled bool   `json:"reconciled"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type CashierCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CashierUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
