package memory

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"tokopos/internal/domain"
	"tokopos/internal/store"
	"tokopos/internal/xid"
)

type Store struct {
	mu   sync.RWMutex
	data state
}

type state struct {
	products     map[string]domain.Product
	priceHistory []domain.ProductPriceHistory
	movements    []domain.StockMovement
	customers    map[string]domain.RegisteredCustomer
	loyalty      []domain.LoyaltyTransaction
	sales        map[string]domain.Sale
	saleItems    map[string][]domain.SaleItem
	batches      map[string]domain.StockBatch
	printJobs    map[string]domain.PrintJob
	alerts       []domain.StockAlert
	users        map[string]domain.UserAccount
}

func newState() state {
	return state{
		products:  make(map[string]domain.Product),
		customers: make(map[string]domain.RegisteredCustomer),
		sales:     make(map[string]domain.Sale),
		saleItems: make(map[string][]domain.SaleItem),
		batches:   make(map[string]domain.StockBatch),
		printJobs: make(map[string]domain.PrintJob),
		users:     make(map[string]domain.UserAccount),
	}
}

func (st state) clone() state {
	out := newState()
	for k, v := range st.products {
		out.products[k] = v
	}
	for k, v := range st.customers {
		out.customers[k] = v
	}
	for k, v := range st.sales {
		out.sales[k] = v
	}
	for k, v := range st.saleItems {
		out.saleItems[k] = slices.Clone(v)
	}
	for k, v := range st.batches {
		out.batches[k] = v
	}
	for k, v := range st.printJobs {
		out.printJobs[k] = v
	}
	for k, v := range st.users {
		out.users[k] = v
	}
	out.priceHistory = slices.Clone(st.priceHistory)
	out.movements = slices.Clone(st.movements)
	out.loyalty = slices.Clone(st.loyalty)
	out.alerts = slices.Clone(st.alerts)
	return out
}

const (
	seedAdminPasswordEnv   = "SEED_ADMIN_PASSWORD"
	seedCashierPasswordEnv = "SEED_CASHIER_PASSWORD"
)

// DefaultCredentials reports whether NewSeeded falls back to the built-in dev
// password for at least one seed account.
func DefaultCredentials() bool {
	return os.Getenv(seedAdminPasswordEnv) == "" || os.Getenv(seedCashierPasswordEnv) == ""
}

// seedUsers builds the dev/demo accounts. Passwords come from
// SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD, falling back to dev defaults.
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr(seedAdminPasswordEnv, "admin123")
	cashierPwd := envOr(seedCashierPasswordEnv, "cashier123")

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"cashier", cashierPwd, "cashier"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.MinCost)
		if err != nil {
			panic(fmt.Sprintf("memory: hash seed password for %s: %v", u.username, err))
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// New returns an empty store.
func New() *Store {
	return &Store{data: newState()}
}

// OpeningReference tags the movements that seed initial stock.
const OpeningReference = "OPENING"

// NewSeeded returns a store with a demo catalog, two customers and the seed
// users. Initial stock is posted as movements so projected and stored stock
// agree from the start.
func NewSeeded() *Store {
	s := New()
	minLevel := 10
	products := []domain.Product{
		{ID: "prod-mie-01", SKU: "SKU-MIE-01", Name: "Mie Goreng Instan", Price: decimal.NewFromInt(3500)},
		{ID: "prod-telur-01", SKU: "SKU-TELUR-01", Name: "Telur 10 Butir", Price: decimal.NewFromInt(26500)},
		{ID: "prod-susu-01", SKU: "SKU-SUSU-01", Name: "Susu UHT 1L", Price: decimal.NewFromInt(18900)},
		{ID: "prod-roti-01", SKU: "SKU-ROTI-01", Name: "Roti Tawar", Price: decimal.NewFromInt(17800)},
		{ID: "prod-kopi-01", SKU: "SKU-KOPI-01", Name: "Kopi Sachet", Price: decimal.NewFromInt(2600)},
		{ID: "prod-gula-01", SKU: "SKU-GULA-01", Name: "Gula 1kg", Price: decimal.NewFromInt(17400)},
		{ID: "prod-teh-01", SKU: "SKU-TEH-01", Name: "Teh Celup", Price: decimal.NewFromInt(9800)},
		{ID: "prod-air-01", SKU: "SKU-AIR-01", Name: "Air Mineral 600ml", Price: decimal.NewFromInt(3900)},
		{ID: "prod-widget-01", SKU: "SKU-WIDGET-01", Name: "Widget", Price: decimal.NewFromInt(10)},
	}

	now := time.Now().UTC()
	for _, p := range products {
		cost := p.Price.Mul(decimal.NewFromFloat(0.8)).Round(0)
		p.CostPrice = &cost
		p.MinStockLevel = &minLevel
		p.UpdatedAt = now
		p.StockQuantity = 120
		s.data.products[p.ID] = p
		s.data.movements = append(s.data.movements, openingMovement(p.ID, p.StockQuantity, now))
	}

	s.data.customers["cust-budi"] = domain.RegisteredCustomer{ID: "cust-budi", Name: "Budi Santoso", Phone: "08123456789", LoyaltyEnabled: true}
	s.data.customers["cust-sari"] = domain.RegisteredCustomer{ID: "cust-sari", Name: "Sari Dewi", Email: "sari@example.com"}
	s.data.users = seedUsers()
	return s
}

func openingMovement(productID string, qty int, at time.Time) domain.StockMovement {
	return domain.StockMovement{
		ID:        xid.New(),
		ProductID: productID,
		Type:      domain.MovementIn,
		Quantity:  qty,
		Reference: OpeningReference,
		Notes:     "opening stock",
		UserID:    "system",
		CreatedAt: at,
	}
}

// PutProduct inserts or replaces a product. Stock is taken as given; callers
// seeding stock should follow up with movements.
func (s *Store) PutProduct(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = time.Now().UTC()
	}
	s.data.products[product.ID] = product
}

func (s *Store) PutCustomer(customer domain.RegisteredCustomer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.customers[customer.ID] = customer
}

// Movements returns every posted movement in insertion order.
func (s *Store) Movements() []domain.StockMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.movements)
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.data.products))
	for _, p := range s.data.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) GetProductsByIDs(_ context.Context, ids []string) (map[string]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.data.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (s *Store) UpdateProductPrice(_ context.Context, id string, price decimal.Decimal, at time.Time) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.data.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.Price = price
	p.UpdatedAt = at
	s.data.products[id] = p
	return &p, nil
}

func (s *Store) CreatePriceHistory(_ context.Context, entry domain.ProductPriceHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.products[entry.ProductID]; !ok {
		return store.ErrNotFound
	}
	if entry.ID == "" {
		entry.ID = xid.New()
	}
	s.data.priceHistory = append(s.data.priceHistory, entry)
	return nil
}

// PriceHistory returns the recorded price changes for a product, oldest first.
func (s *Store) PriceHistory(productID string) []domain.ProductPriceHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ProductPriceHistory, 0, 4)
	for _, entry := range s.data.priceHistory {
		if entry.ProductID == productID {
			out = append(out, entry)
		}
	}
	return out
}

func (s *Store) ListProductMovements(_ context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.data.products[productID]; !ok {
		return nil, store.ErrNotFound
	}
	out := make([]domain.StockMovement, 0, 16)
	for i := len(s.data.movements) - 1; i >= 0; i-- {
		m := s.data.movements[i]
		if m.ProductID != productID {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) ListLowStockProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, 8)
	for _, p := range s.data.products {
		if p.LowOnStock() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StockQuantity < out[j].StockQuantity
	})
	return out, nil
}

func (s *Store) CreateStockAlert(_ context.Context, alert domain.StockAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if alert.ID == "" {
		alert.ID = xid.New()
	}
	s.data.alerts = append(s.data.alerts, alert)
	return nil
}

// Alerts returns the stock alerts recorded so far.
func (s *Store) Alerts() []domain.StockAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.alerts)
}

func (s *Store) GetCustomer(_ context.Context, id string) (*domain.RegisteredCustomer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data.customers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListLoyaltyTransactions(_ context.Context, customerID string, limit int) ([]domain.LoyaltyTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LoyaltyTransaction, 0, 8)
	for i := len(s.data.loyalty) - 1; i >= 0; i-- {
		entry := s.data.loyalty[i]
		if entry.CustomerID != customerID {
			continue
		}
		out = append(out, entry)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) GetSale(_ context.Context, id string) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.sale(id)
}

func (st *state) sale(id string) (*domain.Sale, error) {
	sale, ok := st.sales[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	items := st.saleItems[id]
	sale.Items = make([]domain.SaleItem, 0, len(items))
	for _, item := range items {
		if p, ok := st.products[item.ProductID]; ok {
			item.ProductName = p.Name
			item.ProductSKU = p.SKU
		}
		sale.Items = append(sale.Items, item)
	}
	return &sale, nil
}

func (s *Store) ListSales(_ context.Context, limit int) ([]domain.SaleSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SaleSummary, 0, len(s.data.sales))
	for id, sale := range s.data.sales {
		out = append(out, domain.SaleSummary{Sale: sale, ItemsCount: len(s.data.saleItems[id])})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) DailySummary(_ context.Context, from time.Time, to time.Time) (domain.DailySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := domain.DailySummary{
		Date:       from.UTC().Format("2006-01-02"),
		GrossTotal: decimal.Zero,
		TaxTotal:   decimal.Zero,
	}
	for id, sale := range s.data.sales {
		if sale.CreatedAt.Before(from) || !sale.CreatedAt.Before(to) {
			continue
		}
		switch sale.Status {
		case domain.SaleStatusCompleted:
			summary.SalesCount++
			summary.GrossTotal = summary.GrossTotal.Add(sale.Total)
			summary.TaxTotal = summary.TaxTotal.Add(sale.Tax)
			for _, item := range s.data.saleItems[id] {
				summary.ItemsSold += item.Quantity
			}
		case domain.SaleStatusCancelled:
			summary.CancelledCount++
		}
	}
	return summary, nil
}

func (s *Store) GetBatch(_ context.Context, id string) (*domain.StockBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.data.batches[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (s *Store) ListBatchMovements(_ context.Context, batchID string) ([]domain.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.data.batches[batchID]; !ok {
		return nil, store.ErrNotFound
	}
	out := make([]domain.StockMovement, 0, 8)
	for _, m := range s.data.movements {
		if m.BatchID == batchID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Store) CreatePrintJob(_ context.Context, job domain.PrintJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.ID == "" {
		job.ID = xid.New()
	}
	if _, ok := s.data.printJobs[job.ID]; ok {
		return store.ErrConflict
	}
	s.data.printJobs[job.ID] = job
	return nil
}

func (s *Store) ListPrintJobs(_ context.Context, status domain.PrintStatus, limit int) ([]domain.PrintJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PrintJob, 0, len(s.data.printJobs))
	for _, job := range s.data.printJobs {
		if status != "" && job.Status != status {
			continue
		}
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) UpdatePrintJob(_ context.Context, job domain.PrintJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.printJobs[job.ID]; !ok {
		return store.ErrNotFound
	}
	s.data.printJobs[job.ID] = job
	return nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data.users[user.Username]; exists {
		return fmt.Errorf("user %s: %w", user.Username, store.ErrConflict)
	}
	s.data.users[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.data.users))
	for _, u := range s.data.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.data.users[username]
	if !ok {
		return store.ErrNotFound
	}
	u.Password = password
	s.data.users[username] = u
	return nil
}

// WithinTx holds the write lock for the whole unit and restores the previous
// state when fn fails. fn must not call back into s.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(ctx, &unit{st: &s.data}); err != nil {
		s.data = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}
