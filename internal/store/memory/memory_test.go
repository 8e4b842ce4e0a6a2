package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"tokopos/internal/domain"
	"tokopos/internal/ledger"
	"tokopos/internal/store"
)

func TestSeededStockMatchesProjection(t *testing.T) {
	s := NewSeeded()
	products, err := s.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	projected := ledger.Project(s.Movements())
	for _, p := range products {
		if projected[p.ID] != p.StockQuantity {
			t.Fatalf("product %s stock %d does not match projection %d", p.ID, p.StockQuantity, projected[p.ID])
		}
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()
	before, _ := s.GetProduct(ctx, "prod-mie-01")

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.InsertSale(ctx, domain.Sale{ID: "sale-1", Status: domain.SaleStatusCompleted}); err != nil {
			return err
		}
		m, _ := ledger.Entry("prod-mie-01", -5, "SALE-X", "", "cashier", time.Now().UTC())
		if err := tx.PostStockMovement(ctx, m); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := s.GetSale(ctx, "sale-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected sale to be rolled back, got %v", err)
	}
	after, _ := s.GetProduct(ctx, "prod-mie-01")
	if after.StockQuantity != before.StockQuantity {
		t.Fatalf("expected stock %d after rollback, got %d", before.StockQuantity, after.StockQuantity)
	}
	if got := len(s.Movements()); got != 9 {
		t.Fatalf("expected only opening movements, got %d", got)
	}
}

func TestPostStockMovementAllowsNegativeStock(t *testing.T) {
	s := New()
	s.PutProduct(domain.Product{ID: "p1", Name: "Widget", SKU: "W-1", Price: decimal.NewFromInt(10)})
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		m, _ := ledger.Entry("p1", -3, "SALE-X", "", "cashier", time.Now().UTC())
		return tx.PostStockMovement(ctx, m)
	})
	if err != nil {
		t.Fatalf("post movement: %v", err)
	}
	p, _ := s.GetProduct(ctx, "p1")
	if p.StockQuantity != -3 {
		t.Fatalf("expected -3, got %d", p.StockQuantity)
	}
}

func TestPostStockMovementUnknownProductLeavesUnitUsable(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		m, _ := ledger.Entry("missing", 1, "VOID-X", "", "cashier", time.Now().UTC())
		if err := tx.PostStockMovement(ctx, m); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		return tx.InsertSale(ctx, domain.Sale{ID: "sale-ok", Status: domain.SaleStatusCompleted})
	})
	if err != nil {
		t.Fatalf("unit should still commit: %v", err)
	}
	if _, err := s.GetSale(ctx, "sale-ok"); err != nil {
		t.Fatalf("expected committed sale, got %v", err)
	}
}

func TestGetSaleJoinsProductFields(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.InsertSale(ctx, domain.Sale{ID: "sale-2", Status: domain.SaleStatusCompleted}); err != nil {
			return err
		}
		return tx.InsertSaleItems(ctx, []domain.SaleItem{{
			ID: "item-1", SaleID: "sale-2", ProductID: "prod-kopi-01", Quantity: 2,
			UnitPrice: decimal.NewFromInt(2600), Total: decimal.NewFromInt(5200),
		}})
	})
	if err != nil {
		t.Fatalf("insert sale: %v", err)
	}

	sale, err := s.GetSale(ctx, "sale-2")
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	if len(sale.Items) != 1 || sale.Items[0].ProductName != "Kopi Sachet" || sale.Items[0].ProductSKU != "SKU-KOPI-01" {
		t.Fatalf("unexpected items %+v", sale.Items)
	}
}

func TestDailySummaryCountsCompletedAndCancelled(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()
	now := time.Now().UTC()

	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		for i, status := range []domain.SaleStatus{domain.SaleStatusCompleted, domain.SaleStatusCancelled} {
			id := []string{"s-a", "s-b"}[i]
			if err := tx.InsertSale(ctx, domain.Sale{
				ID: id, Status: status, Total: decimal.NewFromInt(100), Tax: decimal.NewFromInt(10), CreatedAt: now,
			}); err != nil {
				return err
			}
			if err := tx.InsertSaleItems(ctx, []domain.SaleItem{{ID: id + "-1", SaleID: id, ProductID: "prod-teh-01", Quantity: 3}}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed sales: %v", err)
	}

	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	summary, err := s.DailySummary(ctx, from, from.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.SalesCount != 1 || summary.CancelledCount != 1 || summary.ItemsSold != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if !summary.GrossTotal.Equal(decimal.NewFromInt(100)) || !summary.TaxTotal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected totals %+v", summary)
	}
}

func TestSeedPasswordsComeFromEnv(t *testing.T) {
	t.Setenv("SEED_ADMIN_PASSWORD", "rahasia-admin")
	t.Setenv("SEED_CASHIER_PASSWORD", "rahasia-kasir")
	if DefaultCredentials() {
		t.Fatalf("expected env passwords to replace the dev defaults")
	}

	users, err := NewSeeded().ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	want := map[string]string{"admin": "rahasia-admin", "cashier": "rahasia-kasir"}
	for _, u := range users {
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(want[u.Username])); err != nil {
			t.Fatalf("seed user %s does not use the env password: %v", u.Username, err)
		}
	}

	t.Setenv("SEED_CASHIER_PASSWORD", "")
	if !DefaultCredentials() {
		t.Fatalf("expected a missing cashier password to fall back to the default")
	}
}
