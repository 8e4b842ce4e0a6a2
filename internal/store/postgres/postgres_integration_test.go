package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"tokopos/internal/domain"
	"tokopos/internal/ledger"
	"tokopos/internal/store"
	"tokopos/internal/xid"
)

// openTestStore connects to TOKOPOS_TEST_DATABASE_URL when set and otherwise
// starts a throwaway postgres container.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	databaseURL := os.Getenv("TOKOPOS_TEST_DATABASE_URL")
	if databaseURL == "" {
		container, err := tcpostgres.Run(
			ctx,
			"postgres:15",
			tcpostgres.WithDatabase("tokopos"),
			tcpostgres.WithUsername("user"),
			tcpostgres.WithPassword("password"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			t.Skipf("could not start postgres container: %v", err)
		}
		t.Cleanup(func() { _ = container.Terminate(context.Background()) })

		databaseURL, err = container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	s, err := New(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(zap.NewNop()))
	return s
}

func seedProduct(t *testing.T, s *Store, stock int) domain.Product {
	t.Helper()
	id := xid.New()
	sku := "SKU-IT-" + xid.Short(id)
	_, err := s.db.Exec(`
		INSERT INTO products (id, name, sku, price, stock_quantity, min_stock_level)
		VALUES ($1, 'Produk IT', $2, 10, 0, 5)
	`, id, sku)
	require.NoError(t, err)

	if stock > 0 {
		err = s.WithinTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
			m, _ := ledger.Entry(id, stock, "OPENING", "opening stock", "system", time.Now().UTC())
			return tx.PostStockMovement(ctx, m)
		})
		require.NoError(t, err)
	}

	p, err := s.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return *p
}

func TestPostStockMovementAdjustsStock(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, 10)
	assert.Equal(t, 10, p.StockQuantity)

	saleID := xid.New()
	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		return tx.PostStockMovement(ctx, domain.StockMovement{
			ID:        xid.New(),
			ProductID: p.ID,
			Type:      domain.MovementOut,
			Quantity:  3,
			Reference: ledger.SaleRef(saleID),
			UserID:    "kasir",
			CreatedAt: time.Now().UTC(),
		})
	})
	require.NoError(t, err)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.StockQuantity)

	movements, err := s.ListProductMovements(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, got.StockQuantity, ledger.ProjectProduct(p.ID, movements))
}

func TestRolledBackUnitLeavesNoTrace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, 5)

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		m, _ := ledger.Entry(p.ID, -2, "SALE-TEST", "", "kasir", time.Now().UTC())
		if err := tx.PostStockMovement(ctx, m); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)

	movements, err := s.ListProductMovements(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestFailedPeripheralWriteKeepsUnitUsable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, 5)
	now := time.Now().UTC()
	saleID := xid.New()

	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.InsertSale(ctx, domain.Sale{
			ID:             saleID,
			Customer:       domain.CustomerSnapshot{Name: domain.WalkInName},
			Subtotal:       decimal.NewFromInt(10),
			Tax:            decimal.Zero,
			Total:          decimal.NewFromInt(10),
			PaymentMethod:  "cash",
			ReceivedAmount: decimal.NewFromInt(10),
			ChangeAmount:   decimal.Zero,
			Status:         domain.SaleStatusCompleted,
			UserID:         "kasir",
			CreatedAt:      now,
			UpdatedAt:      now,
		}); err != nil {
			return err
		}

		missing, _ := ledger.Entry(xid.New(), -1, ledger.SaleRef(saleID), "", "kasir", now)
		assert.ErrorIs(t, tx.PostStockMovement(ctx, missing), store.ErrNotFound)
		assert.ErrorIs(t, tx.AddLoyaltyPoints(ctx, xid.New(), 10), store.ErrNotFound)

		return tx.InsertSaleItems(ctx, []domain.SaleItem{{
			ID:        xid.New(),
			SaleID:    saleID,
			ProductID: p.ID,
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(10),
			Total:     decimal.NewFromInt(10),
		}})
	})
	require.NoError(t, err)

	sale, err := s.GetSale(ctx, saleID)
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, p.Name, sale.Items[0].ProductName)
	assert.Equal(t, p.SKU, sale.Items[0].ProductSKU)
	assert.Nil(t, sale.CustomerID)
}

func TestStockMovementsCannotBeRewritten(t *testing.T) {
	s := openTestStore(t)
	p := seedProduct(t, s, 4)

	_, err := s.db.Exec(`UPDATE stock_movements SET quantity = 1 WHERE product_id = $1`, p.ID)
	require.Error(t, err)
	_, err = s.db.Exec(`DELETE FROM stock_movements WHERE product_id = $1`, p.ID)
	require.Error(t, err)
}

func TestGetProductWithForeignIDIsNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetProduct(context.Background(), "prod-mie-01")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDailySummaryCountsCompletedSales(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, 10)
	day := time.Date(2031, 3, 4, 0, 0, 0, 0, time.UTC)

	insert := func(status domain.SaleStatus, qty int) {
		id := xid.New()
		total := decimal.NewFromInt(int64(qty * 10))
		err := s.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
			if err := tx.InsertSale(ctx, domain.Sale{
				ID: id, Customer: domain.CustomerSnapshot{Name: domain.WalkInName},
				Subtotal: total, Tax: decimal.Zero, Total: total, PaymentMethod: "cash",
				ReceivedAmount: total, ChangeAmount: decimal.Zero, Status: status, UserID: "kasir",
				CreatedAt: day.Add(time.Hour), UpdatedAt: day.Add(time.Hour),
			}); err != nil {
				return err
			}
			return tx.InsertSaleItems(ctx, []domain.SaleItem{{
				ID: xid.New(), SaleID: id, ProductID: p.ID, Quantity: qty,
				UnitPrice: decimal.NewFromInt(10), Total: total,
			}})
		})
		require.NoError(t, err)
	}
	insert(domain.SaleStatusCompleted, 2)
	insert(domain.SaleStatusCompleted, 3)
	insert(domain.SaleStatusCancelled, 1)

	summary, err := s.DailySummary(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.SalesCount)
	assert.Equal(t, 1, summary.CancelledCount)
	assert.Equal(t, 5, summary.ItemsSold)
	assert.True(t, summary.GrossTotal.Equal(decimal.NewFromInt(50)))
}
