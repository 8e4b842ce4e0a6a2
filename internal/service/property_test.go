package service

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"tokopos/internal/domain"
	"tokopos/internal/ledger"
	"tokopos/internal/store/memory"
)

var propertyProducts = []string{"prod-mie-01", "prod-kopi-01", "prod-teh-01", "prod-air-01"}

func TestProperty_StockMatchesMovementProjection(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("stored stock equals projected movements after checkout and void", prop.ForAll(
		func(quantities []int, voidIt bool) bool {
			repo := memory.NewSeeded()
			svc := New(repo, nil, Options{})
			ctx := cashierCtx()

			lines := make([]domain.CheckoutLine, 0, len(quantities))
			for i, q := range quantities {
				lines = append(lines, domain.CheckoutLine{
					ProductID: propertyProducts[i%len(propertyProducts)],
					Quantity:  q,
					UnitPrice: decimal.NewFromInt(100),
				})
			}
			sold, err := svc.Checkout(ctx, domain.CheckoutRequest{Lines: lines, ReceivedAmount: decimal.Zero})
			if err != nil {
				return false
			}
			if voidIt {
				if _, err := svc.VoidSale(ctx, sold.Sale.ID); err != nil {
					return false
				}
			}

			projected := ledger.Project(repo.Movements())
			for _, id := range propertyProducts {
				p, err := repo.GetProduct(context.Background(), id)
				if err != nil || p.StockQuantity != projected[id] {
					return false
				}
				if voidIt && p.StockQuantity != 120 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(6, gen.IntRange(1, 200)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_EditSaveKeepsStockConsistent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("edit save moves stock by the quantity difference", prop.ForAll(
		func(original int, delta int) bool {
			repo := memory.NewSeeded()
			svc := New(repo, nil, Options{})
			ctx := cashierCtx()

			line := domain.CheckoutLine{ProductID: "prod-teh-01", Quantity: original, UnitPrice: decimal.NewFromInt(9800)}
			extra := domain.CheckoutLine{ProductID: "prod-air-01", Quantity: 1, UnitPrice: decimal.NewFromInt(3900)}
			sold, err := svc.Checkout(ctx, domain.CheckoutRequest{Lines: []domain.CheckoutLine{line, extra}})
			if err != nil {
				return false
			}
			var itemID string
			for _, item := range sold.Sale.Items {
				if item.ProductID == "prod-teh-01" {
					itemID = item.ID
				}
			}

			session, err := svc.BeginEdit(ctx, sold.Sale.ID)
			if err != nil {
				return false
			}
			if err := session.ChangeQuantity(itemID, delta); err != nil {
				return false
			}
			if _, err := session.Save(ctx); err != nil {
				return false
			}

			final := max(original+delta, 0)
			p, _ := repo.GetProduct(context.Background(), "prod-teh-01")
			return p.StockQuantity == 120-final && p.StockQuantity == ledger.Project(repo.Movements())["prod-teh-01"]
		},
		gen.IntRange(1, 30),
		gen.IntRange(-40, 40),
	))

	properties.TestingRun(t)
}
