// Package ledger holds the stock movement conventions and the projection
// from movements to stock levels.
package ledger

import (
	"fmt"
	"time"

	"tokopos/internal/domain"
	"tokopos/internal/xid"
)

const (
	PrefixSale  = "SALE-"
	PrefixVoid  = "VOID-"
	PrefixEdit  = "EDIT-"
	PrefixBatch = "BATCH-"
)

func SaleRef(saleID string) string { return PrefixSale + xid.Short(saleID) }
func VoidRef(saleID string) string { return PrefixVoid + xid.Short(saleID) }
func EditRef(saleID string) string { return PrefixEdit + xid.Short(saleID) }
func BatchRef(batchID string) string { return PrefixBatch + xid.Short(batchID) }

// SaleNumber is the receipt number printed for a sale.
func SaleNumber(saleID string) string { return SaleRef(saleID) }

// Entry builds a movement for a signed delta. A positive delta is an "in"
// movement, a negative one an "out" of |delta|. ok is false for zero.
func Entry(productID string, delta int, reference string, notes string, userID string, at time.Time) (domain.StockMovement, bool) {
	if delta == 0 {
		return domain.StockMovement{}, false
	}
	kind := domain.MovementIn
	qty := delta
	if delta < 0 {
		kind = domain.MovementOut
		qty = -delta
	}
	return domain.StockMovement{
		ID:        xid.New(),
		ProductID: productID,
		Type:      kind,
		Quantity:  qty,
		Reference: reference,
		Notes:     notes,
		UserID:    userID,
		CreatedAt: at,
	}, true
}

func SaleOut(saleID string, item domain.SaleItem, customerName string, userID string, at time.Time) domain.StockMovement {
	m, _ := Entry(item.ProductID, -item.Quantity, SaleRef(saleID), fmt.Sprintf("Sold to %s", customerName), userID, at)
	return m
}

func VoidIn(saleID string, item domain.SaleItem, userID string, at time.Time) domain.StockMovement {
	m, _ := Entry(item.ProductID, item.Quantity, VoidRef(saleID), fmt.Sprintf("Stock restored from voided sale #%s", SaleNumber(saleID)), userID, at)
	return m
}

// EditAdjust posts the correction for an edited line. restored is the
// original quantity minus the edited quantity.
func EditAdjust(saleID string, productID string, productName string, restored int, userID string, at time.Time) (domain.StockMovement, bool) {
	verb := "Returned"
	abs := restored
	if restored < 0 {
		verb = "Added"
		abs = -restored
	}
	return Entry(productID, restored, EditRef(saleID), fmt.Sprintf("Sale edit: %s %d x %s", verb, abs, productName), userID, at)
}

// Project reduces movements to stock per product: Σ in − Σ out, unclamped.
func Project(movements []domain.StockMovement) map[string]int {
	stock := make(map[string]int)
	for _, m := range movements {
		stock[m.ProductID] += m.Delta()
	}
	return stock
}

// ProjectProduct is Project restricted to one product.
func ProjectProduct(productID string, movements []domain.StockMovement) int {
	total := 0
	for _, m := range movements {
		if m.ProductID == productID {
			total += m.Delta()
		}
	}
	return total
}

// SumByReference totals movement quantities of one type for a reference.
func SumByReference(movements []domain.StockMovement, reference string, kind domain.MovementType) int {
	total := 0
	for _, m := range movements {
		if m.Reference == reference && m.Type == kind {
			total += m.Quantity
		}
	}
	return total
}
