package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tokopos/internal/domain"
	"tokopos/internal/ledger"
	"tokopos/internal/store"
)

type EditState string

const (
	EditViewing EditState = "viewing"
	EditEditing EditState = "editing"
)

// EditSession buffers item changes to a completed sale until Save reconciles
// them against the original items.
type EditSession struct {
	svc    *Service
	saleID string

	mu       sync.Mutex
	state    EditState
	sale     domain.Sale
	original []domain.SaleItem
	edited   []domain.SaleItem
}

// EditView is the client-facing state of a session.
type EditView struct {
	SaleID   string            `json:"sale_id"`
	State    EditState         `json:"state"`
	Original []domain.SaleItem `json:"original"`
	Edited   []domain.SaleItem `json:"edited"`
	Subtotal decimal.Decimal   `json:"subtotal"`
}

// BeginEdit opens the edit session for a completed sale. An open session for
// the same sale is returned as is while the sale is still completed.
func (s *Service) BeginEdit(ctx context.Context, saleID string) (*EditSession, error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}

	s.editMu.Lock()
	defer s.editMu.Unlock()

	sale, err := s.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status != domain.SaleStatusCompleted {
		delete(s.edits, saleID)
		return nil, domain.Invalid("status", fmt.Sprintf("only completed sales can be edited, sale is %s", sale.Status))
	}
	if existing, ok := s.edits[saleID]; ok {
		return existing, nil
	}

	session := &EditSession{
		svc:      s,
		saleID:   sale.ID,
		state:    EditEditing,
		sale:     *sale,
		original: cloneItems(sale.Items),
		edited:   cloneItems(sale.Items),
	}
	s.edits[sale.ID] = session
	return session, nil
}

// EditSession returns the open session for saleID.
func (s *Service) EditSession(saleID string) (*EditSession, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	session, ok := s.edits[saleID]
	if !ok {
		return nil, fmt.Errorf("edit session for sale %s: %w", saleID, store.ErrNotFound)
	}
	return session, nil
}

func (s *Service) closeEdit(saleID string) {
	s.editMu.Lock()
	defer s.editMu.Unlock()
	delete(s.edits, saleID)
}

func (e *EditSession) SaleID() string {
	return e.saleID
}

func (e *EditSession) View() EditView {
	e.mu.Lock()
	defer e.mu.Unlock()

	subtotal := decimal.Zero
	for _, item := range e.edited {
		subtotal = subtotal.Add(item.Total)
	}
	return EditView{
		SaleID:   e.saleID,
		State:    e.state,
		Original: cloneItems(e.original),
		Edited:   cloneItems(e.edited),
		Subtotal: subtotal,
	}
}

func (e *EditSession) requireEditing() error {
	if e.state != EditEditing {
		return domain.Invalid("state", "sale is not being edited")
	}
	return nil
}

func (e *EditSession) find(itemID string) int {
	for i := range e.edited {
		if e.edited[i].ID == itemID {
			return i
		}
	}
	return -1
}

// ChangeQuantity adjusts an item in the buffer by delta, clamping at zero.
// An item reaching zero leaves the buffer, unless it is the last one.
func (e *EditSession) ChangeQuantity(itemID string, delta int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireEditing(); err != nil {
		return err
	}
	idx := e.find(itemID)
	if idx < 0 {
		return fmt.Errorf("sale item %s: %w", itemID, store.ErrNotFound)
	}

	qty := max(e.edited[idx].Quantity+delta, 0)
	if qty == 0 {
		if len(e.edited) == 1 {
			return domain.Invalid("items", "a sale must keep at least one item; void the sale instead")
		}
		e.edited = append(e.edited[:idx], e.edited[idx+1:]...)
		return nil
	}
	e.edited[idx].Quantity = qty
	e.edited[idx].Total = e.edited[idx].UnitPrice.Mul(decimalQty(qty))
	return nil
}

// RemoveItem drops an item from the buffer. Removing the last item is
// rejected and leaves the buffer as it was.
func (e *EditSession) RemoveItem(itemID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireEditing(); err != nil {
		return err
	}
	idx := e.find(itemID)
	if idx < 0 {
		return fmt.Errorf("sale item %s: %w", itemID, store.ErrNotFound)
	}
	if len(e.edited) == 1 {
		return domain.Invalid("items", "a sale must keep at least one item; void the sale instead")
	}
	e.edited = append(e.edited[:idx], e.edited[idx+1:]...)
	return nil
}

// Cancel discards the buffer and closes the session.
func (e *EditSession) Cancel() {
	e.mu.Lock()
	e.state = EditViewing
	e.edited = nil
	e.mu.Unlock()
	e.svc.closeEdit(e.saleID)
}

// Save reconciles the buffer against the original items in one transaction:
// removed items are deleted and fully restored, changed items post only the
// quantity difference, and the header totals are recomputed keeping the
// original tax rate. Row and header writes are fatal; movements are not.
func (e *EditSession) Save(ctx context.Context) (*domain.EditResult, error) {
	s := e.svc
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireEditing(); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	edited := make(map[string]domain.SaleItem, len(e.edited))
	for _, item := range e.edited {
		edited[item.ID] = item
	}
	newSubtotal := decimal.Zero
	for _, item := range e.edited {
		newSubtotal = newSubtotal.Add(item.Total)
	}
	newTax := newSubtotal.Mul(taxRate(e.sale.Subtotal, e.sale.Tax)).Round(2)
	newTotal := newSubtotal.Add(newTax)

	log := s.logger.With(zap.String("sale_id", e.saleID), zap.String("reference", ledger.EditRef(e.saleID)))
	movements := make([]domain.StockMovement, 0, len(e.original))
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		movements = movements[:0]

		current, err := lockSale(ctx, tx, e.saleID)
		if err != nil {
			return err
		}
		if current.Status != domain.SaleStatusCompleted {
			return domain.Invalid("status", fmt.Sprintf("only completed sales can be edited, sale is %s", current.Status))
		}

		now := s.now()
		post := func(m domain.StockMovement) {
			if err := tx.PostStockMovement(ctx, m); err != nil {
				log.Warn("failed to post edit stock movement",
					zap.String("product_id", m.ProductID),
					zap.Int("quantity", m.Quantity),
					zap.Error(err),
				)
				return
			}
			movements = append(movements, m)
		}

		for _, orig := range e.original {
			next, kept := edited[orig.ID]
			if !kept {
				if err := tx.DeleteSaleItem(ctx, orig.ID); err != nil {
					return domain.Persist("delete sale item", err)
				}
				if m, ok := ledger.EditAdjust(e.saleID, orig.ProductID, orig.ProductName, orig.Quantity, actor.Username, now); ok {
					post(m)
				}
				continue
			}
			if next.Quantity == orig.Quantity {
				continue
			}
			if err := tx.UpdateSaleItem(ctx, next); err != nil {
				return domain.Persist("update sale item", err)
			}
			if m, ok := ledger.EditAdjust(e.saleID, orig.ProductID, orig.ProductName, orig.Quantity-next.Quantity, actor.Username, now); ok {
				post(m)
			}
		}

		if err := tx.UpdateSaleTotals(ctx, e.saleID, newSubtotal, newTax, newTotal, now); err != nil {
			return domain.Persist("update sale totals", err)
		}
		return nil
	})
	if err != nil {
		return nil, txError("save sale edit", err)
	}

	e.state = EditViewing
	e.edited = nil
	s.closeEdit(e.saleID)

	sale, err := s.repo.GetSale(ctx, e.saleID)
	if err != nil {
		return nil, err
	}

	log.Info("sale edited",
		zap.Int("movements", len(movements)),
		zap.String("total", newTotal.String()),
		zap.String("user_id", actor.Username),
	)
	return &domain.EditResult{Sale: *sale, Movements: movements}, nil
}

// taxRate is tax/subtotal, or zero for a zero subtotal.
func taxRate(subtotal decimal.Decimal, tax decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() {
		return decimal.Zero
	}
	return tax.Div(subtotal)
}

func cloneItems(items []domain.SaleItem) []domain.SaleItem {
	out := make([]domain.SaleItem, len(items))
	copy(out, items)
	return out
}
