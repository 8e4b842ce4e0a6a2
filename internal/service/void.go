package service

import (
	"context"

	"go.uber.org/zap"

	"tokopos/internal/domain"
	"tokopos/internal/ledger"
	"tokopos/internal/store"
)

// VoidSale cancels a sale. A completed sale gets every item's full quantity
// restored under VOID-<short id>; pending and refunded sales flip to
// cancelled without stock changes; a cancelled sale is returned untouched.
func (s *Service) VoidSale(ctx context.Context, saleID string) (*domain.VoidResult, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log := s.logger.With(zap.String("sale_id", saleID), zap.String("reference", ledger.VoidRef(saleID)))
	var result domain.VoidResult
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		result = domain.VoidResult{Movements: []domain.StockMovement{}}

		sale, err := lockSale(ctx, tx, saleID)
		if err != nil {
			return err
		}
		if sale.Status == domain.SaleStatusCancelled {
			result.Sale = *sale
			return nil
		}

		now := s.now()
		if sale.Status == domain.SaleStatusCompleted {
			for _, item := range sale.Items {
				movement := ledger.VoidIn(sale.ID, item, actor.Username, now)
				if err := tx.PostStockMovement(ctx, movement); err != nil {
					log.Warn("failed to restore stock for voided item",
						zap.String("product_id", item.ProductID),
						zap.Int("quantity", item.Quantity),
						zap.Error(err),
					)
					continue
				}
				result.Movements = append(result.Movements, movement)
			}
		}

		if err := tx.UpdateSaleStatus(ctx, sale.ID, domain.SaleStatusCancelled, now); err != nil {
			return domain.Persist("update sale status", err)
		}
		sale.Status = domain.SaleStatusCancelled
		sale.UpdatedAt = now
		result.Sale = *sale
		return nil
	})
	if err != nil {
		return nil, txError("void sale", err)
	}
	s.closeEdit(result.Sale.ID)

	log.Info("sale voided",
		zap.String("status", string(result.Sale.Status)),
		zap.Int("movements", len(result.Movements)),
		zap.String("user_id", actor.Username),
	)
	return &result, nil
}
