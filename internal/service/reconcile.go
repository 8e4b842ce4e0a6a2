package service

import (
	"context"

	"go.uber.org/zap"

	"tokopos/internal/domain"
	"tokopos/internal/ledger"
	"tokopos/internal/store"
)

// ReconcileStock recomputes a product's stock from its full movement history
// and writes the projection back when it has drifted.
func (s *Service) ReconcileStock(ctx context.Context, productID string) (*domain.StockReconciliation, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var result domain.StockReconciliation
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		product, err := tx.LockProduct(ctx, productID)
		if err != nil {
			return err
		}
		movements, err := tx.ProductMovements(ctx, productID)
		if err != nil {
			return domain.Persist("load product movements", err)
		}

		projected := ledger.ProjectProduct(productID, movements)
		result = domain.StockReconciliation{
			ProductID: productID,
			Before:    product.StockQuantity,
			Projected: projected,
			Drift:     product.StockQuantity - projected,
			Movements: len(movements),
		}
		if result.Drift == 0 {
			return nil
		}
		if err := tx.SetStockQuantity(ctx, productID, projected); err != nil {
			return domain.Persist("set stock quantity", err)
		}
		result.Reconciled = true
		return nil
	})
	if err != nil {
		return nil, txError("reconcile stock", err)
	}

	if result.Reconciled {
		s.logger.Warn("stock drift corrected",
			zap.String("product_id", productID),
			zap.Int("before", result.Before),
			zap.Int("projected", result.Projected),
			zap.String("user_id", actor.Username),
		)
	}
	return &result, nil
}
