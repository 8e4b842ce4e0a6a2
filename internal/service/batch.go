package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tokopos/internal/domain"
	"tokopos/internal/ledger"
	"tokopos/internal/store"
	"tokopos/internal/xid"
)

// ReceiveBatch books incoming goods: one batch header and one "in" movement
// per line, all or nothing.
func (s *Service) ReceiveBatch(ctx context.Context, req domain.BatchReceiveRequest) (*domain.BatchReceiveResult, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, domain.Invalid("lines", "at least one line is required")
	}
	for i, line := range req.Lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return nil, domain.Invalid(fmt.Sprintf("lines[%d].product_id", i), "is required")
		}
		if line.Quantity < 1 {
			return nil, domain.Invalid(fmt.Sprintf("lines[%d].quantity", i), "must be at least 1")
		}
		if line.UnitCost.IsNegative() {
			return nil, domain.Invalid(fmt.Sprintf("lines[%d].unit_cost", i), "must not be negative")
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ids := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		ids = append(ids, line.ProductID)
	}
	products, err := s.repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
		}
	}

	now := s.now()
	batch := domain.StockBatch{
		ID:         xid.New(),
		Type:       domain.MovementIn,
		Reference:  strings.TrimSpace(req.Reference),
		Supplier:   strings.TrimSpace(req.Supplier),
		Notes:      strings.TrimSpace(req.Notes),
		Status:     domain.BatchStatusReceived,
		TotalItems: len(req.Lines),
		TotalValue: decimal.Zero,
		UserID:     actor.Username,
		CreatedAt:  now,
	}
	if batch.Reference == "" {
		batch.Reference = ledger.BatchRef(batch.ID)
	}

	notes := "Batch receive " + batch.Reference
	if batch.Supplier != "" {
		notes += " from " + batch.Supplier
	}
	movements := make([]domain.StockMovement, 0, len(req.Lines))
	for _, line := range req.Lines {
		m, _ := ledger.Entry(line.ProductID, line.Quantity, ledger.BatchRef(batch.ID), notes, actor.Username, now)
		m.BatchID = batch.ID
		movements = append(movements, m)
		batch.TotalQuantity += line.Quantity
		batch.TotalValue = batch.TotalValue.Add(line.UnitCost.Mul(decimalQty(line.Quantity)))
	}

	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.InsertBatch(ctx, batch); err != nil {
			return domain.Persist("insert stock batch", err)
		}
		for _, m := range movements {
			if err := tx.PostStockMovement(ctx, m); err != nil {
				return domain.Persist("post batch movement", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, txError("receive batch", err)
	}

	s.logger.Info("stock batch received",
		zap.String("batch_id", batch.ID),
		zap.String("reference", batch.Reference),
		zap.Int("total_quantity", batch.TotalQuantity),
	)
	return &domain.BatchReceiveResult{Batch: batch, Movements: movements}, nil
}

func (s *Service) GetBatch(ctx context.Context, batchID string) (*domain.BatchReceiveResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	batch, err := s.repo.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	movements, err := s.repo.ListBatchMovements(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return &domain.BatchReceiveResult{Batch: *batch, Movements: movements}, nil
}

// MaxLabelsPerSheet bounds one page of batch labels, gap stickers included.
const MaxLabelsPerSheet = 500

// LabelPage selects a window of a batch's label sequence. A zero or oversized
// Limit means MaxLabelsPerSheet.
type LabelPage struct {
	Offset int
	Limit  int
}

// BatchLabels expands a batch into one sticker per received unit, with a gap
// sticker between products, and returns the requested page of that sequence.
// Only the stickers inside the page are built.
func (s *Service) BatchLabels(ctx context.Context, batchID string, page LabelPage) (*domain.LabelSheet, error) {
	if page.Offset < 0 {
		return nil, domain.Invalid("offset", "must not be negative")
	}
	if page.Limit <= 0 || page.Limit > MaxLabelsPerSheet {
		page.Limit = MaxLabelsPerSheet
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	movements, err := s.repo.ListBatchMovements(ctx, batchID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(movements))
	for _, m := range movements {
		ids = append(ids, m.ProductID)
	}
	products, err := s.repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	end := page.Offset + page.Limit
	sheet := &domain.LabelSheet{Offset: page.Offset, Labels: []domain.BatchLabel{}}
	pos := 0
	emit := func(label domain.BatchLabel) {
		if pos >= page.Offset && pos < end {
			sheet.Labels = append(sheet.Labels, label)
		}
		pos++
	}
	for _, m := range movements {
		if m.Type != domain.MovementIn {
			continue
		}
		p, ok := products[m.ProductID]
		if !ok {
			continue
		}
		if pos > 0 {
			emit(domain.BatchLabel{Gap: true})
		}
		barcode := p.SKU
		if barcode == "" {
			barcode = p.ID
		}
		// Units of this product that fall inside the window.
		from := max(page.Offset-pos, 0)
		to := min(end-pos, m.Quantity)
		for i := from; i < to; i++ {
			sheet.Labels = append(sheet.Labels, domain.BatchLabel{
				ProductID:    p.ID,
				Name:         p.Name,
				BarcodeValue: barcode,
				Price:        p.Price,
			})
		}
		pos += m.Quantity
	}

	sheet.Total = pos
	if end < pos {
		sheet.NextOffset = &end
	}
	return sheet, nil
}
