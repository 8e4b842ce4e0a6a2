package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tokopos/internal/domain"
	"tokopos/internal/ledger"
	"tokopos/internal/store"
	"tokopos/internal/xid"
)

// Checkout records a completed sale, its items, the stock it consumed and
// any loyalty accrual in one transaction. The sale and its items must be
// written; stock and loyalty writes are logged and skipped when they fail.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	customer := req.Customer
	if customer == nil {
		customer = domain.WalkIn{}
	}
	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	now := s.now()
	sale := domain.Sale{
		ID:             xid.New(),
		CustomerID:     domain.CustomerIDOf(customer),
		Customer:       customer.Snapshot(),
		Subtotal:       req.Subtotal,
		Tax:            req.Tax,
		Total:          req.Total,
		PaymentMethod:  paymentMethod,
		ReceivedAmount: req.ReceivedAmount,
		ChangeAmount:   req.ReceivedAmount.Sub(req.Total),
		Status:         domain.SaleStatusCompleted,
		UserID:         actor.Username,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	items := make([]domain.SaleItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		items = append(items, domain.SaleItem{
			ID:          xid.New(),
			SaleID:      sale.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ProductSKU:  line.ProductSKU,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Total:       line.UnitPrice.Mul(decimalQty(line.Quantity)),
		})
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log := s.logger.With(zap.String("sale_id", sale.ID), zap.String("reference", ledger.SaleRef(sale.ID)))
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.InsertSale(ctx, sale); err != nil {
			return domain.Persist("insert sale", err)
		}
		if err := tx.InsertSaleItems(ctx, items); err != nil {
			return domain.Persist("insert sale items", err)
		}

		for _, item := range items {
			movement := ledger.SaleOut(sale.ID, item, sale.Customer.Name, actor.Username, now)
			if err := tx.PostStockMovement(ctx, movement); err != nil {
				log.Warn("failed to post sale stock movement",
					zap.String("product_id", item.ProductID),
					zap.Int("quantity", item.Quantity),
					zap.Error(err),
				)
			}
		}

		if reg, ok := domain.EarnsLoyalty(customer); ok {
			s.accrueLoyalty(ctx, tx, log, reg, sale)
		}
		return nil
	})
	if err != nil {
		return nil, txError("checkout", err)
	}

	sale.Items = items
	log.Info("sale completed",
		zap.String("total", sale.Total.String()),
		zap.Int("items", len(items)),
		zap.String("user_id", actor.Username),
	)
	s.autoEnqueue(ctx, sale)

	return &domain.CheckoutResult{Success: true, Sale: sale, SaleItems: items}, nil
}

// accrueLoyalty credits floor(total) points. The ledger row is only written
// once the balance update succeeds.
func (s *Service) accrueLoyalty(ctx context.Context, tx store.Tx, log *zap.Logger, customer domain.RegisteredCustomer, sale domain.Sale) {
	points := sale.Total.Floor().IntPart()
	if points <= 0 {
		return
	}
	if err := tx.AddLoyaltyPoints(ctx, customer.ID, points); err != nil {
		log.Warn("failed to add loyalty points", zap.String("customer_id", customer.ID), zap.Int64("points", points), zap.Error(err))
		return
	}
	entry := domain.LoyaltyTransaction{
		ID:          xid.New(),
		CustomerID:  customer.ID,
		SaleID:      sale.ID,
		Points:      points,
		Type:        domain.LoyaltyEarned,
		Description: fmt.Sprintf("Points earned from sale #%s", ledger.SaleNumber(sale.ID)),
		CreatedAt:   sale.CreatedAt,
	}
	if err := tx.InsertLoyaltyTransaction(ctx, entry); err != nil {
		log.Warn("failed to record loyalty transaction", zap.String("customer_id", customer.ID), zap.Error(err))
	}
}

func validateCheckout(req domain.CheckoutRequest) error {
	if len(req.Lines) == 0 {
		return domain.Invalid("lines", "at least one line is required")
	}
	for i, line := range req.Lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return domain.Invalid(fmt.Sprintf("lines[%d].product_id", i), "is required")
		}
		if line.Quantity < 1 {
			return domain.Invalid(fmt.Sprintf("lines[%d].quantity", i), "must be at least 1")
		}
		if line.UnitPrice.IsNegative() {
			return domain.Invalid(fmt.Sprintf("lines[%d].unit_price", i), "must not be negative")
		}
	}
	if req.Total.IsNegative() || req.ReceivedAmount.IsNegative() {
		return domain.Invalid("total", "amounts must not be negative")
	}
	return nil
}
