package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tokopos/internal/domain"
	"tokopos/internal/store"
)

// unit implements store.Tx over one database transaction.
type unit struct {
	tx        *sql.Tx
	savepoint int
}

// peripheral runs fn under a savepoint so a failed write is undone without
// aborting the enclosing transaction.
func (u *unit) peripheral(ctx context.Context, fn func() error) error {
	u.savepoint++
	name := fmt.Sprintf("peripheral_%d", u.savepoint)
	if _, err := u.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if _, rbErr := u.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	_, err := u.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name)
	return err
}

func (u *unit) InsertSale(ctx context.Context, sale domain.Sale) error {
	_, err := u.tx.ExecContext(ctx, `
		INSERT INTO sales (
			id, customer_id, customer_name, customer_phone, customer_email, subtotal, tax, total,
			payment_method, received_amount, change_amount, status, user_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, sale.ID, nullString(sale.CustomerID), sale.Customer.Name, nullIfEmpty(sale.Customer.Phone), nullIfEmpty(sale.Customer.Email),
		sale.Subtotal, sale.Tax, sale.Total, sale.PaymentMethod, sale.ReceivedAmount, sale.ChangeAmount,
		sale.Status, sale.UserID, sale.CreatedAt, sale.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("sale %s: %w", sale.ID, store.ErrConflict)
	}
	return err
}

func (u *unit) InsertSaleItems(ctx context.Context, items []domain.SaleItem) error {
	for _, item := range items {
		_, err := u.tx.ExecContext(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, price, total)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Total)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("sale item %s: %w", item.ID, store.ErrNotFound)
			}
			return err
		}
	}
	return nil
}

func (u *unit) LockSale(ctx context.Context, id string) (*domain.Sale, error) {
	return loadSale(ctx, u.tx, id, true)
}

func (u *unit) UpdateSaleStatus(ctx context.Context, id string, status domain.SaleStatus, at time.Time) error {
	res, err := u.tx.ExecContext(ctx, `UPDATE sales SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (u *unit) UpdateSaleItem(ctx context.Context, item domain.SaleItem) error {
	res, err := u.tx.ExecContext(ctx, `UPDATE sale_items SET quantity = $2, total = $3 WHERE id = $1`, item.ID, item.Quantity, item.Total)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (u *unit) DeleteSaleItem(ctx context.Context, itemID string) error {
	res, err := u.tx.ExecContext(ctx, `DELETE FROM sale_items WHERE id = $1`, itemID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (u *unit) UpdateSaleTotals(ctx context.Context, id string, subtotal decimal.Decimal, tax decimal.Decimal, total decimal.Decimal, at time.Time) error {
	res, err := u.tx.ExecContext(ctx, `
		UPDATE sales SET subtotal = $2, tax = $3, total = $4, updated_at = $5 WHERE id = $1
	`, id, subtotal, tax, total, at)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (u *unit) PostStockMovement(ctx context.Context, movement domain.StockMovement) error {
	return u.peripheral(ctx, func() error {
		_, err := u.tx.ExecContext(ctx, `
			INSERT INTO stock_movements (id, product_id, type, quantity, reference, notes, batch_id, user_id, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, movement.ID, movement.ProductID, movement.Type, movement.Quantity, movement.Reference,
			nullIfEmpty(movement.Notes), nullIfEmpty(movement.BatchID), movement.UserID, movement.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("movement %s: %w", movement.ID, store.ErrNotFound)
			}
			return err
		}

		res, err := u.tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity + $2, updated_at = $3
			WHERE id = $1
		`, movement.ProductID, movement.Delta(), movement.CreatedAt)
		if err != nil {
			return err
		}
		return expectAffected(res)
	})
}

func (u *unit) AddLoyaltyPoints(ctx context.Context, customerID string, points int64) error {
	return u.peripheral(ctx, func() error {
		res, err := u.tx.ExecContext(ctx, `
			UPDATE customers
			SET loyalty_points = loyalty_points + $2, updated_at = now()
			WHERE id = $1
		`, customerID, points)
		if err != nil {
			return notFound(err)
		}
		return expectAffected(res)
	})
}

func (u *unit) InsertLoyaltyTransaction(ctx context.Context, entry domain.LoyaltyTransaction) error {
	return u.peripheral(ctx, func() error {
		_, err := u.tx.ExecContext(ctx, `
			INSERT INTO loyalty_transactions (id, customer_id, sale_id, points, type, description, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, entry.ID, entry.CustomerID, nullIfEmpty(entry.SaleID), entry.Points, entry.Type, nullIfEmpty(entry.Description), entry.CreatedAt)
		if isForeignKeyViolation(err) {
			return store.ErrNotFound
		}
		return err
	})
}

func (u *unit) InsertBatch(ctx context.Context, batch domain.StockBatch) error {
	_, err := u.tx.ExecContext(ctx, `
		INSERT INTO stock_batches (id, type, reference, supplier, notes, status, total_items, total_quantity, total_value, user_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, batch.ID, batch.Type, batch.Reference, nullIfEmpty(batch.Supplier), nullIfEmpty(batch.Notes), batch.Status,
		batch.TotalItems, batch.TotalQuantity, batch.TotalValue, batch.UserID, batch.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("batch %s: %w", batch.ID, store.ErrConflict)
	}
	return err
}

func (u *unit) LockProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(u.tx.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (u *unit) ProductMovements(ctx context.Context, productID string) ([]domain.StockMovement, error) {
	rows, err := u.tx.QueryContext(ctx, `
		SELECT `+movementColumns+`
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at, id
	`, productID)
	if err != nil {
		return nil, err
	}
	return scanMovements(rows)
}

func (u *unit) SetStockQuantity(ctx context.Context, productID string, qty int) error {
	res, err := u.tx.ExecContext(ctx, `
		UPDATE products SET stock_quantity = $2, updated_at = now() WHERE id = $1
	`, productID, qty)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
