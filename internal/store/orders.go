package store

import (
	"context"
	"database/sql"
	"fmt"

	"shop-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// LineInput is a resolved (item, quantity) pair for an order mutation.
type LineInput struct {
	ItemID   int64
	Quantity int
}

// ListOrders retrieves every order, oldest first
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY created_at")
	return orders, err
}

// GetOrderByUUID retrieves an order by uuid
func (s *Store) GetOrderByUUID(ctx context.Context, uuid string) (*models.Order, error) {
	if !isUUID(uuid) {
		return nil, ErrNotFound
	}

	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE uuid = $1", uuid)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderLines retrieves the lines of the given orders joined with their items
func (s *Store) GetOrderLines(ctx context.Context, orderIDs []int64) ([]models.OrderLine, error) {
	if len(orderIDs) == 0 {
		return []models.OrderLine{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT oi.order_id, i.uuid AS item_uuid, i.name, i.description, i.price,
		       oi.quantity, oi.subtotal
		FROM order_items oi
		JOIN items i ON i.id = oi.item_id
		WHERE oi.order_id IN (?)
		ORDER BY oi.id`, orderIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var lines []models.OrderLine
	err = s.db.SelectContext(ctx, &lines, query, args...)
	return lines, err
}

// CreateOrder inserts an order and its lines in one transaction. Item rows
// are locked while their availability is checked and decremented; any
// shortfall aborts the whole order with ErrInsufficientAvailability.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, lines []LineInput) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (uuid, user_id, address_id, total_price)
		VALUES ($1, $2, $3, 0)
		RETURNING id, created_at, updated_at`
	if err := tx.GetContext(ctx, order, query, order.UUID, order.UserID, order.AddressID); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	total, err := addOrderLines(ctx, tx, order.ID, lines)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET total_price = $1 WHERE id = $2", total, order.ID); err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}
	order.TotalPrice = total

	return tx.Commit()
}

// ReplaceOrder swaps an order's item set and delivery address in one
// transaction. The old lines' stock is restored before the new set is
// inserted, so replacing an order with itself is a no-op on availability.
func (s *Store) ReplaceOrder(ctx context.Context, order *models.Order, addressID int64, lines []LineInput) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := clearOrderLines(ctx, tx, order.ID); err != nil {
		return err
	}

	total, err := addOrderLines(ctx, tx, order.ID, lines)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET address_id = $1, total_price = $2, updated_at = NOW() WHERE id = $3",
		addressID, total, order.ID); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	order.AddressID = addressID
	order.TotalPrice = total

	return tx.Commit()
}

// DeleteOrder removes an order and its lines, restoring the items' stock
func (s *Store) DeleteOrder(ctx context.Context, orderID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := clearOrderLines(ctx, tx, orderID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return tx.Commit()
}

// addOrderLines inserts order lines, locking each item row to check and
// decrement its availability. Returns the order total.
func addOrderLines(ctx context.Context, tx *sqlx.Tx, orderID int64, lines []LineInput) (float64, error) {
	var total float64

	for _, line := range lines {
		var item struct {
			UUID         string  `db:"uuid"`
			Price        float64 `db:"price"`
			Availability int     `db:"availability"`
		}
		err := tx.GetContext(ctx, &item,
			"SELECT uuid, price, availability FROM items WHERE id = $1 FOR UPDATE", line.ItemID)
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("failed to lock item %d: %w", line.ItemID, err)
		}

		if item.Availability < line.Quantity {
			return 0, fmt.Errorf("item %s: available=%d, requested=%d: %w",
				item.UUID, item.Availability, line.Quantity, ErrInsufficientAvailability)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE items SET availability = availability - $1, updated_at = NOW() WHERE id = $2",
			line.Quantity, line.ItemID); err != nil {
			return 0, fmt.Errorf("failed to decrement availability: %w", err)
		}

		subtotal := item.Price * float64(line.Quantity)
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, item_id, quantity, subtotal) VALUES ($1, $2, $3, $4)",
			orderID, line.ItemID, line.Quantity, subtotal); err != nil {
			return 0, fmt.Errorf("failed to insert order item: %w", err)
		}

		total += subtotal
	}

	return total, nil
}

// clearOrderLines deletes an order's lines, giving their stock back first
func clearOrderLines(ctx context.Context, tx *sqlx.Tx, orderID int64) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE items SET availability = items.availability + oi.quantity, updated_at = NOW()
		FROM order_items oi
		WHERE oi.item_id = items.id AND oi.order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to restore availability: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM order_items WHERE order_id = $1", orderID); err != nil {
		return fmt.Errorf("failed to clear order items: %w", err)
	}

	return nil
}
