package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hotelops/internal/models"
)

func (db *DB) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `INSERT INTO orders (id, hotel_id, item_key, qty, price_paise, status, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`

	if order.Status == "" {
		order.Status = models.OrderPreparing
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	_, err := db.ExecContext(ctx, query,
		order.ID,
		order.HotelID,
		order.ItemKey,
		order.Qty,
		order.PricePaise,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (db *DB) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT id, hotel_id, item_key, qty, price_paise, status, created_at, closed_at
              FROM orders WHERE id = ?`

	var order models.Order
	err := db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.HotelID,
		&order.ItemKey,
		&order.Qty,
		&order.PricePaise,
		&order.Status,
		&order.CreatedAt,
		&order.ClosedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// UpdateOrderStatus moves an order to status. Terminal statuses stamp
// closed_at in the same update; closed_at is one-way, so any update on an
// already-closed order is refused.
func (db *DB) UpdateOrderStatus(ctx context.Context, id, status string) error {
	order, err := db.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if order.ClosedAt != nil {
		return ErrOrderClosed
	}

	if models.IsTerminalOrderStatus(status) {
		query := `UPDATE orders SET status = ?, closed_at = ? WHERE id = ? AND closed_at IS NULL`
		res, err := db.ExecContext(ctx, query, status, time.Now(), id)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			// Lost a race with another terminal transition.
			return ErrOrderClosed
		}
		return nil
	}

	query := `UPDATE orders SET status = ? WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// GetOrdersByHotel returns orders for a hotel, newest first.
func (db *DB) GetOrdersByHotel(ctx context.Context, hotelID string, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, hotel_id, item_key, qty, price_paise, status, created_at, closed_at
              FROM orders WHERE hotel_id = ? ORDER BY created_at DESC LIMIT ?`

	rows, err := db.QueryContext(ctx, query, hotelID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID,
			&o.HotelID,
			&o.ItemKey,
			&o.Qty,
			&o.PricePaise,
			&o.Status,
			&o.CreatedAt,
			&o.ClosedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
