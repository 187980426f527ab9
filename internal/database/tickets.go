package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hotelops/internal/models"
)

func (db *DB) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	query := `INSERT INTO tickets (id, hotel_id, service_key, room, status, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`

	if ticket.Status == "" {
		ticket.Status = models.TicketOpen
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now()
	}

	_, err := db.ExecContext(ctx, query,
		ticket.ID,
		ticket.HotelID,
		ticket.ServiceKey,
		ticket.Room,
		ticket.Status,
		ticket.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

func (db *DB) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	query := `SELECT id, hotel_id, service_key, room, status, created_at, closed_at, minutes_to_close, on_time
              FROM tickets WHERE id = ?`

	var ticket models.Ticket
	err := db.QueryRowContext(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.HotelID,
		&ticket.ServiceKey,
		&ticket.Room,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.ClosedAt,
		&ticket.MinutesToClose,
		&ticket.OnTime,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &ticket, nil
}

// CloseTicket persists the closure metadata as one update. No optimistic
// lock: a race between two closers double-writes the same deterministic
// result, which is acceptable for this single-writer path.
func (db *DB) CloseTicket(ctx context.Context, id string, closedAt time.Time, minutes int64, onTime bool) error {
	query := `UPDATE tickets
              SET status = ?, closed_at = ?, minutes_to_close = ?, on_time = ?
              WHERE id = ?`

	res, err := db.ExecContext(ctx, query, models.TicketClosed, closedAt, minutes, onTime, id)
	if err != nil {
		return fmt.Errorf("failed to close ticket: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// GetLateClosureStats aggregates tickets closed since the cutoff, per hotel.
func (db *DB) GetLateClosureStats(ctx context.Context, since time.Time) ([]models.LateClosureStat, error) {
	query := `SELECT hotel_id,
                     COUNT(*) AS closed,
                     SUM(CASE WHEN on_time = 0 THEN 1 ELSE 0 END) AS late
              FROM tickets
              WHERE status = ? AND closed_at >= ?
              GROUP BY hotel_id
              ORDER BY hotel_id`

	rows, err := db.QueryContext(ctx, query, models.TicketClosed, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get late closure stats: %w", err)
	}
	defer rows.Close()

	var stats []models.LateClosureStat
	for rows.Next() {
		var s models.LateClosureStat
		if err := rows.Scan(&s.HotelID, &s.Closed, &s.Late); err != nil {
			return nil, fmt.Errorf("failed to scan closure stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetTicketsByHotel returns tickets for a hotel, newest first.
func (db *DB) GetTicketsByHotel(ctx context.Context, hotelID string, limit int) ([]models.Ticket, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, hotel_id, service_key, room, status, created_at, closed_at, minutes_to_close, on_time
              FROM tickets WHERE hotel_id = ? ORDER BY created_at DESC LIMIT ?`

	rows, err := db.QueryContext(ctx, query, hotelID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		err := rows.Scan(
			&t.ID,
			&t.HotelID,
			&t.ServiceKey,
			&t.Room,
			&t.Status,
			&t.CreatedAt,
			&t.ClosedAt,
			&t.MinutesToClose,
			&t.OnTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}
