package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hotelops/internal/models"
)

func (db *DB) CreateOrUpdateHotel(ctx context.Context, hotel *models.Hotel) error {
	query := `INSERT INTO hotels (id, name, active, created_at)
              VALUES (?, ?, ?, ?)
              ON CONFLICT(id) DO UPDATE SET
                  name = excluded.name,
                  active = excluded.active`

	if hotel.CreatedAt.IsZero() {
		hotel.CreatedAt = time.Now()
	}
	_, err := db.ExecContext(ctx, query, hotel.ID, hotel.Name, hotel.Active, hotel.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert hotel: %w", err)
	}
	return nil
}

func (db *DB) GetHotel(ctx context.Context, id string) (*models.Hotel, error) {
	query := `SELECT id, name, active, created_at FROM hotels WHERE id = ?`

	var hotel models.Hotel
	err := db.QueryRowContext(ctx, query, id).Scan(&hotel.ID, &hotel.Name, &hotel.Active, &hotel.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	return &hotel, nil
}

// UpsertService creates or replaces the catalog entry keyed by (hotel_id, key).
func (db *DB) UpsertService(ctx context.Context, service *models.Service) error {
	query := `INSERT INTO services (hotel_id, key, label, sla_minutes, active, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)
              ON CONFLICT(hotel_id, key) DO UPDATE SET
                  label = excluded.label,
                  sla_minutes = excluded.sla_minutes,
                  active = excluded.active,
                  updated_at = excluded.updated_at`

	now := time.Now()
	_, err := db.ExecContext(ctx, query,
		service.HotelID,
		service.Key,
		service.Label,
		service.SLAMinutes,
		service.Active,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert service: %w", err)
	}
	service.UpdatedAt = now
	return nil
}

// GetServiceSLA resolves sla_minutes for an active (hotel_id, key) row.
// Returns ErrServiceNotFound when no active row matches; the caller
// decides the default.
func (db *DB) GetServiceSLA(ctx context.Context, hotelID, key string) (int64, error) {
	query := `SELECT sla_minutes FROM services WHERE hotel_id = ? AND key = ? AND active = 1`

	var sla int64
	err := db.QueryRowContext(ctx, query, hotelID, key).Scan(&sla)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrServiceNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get service sla: %w", err)
	}
	return sla, nil
}

func (db *DB) GetServices(ctx context.Context, hotelID string) ([]models.Service, error) {
	query := `SELECT id, hotel_id, key, label, sla_minutes, active, created_at, updated_at
              FROM services WHERE hotel_id = ? ORDER BY key`

	rows, err := db.QueryContext(ctx, query, hotelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get services: %w", err)
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var s models.Service
		err := rows.Scan(&s.ID, &s.HotelID, &s.Key, &s.Label, &s.SLAMinutes, &s.Active, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return services, nil
}

func (db *DB) DeactivateService(ctx context.Context, hotelID, key string) error {
	query := `UPDATE services SET active = 0, updated_at = ? WHERE hotel_id = ? AND key = ?`

	res, err := db.ExecContext(ctx, query, time.Now(), hotelID, key)
	if err != nil {
		return fmt.Errorf("failed to deactivate service: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrServiceNotFound
	}
	return nil
}
