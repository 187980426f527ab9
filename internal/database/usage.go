package database

import (
	"context"
	"fmt"
	"time"

	"hotelops/internal/models"
)

// UpsertAIUsage sets the usage counters for a hotel+month. The counter
// itself is maintained by an external process; this exists for tests and
// backfills.
func (db *DB) UpsertAIUsage(ctx context.Context, usage *models.AIUsage) error {
	query := `INSERT INTO ai_usage (hotel_id, month, used_tokens, budget_tokens)
              VALUES (?, ?, ?, ?)
              ON CONFLICT(hotel_id, month) DO UPDATE SET
                  used_tokens = excluded.used_tokens,
                  budget_tokens = excluded.budget_tokens`

	_, err := db.ExecContext(ctx, query, usage.HotelID, usage.Month, usage.UsedTokens, usage.BudgetTokens)
	if err != nil {
		return fmt.Errorf("failed to upsert ai usage: %w", err)
	}
	return nil
}

// GetAIUsageForMonth returns every hotel's usage record for a month.
func (db *DB) GetAIUsageForMonth(ctx context.Context, month string) ([]models.AIUsage, error) {
	query := `SELECT hotel_id, month, used_tokens, budget_tokens
              FROM ai_usage WHERE month = ? ORDER BY hotel_id`

	rows, err := db.QueryContext(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get ai usage: %w", err)
	}
	defer rows.Close()

	var records []models.AIUsage
	for rows.Next() {
		var u models.AIUsage
		if err := rows.Scan(&u.HotelID, &u.Month, &u.UsedTokens, &u.BudgetTokens); err != nil {
			return nil, fmt.Errorf("failed to scan ai usage: %w", err)
		}
		records = append(records, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// CurrentMonthUTC formats a time as the ai_usage month key.
func CurrentMonthUTC(now time.Time) string {
	return now.UTC().Format("2006-01")
}
