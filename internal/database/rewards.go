package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelops/internal/models"

	"github.com/google/uuid"
)

// GetRewardBalance returns the available balance in paise. A missing
// ledger row reads as zero.
func (db *DB) GetRewardBalance(ctx context.Context, userID, hotelID string) (int64, error) {
	query := `SELECT balance_paise FROM reward_ledger WHERE user_id = ? AND hotel_id = ?`

	var balance int64
	err := db.QueryRowContext(ctx, query, userID, hotelID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get reward balance: %w", err)
	}
	return balance, nil
}

// AddRewardCredit credits a ledger, creating the row on first credit.
func (db *DB) AddRewardCredit(ctx context.Context, userID, hotelID string, amountPaise int64) error {
	query := `INSERT INTO reward_ledger (user_id, hotel_id, balance_paise, updated_at)
              VALUES (?, ?, ?, ?)
              ON CONFLICT(user_id, hotel_id) DO UPDATE SET
                  balance_paise = balance_paise + excluded.balance_paise,
                  updated_at = excluded.updated_at`

	_, err := db.ExecContext(ctx, query, userID, hotelID, amountPaise, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add reward credit: %w", err)
	}
	return nil
}

// ClaimVoucher converts balance into a voucher inside one transaction:
// read the balance with the tx, debit it, insert the voucher. Two
// concurrent claims against the same balance cannot both succeed.
func (db *DB) ClaimVoucher(ctx context.Context, userID, hotelID string, amountPaise int64) (*models.Voucher, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim tx: %w", err)
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowContext(ctx,
		`SELECT balance_paise FROM reward_ledger WHERE user_id = ? AND hotel_id = ?`,
		userID, hotelID,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInsufficientBalance
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	if balance < amountPaise {
		return nil, ErrInsufficientBalance
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE reward_ledger SET balance_paise = balance_paise - ?, updated_at = ? WHERE user_id = ? AND hotel_id = ?`,
		amountPaise, now, userID, hotelID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to debit balance: %w", err)
	}

	voucher := &models.Voucher{
		ID:          uuid.NewString(),
		Code:        newVoucherCode(),
		UserID:      userID,
		HotelID:     hotelID,
		AmountPaise: amountPaise,
		Status:      models.VoucherActive,
		ExpiresAt:   now.AddDate(0, 0, models.VoucherValidityDays),
		CreatedAt:   now,
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO vouchers (id, code, user_id, hotel_id, amount_paise, status, expires_at, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		voucher.ID, voucher.Code, voucher.UserID, voucher.HotelID,
		voucher.AmountPaise, voucher.Status, voucher.ExpiresAt, voucher.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert voucher: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}
	return voucher, nil
}

func (db *DB) GetVouchers(ctx context.Context, userID, hotelID string) ([]models.Voucher, error) {
	query := `SELECT id, code, user_id, hotel_id, amount_paise, status, expires_at, created_at
              FROM vouchers WHERE user_id = ? AND hotel_id = ? ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, userID, hotelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []models.Voucher
	for rows.Next() {
		var v models.Voucher
		err := rows.Scan(&v.ID, &v.Code, &v.UserID, &v.HotelID, &v.AmountPaise, &v.Status, &v.ExpiresAt, &v.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voucher: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return vouchers, nil
}

// newVoucherCode builds a short, human-shareable unique code.
func newVoucherCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "HV-" + strings.ToUpper(raw[:8])
}
