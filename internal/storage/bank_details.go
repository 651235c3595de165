package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/guttosm/packflow/internal/domain/models"
)

// BankDetailsRepository stores one set of payout details per user.
type BankDetailsRepository interface {
	Get(ctx context.Context, userID string) (*models.BankDetails, error)
	Upsert(ctx context.Context, b *models.BankDetails) error
}

type bankDetailsRepository struct {
	db *sql.DB
}

func NewBankDetailsRepository(db *sql.DB) BankDetailsRepository {
	return &bankDetailsRepository{db: db}
}

// Get returns the user's bank details, or nil when none are stored.
func (r *bankDetailsRepository) Get(ctx context.Context, userID string) (*models.BankDetails, error) {
	var b models.BankDetails
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, account_name, account_number, sort_code, created_at, updated_at
		FROM bank_details WHERE user_id = $1`, userID).
		Scan(&b.ID, &b.UserID, &b.AccountName, &b.AccountNumber, &b.SortCode, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get bank details: %w", err)
	}
	return &b, nil
}

// Upsert creates or replaces the user's bank details.
func (r *bankDetailsRepository) Upsert(ctx context.Context, b *models.BankDetails) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bank_details (id, user_id, account_name, account_number, sort_code)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET account_name = EXCLUDED.account_name,
					  account_number = EXCLUDED.account_number,
					  sort_code = EXCLUDED.sort_code,
					  updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		b.ID, b.UserID, b.AccountName, b.AccountNumber, b.SortCode,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert bank details: %w", err)
	}
	return nil
}
