package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/guttosm/packflow/internal/domain/models"
)

// ImportLogRepository records which CSV files were already imported.
type ImportLogRepository interface {
	// ImportedChecksum returns the checksum stored for filename, or "" when
	// the file was never imported.
	ImportedChecksum(ctx context.Context, filename string) (string, error)
	// RecordImport inserts the file's payments and its import log entry in
	// one transaction. Nothing is written when any step fails.
	RecordImport(ctx context.Context, filename, checksum string, payments []models.Payment) error
}

type importLogRepository struct {
	db *sql.DB
}

func NewImportLogRepository(db *sql.DB) ImportLogRepository {
	return &importLogRepository{db: db}
}

func (r *importLogRepository) ImportedChecksum(ctx context.Context, filename string) (string, error) {
	var sum string
	err := r.db.QueryRowContext(ctx, `SELECT checksum FROM import_log WHERE filename = $1`, filename).Scan(&sum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read import log: %w", err)
	}
	return sum, nil
}

func (r *importLogRepository) RecordImport(ctx context.Context, filename, checksum string, payments []models.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}

	if len(payments) > 0 {
		if err := copyPayments(ctx, tx, payments); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("copy payments: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO import_log (filename, checksum, row_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (filename)
		DO UPDATE SET checksum = EXCLUDED.checksum,
					  row_count = EXCLUDED.row_count,
					  imported_at = NOW()
	`, filename, checksum, len(payments))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("upsert import log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}
