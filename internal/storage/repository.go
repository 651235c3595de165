package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pq "github.com/lib/pq"

	"github.com/guttosm/packflow/internal/domain/models"
)

// ErrNotFound is returned when a row does not exist or belongs to another user.
var ErrNotFound = errors.New("storage: not found")

// PaymentRepository defines the contract for payment persistence.
// Every read and write is scoped to the owning user.
type PaymentRepository interface {
	List(ctx context.Context, userID string) ([]models.Payment, error)
	Get(ctx context.Context, userID, id string) (*models.Payment, error)
	Create(ctx context.Context, p *models.Payment) error
	UpdateStatus(ctx context.Context, userID, id string, status models.Status, at time.Time) (*models.Payment, error)
	Delete(ctx context.Context, userID, id string) error
}

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, user_id, project_name, client_name, client_email, client_phone,
	work_period_start, work_period_end, hours_worked, rate, additional_fees,
	subtotal, total, status, created_at, accepted_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (models.Payment, error) {
	var (
		p                     models.Payment
		status                string
		periodStart, periodTo sql.NullTime
		acceptedAt            sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.ProjectName, &p.ClientName, &p.ClientEmail, &p.ClientPhone,
		&periodStart, &periodTo, &p.HoursWorked, &p.Rate, &p.AdditionalFees,
		&p.Subtotal, &p.Total, &status, &p.CreatedAt, &acceptedAt, &p.UpdatedAt,
	)
	if err != nil {
		return models.Payment{}, err
	}
	p.Status = models.Status(status)
	p.WorkPeriodStart = nullTimePtr(periodStart)
	p.WorkPeriodEnd = nullTimePtr(periodTo)
	p.AcceptedAt = nullTimePtr(acceptedAt)
	return p, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// toNull maps nil or zero times to SQL NULL.
func toNull(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}

// List returns a user's payments, newest first.
func (r *paymentRepository) List(ctx context.Context, userID string) ([]models.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return out, nil
}

// Get returns a single payment or ErrNotFound.
func (r *paymentRepository) Get(ctx context.Context, userID, id string) (*models.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1 AND user_id = $2`, id, userID)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

// Create inserts p, assigning an ID when empty, and fills the server timestamps.
func (r *paymentRepository) Create(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = models.StatusPending
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payments (id, user_id, project_name, client_name, client_email, client_phone,
			work_period_start, work_period_end, hours_worked, rate, additional_fees, subtotal, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`,
		p.ID, p.UserID, p.ProjectName, p.ClientName, p.ClientEmail, p.ClientPhone,
		toNull(p.WorkPeriodStart), toNull(p.WorkPeriodEnd), p.HoursWorked, p.Rate, p.AdditionalFees,
		p.Subtotal, p.Total, string(p.Status),
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// UpdateStatus moves a payment to status.
//
// Accepting stamps accepted_at with at. Marking as paid keeps an existing
// acceptance date and only fills it when missing.
func (r *paymentRepository) UpdateStatus(ctx context.Context, userID, id string, status models.Status, at time.Time) (*models.Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE payments
		SET status = $1::text,
			accepted_at = CASE
				WHEN $1::text = 'accepted' THEN $2
				WHEN $1::text = 'paid' THEN COALESCE(accepted_at, $2)
				ELSE accepted_at
			END,
			updated_at = $2
		WHERE id = $3 AND user_id = $4
		RETURNING `+paymentColumns,
		string(status), at, id, userID)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	return &p, nil
}

// Delete removes a payment or returns ErrNotFound.
func (r *paymentRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// copyPayments streams payments into the payments table inside tx. The
// caller owns commit and rollback.
func copyPayments(ctx context.Context, tx *sql.Tx, payments []models.Payment) error {
	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"payments",
		"id",
		"user_id",
		"project_name",
		"client_name",
		"client_email",
		"client_phone",
		"work_period_start",
		"work_period_end",
		"hours_worked",
		"rate",
		"additional_fees",
		"subtotal",
		"total",
		"status",
		"created_at",
		"accepted_at",
		"updated_at",
	))
	if err != nil {
		return err
	}

	for _, p := range payments {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		updated := p.UpdatedAt
		if updated.IsZero() {
			updated = p.CreatedAt
		}
		if _, err := stmt.ExecContext(ctx,
			id,
			p.UserID,
			p.ProjectName,
			p.ClientName,
			p.ClientEmail,
			p.ClientPhone,
			toNull(p.WorkPeriodStart),
			toNull(p.WorkPeriodEnd),
			p.HoursWorked,
			p.Rate,
			p.AdditionalFees,
			p.Subtotal,
			p.Total,
			string(p.Status),
			p.CreatedAt,
			toNull(p.AcceptedAt),
			updated,
		); err != nil {
			_ = stmt.Close()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return err
	}
	return stmt.Close()
}
