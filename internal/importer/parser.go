package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/packflow/internal/domain/models"
)

// expectedHeaders enforces strict column ordering. If the header doesn't
// match exactly (order and count), the file is rejected.
var expectedHeaders = []string{
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
}

const dateLayout = "2006-01-02"

// parseFile validates the header and converts every row. Any malformed row
// fails the whole file before anything is written.
func parseFile(ctx context.Context, path, userID string) ([]models.Payment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(expectedHeaders) {
		return nil, fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	for i, h := range header {
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		if !strings.EqualFold(h, expectedHeaders[i]) {
			return nil, fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expectedHeaders[i], h)
		}
	}

	var payments []models.Payment
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line after %d: %w", line, err)
		}
		line++

		if len(rec) != len(expectedHeaders) {
			return nil, fmt.Errorf("invalid column count on line %d: expected %d got %d", line, len(expectedHeaders), len(rec))
		}
		p, err := recordToPayment(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		p.UserID = userID
		payments = append(payments, p)
	}
	return payments, nil
}

// recordToPayment converts one row. Empty amounts become zero, an empty
// status means pending and created_at is required.
func recordToPayment(rec []string) (models.Payment, error) {
	var p models.Payment
	field := func(i int) string { return strings.TrimSpace(rec[i]) }

	p.ProjectName = field(0)
	p.ClientName = field(1)
	p.ClientEmail = field(2)
	p.ClientPhone = field(3)
	if p.ClientName == "" {
		return p, errors.New("client_name is required")
	}

	var err error
	if p.WorkPeriodStart, err = optionalTime(field(4)); err != nil {
		return p, fmt.Errorf("invalid work_period_start: %w", err)
	}
	if p.WorkPeriodEnd, err = optionalTime(field(5)); err != nil {
		return p, fmt.Errorf("invalid work_period_end: %w", err)
	}

	amounts := []struct {
		name string
		dst  *float64
		raw  string
	}{
		{"hours_worked", &p.HoursWorked, field(6)},
		{"rate", &p.Rate, field(7)},
		{"additional_fees", &p.AdditionalFees, field(8)},
		{"subtotal", &p.Subtotal, field(9)},
		{"total", &p.Total, field(10)},
	}
	for _, a := range amounts {
		if *a.dst, err = amount(a.raw); err != nil {
			return p, fmt.Errorf("invalid %s: %w", a.name, err)
		}
	}

	p.Status = models.StatusPending
	if s := field(11); s != "" {
		st, ok := models.ParseStatus(s)
		if !ok {
			return p, fmt.Errorf("invalid status %q", s)
		}
		p.Status = st
	}

	created, err := optionalTime(field(12))
	if err != nil {
		return p, fmt.Errorf("invalid created_at: %w", err)
	}
	if created == nil {
		return p, errors.New("created_at is required")
	}
	p.CreatedAt = *created
	p.UpdatedAt = *created

	if p.AcceptedAt, err = optionalTime(field(13)); err != nil {
		return p, fmt.Errorf("invalid accepted_at: %w", err)
	}
	return p, nil
}

// amount parses a non-negative finite number; empty means zero.
func amount(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%q is not a non-negative amount", s)
	}
	return v, nil
}

// optionalTime accepts RFC 3339 timestamps or plain dates (UTC midnight).
func optionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
