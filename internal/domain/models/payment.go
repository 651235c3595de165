package models

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a payment request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusPaid     Status = "paid"
)

// Statuses lists every valid payment status.
var Statuses = []Status{StatusPending, StatusAccepted, StatusRejected, StatusPaid}

// ParseStatus normalizes s and reports whether it is a known status.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// Payment represents a single payment request raised by a contractor
// for a statement of work.
//
// Monetary fields are expressed in the currency's major unit (e.g. dollars).
// Each payment belongs to exactly one user.
//
// swagger:model Payment
type Payment struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	ProjectName     string     `json:"project_name"`
	ClientName      string     `json:"client_name"`
	ClientEmail     string     `json:"client_email"`
	ClientPhone     string     `json:"client_phone"`
	WorkPeriodStart *time.Time `json:"work_period_start,omitempty"`
	WorkPeriodEnd   *time.Time `json:"work_period_end,omitempty"`
	HoursWorked     float64    `json:"hours_worked"`
	Rate            float64    `json:"rate"`
	AdditionalFees  float64    `json:"additional_fees"`
	Subtotal        float64    `json:"subtotal"`
	Total           float64    `json:"total"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// EffectiveDate is the timestamp used for reporting: the acceptance
// date when known, otherwise the creation date.
func (p Payment) EffectiveDate() time.Time {
	if p.AcceptedAt != nil && !p.AcceptedAt.IsZero() {
		return *p.AcceptedAt
	}
	return p.CreatedAt
}
