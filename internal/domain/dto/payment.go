package dto

import (
	"time"

	"github.com/guttosm/packflow/internal/domain/models"
)

// CreatePaymentRequest is the body of POST /api/v1/payments.
type CreatePaymentRequest struct {
	ProjectName     string     `json:"project_name" example:"Website redesign"`
	ClientName      string     `json:"client_name" example:"Acme Ltd"`
	ClientEmail     string     `json:"client_email" example:"billing@acme.test"`
	ClientPhone     string     `json:"client_phone" example:"07123456789"`
	WorkPeriodStart *time.Time `json:"work_period_start,omitempty"`
	WorkPeriodEnd   *time.Time `json:"work_period_end,omitempty"`
	HoursWorked     float64    `json:"hours_worked" example:"12.5"`
	Rate            float64    `json:"rate" example:"40"`
	AdditionalFees  float64    `json:"additional_fees" example:"0"`
	Subtotal        float64    `json:"subtotal" example:"500"`
	Total           float64    `json:"total" example:"500"`
	// SendSMS asks the server to notify the client on ClientPhone.
	SendSMS bool `json:"send_sms"`
}

// ToModel maps the request onto a new payment owned by userID.
func (r CreatePaymentRequest) ToModel(userID string) models.Payment {
	return models.Payment{
		UserID:          userID,
		ProjectName:     r.ProjectName,
		ClientName:      r.ClientName,
		ClientEmail:     r.ClientEmail,
		ClientPhone:     r.ClientPhone,
		WorkPeriodStart: r.WorkPeriodStart,
		WorkPeriodEnd:   r.WorkPeriodEnd,
		HoursWorked:     r.HoursWorked,
		Rate:            r.Rate,
		AdditionalFees:  r.AdditionalFees,
		Subtotal:        r.Subtotal,
		Total:           r.Total,
	}
}

// UpdatePaymentStatusRequest is the body of PUT /api/v1/payments/{id}.
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required" example:"accepted"`
}

// PaymentListResponse wraps a user's payments.
type PaymentListResponse struct {
	Payments []models.Payment `json:"payments"`
	Count    int              `json:"count"`
}

// CreatePaymentResponse is returned after a payment is created. SMSStatus
// is empty when no notification was requested.
type CreatePaymentResponse struct {
	Payment   models.Payment `json:"payment"`
	SMSStatus string         `json:"sms_status,omitempty"`
	SMSError  string         `json:"sms_error,omitempty"`
}
