package service

import (
	"context"
	"fmt"

	"github.com/guttosm/packflow/internal/domain/models"
	"github.com/guttosm/packflow/internal/logger"
	"github.com/guttosm/packflow/internal/observability/metrics"
	"github.com/guttosm/packflow/internal/sms"
)

// NotificationService sends text messages to clients.
type NotificationService interface {
	Send(ctx context.Context, recipient, message string) (*sms.Result, error)
	NotifyPaymentRequest(ctx context.Context, p models.Payment) (*sms.Result, error)
}

type notificationService struct {
	sender sms.Sender
}

func NewNotificationService(sender sms.Sender) NotificationService {
	return &notificationService{sender: sender}
}

// Send delivers message to recipient. Destinations are only ever logged masked.
func (s *notificationService) Send(ctx context.Context, recipient, message string) (*sms.Result, error) {
	log := logger.Ctx(ctx)
	if s.sender == nil {
		metrics.IncSMS(metrics.ResultError)
		return nil, sms.ErrNotConfigured
	}
	res, err := s.sender.Send(ctx, recipient, message)
	if err != nil {
		metrics.IncSMS(metrics.ResultError)
		log.Error().Err(err).Msg("sms send failed")
		return nil, err
	}
	metrics.IncSMS(metrics.ResultSuccess)

	dest, _ := sms.NormalizeRecipient(recipient)
	log.Info().Str("destination", sms.Mask(dest)).Str("message_id", res.MessageID).Msg("sms sent")
	return res, nil
}

// NotifyPaymentRequest tells the client a new payment request awaits approval.
func (s *notificationService) NotifyPaymentRequest(ctx context.Context, p models.Payment) (*sms.Result, error) {
	return s.Send(ctx, p.ClientPhone, PaymentRequestMessage(p))
}

// PaymentRequestMessage is the default text sent when a payment request is raised.
func PaymentRequestMessage(p models.Payment) string {
	return fmt.Sprintf("Hi %s, you have a new payment request from PackFlow for $%.2f for \"%s\". Please review and approve.",
		p.ClientName, p.Total, p.ProjectName)
}
