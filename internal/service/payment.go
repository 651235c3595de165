package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/guttosm/packflow/internal/cache"
	"github.com/guttosm/packflow/internal/domain/dto"
	"github.com/guttosm/packflow/internal/domain/models"
	"github.com/guttosm/packflow/internal/export"
	"github.com/guttosm/packflow/internal/logger"
	"github.com/guttosm/packflow/internal/observability/metrics"
	"github.com/guttosm/packflow/internal/storage"
)

// PaymentService holds the payment request lifecycle rules.
type PaymentService interface {
	List(ctx context.Context, userID string) ([]models.Payment, error)
	Create(ctx context.Context, userID string, req dto.CreatePaymentRequest) (*models.Payment, error)
	UpdateStatus(ctx context.Context, userID, id, status string) (*models.Payment, error)
	Delete(ctx context.Context, userID, id string) error
	RequestPDF(ctx context.Context, userID, id string) ([]byte, error)
}

type paymentService struct {
	repo  storage.PaymentRepository
	bank  storage.BankDetailsRepository
	cache cache.PaymentCache
	now   func() time.Time
}

// NewPaymentService wires the payment rules to storage. A nil cache disables caching.
func NewPaymentService(repo storage.PaymentRepository, bank storage.BankDetailsRepository, c cache.PaymentCache) PaymentService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &paymentService{repo: repo, bank: bank, cache: c, now: time.Now}
}

// List returns the user's payments, newest first, serving from cache when possible.
// Cache failures are logged and fall through to the database.
func (s *paymentService) List(ctx context.Context, userID string) ([]models.Payment, error) {
	if cached, ok, err := s.cache.Get(ctx, userID); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("payment cache read failed")
	} else if ok {
		return cached, nil
	}

	payments, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, userID, payments); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("payment cache write failed")
	}
	return payments, nil
}

func (s *paymentService) Create(ctx context.Context, userID string, req dto.CreatePaymentRequest) (*models.Payment, error) {
	p := req.ToModel(userID)
	p.ClientName = strings.TrimSpace(p.ClientName)
	p.ProjectName = strings.TrimSpace(p.ProjectName)
	p.ClientEmail = strings.TrimSpace(p.ClientEmail)
	p.ClientPhone = strings.TrimSpace(p.ClientPhone)

	if p.ClientName == "" || !positive(p.Total) {
		return nil, invalid("client_name", "Client name and total are required")
	}
	for field, v := range map[string]float64{
		"hours_worked":    p.HoursWorked,
		"rate":            p.Rate,
		"additional_fees": p.AdditionalFees,
		"subtotal":        p.Subtotal,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, invalid(field, fmt.Sprintf("%s must be a non-negative number", field))
		}
	}
	if p.WorkPeriodStart != nil && p.WorkPeriodEnd != nil && p.WorkPeriodEnd.Before(*p.WorkPeriodStart) {
		return nil, invalid("work_period_end", "Work period end must not be before its start")
	}
	if p.Subtotal == 0 {
		p.Subtotal = math.Round(p.HoursWorked*p.Rate*100) / 100
	}
	p.Status = models.StatusPending

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	logger.Ctx(ctx).Info().Str("payment_id", p.ID).Float64("total", p.Total).Msg("payment created")
	return &p, nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, userID, id, status string) (*models.Payment, error) {
	st, ok := models.ParseStatus(status)
	if !ok {
		return nil, invalid("status", "Invalid status")
	}
	p, err := s.repo.UpdateStatus(ctx, userID, id, st, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	logger.Ctx(ctx).Info().Str("payment_id", id).Str("status", string(st)).Msg("payment status updated")
	return p, nil
}

func (s *paymentService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// RequestPDF renders the payment request document, including the user's
// bank details when they are on file.
func (s *paymentService) RequestPDF(ctx context.Context, userID, id string) ([]byte, error) {
	p, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	bank, err := s.bank.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	doc, err := export.PaymentRequestPDF(*p, bank)
	if err != nil {
		metrics.IncExport("pdf", metrics.ResultError)
		return nil, fmt.Errorf("render payment pdf: %w", err)
	}
	metrics.IncExport("pdf", metrics.ResultSuccess)
	return doc, nil
}

func (s *paymentService) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("payment cache invalidation failed")
	}
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
