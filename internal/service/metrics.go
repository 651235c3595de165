package service

import (
	"context"
	"time"

	"github.com/guttosm/packflow/internal/domain/models"
	"github.com/guttosm/packflow/internal/export"
	"github.com/guttosm/packflow/internal/observability/metrics"
	"github.com/guttosm/packflow/internal/revenue"
)

// RevenueView is a revenue series with its range summary.
type RevenueView struct {
	Granularity revenue.Granularity
	Range       revenue.Range
	Series      []revenue.BucketPoint
	Summary     revenue.Summary
}

// DashboardView is everything the dashboard page shows.
type DashboardView struct {
	Cards      revenue.CardsResult
	Revenue    RevenueView
	TopClients []revenue.ClientRevenue
	Recent     []models.Payment
}

// MetricsService computes revenue metrics over a user's payments.
type MetricsService interface {
	Revenue(ctx context.Context, userID string, g revenue.Granularity, r revenue.Range) (*RevenueView, error)
	Cards(ctx context.Context, userID string, f revenue.CardsFilter) (*revenue.CardsResult, error)
	Dashboard(ctx context.Context, userID string, g revenue.Granularity, r revenue.Range, f revenue.CardsFilter) (*DashboardView, error)
	ChartSVG(ctx context.Context, userID string, g revenue.Granularity, r revenue.Range) (string, error)
	ExportXLSX(ctx context.Context, userID string, g revenue.Granularity, r revenue.Range) ([]byte, error)
}

// PaymentLister loads a user's payments. PaymentService satisfies it with
// its cache-through List, as does storage.PaymentRepository.
type PaymentLister interface {
	List(ctx context.Context, userID string) ([]models.Payment, error)
}

type metricsService struct {
	payments PaymentLister
	agg      *revenue.Aggregator
}

func NewMetricsService(payments PaymentLister, agg *revenue.Aggregator) MetricsService {
	if agg == nil {
		agg = revenue.New()
	}
	return &metricsService{payments: payments, agg: agg}
}

func (s *metricsService) load(ctx context.Context, userID string) ([]models.Payment, error) {
	return s.payments.List(ctx, userID)
}

func (s *metricsService) revenue(records []models.Payment, g revenue.Granularity, r revenue.Range) (*RevenueView, error) {
	realized := s.agg.Realized(records)
	start := time.Now()
	series, err := s.agg.ComputeSeries(realized, g, r)
	metrics.ObserveRevenue("series", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return &RevenueView{
		Granularity: g,
		Range:       r,
		Series:      series,
		Summary:     s.agg.ComputeSummary(realized, r),
	}, nil
}

func (s *metricsService) Revenue(ctx context.Context, userID string, g revenue.Granularity, r revenue.Range) (*RevenueView, error) {
	records, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.revenue(records, g, r)
}

func (s *metricsService) Cards(ctx context.Context, userID string, f revenue.CardsFilter) (*revenue.CardsResult, error) {
	records, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res := s.agg.ComputeCards(records, f)
	metrics.ObserveRevenue("cards", nil, time.Since(start))
	return &res, nil
}

// Dashboard loads the user's payments once and derives every view from them.
func (s *metricsService) Dashboard(ctx context.Context, userID string, g revenue.Granularity, r revenue.Range, f revenue.CardsFilter) (*DashboardView, error) {
	records, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	rv, err := s.revenue(records, g, r)
	if err != nil {
		return nil, err
	}
	realized := s.agg.Realized(records)
	return &DashboardView{
		Cards:      s.agg.ComputeCards(records, f),
		Revenue:    *rv,
		TopClients: revenue.TopClients(realized, revenue.DefaultTopN),
		Recent:     revenue.RecentPayments(realized, revenue.DefaultTopN),
	}, nil
}

func (s *metricsService) ChartSVG(ctx context.Context, userID string, g revenue.Granularity, r revenue.Range) (string, error) {
	rv, err := s.Revenue(ctx, userID, g, r)
	if err != nil {
		return "", err
	}
	return revenue.RenderSVG(rv.Series, g, revenue.DefaultChartSize), nil
}

func (s *metricsService) ExportXLSX(ctx context.Context, userID string, g revenue.Granularity, r revenue.Range) ([]byte, error) {
	rv, err := s.Revenue(ctx, userID, g, r)
	if err != nil {
		return nil, err
	}
	doc, err := export.RevenueXLSX(export.RevenueReport{
		Granularity: g,
		Range:       r,
		GeneratedAt: s.agg.Now(),
		Series:      rv.Series,
		Summary:     rv.Summary,
	})
	if err != nil {
		metrics.IncExport("xlsx", metrics.ResultError)
		return nil, err
	}
	metrics.IncExport("xlsx", metrics.ResultSuccess)
	return doc, nil
}
