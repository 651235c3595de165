package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/packflow/internal/domain/models"
	"github.com/guttosm/packflow/internal/revenue"
)

var metricsNow = time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC) // Wednesday

func metricsFixture() *fakePaymentRepo {
	day := func(d int) *time.Time {
		t := metricsNow.AddDate(0, 0, -d)
		return &t
	}
	return &fakePaymentRepo{payments: []models.Payment{
		{ID: "1", UserID: "u1", ClientName: "Acme", Total: 100, HoursWorked: 2, Status: models.StatusAccepted, CreatedAt: *day(3), AcceptedAt: day(2)},
		{ID: "2", UserID: "u1", ClientName: "Globex", Total: 300, HoursWorked: 5, Status: models.StatusPaid, CreatedAt: *day(10), AcceptedAt: day(9)},
		{ID: "3", UserID: "u1", ClientName: "Acme", Total: 50, Status: models.StatusPending, CreatedAt: *day(1)},
		{ID: "4", UserID: "u1", ClientName: "Initech", Total: 70, Status: models.StatusRejected, CreatedAt: *day(4)},
		{ID: "5", UserID: "u2", ClientName: "Other", Total: 999, Status: models.StatusPaid, CreatedAt: *day(1)},
	}}
}

func newMetricsService(repo *fakePaymentRepo, opts ...revenue.Option) MetricsService {
	opts = append([]revenue.Option{revenue.WithClock(func() time.Time { return metricsNow })}, opts...)
	return NewMetricsService(repo, revenue.New(opts...))
}

func TestMetricsService_Revenue(t *testing.T) {
	svc := newMetricsService(metricsFixture())
	rv, err := svc.Revenue(context.Background(), "u1", revenue.Days, revenue.Last7Days)
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if rv.Summary.PaymentCount != 1 || !rv.Summary.TotalRevenue.Equal(revenueDecimal(100)) {
		t.Fatalf("only the accepted payment falls in the last 7 days, got %+v", rv.Summary)
	}
	if got := revenue.SeriesTotal(rv.Series); !got.Equal(revenueDecimal(100)) {
		t.Fatalf("series total=%s", got)
	}
}

func TestMetricsService_RealizedStatusesConfigurable(t *testing.T) {
	svc := newMetricsService(metricsFixture(), revenue.WithRealized(revenue.StatusIn(models.StatusPaid)))
	rv, err := svc.Revenue(context.Background(), "u1", revenue.Weeks, revenue.AllTime)
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if rv.Summary.PaymentCount != 1 || !rv.Summary.TotalRevenue.Equal(revenueDecimal(300)) {
		t.Fatalf("only paid payments should count, got %+v", rv.Summary)
	}
}

func TestMetricsService_TooManyBuckets(t *testing.T) {
	svc := newMetricsService(metricsFixture(), revenue.WithMaxBuckets(3))
	if _, err := svc.Revenue(context.Background(), "u1", revenue.Hours, revenue.Last7Days); !errors.Is(err, revenue.ErrTooManyBuckets) {
		t.Fatalf("want ErrTooManyBuckets, got %v", err)
	}
}

func TestMetricsService_LoadError(t *testing.T) {
	repo := metricsFixture()
	repo.listErr = errBoom
	svc := newMetricsService(repo)
	if _, err := svc.Cards(context.Background(), "u1", revenue.CardsFilter{}); !errors.Is(err, errBoom) {
		t.Fatalf("want load error, got %v", err)
	}
	if _, err := svc.Dashboard(context.Background(), "u1", revenue.Weeks, revenue.Last12Weeks, revenue.CardsFilter{}); !errors.Is(err, errBoom) {
		t.Fatalf("want load error, got %v", err)
	}
}

func TestMetricsService_Dashboard(t *testing.T) {
	svc := newMetricsService(metricsFixture())
	d, err := svc.Dashboard(context.Background(), "u1", revenue.Weeks, revenue.Last12Weeks, revenue.CardsFilter{})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.Cards.Count != 2 || d.Cards.AcceptanceRate != "66.7%" {
		t.Fatalf("cards=%+v", d.Cards)
	}
	if len(d.TopClients) != 2 || d.TopClients[0].Name != "Globex" {
		t.Fatalf("top clients=%+v", d.TopClients)
	}
	if len(d.Recent) != 2 || d.Recent[0].ID != "1" {
		t.Fatalf("recent=%+v", d.Recent)
	}
}

func TestMetricsService_Documents(t *testing.T) {
	svc := newMetricsService(metricsFixture())
	ctx := context.Background()

	svg, err := svc.ChartSVG(ctx, "u1", revenue.Weeks, revenue.Last12Weeks)
	if err != nil || !strings.Contains(svg, "<svg width=") {
		t.Fatalf("svg: %q %v", svg, err)
	}
	xlsx, err := svc.ExportXLSX(ctx, "u1", revenue.Weeks, revenue.Last12Weeks)
	if err != nil || len(xlsx) < 2 || string(xlsx[:2]) != "PK" {
		t.Fatalf("xlsx: len=%d err=%v", len(xlsx), err)
	}
}

func revenueDecimal(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestMetricsService_ReadsThroughPaymentCache(t *testing.T) {
	repo := metricsFixture()
	c := &fakeCache{}
	payments := NewPaymentService(repo, &fakeBankRepo{}, c)
	svc := NewMetricsService(payments, revenue.New(revenue.WithClock(func() time.Time { return metricsNow })))
	ctx := context.Background()

	first, err := svc.Revenue(ctx, "u1", revenue.Days, revenue.Last7Days)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := svc.Cards(ctx, "u1", revenue.CardsFilter{}); err != nil {
		t.Fatalf("cards: %v", err)
	}
	second, err := svc.Revenue(ctx, "u1", revenue.Days, revenue.Last7Days)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if repo.lists != 1 {
		t.Fatalf("repository listed %d times, want 1 (later calls served from cache)", repo.lists)
	}
	if !first.Summary.TotalRevenue.Equal(second.Summary.TotalRevenue) {
		t.Fatalf("cached result differs: %s vs %s", first.Summary.TotalRevenue, second.Summary.TotalRevenue)
	}

	if err := payments.Delete(ctx, "u1", "4"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Revenue(ctx, "u1", revenue.Days, revenue.Last7Days); err != nil {
		t.Fatalf("after delete: %v", err)
	}
	if repo.lists != 2 {
		t.Fatalf("a write should invalidate the snapshot, lists=%d", repo.lists)
	}
}
