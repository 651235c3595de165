package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/packflow/config"
	"github.com/guttosm/packflow/internal/api"
	"github.com/guttosm/packflow/internal/domain/models"
	"github.com/guttosm/packflow/internal/logger"
	"github.com/guttosm/packflow/internal/observability/metrics"
	"github.com/guttosm/packflow/internal/revenue"
	"github.com/guttosm/packflow/internal/service"
	"github.com/guttosm/packflow/internal/sms"
	"github.com/guttosm/packflow/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL and, when configured, Redis.
//   - Registers Prometheus collectors.
//   - Builds the repositories, the revenue aggregator and the services.
//   - Configures the Gin router and the health and readiness probes.
//   - Provides a cleanup function to close resources.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	agg, err := NewAggregator(cfg.Metrics)
	if err != nil {
		return nil, nil, err
	}

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	paymentCache, closeCache := redisOpener(cfg)

	metrics.Init(db)

	payments := storage.NewPaymentRepository(db)
	bank := storage.NewBankDetailsRepository(db)

	smsClient := sms.NewClient(cfg.SMS.Token,
		sms.WithBaseURL(cfg.SMS.BaseURL),
		sms.WithSender(cfg.SMS.Sender),
		sms.WithTimeout(cfg.SMS.Timeout),
	)
	if cfg.SMS.Token == "" {
		logger.L().Warn().Msg("SMSWORKS_JWT not set, sms sending disabled")
	}

	paymentSvc := service.NewPaymentService(payments, bank, paymentCache)
	handler := api.NewHandler(api.Services{
		Payments:      paymentSvc,
		Metrics:       service.NewMetricsService(paymentSvc, agg),
		BankDetails:   service.NewBankDetailsService(bank),
		Notifications: service.NewNotificationService(smsClient),
	}, api.PublicConfig{
		AuthURL:     cfg.Auth.PublicURL,
		AuthAnonKey: cfg.Auth.PublicAnonKey,
	})

	router := api.NewRouter(handler, api.RouterConfig{
		JWTSecret:          []byte(cfg.Auth.JWTSecret),
		StaticDir:          cfg.Server.StaticDir,
		RateLimit:          cfg.RateLimit.Max,
		RateLimitWindow:    cfg.RateLimit.Window,
		SMSRateLimit:       cfg.RateLimit.SMSMax,
		SMSRateLimitWindow: cfg.RateLimit.SMSWindow,
	})

	checks := []api.DependencyCheck{{Name: "database", Ping: db.PingContext}}
	if p, ok := paymentCache.(interface{ Ping(context.Context) error }); ok {
		checks = append(checks, api.DependencyCheck{Name: "cache", Ping: p.Ping, Optional: true})
	}
	api.NewHealthHandler(checks...).Register(router)

	cleanup := func() {
		closeCache()
		_ = db.Close()
	}

	return router, cleanup, nil
}

// NewAggregator builds the revenue aggregator from the metrics settings.
func NewAggregator(cfg config.MetricsConfig) (*revenue.Aggregator, error) {
	tz := cfg.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid METRICS_TIMEZONE %q: %w", tz, err)
	}

	statuses := make([]models.Status, 0, len(cfg.RealizedStatuses))
	for _, s := range cfg.RealizedStatuses {
		st, ok := models.ParseStatus(s)
		if !ok {
			return nil, fmt.Errorf("invalid status %q in METRICS_REALIZED_STATUSES", s)
		}
		statuses = append(statuses, st)
	}

	opts := []revenue.Option{
		revenue.WithLocation(loc),
		revenue.WithMaxBuckets(cfg.MaxBuckets),
	}
	if len(statuses) > 0 {
		opts = append(opts, revenue.WithRealized(revenue.StatusIn(statuses...)))
	}
	return revenue.New(opts...), nil
}
