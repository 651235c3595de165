package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/packflow/internal/middleware"
	"github.com/guttosm/packflow/internal/observability/metrics"
)

const requestTimeout = 10 * time.Second

// RouterConfig carries the router settings that come from configuration.
type RouterConfig struct {
	JWTSecret []byte
	StaticDir string

	RateLimit       int
	RateLimitWindow time.Duration

	SMSRateLimit       int
	SMSRateLimitWindow time.Duration
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler).
//   - Adds request timeout handling (10 seconds).
//   - Mounts Prometheus (/metrics) and Swagger docs (/swagger/*any).
//   - Rate limits /api, with a separate stricter limiter for SMS.
//   - Configures authenticated API v1 routes (/api/v1).
//   - Serves the static client with an index.html fallback.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
	)

	// ─── Timeout ──────────────────────────────────
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Observability ────────────────────────────
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API v1 ───────────────────────────────────
	apiLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow, "")
	smsLimiter := middleware.NewRateLimiter(cfg.SMSRateLimit, cfg.SMSRateLimitWindow, "SMS rate limit exceeded. Please try again later.")

	v1 := router.Group("/api/v1", apiLimiter.Handler())
	v1.GET("/public-config", handler.PublicConfig)

	authed := v1.Group("", middleware.RequireAuth(cfg.JWTSecret))
	{
		authed.GET("/payments", handler.ListPayments)
		authed.POST("/payments", handler.CreatePayment)
		authed.PUT("/payments/:id", handler.UpdatePaymentStatus)
		authed.DELETE("/payments/:id", handler.DeletePayment)
		authed.GET("/payments/:id/pdf", handler.PaymentPDF)

		authed.GET("/bank-details", handler.GetBankDetails)
		authed.POST("/bank-details", handler.SaveBankDetails)

		authed.GET("/metrics/cards", handler.RevenueCards)
		authed.GET("/metrics/revenue", handler.Revenue)
		authed.GET("/metrics/revenue/chart.svg", handler.RevenueChart)
		authed.GET("/metrics/revenue/export.xlsx", handler.RevenueExport)
		authed.GET("/metrics/dashboard", handler.Dashboard)
	}
	v1.POST("/sms", smsLimiter.Handler(), middleware.RequireAuth(cfg.JWTSecret), handler.SendSMS)

	// ─── Fallback ─────────────────────────────────
	router.NoRoute(notFound(cfg.StaticDir))

	return router
}
