package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/guttosm/packflow/internal/domain/dto"
	"github.com/guttosm/packflow/internal/logger"
)

// RateLimiter allows a fixed number of requests per window for each client
// IP. Each instance has its own in-memory store, so the API and SMS routes
// are limited independently.
type RateLimiter struct {
	limiter *limiter.Limiter
	message string
}

// NewRateLimiter allows limit requests per window for each client IP.
// A non-positive limit or window disables limiting.
func NewRateLimiter(limit int, window time.Duration, message string) *RateLimiter {
	if message == "" {
		message = "Too many requests, please try again later."
	}
	rl := &RateLimiter{message: message}
	if limit > 0 && window > 0 {
		rate := limiter.Rate{Period: window, Limit: int64(limit)}
		rl.limiter = limiter.New(memory.NewStore(), rate)
	}
	return rl
}

// Allow records a hit for key and reports whether it is within the limit.
// Store failures let the request through.
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	if rl.limiter == nil {
		return true
	}
	lc, err := rl.limiter.Get(ctx, key)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("rate limit store failed")
		return true
	}
	return !lc.Reached
}

// Handler returns the gin middleware. Rejected requests get HTTP 429 and
// the X-RateLimit-* headers describe the remaining budget.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	if rl.limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return mgin.NewMiddleware(rl.limiter,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, dto.NewErrorResponse(rl.message, nil))
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", nil))
		}),
	)
}
