package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/packflow/internal/domain/dto"
	"github.com/guttosm/packflow/internal/middleware"
	"github.com/guttosm/packflow/internal/revenue"
	"github.com/guttosm/packflow/internal/service"
	"github.com/guttosm/packflow/internal/sms"
	"github.com/guttosm/packflow/internal/storage"
)

// Services groups the business services the HTTP layer depends on.
type Services struct {
	Payments      service.PaymentService
	Metrics       service.MetricsService
	BankDetails   service.BankDetailsService
	Notifications service.NotificationService
}

// PublicConfig holds the values the browser client needs before signing in.
type PublicConfig struct {
	AuthURL     string
	AuthAnonKey string
}

// Handler provides the HTTP handlers for the PackFlow API.
//
// Responsibilities:
//   - Bind and validate request bodies and query parameters
//   - Call the service layer with the authenticated user's id
//   - Translate service errors into HTTP status codes and ErrorResponse bodies
type Handler struct {
	svc    Services
	public PublicConfig
}

// NewHandler constructs a Handler ready to be registered with the router.
func NewHandler(svc Services, public PublicConfig) *Handler {
	return &Handler{svc: svc, public: public}
}

func userID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

// respondError maps a service error onto a status code. Unrecognized errors
// become a 500 carrying fallback; their details are only logged.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	var gwErr *sms.GatewayError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(verr.Message, nil))
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("Payment not found", nil))
	case errors.Is(err, revenue.ErrTooManyBuckets):
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse("Requested series is too large, choose a coarser granularity or a shorter range", nil))
	case errors.Is(err, sms.ErrInvalidRecipient),
		errors.Is(err, sms.ErrEmptyMessage),
		errors.Is(err, sms.ErrMessageTooLong):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error(), nil))
	case errors.Is(err, sms.ErrNotConfigured):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("SMS service not configured", nil))
	case errors.As(err, &gwErr):
		resp := dto.NewErrorResponse(gwErr.Message, nil)
		if len(gwErr.Details) > 0 {
			resp.Details = json.RawMessage(gwErr.Details)
		}
		c.JSON(gwErr.StatusCode, resp)
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(fallback, nil))
	}
}
