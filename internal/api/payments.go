package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/packflow/internal/domain/dto"
	"github.com/guttosm/packflow/internal/domain/models"
	"github.com/guttosm/packflow/internal/logger"
)

// ListPayments godoc
// @Summary      List payments
// @Description  Returns the caller's payment requests, newest first
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.PaymentListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/payments [get]
func (h *Handler) ListPayments(c *gin.Context) {
	payments, err := h.svc.Payments.List(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch payments")
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	c.JSON(http.StatusOK, dto.PaymentListResponse{Payments: payments, Count: len(payments)})
}

// CreatePayment godoc
// @Summary      Create a payment request
// @Description  Stores a new pending payment request and optionally texts the client
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreatePaymentRequest  true  "Payment request"
// @Success      201   {object}  dto.CreatePaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/v1/payments [post]
func (h *Handler) CreatePayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid JSON in request body", err))
		return
	}

	ctx := c.Request.Context()
	p, err := h.svc.Payments.Create(ctx, userID(c), req)
	if err != nil {
		respondError(c, err, "Failed to create payment")
		return
	}

	resp := dto.CreatePaymentResponse{Payment: *p}
	if req.SendSMS && p.ClientPhone != "" && h.svc.Notifications != nil {
		// The payment is already stored, so a failed notification is reported, not fatal.
		if _, err := h.svc.Notifications.NotifyPaymentRequest(ctx, *p); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("payment_id", p.ID).Msg("payment request sms failed")
			resp.SMSStatus = "failed"
			resp.SMSError = err.Error()
		} else {
			resp.SMSStatus = "sent"
		}
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdatePaymentStatus godoc
// @Summary      Update payment status
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                          true  "Payment ID"
// @Param        body  body      dto.UpdatePaymentStatusRequest  true  "New status"
// @Success      200   {object}  models.Payment
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/v1/payments/{id} [put]
func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid status", nil))
		return
	}
	p, err := h.svc.Payments.UpdateStatus(c.Request.Context(), userID(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update payment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

// DeletePayment godoc
// @Summary      Delete a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/payments/{id} [delete]
func (h *Handler) DeletePayment(c *gin.Context) {
	if err := h.svc.Payments.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete payment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PaymentPDF godoc
// @Summary      Payment request document
// @Description  Renders the payment request, with the caller's bank details, as a PDF
// @Tags         payments
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "Payment ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/payments/{id}/pdf [get]
func (h *Handler) PaymentPDF(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.svc.Payments.RequestPDF(c.Request.Context(), userID(c), id)
	if err != nil {
		respondError(c, err, "Failed to render payment request")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="payment-request-`+id+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
