package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/packflow/internal/domain/dto"
)

// SendSMS godoc
// @Summary      Send an SMS
// @Description  Sends a text to a UK mobile number through the gateway
// @Tags         sms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.SendSMSRequest  true  "Message"
// @Success      200   {object}  dto.SendSMSResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/v1/sms [post]
func (h *Handler) SendSMS(c *gin.Context) {
	var req dto.SendSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Recipient) == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Recipient and message are required", nil))
		return
	}
	res, err := h.svc.Notifications.Send(c.Request.Context(), req.Recipient, req.Message)
	if err != nil {
		respondError(c, err, "Failed to send SMS. Please try again later.")
		return
	}
	c.JSON(http.StatusOK, dto.SendSMSResponse{
		Success:   true,
		MessageID: res.MessageID,
		Status:    res.Status,
		Credits:   res.Credits,
	})
}

// PublicConfig godoc
// @Summary      Public client configuration
// @Description  Returns the auth provider URL and anonymous key for the browser client
// @Tags         config
// @Produce      json
// @Success      200  {object}  dto.PublicConfigResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/public-config [get]
func (h *Handler) PublicConfig(c *gin.Context) {
	url, key := h.public.AuthURL, h.public.AuthAnonKey
	if url == "" || key == "" || strings.Contains(url, "PLACEHOLDER") || strings.Contains(key, "PLACEHOLDER") {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Server configuration incomplete", nil))
		return
	}
	c.JSON(http.StatusOK, dto.PublicConfigResponse{AuthURL: url, AuthAnonKey: key})
}
