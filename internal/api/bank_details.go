package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/packflow/internal/domain/dto"
)

// GetBankDetails godoc
// @Summary      Get bank details
// @Description  Returns the caller's payout account, or null when none is stored
// @Tags         bank-details
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.BankDetailsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/bank-details [get]
func (h *Handler) GetBankDetails(c *gin.Context) {
	b, err := h.svc.BankDetails.Get(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch bank details")
		return
	}
	if b == nil {
		c.JSON(http.StatusOK, gin.H{"bankDetails": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bankDetails": dto.NewBankDetailsResponse(*b)})
}

// SaveBankDetails godoc
// @Summary      Save bank details
// @Description  Creates or replaces the caller's payout account
// @Tags         bank-details
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.BankDetailsRequest  true  "Bank details"
// @Success      200   {object}  dto.BankDetailsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/v1/bank-details [post]
func (h *Handler) SaveBankDetails(c *gin.Context) {
	var req dto.BankDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid JSON in request body", err))
		return
	}
	b, err := h.svc.BankDetails.Save(c.Request.Context(), userID(c), req)
	if err != nil {
		respondError(c, err, "Failed to save bank details")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bankDetails": dto.NewBankDetailsResponse(*b)})
}
