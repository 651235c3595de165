package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/packflow/internal/domain/dto"
	"github.com/guttosm/packflow/internal/revenue"
	"github.com/guttosm/packflow/internal/service"
)

// seriesParams reads granularity and range, falling back to weeks and 12w.
func seriesParams(c *gin.Context) (revenue.Granularity, revenue.Range) {
	return revenue.ParseGranularity(c.Query("granularity")), revenue.ParseRange(c.Query("range"))
}

func cardsFilter(c *gin.Context) revenue.CardsFilter {
	return revenue.CardsFilter{Days: revenue.ParseDays(c.Query("days")), Client: c.Query("client")}
}

func newRevenueResponse(rv *service.RevenueView) dto.RevenueResponse {
	return dto.RevenueResponse{
		Granularity: string(rv.Granularity),
		Range:       string(rv.Range),
		Series:      dto.NewSeriesResponse(rv.Series),
		Summary:     dto.NewSummaryResponse(rv.Summary),
	}
}

// RevenueCards godoc
// @Summary      Revenue cards
// @Description  Totals, average, acceptance rate and hours over realized payments
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Param        days    query     string  false  "Trailing days, or all"  example(30)
// @Param        client  query     string  false  "Client name or email substring"
// @Success      200     {object}  dto.CardsResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /api/v1/metrics/cards [get]
func (h *Handler) RevenueCards(c *gin.Context) {
	res, err := h.svc.Metrics.Cards(c.Request.Context(), userID(c), cardsFilter(c))
	if err != nil {
		respondError(c, err, "Failed to compute metrics")
		return
	}
	c.JSON(http.StatusOK, dto.NewCardsResponse(*res))
}

// Revenue godoc
// @Summary      Revenue series
// @Description  Dense revenue series with a range summary
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Param        granularity  query     string  false  "hours, days, weeks or months"  example(weeks)
// @Param        range        query     string  false  "24h, 7d, 12w, 12m or all"      example(12w)
// @Success      200          {object}  dto.RevenueResponse
// @Failure      422          {object}  dto.ErrorResponse
// @Failure      500          {object}  dto.ErrorResponse
// @Router       /api/v1/metrics/revenue [get]
func (h *Handler) Revenue(c *gin.Context) {
	g, r := seriesParams(c)
	rv, err := h.svc.Metrics.Revenue(c.Request.Context(), userID(c), g, r)
	if err != nil {
		respondError(c, err, "Failed to compute revenue")
		return
	}
	c.JSON(http.StatusOK, newRevenueResponse(rv))
}

// RevenueChart godoc
// @Summary      Revenue chart
// @Tags         metrics
// @Produce      image/svg+xml
// @Security     BearerAuth
// @Param        granularity  query  string  false  "hours, days, weeks or months"
// @Param        range        query  string  false  "24h, 7d, 12w, 12m or all"
// @Success      200          {string}  string
// @Failure      422          {object}  dto.ErrorResponse
// @Router       /api/v1/metrics/revenue/chart.svg [get]
func (h *Handler) RevenueChart(c *gin.Context) {
	g, r := seriesParams(c)
	svg, err := h.svc.Metrics.ChartSVG(c.Request.Context(), userID(c), g, r)
	if err != nil {
		respondError(c, err, "Failed to render chart")
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

// RevenueExport godoc
// @Summary      Revenue spreadsheet
// @Tags         metrics
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        granularity  query  string  false  "hours, days, weeks or months"
// @Param        range        query  string  false  "24h, 7d, 12w, 12m or all"
// @Success      200          {file}    binary
// @Failure      422          {object}  dto.ErrorResponse
// @Router       /api/v1/metrics/revenue/export.xlsx [get]
func (h *Handler) RevenueExport(c *gin.Context) {
	g, r := seriesParams(c)
	doc, err := h.svc.Metrics.ExportXLSX(c.Request.Context(), userID(c), g, r)
	if err != nil {
		respondError(c, err, "Failed to export revenue")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="revenue-`+string(g)+`-`+string(r)+`.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", doc)
}

// Dashboard godoc
// @Summary      Metrics dashboard
// @Description  Cards, revenue series, top clients and recent payments in one payload
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Param        granularity  query     string  false  "hours, days, weeks or months"
// @Param        range        query     string  false  "24h, 7d, 12w, 12m or all"
// @Param        days         query     string  false  "Trailing days for the cards, or all"
// @Param        client       query     string  false  "Client filter for the cards"
// @Success      200          {object}  dto.DashboardResponse
// @Failure      422          {object}  dto.ErrorResponse
// @Failure      500          {object}  dto.ErrorResponse
// @Router       /api/v1/metrics/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	g, r := seriesParams(c)
	d, err := h.svc.Metrics.Dashboard(c.Request.Context(), userID(c), g, r, cardsFilter(c))
	if err != nil {
		respondError(c, err, "Failed to compute dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.DashboardResponse{
		Cards:          dto.NewCardsResponse(d.Cards),
		Revenue:        newRevenueResponse(&d.Revenue),
		TopClients:     dto.NewClientsResponse(d.TopClients),
		RecentPayments: d.Recent,
	})
}
