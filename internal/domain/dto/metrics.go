package dto

import (
	"time"

	"github.com/guttosm/packflow/internal/domain/models"
	"github.com/guttosm/packflow/internal/revenue"
)

// BucketResponse is one point of a revenue series.
type BucketResponse struct {
	Key     string    `json:"key" example:"2024-01-08"`
	Label   string    `json:"label" example:"Week of Jan 8, 2024"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Revenue float64   `json:"revenue" example:"1250.5"`
	Count   int       `json:"count" example:"3"`
}

// SummaryResponse carries the range totals.
type SummaryResponse struct {
	TotalRevenue   float64 `json:"total_revenue"`
	PaymentCount   int     `json:"payment_count"`
	AveragePayment float64 `json:"average_payment"`
}

// RevenueResponse is returned by GET /api/v1/metrics/revenue.
type RevenueResponse struct {
	Granularity string           `json:"granularity" example:"weeks"`
	Range       string           `json:"range" example:"12w"`
	Series      []BucketResponse `json:"series"`
	Summary     SummaryResponse  `json:"summary"`
}

// CardResponse is a single labelled figure.
type CardResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// CardsResponse is returned by GET /api/v1/metrics/cards.
type CardsResponse struct {
	NoData         bool           `json:"no_data"`
	TotalRevenue   float64        `json:"total_revenue"`
	Count          int            `json:"count"`
	Average        float64        `json:"average"`
	AcceptedCount  int            `json:"accepted_count"`
	RejectedCount  int            `json:"rejected_count"`
	AcceptanceRate string         `json:"acceptance_rate"`
	TotalHours     float64        `json:"total_hours"`
	Cards          []CardResponse `json:"cards"`
}

// ClientRevenueResponse is a row of the top clients table.
type ClientRevenueResponse struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

// DashboardResponse combines every metrics view in one payload.
type DashboardResponse struct {
	Cards          CardsResponse           `json:"cards"`
	Revenue        RevenueResponse         `json:"revenue"`
	TopClients     []ClientRevenueResponse `json:"top_clients"`
	RecentPayments []models.Payment        `json:"recent_payments"`
}

// NewSeriesResponse converts aggregator buckets to their JSON form.
func NewSeriesResponse(points []revenue.BucketPoint) []BucketResponse {
	out := make([]BucketResponse, 0, len(points))
	for _, p := range points {
		out = append(out, BucketResponse{
			Key:     p.Key,
			Label:   p.Label,
			Start:   p.Start,
			End:     p.End,
			Revenue: p.Revenue.InexactFloat64(),
			Count:   p.Count,
		})
	}
	return out
}

// NewSummaryResponse converts a range summary.
func NewSummaryResponse(s revenue.Summary) SummaryResponse {
	return SummaryResponse{
		TotalRevenue:   s.TotalRevenue.InexactFloat64(),
		PaymentCount:   s.PaymentCount,
		AveragePayment: s.AveragePayment.InexactFloat64(),
	}
}

// NewCardsResponse converts the card metrics.
func NewCardsResponse(c revenue.CardsResult) CardsResponse {
	cards := make([]CardResponse, 0, len(c.Cards))
	for _, card := range c.Cards {
		cards = append(cards, CardResponse{Key: card.Key, Label: card.Label, Value: card.Value})
	}
	return CardsResponse{
		NoData:         c.NoData,
		TotalRevenue:   c.TotalRevenue.InexactFloat64(),
		Count:          c.Count,
		Average:        c.Average.InexactFloat64(),
		AcceptedCount:  c.AcceptedCount,
		RejectedCount:  c.RejectedCount,
		AcceptanceRate: c.AcceptanceRate,
		TotalHours:     c.TotalHours,
		Cards:          cards,
	}
}

// NewClientsResponse converts the top clients table.
func NewClientsResponse(rows []revenue.ClientRevenue) []ClientRevenueResponse {
	out := make([]ClientRevenueResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ClientRevenueResponse{
			Name:    r.Name,
			Email:   r.Email,
			Revenue: r.Revenue.InexactFloat64(),
			Count:   r.Count,
		})
	}
	return out
}
