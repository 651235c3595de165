package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/packflow/internal/revenue"
)

func TestNewSeriesResponse(t *testing.T) {
	start := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	in := []revenue.BucketPoint{{
		Key:     "2024-01-08",
		Label:   "Week of Jan 8, 2024",
		Start:   start,
		End:     start.AddDate(0, 0, 7),
		Revenue: decimal.RequireFromString("1250.50"),
		Count:   3,
	}}

	out := NewSeriesResponse(in)
	if len(out) != 1 || out[0].Revenue != 1250.5 || out[0].Count != 3 || out[0].Key != "2024-01-08" {
		t.Fatalf("unexpected %+v", out)
	}
	if empty := NewSeriesResponse(nil); empty == nil || len(empty) != 0 {
		t.Fatalf("want empty non-nil slice")
	}
}

func TestNewCardsResponse(t *testing.T) {
	in := revenue.CardsResult{
		TotalRevenue:   decimal.NewFromInt(300),
		Count:          2,
		Average:        decimal.NewFromInt(150),
		AcceptanceRate: "66.7%",
		Cards:          []revenue.MetricsCard{{Key: "k", Label: "L", Value: "$300.00"}},
	}
	out := NewCardsResponse(in)
	if out.TotalRevenue != 300 || out.Average != 150 || out.AcceptanceRate != "66.7%" || len(out.Cards) != 1 {
		t.Fatalf("unexpected %+v", out)
	}
}
