package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/guttosm/packflow/internal/domain/models"
	"github.com/guttosm/packflow/internal/revenue"
)

func TestRevenueXLSX(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	report := RevenueReport{
		Granularity: revenue.Months,
		Range:       revenue.AllTime,
		GeneratedAt: start,
		Series: []revenue.BucketPoint{
			{Key: "2024-01", Label: "Jan 2024", Start: start, Revenue: decimal.NewFromInt(100), Count: 1},
			{Key: "2024-02", Label: "Feb 2024", Start: start.AddDate(0, 1, 0), Revenue: decimal.NewFromInt(50), Count: 2},
		},
		Summary: revenue.Summary{TotalRevenue: decimal.NewFromInt(150), PaymentCount: 3, AveragePayment: decimal.NewFromInt(50)},
	}

	raw, err := RevenueXLSX(report)
	if err != nil {
		t.Fatalf("RevenueXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer func() { _ = f.Close() }()

	cases := []struct {
		sheet, cell, want string
	}{
		{summarySheet, "B3", "months"},
		{summarySheet, "B6", "150"},
		{seriesSheet, "A1", "Key"},
		{seriesSheet, "B2", "Jan 2024"},
		{seriesSheet, "C3", "50"},
		{seriesSheet, "D3", "2"},
	}
	for _, tc := range cases {
		got, err := f.GetCellValue(tc.sheet, tc.cell)
		if err != nil || got != tc.want {
			t.Fatalf("%s!%s = %q (err=%v), want %q", tc.sheet, tc.cell, got, err, tc.want)
		}
	}
}

func TestPaymentRequestPDF(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)
	p := models.Payment{
		ID: "p1", ClientName: "Acme", ClientEmail: "a@acme.test", ProjectName: "Site",
		WorkPeriodStart: &start, WorkPeriodEnd: &end,
		HoursWorked: 10, Rate: 50, Subtotal: 500, Total: 500, Status: models.StatusPending, CreatedAt: start,
	}

	for _, bank := range []*models.BankDetails{nil, {AccountName: "Jane", AccountNumber: "12345678", SortCode: "123456"}} {
		raw, err := PaymentRequestPDF(p, bank)
		if err != nil {
			t.Fatalf("PaymentRequestPDF: %v", err)
		}
		if !bytes.HasPrefix(raw, []byte("%PDF")) {
			t.Fatalf("output is not a PDF")
		}
	}
}
