// Package export renders revenue reports and payment requests as documents.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/guttosm/packflow/internal/domain/models"
	"github.com/guttosm/packflow/internal/revenue"
)

const (
	summarySheet = "summary"
	seriesSheet  = "series"
)

// RevenueReport is the content of a revenue spreadsheet.
type RevenueReport struct {
	Granularity revenue.Granularity
	Range       revenue.Range
	GeneratedAt time.Time
	Series      []revenue.BucketPoint
	Summary     revenue.Summary
}

// RevenueXLSX renders a report with a summary sheet and one row per bucket.
func RevenueXLSX(r RevenueReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(seriesSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Revenue Report")
	_ = f.SetCellValue(summarySheet, "A3", "Granularity")
	_ = f.SetCellValue(summarySheet, "B3", string(r.Granularity))
	_ = f.SetCellValue(summarySheet, "A4", "Range")
	_ = f.SetCellValue(summarySheet, "B4", string(r.Range))
	_ = f.SetCellValue(summarySheet, "A5", "Generated")
	_ = f.SetCellValue(summarySheet, "B5", r.GeneratedAt.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A6", "Total Revenue")
	_ = f.SetCellValue(summarySheet, "B6", r.Summary.TotalRevenue.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A7", "Payments")
	_ = f.SetCellValue(summarySheet, "B7", r.Summary.PaymentCount)
	_ = f.SetCellValue(summarySheet, "A8", "Average Payment")
	_ = f.SetCellValue(summarySheet, "B8", r.Summary.AveragePayment.InexactFloat64())

	_ = f.SetCellValue(seriesSheet, "A1", "Key")
	_ = f.SetCellValue(seriesSheet, "B1", "Period")
	_ = f.SetCellValue(seriesSheet, "C1", "Revenue")
	_ = f.SetCellValue(seriesSheet, "D1", "Payments")
	for i, b := range r.Series {
		row := i + 2
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("A%d", row), b.Key)
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("B%d", row), b.Label)
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("C%d", row), b.Revenue.InexactFloat64())
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("D%d", row), b.Count)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PaymentRequestPDF renders the document a client receives for a payment.
// Bank details are optional.
func PaymentRequestPDF(p models.Payment, bank *models.BankDetails) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 16)
	pdf.AddPage()

	pdf.Cell(0, 10, "Payment Request")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Reference: %s", p.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", p.CreatedAt.Format("Jan 2, 2006")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", p.Status))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Bill To")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, p.ClientName)
	pdf.Ln(5)
	if p.ClientEmail != "" {
		pdf.Cell(0, 6, p.ClientEmail)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	if p.ProjectName != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Project: %s", p.ProjectName))
		pdf.Ln(5)
	}
	if p.WorkPeriodStart != nil && p.WorkPeriodEnd != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Work period: %s - %s",
			p.WorkPeriodStart.Format("Jan 2, 2006"), p.WorkPeriodEnd.Format("Jan 2, 2006")))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 7, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, "Amount", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	lines := []struct {
		label  string
		amount float64
	}{
		{fmt.Sprintf("%.2f hours @ $%.2f", p.HoursWorked, p.Rate), p.Subtotal},
		{"Additional fees", p.AdditionalFees},
	}
	for _, l := range lines {
		pdf.CellFormat(90, 7, l.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("$%.2f", l.amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 7, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, fmt.Sprintf("$%.2f", p.Total), "1", 0, "R", false, 0, "")
	pdf.Ln(12)

	if bank != nil {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, "Payment Details")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Account name: %s", bank.AccountName))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("Account number: %s", bank.AccountNumber))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("Sort code: %s", bank.FormattedSortCode()))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
