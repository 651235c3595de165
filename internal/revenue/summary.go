package revenue

import (
	"github.com/shopspring/decimal"

	"github.com/guttosm/packflow/internal/domain/models"
)

// Summary holds range-scoped totals for the revenue panel.
type Summary struct {
	TotalRevenue   decimal.Decimal
	PaymentCount   int
	AveragePayment decimal.Decimal
}

// ComputeSummary totals the records whose effective date falls in the
// window selected by r. The average is zero when no record qualifies.
func (a *Aggregator) ComputeSummary(records []models.Payment, r Range) Summary {
	if !r.Valid() {
		r = DefaultRange
	}
	start, end := r.Window(a.Now(), records)

	s := Summary{TotalRevenue: decimal.Zero, AveragePayment: decimal.Zero}
	for _, p := range records {
		if !inWindow(p.EffectiveDate(), start, end) {
			continue
		}
		s.TotalRevenue = s.TotalRevenue.Add(amount(p.Total))
		s.PaymentCount++
	}
	if s.PaymentCount > 0 {
		s.AveragePayment = s.TotalRevenue.Div(decimal.NewFromInt(int64(s.PaymentCount)))
	}
	return s
}
