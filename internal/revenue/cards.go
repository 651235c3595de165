package revenue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/guttosm/packflow/internal/domain/models"
)

// NotApplicable is shown as the acceptance rate when nothing was decided yet.
const NotApplicable = "N/A"

// CardsFilter narrows the records behind the summary cards.
type CardsFilter struct {
	// Days keeps payments whose effective date is within the trailing
	// number of days. Zero or negative means all time.
	Days int
	// Client is a case-insensitive substring matched against the client
	// name or email. Empty disables the filter.
	Client string
}

// ParseDays reads a trailing-days selector. "all", empty and invalid
// values mean all time.
func ParseDays(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(AllTime)) {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// MetricsCard is one labelled figure of the card view.
type MetricsCard struct {
	Key   string
	Label string
	Value string
}

// CardsResult carries the card metrics.
//
// NoData is set when nothing matched and no client filter was active, which
// distinguishes an unused account from a filter that excludes everything.
// Cards is empty in that case.
type CardsResult struct {
	NoData         bool
	TotalRevenue   decimal.Decimal
	Count          int
	Average        decimal.Decimal
	AcceptedCount  int
	RejectedCount  int
	AcceptanceRate string
	TotalHours     float64
	Cards          []MetricsCard
}

// ComputeCards computes the card metrics over all of a user's records.
// Realized records feed revenue, count, average and hours; rejected records
// only feed the acceptance rate.
//
// Rejected records go through the same days and client filter as realized
// ones. A filtered view therefore reports the acceptance rate of that slice,
// not one computed against every rejected payment the user ever had.
func (a *Aggregator) ComputeCards(records []models.Payment, f CardsFilter) CardsResult {
	now := a.Now()
	cutoff := now.AddDate(0, 0, -f.Days)
	client := strings.ToLower(strings.TrimSpace(f.Client))

	keep := func(p models.Payment) bool {
		if f.Days > 0 && p.EffectiveDate().Before(cutoff) {
			return false
		}
		if client != "" &&
			!strings.Contains(strings.ToLower(p.ClientName), client) &&
			!strings.Contains(strings.ToLower(p.ClientEmail), client) {
			return false
		}
		return true
	}

	res := CardsResult{TotalRevenue: decimal.Zero, Average: decimal.Zero}
	for _, p := range records {
		if !keep(p) {
			continue
		}
		switch {
		case a.realized(p):
			res.TotalRevenue = res.TotalRevenue.Add(amount(p.Total))
			res.TotalHours += finite(p.HoursWorked)
			res.Count++
		case p.Status == models.StatusRejected:
			res.RejectedCount++
		}
	}
	res.AcceptedCount = res.Count

	if res.Count == 0 && client == "" {
		res.NoData = true
		res.AcceptanceRate = NotApplicable
		return res
	}

	if res.Count > 0 {
		res.Average = res.TotalRevenue.Div(decimal.NewFromInt(int64(res.Count)))
	}
	res.AcceptanceRate = acceptanceRate(res.AcceptedCount, res.RejectedCount)

	res.Cards = []MetricsCard{
		{Key: "total_revenue", Label: "Total Accepted Revenue", Value: FormatMoney(res.TotalRevenue)},
		{Key: "accepted_count", Label: "Accepted Payments Count", Value: strconv.Itoa(res.Count)},
		{Key: "average_payment", Label: "Average Payment Value", Value: FormatMoney(res.Average)},
		{Key: "acceptance_rate", Label: "Acceptance Rate", Value: res.AcceptanceRate},
		{Key: "total_hours", Label: "Total Hours Paid", Value: fmt.Sprintf("%.2f", res.TotalHours)},
	}
	return res
}

func acceptanceRate(accepted, rejected int) string {
	decided := accepted + rejected
	if decided == 0 {
		return NotApplicable
	}
	return fmt.Sprintf("%.1f%%", float64(accepted)/float64(decided)*100)
}

// FormatMoney renders an amount as dollars with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
