package revenue

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/guttosm/packflow/internal/domain/models"
)

// DefaultTopN is the number of rows in the top clients and recent payments tables.
const DefaultTopN = 10

// ClientRevenue is the revenue attributed to one client.
type ClientRevenue struct {
	Name    string
	Email   string
	Revenue decimal.Decimal
	Count   int
}

// TopClients groups records by client name (falling back to email, then
// "Unknown") and returns the n highest-revenue clients.
func TopClients(records []models.Payment, n int) []ClientRevenue {
	if n <= 0 {
		n = DefaultTopN
	}
	byKey := make(map[string]*ClientRevenue)
	order := make([]string, 0)
	for _, p := range records {
		key := p.ClientName
		if key == "" {
			key = p.ClientEmail
		}
		if key == "" {
			key = "Unknown"
		}
		c, ok := byKey[key]
		if !ok {
			name := p.ClientName
			if name == "" {
				name = "Unknown"
			}
			c = &ClientRevenue{Name: name, Email: p.ClientEmail, Revenue: decimal.Zero}
			byKey[key] = c
			order = append(order, key)
		}
		c.Revenue = c.Revenue.Add(amount(p.Total))
		c.Count++
	}

	out := make([]ClientRevenue, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// RecentPayments returns the n records with the latest effective dates,
// most recent first. The input slice is not modified.
func RecentPayments(records []models.Payment, n int) []models.Payment {
	if n <= 0 {
		n = DefaultTopN
	}
	out := make([]models.Payment, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveDate().After(out[j].EffectiveDate())
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
