package revenue

import (
	"strings"
	"time"

	"github.com/guttosm/packflow/internal/domain/models"
)

// Range is the lookback window bounding which payments are reported.
type Range string

const (
	Last24Hours  Range = "24h"
	Last7Days    Range = "7d"
	Last12Weeks  Range = "12w"
	Last12Months Range = "12m"
	AllTime      Range = "all"
)

// DefaultRange is used when the caller supplies a missing or unknown value.
const DefaultRange = Last12Weeks

const day = 24 * time.Hour

// lookbacks are fixed durations; a "month" in 12m is 30 days.
var lookbacks = map[Range]time.Duration{
	Last24Hours:  day,
	Last7Days:    7 * day,
	Last12Weeks:  12 * 7 * day,
	Last12Months: 12 * 30 * day,
}

// ParseRange returns the range named by s, or DefaultRange.
func ParseRange(s string) Range {
	r := Range(strings.ToLower(strings.TrimSpace(s)))
	if r.Valid() {
		return r
	}
	return DefaultRange
}

// Valid reports whether r is one of the supported ranges.
func (r Range) Valid() bool {
	if r == AllTime {
		return true
	}
	_, ok := lookbacks[r]
	return ok
}

// Window returns the inclusive [start, end] interval for r ending at now.
// For AllTime the start is the earliest effective date among records,
// or now when there are none.
func (r Range) Window(now time.Time, records []models.Payment) (time.Time, time.Time) {
	if r == AllTime {
		start := now
		for i, p := range records {
			d := p.EffectiveDate()
			if i == 0 || d.Before(start) {
				start = d
			}
		}
		return start.In(now.Location()), now
	}
	lb, ok := lookbacks[r]
	if !ok {
		lb = lookbacks[DefaultRange]
	}
	return now.Add(-lb), now
}

// inWindow reports whether t lies in [start, end], both ends inclusive.
func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
