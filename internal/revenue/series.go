package revenue

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/packflow/internal/domain/models"
)

// BucketPoint is one interval [Start, End) of a revenue series.
type BucketPoint struct {
	Key     string
	Label   string
	Start   time.Time
	End     time.Time
	Revenue decimal.Decimal
	Count   int
}

// ComputeSeries buckets records by effective date into a dense, ascending
// series covering the window selected by r.
//
// Records are summed as given: the caller has already restricted them to
// realized revenue. Buckets without payments are present with zero revenue.
// An empty input yields an empty series. Mismatched granularity and range
// pairs are computed as asked. ErrTooManyBuckets is returned when the series
// would exceed the configured limit.
func (a *Aggregator) ComputeSeries(records []models.Payment, g Granularity, r Range) ([]BucketPoint, error) {
	if len(records) == 0 {
		return []BucketPoint{}, nil
	}
	if !g.Valid() {
		g = DefaultGranularity
	}
	if !r.Valid() {
		r = DefaultRange
	}

	now := a.Now()
	loc := now.Location()
	start, end := r.Window(now, records)

	// Dense buckets from the start bucket until past end.
	points := make([]BucketPoint, 0)
	index := make(map[string]int)
	for cursor := g.Truncate(start.In(loc)); !cursor.After(end); cursor = g.Next(cursor) {
		if len(points) >= a.maxBuckets {
			return nil, ErrTooManyBuckets
		}
		key := g.Key(cursor)
		index[key] = len(points)
		points = append(points, BucketPoint{
			Key:     key,
			Label:   g.Label(cursor),
			Start:   cursor,
			End:     g.Next(cursor),
			Revenue: decimal.Zero,
		})
	}

	for _, p := range records {
		eff := p.EffectiveDate()
		if !inWindow(eff, start, end) {
			continue
		}
		i, ok := index[g.Key(g.Truncate(eff.In(loc)))]
		if !ok {
			continue
		}
		points[i].Revenue = points[i].Revenue.Add(amount(p.Total))
		points[i].Count++
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Key < points[j].Key })
	return points, nil
}

// SeriesTotal sums the revenue of every bucket.
func SeriesTotal(points []BucketPoint) decimal.Decimal {
	total := decimal.Zero
	for _, p := range points {
		total = total.Add(p.Revenue)
	}
	return total
}
