// Package revenue turns payment records into the revenue figures shown on
// the metrics dashboard: a gap-filled time series, range summaries, the
// summary cards and client rankings.
//
// Every operation is a pure function of its inputs and the injected clock.
// An Aggregator holds no mutable state and is safe for concurrent use.
package revenue

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/packflow/internal/domain/models"
)

// DefaultMaxBuckets bounds the length of a generated series.
const DefaultMaxBuckets = 5000

// ErrTooManyBuckets is returned when the requested granularity and range
// would produce more buckets than the aggregator allows.
var ErrTooManyBuckets = errors.New("revenue: series exceeds bucket limit")

// Clock returns the current time.
type Clock func() time.Time

// Predicate selects the payments that count as realized revenue.
type Predicate func(models.Payment) bool

// StatusIn returns a Predicate matching any of the given statuses.
func StatusIn(statuses ...models.Status) Predicate {
	set := make(map[models.Status]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return func(p models.Payment) bool {
		_, ok := set[p.Status]
		return ok
	}
}

// DefaultRealized counts accepted and paid payments as revenue.
var DefaultRealized = StatusIn(models.StatusAccepted, models.StatusPaid)

// Aggregator computes revenue reports.
type Aggregator struct {
	now        Clock
	loc        *time.Location
	maxBuckets int
	realized   Predicate
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock injects the time source.
func WithClock(c Clock) Option {
	return func(a *Aggregator) {
		if c != nil {
			a.now = c
		}
	}
}

// WithLocation sets the time zone used for calendar truncation.
// By default the clock's own location is used.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) { a.loc = loc }
}

// WithMaxBuckets overrides DefaultMaxBuckets. Non-positive values are ignored.
func WithMaxBuckets(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxBuckets = n
		}
	}
}

// WithRealized sets the predicate that defines realized revenue.
func WithRealized(p Predicate) Option {
	return func(a *Aggregator) {
		if p != nil {
			a.realized = p
		}
	}
}

// New builds an Aggregator. Without options it reads the wall clock,
// truncates in the clock's location, caps series at DefaultMaxBuckets and
// treats accepted and paid payments as realized.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		now:        time.Now,
		maxBuckets: DefaultMaxBuckets,
		realized:   DefaultRealized,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Now returns the aggregator's current time in its reporting location.
func (a *Aggregator) Now() time.Time {
	now := a.now()
	if a.loc != nil {
		now = now.In(a.loc)
	}
	return now
}

// Realized returns the subset of records matching the realized predicate,
// preserving order.
func (a *Aggregator) Realized(records []models.Payment) []models.Payment {
	out := make([]models.Payment, 0, len(records))
	for _, p := range records {
		if a.realized(p) {
			out = append(out, p)
		}
	}
	return out
}

// amount coerces a stored monetary value into a decimal. Values that are
// negative or not finite contribute nothing.
func amount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// finite returns v, or 0 when v is negative, NaN or infinite.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func itoa(i int) string { return strconv.Itoa(i) }
