package revenue

import (
	"strings"
	"time"
)

// Granularity selects the width of the buckets in a revenue series.
type Granularity string

const (
	Hours  Granularity = "hours"
	Days   Granularity = "days"
	Weeks  Granularity = "weeks"
	Months Granularity = "months"
)

// DefaultGranularity is used when the caller supplies a missing or unknown value.
const DefaultGranularity = Weeks

// ParseGranularity returns the granularity named by s, or DefaultGranularity.
func ParseGranularity(s string) Granularity {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if g.Valid() {
		return g
	}
	return DefaultGranularity
}

// Valid reports whether g is one of the supported granularities.
func (g Granularity) Valid() bool {
	switch g {
	case Hours, Days, Weeks, Months:
		return true
	}
	return false
}

// Truncate returns the start of the bucket containing t, in t's location.
//
// Weeks start on Monday: a Sunday walks back six days, any other day walks
// back (weekday - Monday) days.
func (g Granularity) Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch g {
	case Hours:
		// Subtracting the sub-hour part keeps ambiguous wall-clock hours distinct.
		return t.Add(-time.Duration(t.Minute())*time.Minute -
			time.Duration(t.Second())*time.Second -
			time.Duration(t.Nanosecond()))
	case Days:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case Weeks:
		back := int(t.Weekday() - time.Monday)
		if t.Weekday() == time.Sunday {
			back = 6
		}
		return time.Date(y, m, d-back, 0, 0, 0, 0, loc)
	case Months:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
	return t
}

// Next returns the start of the bucket following the one starting at start.
// Months advance by calendar month, not by a fixed number of days.
func (g Granularity) Next(start time.Time) time.Time {
	switch g {
	case Hours:
		return start.Add(time.Hour)
	case Days:
		return start.AddDate(0, 0, 1)
	case Weeks:
		return start.AddDate(0, 0, 7)
	case Months:
		return start.AddDate(0, 1, 0)
	}
	return start
}

// Key encodes a bucket start as a string whose lexical order matches
// chronological order. Hour keys are rendered in UTC so that repeated
// wall-clock hours around a DST change never collide.
func (g Granularity) Key(start time.Time) string {
	switch g {
	case Hours:
		return start.UTC().Format("2006-01-02T15")
	case Days, Weeks:
		return start.Format("2006-01-02")
	case Months:
		return start.Format("2006-01")
	}
	return start.Format(time.RFC3339)
}

// Label renders a human readable name for the bucket starting at start.
func (g Granularity) Label(start time.Time) string {
	switch g {
	case Hours:
		return start.Format("Jan 2 15:00")
	case Days:
		return start.Format("Jan 2, 2006")
	case Weeks:
		return "Week of " + start.Format("Jan 2, 2006")
	case Months:
		return start.Format("Jan 2006")
	}
	return start.Format(time.RFC3339)
}

// shortLabel is the compact axis label used by the chart renderer.
func (g Granularity) shortLabel(start time.Time, index int) string {
	switch g {
	case Hours:
		return start.Format("15")
	case Days:
		return start.Format("Jan 2")
	case Weeks:
		return "W" + itoa(index+1)
	case Months:
		return start.Format("Jan 06")
	}
	return ""
}
