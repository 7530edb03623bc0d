package domain

import (
	"fmt"
	"time"
)

// PeriodMonthly is the only budget period currently supported.
const PeriodMonthly = "monthly"

// PeriodSpec is the polymorphic period input accepted by budget operations:
// either a YYYY-MM month token, an explicit start/end range, or nothing
// (defaulting to the current month). Resolution is a single pure function so
// the degraded-schema fallback stays a storage concern.
type PeriodSpec struct {
	Month string
	Start time.Time
	End   time.Time
}

// PeriodRange is a canonical resolved period: the month token plus its
// inclusive calendar day bounds in UTC.
type PeriodRange struct {
	Month string
	Start time.Time
	End   time.Time
}

// Resolve canonicalizes the spec. Precedence: month token, then explicit
// range (month derived from the start date), then the month containing now.
func (s PeriodSpec) Resolve(now time.Time) (PeriodRange, error) {
	if s.Month != "" {
		return MonthRange(s.Month)
	}
	if !s.Start.IsZero() && !s.End.IsZero() {
		return PeriodRange{
			Month: s.Start.UTC().Format("2006-01"),
			Start: truncateToDay(s.Start),
			End:   truncateToDay(s.End),
		}, nil
	}
	return MonthRange(now.UTC().Format("2006-01"))
}

// MonthRange returns the first and last calendar day of a YYYY-MM month (UTC).
func MonthRange(month string) (PeriodRange, error) {
	start, err := time.ParseInLocation("2006-01", month, time.UTC)
	if err != nil {
		return PeriodRange{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return PeriodRange{
		Month: month,
		Start: start,
		End:   start.AddDate(0, 1, -1),
	}, nil
}

// CurrentMonthRange resolves the month containing now.
func CurrentMonthRange(now time.Time) PeriodRange {
	r, _ := MonthRange(now.UTC().Format("2006-01"))
	return r
}

// TimestampWindow returns the half-open [start of month, start of next month)
// timestamp window used by the degraded created_at fallback.
func (r PeriodRange) TimestampWindow() (time.Time, time.Time) {
	return r.Start, r.Start.AddDate(0, 1, 0)
}

// Contains reports whether a date falls within the range, inclusive.
func (r PeriodRange) Contains(d time.Time) bool {
	d = truncateToDay(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
