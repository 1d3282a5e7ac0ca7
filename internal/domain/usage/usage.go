// Package usage describes classifier token consumption over a budget window.
package usage

import (
	"fmt"
	"time"
)

// Period is the budget window a report covers.
type Period string

// Period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period name. Empty means day.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("period must be %q or %q, got %q", PeriodDay, PeriodMonth, s)
	}
}

// Bounds returns the UTC window of period that contains t.
func (p Period) Bounds(t time.Time) (start, end time.Time) {
	t = t.UTC()
	if p == PeriodMonth {
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Report is classifier token usage for one window.
type Report struct {
	period    Period
	start     time.Time
	end       time.Time
	provider  string
	used      int64
	limit     int64
	remaining int64
}

// NewReport creates a report. limit 0 means unlimited; remaining is then ignored.
func NewReport(period Period, start, end time.Time, provider string, used, limit, remaining int64) Report {
	if limit <= 0 {
		limit, remaining = 0, -1
	}
	return Report{
		period:    period,
		start:     start,
		end:       end,
		provider:  provider,
		used:      used,
		limit:     limit,
		remaining: remaining,
	}
}

// Period returns the window granularity.
func (r *Report) Period() Period { return r.period }

// Start returns the window start.
func (r *Report) Start() time.Time { return r.start }

// ResetsAt returns the window end, when counters go back to zero.
func (r *Report) ResetsAt() time.Time { return r.end }

// Provider returns the classifier provider the tokens were spent on.
func (r *Report) Provider() string { return r.provider }

// Used returns tokens consumed in the window.
func (r *Report) Used() int64 { return r.used }

// Limit returns the cap, 0 when unlimited.
func (r *Report) Limit() int64 { return r.limit }

// Remaining returns tokens left, -1 when unlimited.
func (r *Report) Remaining() int64 { return r.remaining }

// Unlimited reports whether the window has no cap.
func (r *Report) Unlimited() bool { return r.limit == 0 }

// Exhausted reports whether the cap is reached.
func (r *Report) Exhausted() bool { return r.limit > 0 && r.remaining <= 0 }
