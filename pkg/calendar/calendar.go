// Package calendar holds day-granularity date arithmetic used by recurring
// schedules and budget periods. All dates are normalized to midnight UTC.
package calendar

import (
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 date layout used on the wire and in storage.
const DateFormat = "2006-01-02"

// Frequency is how often a recurring template fires.
type Frequency string

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown frequency %q", s)
	}
	return f, nil
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current day at midnight UTC.
func Today() time.Time { return Day(time.Now()) }

// Advance returns the next occurrence after t for frequency f.
// Month based steps clamp to the last day of the target month, so
// Jan 31 + 1 month is Feb 28 (or 29) and Feb 29 + 1 year is Feb 28.
func Advance(t time.Time, f Frequency) (time.Time, error) {
	t = Day(t)
	switch f {
	case Daily:
		return t.AddDate(0, 0, 1), nil
	case Weekly:
		return t.AddDate(0, 0, 7), nil
	case Monthly:
		return addMonths(t, 1), nil
	case Quarterly:
		return addMonths(t, 3), nil
	case Yearly:
		return addMonths(t, 12), nil
	}
	return time.Time{}, fmt.Errorf("unknown frequency %q", f)
}

func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := DaysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Period is a budget window length.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

func (p Period) Valid() bool {
	return p == PeriodWeekly || p == PeriodMonthly || p == PeriodYearly
}

// Range is an inclusive range of days.
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) Contains(t time.Time) bool {
	t = Day(t)
	return !t.Before(r.From) && !t.After(r.To)
}

func (r Range) String() string {
	return r.From.Format(DateFormat) + ".." + r.To.Format(DateFormat)
}

// Window returns the period window containing on. Windows are anchored at
// start: a monthly budget starting on the 15th runs 15th..14th.
func Window(p Period, start, on time.Time) Range {
	start, on = Day(start), Day(on)
	step := func(t time.Time, n int) time.Time {
		switch p {
		case PeriodWeekly:
			return t.AddDate(0, 0, 7*n)
		case PeriodYearly:
			return addMonthsFrom(start, t, 12*n)
		default:
			return addMonthsFrom(start, t, n)
		}
	}

	from := start
	if on.Before(start) {
		return Range{From: start, To: step(start, 1).AddDate(0, 0, -1)}
	}
	switch p {
	case PeriodWeekly:
		weeks := int(on.Sub(start).Hours()/24) / 7
		from = start.AddDate(0, 0, 7*weeks)
	default:
		months := (on.Year()-start.Year())*12 + int(on.Month()-start.Month())
		if p == PeriodYearly {
			months -= months % 12
		}
		from = addMonths(start, months)
		for from.After(on) {
			if p == PeriodYearly {
				months -= 12
			} else {
				months--
			}
			from = addMonths(start, months)
		}
	}
	return Range{From: from, To: step(from, 1).AddDate(0, 0, -1)}
}

// addMonthsFrom steps n months from t while keeping the anchor day of start,
// so a window that began clamped (Feb 28) still ends before Mar 31.
func addMonthsFrom(start, t time.Time, n int) time.Time {
	months := (t.Year()-start.Year())*12 + int(t.Month()-start.Month()) + n
	return addMonths(start, months)
}

// MonthRange returns the first and last day of the given month.
func MonthRange(year int, month time.Month) Range {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Range{From: from, To: from.AddDate(0, 1, -1)}
}
