package calendar

import (
	"testing"
	"time"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestAdvance(t *testing.T) {
	testCases := []struct {
		name string
		in   time.Time
		freq Frequency
		want time.Time
	}{
		{"daily", d(2025, time.March, 31), Daily, d(2025, time.April, 1)},
		{"weekly across year", d(2025, time.December, 29), Weekly, d(2026, time.January, 5)},
		{"monthly plain", d(2025, time.January, 15), Monthly, d(2025, time.February, 15)},
		{"monthly clamps to february", d(2025, time.January, 31), Monthly, d(2025, time.February, 28)},
		{"monthly clamps to leap february", d(2024, time.January, 31), Monthly, d(2024, time.February, 29)},
		{"monthly clamps to 30 day month", d(2025, time.March, 31), Monthly, d(2025, time.April, 30)},
		{"quarterly", d(2025, time.November, 30), Quarterly, d(2026, time.February, 28)},
		{"yearly", d(2025, time.June, 1), Yearly, d(2026, time.June, 1)},
		{"yearly from leap day", d(2024, time.February, 29), Yearly, d(2025, time.February, 28)},
		{"time of day dropped", time.Date(2025, time.May, 5, 23, 59, 0, 0, time.UTC), Daily, d(2025, time.May, 6)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Advance(tc.in, tc.freq)
			if err != nil {
				t.Fatalf("Advance() unexpected error = %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("Advance(%s, %s) = %s, want %s", tc.in.Format(DateFormat), tc.freq, got.Format(DateFormat), tc.want.Format(DateFormat))
			}
		})
	}
}

func TestAdvanceUnknownFrequency(t *testing.T) {
	if _, err := Advance(d(2025, 1, 1), Frequency("hourly")); err == nil {
		t.Error("Advance() expected error for unknown frequency")
	}
	if _, err := ParseFrequency("fortnightly"); err == nil {
		t.Error("ParseFrequency() expected error")
	}
}

func TestWindow(t *testing.T) {
	testCases := []struct {
		name   string
		period Period
		start  time.Time
		on     time.Time
		want   Range
	}{
		{
			name:   "monthly anchored mid month",
			period: PeriodMonthly,
			start:  d(2025, time.January, 15),
			on:     d(2025, time.March, 20),
			want:   Range{From: d(2025, time.March, 15), To: d(2025, time.April, 14)},
		},
		{
			name:   "monthly before anchor day",
			period: PeriodMonthly,
			start:  d(2025, time.January, 15),
			on:     d(2025, time.March, 10),
			want:   Range{From: d(2025, time.February, 15), To: d(2025, time.March, 14)},
		},
		{
			name:   "monthly calendar month",
			period: PeriodMonthly,
			start:  d(2025, time.January, 1),
			on:     d(2025, time.February, 14),
			want:   Range{From: d(2025, time.February, 1), To: d(2025, time.February, 28)},
		},
		{
			name:   "weekly",
			period: PeriodWeekly,
			start:  d(2025, time.September, 1),
			on:     d(2025, time.September, 17),
			want:   Range{From: d(2025, time.September, 15), To: d(2025, time.September, 21)},
		},
		{
			name:   "yearly",
			period: PeriodYearly,
			start:  d(2024, time.June, 1),
			on:     d(2025, time.March, 1),
			want:   Range{From: d(2024, time.June, 1), To: d(2025, time.May, 31)},
		},
		{
			name:   "before start",
			period: PeriodMonthly,
			start:  d(2025, time.May, 1),
			on:     d(2025, time.April, 1),
			want:   Range{From: d(2025, time.May, 1), To: d(2025, time.May, 31)},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Window(tc.period, tc.start, tc.on)
			if !got.From.Equal(tc.want.From) || !got.To.Equal(tc.want.To) {
				t.Errorf("Window() = %v, want %v", got, tc.want)
			}
			if !got.Contains(tc.on) && !tc.on.Before(tc.start) {
				t.Errorf("Window() = %v does not contain %s", got, tc.on.Format(DateFormat))
			}
		})
	}
}

func TestMonthRange(t *testing.T) {
	got := MonthRange(2024, time.February)
	want := Range{From: d(2024, time.February, 1), To: d(2024, time.February, 29)}
	if !got.From.Equal(want.From) || !got.To.Equal(want.To) {
		t.Errorf("MonthRange() = %v, want %v", got, want)
	}
}
