package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date parses a JSON date as either date-only ("2006-01-02") or RFC3339.
// Values are truncated to the start of the day in UTC; null and "" leave it
// unset.
type Date struct{ t *time.Time }

func NewDate(t time.Time) Date {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Date{t: &d}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			*d = NewDate(parsed)
			return nil
		}
	}
	return fmt.Errorf("date: use YYYY-MM-DD or RFC3339, got %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.t == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.t.Format("2006-01-02"))
}

// Ptr returns nil when the date was not provided.
func (d Date) Ptr() *time.Time { return d.t }

func (d Date) IsZero() bool { return d.t == nil }

// Or returns the date, or fallback when unset.
func (d Date) Or(fallback time.Time) time.Time {
	if d.t == nil {
		return fallback
	}
	return *d.t
}
