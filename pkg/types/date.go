package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only calendar-date format the API accepts.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component. It round-trips through
// JSON and the database as a YYYY-MM-DD string and sorts by day.
type Date struct {
	t time.Time
}

// NewDate builds a Date from a year/month/day triple in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its UTC calendar day.
func DateOf(instant time.Time) Date {
	y, m, d := instant.UTC().Date()
	return NewDate(y, m, d)
}

// ParseDate parses value strictly as YYYY-MM-DD. Anything else — wrong
// separators, out-of-range month/day, missing zero padding — is an error.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return DateOf(parsed), nil
}

func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// Time returns the midnight-UTC instant backing the date.
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" || raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer; dates are stored as DATE columns.
func (d Date) Value() (driver.Value, error) {
	return d.t, nil
}

// Scan implements sql.Scanner. Postgres hands back time.Time for DATE
// columns; sqlite (used in tests) hands back the stored string.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("date: cannot scan %T", src)
	}
}

func (d *Date) scanString(raw string) error {
	// sqlite stores the full RFC3339 timestamp for time.Time values.
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		*d = DateOf(parsed)
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
