package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateLayout is the storage form of calendar dates.
const DateLayout = "2006-01-02"

// DisplayLayout is how dates are shown to and typed by the pilot.
const DisplayLayout = "02.01.2006"

// Date is a calendar date without time of day, kept at midnight UTC.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate reads a stored YYYY-MM-DD value.
func ParseDate(raw string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String returns the storage form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Display returns dd.mm.yyyy.
func (d Date) Display() string {
	return d.Format(DisplayLayout)
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return fmt.Errorf("scan date %q: %w", v, err)
		}
		*d = parsed
	case []byte:
		return d.Scan(string(v))
	case time.Time:
		*d = NewDate(v)
	case nil:
		*d = Date{}
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
	return nil
}
