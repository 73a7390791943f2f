package model

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = time.RFC3339
)

// Date is a calendar date, or a date-time when HasClock is set.
type Date struct {
	Time     time.Time
	HasClock bool
}

// NewDate returns a plain calendar date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String renders 2006-01-02 for dates and RFC 3339 for date-times.
func (d Date) String() string {
	if d.HasClock {
		return d.Time.Format(dateTimeLayout)
	}
	return d.Time.Format(dateLayout)
}

// Equal compares the rendered values.
func (d Date) Equal(o Date) bool {
	return d.HasClock == o.HasClock && d.Time.Equal(o.Time)
}

// MarshalJSON encodes the date as its string form.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts either layout produced by MarshalJSON.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return eris.Wrap(err, "model: decode date")
	}
	return d.parse(s)
}

// ParseDate parses a value produced by Date.String.
func ParseDate(s string) (Date, error) {
	var d Date
	err := d.parse(s)
	return d, err
}

func (d *Date) parse(s string) error {
	if t, err := time.Parse(dateLayout, s); err == nil {
		*d = Date{Time: t}
		return nil
	}
	t, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		return eris.Wrapf(err, "model: parse date %q", s)
	}
	*d = Date{Time: t, HasClock: true}
	return nil
}
