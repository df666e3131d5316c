package types

import (
	"fmt"
	"strings"
	"time"
)

// Day is a calendar day, the "dateISO" of the ledger schema.
type Day time.Time

// NewDay returns a new Day.
func NewDay(year int, month time.Month, day int) Day {
	return Day(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DayOf returns the Day on which a time occurs.
func DayOf(t time.Time) Day {
	year, month, day := t.Date()
	return Day(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseDay parses a "YYYY-MM-DD" string and returns the Day value it represents
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, err
	}

	return DayOf(t), nil
}

// String returns the day formatted as YYYY-MM-DD.
func (d Day) String() string {
	return time.Time(d).Format("2006-01-02")
}

// Month returns the Month the day belongs to.
func (d Day) Month() Month {
	return MonthOf(time.Time(d))
}

// MarshalJSON implements the json.Marshaler interface.
// The output is the result of d.String().
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// The day is expected to be a "YYYY-MM-DD" string.
func (d *Day) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	parsed, err := ParseDay(value)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// UnmarshalParam implements gin's binding.BindUnmarshaler so that
// days can be bound from query and URI parameters.
func (d *Day) UnmarshalParam(param string) error {
	if param == "" {
		*d = Day{}
		return nil
	}

	parsed, err := ParseDay(param)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// IsZero reports if the day is the zero value.
func (d Day) IsZero() bool {
	return time.Time(d).IsZero()
}

// Before reports whether the day instant d is before e.
func (d Day) Before(e Day) bool {
	return time.Time(d).Before(time.Time(e))
}

// After reports whether the day instant d is after e.
func (d Day) After(e Day) bool {
	return time.Time(d).After(time.Time(e))
}

// Equal reports whether d and e represent the same day.
func (d Day) Equal(e Day) bool {
	return time.Time(d).Equal(time.Time(e))
}

// AddDays adds the specified amount of days, which may be negative.
func (d Day) AddDays(days int) Day {
	return Day(time.Time(d).AddDate(0, 0, days))
}

// DaysOfMonth returns all days of the month in ascending order.
func DaysOfMonth(m Month) []Day {
	days := make([]Day, 0, m.Days())

	t := time.Time(m)
	for i := 1; i <= m.Days(); i++ {
		days = append(days, NewDay(t.Year(), t.Month(), i))
	}

	return days
}
