package domain

import "time"

// Day is a calendar date without a time component.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t in t's own location
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses a date in YYYY-MM-DD format
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, err
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of the day
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DateString returns date in YYYY-MM-DD format
func (d Day) DateString() string {
	return d.Time().Format("2006-01-02")
}

// Before reports whether d is earlier than other
func (d Day) Before(other Day) bool {
	return d.Time().Before(other.Time())
}

// DaysUntil returns the number of calendar days from d to other.
// Negative when other is earlier.
func (d Day) DaysUntil(other Day) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}
