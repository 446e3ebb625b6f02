package hijri

import (
	"fmt"
	"time"
)

// System identifies the calendar a Date is expressed in.
type System int

const (
	Gregorian System = iota
	Hijri
)

func (s System) String() string {
	if s == Hijri {
		return "hijri"
	}
	return "gregorian"
}

// Date is the result of a conversion. Years have no zero: -1 precedes 1 in
// both calendars.
type Date struct {
	System   System
	Year     int
	Month    int
	Day      int
	Fraction float64 // time of day as a fraction of a day
	Weekday  time.Weekday
	// NewMoon is the Julian date of the conjunction governing the Hijri month.
	NewMoon float64
}

// Equal reports whether d and o name the same day in the same calendar.
func (d Date) Equal(o Date) bool {
	return d.System == o.System && d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

// Before orders dates of the same calendar by day.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// MonthName returns the month name in the date's calendar.
func (d Date) MonthName() string {
	if d.System == Hijri {
		return MonthName(d.Month)
	}
	return time.Month(d.Month).String()
}

// YearString renders the year with the era suffix used for years before
// the epoch of the date's calendar.
func (d Date) YearString() string {
	if d.Year > 0 {
		return fmt.Sprint(d.Year)
	}
	if d.System == Hijri {
		return fmt.Sprintf("%d B.H.", -d.Year)
	}
	return fmt.Sprintf("%d B.C.", -d.Year)
}

// String formats d as "<weekday> <day> <month> <year>". Hijri dates use the
// Arabic weekday names.
func (d Date) String() string {
	wd := d.Weekday.String()
	if d.System == Hijri {
		wd = WeekdayName(d.Weekday)
	}
	return fmt.Sprintf("%s %d %s %s", wd, d.Day, d.MonthName(), d.YearString())
}

// ISO formats d as YYYY-MM-DD with a leading minus sign for years before
// the epoch.
func (d Date) ISO() string {
	if d.Year < 0 {
		return fmt.Sprintf("-%04d-%02d-%02d", -d.Year, d.Month, d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
