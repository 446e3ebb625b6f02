// Package julian converts civil calendar dates to and from Julian day numbers.
//
// Civil dates before 15 October 1582 use the Julian calendar, later dates the
// Gregorian calendar. Years follow the historical convention: there is no year
// zero and year -1 (1 B.C.) immediately precedes year 1.
package julian

import (
	"fmt"
	"math"
	"time"
)

// ReformDay is the first Julian day (at noon) counted in the Gregorian calendar,
// i.e. 15 October 1582.
const ReformDay = 2299161

// reformStamp is 15 October 1582 encoded as year + month/100 + day/10000.
const reformStamp = 1582.1015

// Date is a civil calendar date with its time of day and weekday.
type Date struct {
	Year     int
	Month    int
	Day      int
	Fraction float64 // time of day as a fraction of a day, 0 is midnight
	Weekday  time.Weekday
}

func (d Date) String() string {
	if d.Year < 0 {
		return fmt.Sprintf("%d %s %d B.C.", d.Day, time.Month(d.Month), -d.Year)
	}
	return fmt.Sprintf("%d %s %d", d.Day, time.Month(d.Month), d.Year)
}

// Before reports whether d falls on an earlier day than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// SameDay reports whether d and o name the same civil day.
func (d Date) SameDay(o Date) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

// Truncate rounds x toward the date boundary: down for non-negative values
// and up for negative ones. Day and the lunation arithmetic use it; FromDay
// and the weekday use math.Floor so they stay exact before the epoch.
func Truncate(x float64) float64 {
	if x >= 0 {
		return math.Floor(x)
	}
	return math.Ceil(x)
}

// Astronomical maps a historical year onto astronomical numbering, where
// 1 B.C. is year 0.
func Astronomical(year int) int {
	if year < 0 {
		return year + 1
	}
	return year
}

// Historical is the inverse of Astronomical.
func Historical(year int) int {
	if year <= 0 {
		return year - 1
	}
	return year
}

// Day returns the Julian day number of the given civil date at the given
// fraction of the day. Midnight of a date is therefore a half-integer.
func Day(year, month, day int, fraction float64) float64 {
	year = Astronomical(year)
	y, m := year, month
	if month <= 2 {
		y, m = year-1, month+12
	}
	jul := float64(y) * 365.25
	if y < 1 {
		jul -= 0.75
	}
	jul = Truncate(jul) + Truncate(30.6001*float64(m+1)) + float64(day) + fraction + 1720994.5
	if afterReform(year, month, day) {
		ja := Truncate(0.01 * float64(y))
		jul += 2 - ja + Truncate(0.25*ja)
	}
	return jul
}

func afterReform(year, month, day int) bool {
	stamp := float64(year) + float64(month)*1e-2 + float64(day)*1e-4
	return stamp >= reformStamp
}

// FromDay is the inverse of Day.
func FromDay(jd float64) Date {
	jd += 0.5
	z := math.Floor(jd)
	f := jd - z
	a := z
	if z >= ReformDay {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}
	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	d := math.Floor(365.25 * c)
	e := math.Floor((b - d) / 30.6001)
	f += b - d - math.Floor(30.6001*e)

	var out Date
	out.Day = int(math.Floor(f))
	out.Fraction = f - float64(out.Day)
	if e > 13 {
		out.Month = int(e) - 13
	} else {
		out.Month = int(e) - 1
	}
	if out.Month > 2 {
		out.Year = int(c) - 4716
	} else {
		out.Year = int(c) - 4715
	}
	out.Weekday = weekday(z)
	out.Year = Historical(out.Year)
	return out
}

// Weekday returns the weekday of the civil day containing jd.
func Weekday(jd float64) time.Weekday {
	return weekday(math.Floor(jd + 0.5))
}

// weekday maps the Julian day number at noon onto Sunday..Saturday.
func weekday(noon float64) time.Weekday {
	w := int(math.Floor(noon+1.1)) % 7
	return time.Weekday((w + 7) % 7)
}

var daysPerMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeap reports whether February of the civil year has 29 days. Before 1582
// every fourth year is a leap year; afterwards centuries must also divide by 400.
func IsLeap(year int) bool {
	y := Astronomical(year)
	if y%4 != 0 {
		return false
	}
	return y < 1582 || y%100 != 0 || y%400 == 0
}

// DaysInMonth returns the number of days in the civil month, or 0 when month
// is outside 1..12.
func DaysInMonth(month, year int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeap(year) {
		return 29
	}
	return daysPerMonth[month]
}

// Valid reports whether the civil date exists. Year zero and the days dropped
// by the Gregorian reform (5 to 14 October 1582) do not.
func Valid(year, month, day int) bool {
	if year == 0 || month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > DaysInMonth(month, year) {
		return false
	}
	if year == 1582 && month == 10 && day > 4 && day < 15 {
		return false
	}
	return true
}

// FromTime returns the civil date of t in t's location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	frac := (float64(h)*3600 + float64(mi)*60 + float64(s)) / 86400
	return Date{
		Year:     Historical(y),
		Month:    int(m),
		Day:      d,
		Fraction: frac,
		Weekday:  t.Weekday(),
	}
}

// Today returns the civil date of now.
func Today(now func() time.Time) Date {
	if now == nil {
		now = time.Now
	}
	return FromTime(now())
}
