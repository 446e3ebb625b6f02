package hijri

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var monthNames = []string{
	"Muharram", "Safar", "Rabi` al-Awal", "Rabi` al-Thaani",
	"Jumaada al-Awal", "Jumaada al-Thaani", "Rajab", "Sha`ban",
	"Ramadan", "Shawwal", "Thu al-Qi`dah", "Thu al-Hijjah",
}

var shortMonthNames = []string{
	"Muharram", "Safar", "R. Awal", "R. Thaani",
	"J. Awal", "J. Thaani", "Rajab", "Sha`ban",
	"Ramadan", "Shawwal", "Qi`dah", "Hijjah",
}

// indexed by time.Weekday
var weekdayNames = []string{
	"Yaum al-Ahad", "Yaum al-Ithnain", "Yaum al-Thulatha", "Yaum al-Arbi'a",
	"Yaum al-Khamees", "Yaum al-Jumma", "Yaum al-Sabt",
}

var shortWeekdayNames = []string{"Ahd", "Ith", "Thl", "Arb", "Kha", "Jum", "Sab"}

// MonthName returns the Hijri month name, or "" for a month outside 1..12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// ShortMonthName returns the abbreviated Hijri month name.
func ShortMonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return shortMonthNames[month-1]
}

// WeekdayName returns the Arabic name of the weekday.
func WeekdayName(wd time.Weekday) string {
	if wd < time.Sunday || wd > time.Saturday {
		return ""
	}
	return weekdayNames[wd]
}

// ShortWeekdayName returns the three-letter Arabic weekday abbreviation.
func ShortWeekdayName(wd time.Weekday) string {
	if wd < time.Sunday || wd > time.Saturday {
		return ""
	}
	return shortWeekdayNames[wd]
}

// ParseMonth parses a Hijri month given as a number 1..12 or as the start of
// its name, ignoring case: "ram" is Ramadan, "thu al-h" Thu al-Hijjah.
func ParseMonth(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, &DateError{System: Hijri, Field: "month", Value: n}
		}
		return n, nil
	}
	lc := strings.ToLower(strings.TrimSpace(s))
	if lc == "" {
		return 0, fmt.Errorf("%w: empty month", ErrInvalidDate)
	}
	for i := range monthNames {
		if strings.HasPrefix(strings.ToLower(monthNames[i]), lc) || strings.HasPrefix(strings.ToLower(shortMonthNames[i]), lc) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown Hijri month %q", ErrInvalidDate, s)
}
