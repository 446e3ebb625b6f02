// Package hijri converts dates between the civil (Julian/Gregorian) calendar
// and the Hijri calendar, placing Hijri month boundaries on the evening the
// new crescent is predicted to be visible.
//
// As a reference point the converter uses the fact that the year 1405 A.H.
// started immediately after lunar conjunction number 1048, which occurred on
// 25 September 1984 at 3h 10m UT.
package hijri

import (
	"errors"
	"fmt"
	"math"

	"github.com/lululau/hijri/internal/julian"
	"github.com/lululau/hijri/internal/visibility"
)

const (
	// AnchorLunation is the lunation whose crescent opened 1 Muharram 1405.
	AnchorLunation = 1048
	// AnchorYear is the Hijri year that began with AnchorLunation.
	AnchorYear = 1405

	// lunationsPerYear is the mean number of lunations in a tropical year.
	lunationsPerYear = 12.3685

	// DefaultMaxIterations bounds the lunation search in GregorianToHijri.
	DefaultMaxIterations = 400
)

var (
	// ErrNonConvergent is returned when the lunation search exceeds its bound.
	ErrNonConvergent = errors.New("lunation search did not converge")
	// ErrInvalidDate is returned for a day, month or year out of range.
	ErrInvalidDate = errors.New("invalid date")
)

// DateError describes the offending component of an invalid date.
type DateError struct {
	System System
	Field  string
	Value  int
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid %s %s: %d", e.System, e.Field, e.Value)
}

func (e *DateError) Unwrap() error {
	return ErrInvalidDate
}

// Converter converts between the two calendars for one observing site.
// A Converter holds no mutable state and is safe for concurrent use.
type Converter struct {
	site          visibility.Config
	maxIterations int
}

// Option configures a Converter.
type Option func(*Converter)

// WithVisibility sets the observing site used to place month starts.
func WithVisibility(cfg visibility.Config) Option {
	return func(c *Converter) {
		c.site = cfg
	}
}

// WithMaxIterations overrides DefaultMaxIterations.
func WithMaxIterations(n int) Option {
	return func(c *Converter) {
		c.maxIterations = n
	}
}

// NewConverter constructs a Converter for Makkah unless configured otherwise.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		site:          visibility.Mecca(),
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Site returns the observing site of c.
func (c *Converter) Site() visibility.Config {
	return c.site
}

var defaultConverter = NewConverter()

// GregorianToHijri converts a civil date using the Makkah site.
func GregorianToHijri(day, month, year int) (Date, error) {
	return defaultConverter.GregorianToHijri(day, month, year)
}

// HijriToGregorian converts a Hijri date using the Makkah site.
func HijriToGregorian(day, month, year int) (Date, error) {
	return defaultConverter.HijriToGregorian(day, month, year)
}

// DaysInMonth returns the number of days in a civil month.
func DaysInMonth(month, year int) int {
	return julian.DaysInMonth(month, year)
}

func validateCivil(day, month, year int) error {
	switch {
	case year == 0:
		return &DateError{System: Gregorian, Field: "year", Value: year}
	case month < 1 || month > 12:
		return &DateError{System: Gregorian, Field: "month", Value: month}
	case !julian.Valid(year, month, day):
		return &DateError{System: Gregorian, Field: "day", Value: day}
	}
	return nil
}

func validateHijri(day, month, year int) error {
	switch {
	case year == 0:
		return &DateError{System: Hijri, Field: "year", Value: year}
	case month < 1 || month > 12:
		return &DateError{System: Hijri, Field: "month", Value: month}
	case day < 1 || day > 30:
		return &DateError{System: Hijri, Field: "day", Value: day}
	}
	return nil
}

// GregorianToHijri converts a civil date to the Hijri calendar.
func (c *Converter) GregorianToHijri(day, month, year int) (Date, error) {
	if err := validateCivil(day, month, year); err != nil {
		return Date{}, err
	}
	jd := julian.Day(year, month, day, 0)
	cr, k, err := c.search(jd, c.seed(day, month, year))
	if err != nil {
		return Date{}, err
	}

	hy, hmon := fromMonthIndex(k - AnchorLunation)
	return Date{
		System:   Hijri,
		Year:     hy,
		Month:    hmon,
		Day:      int(julian.Truncate(jd-cr.Visible)) + 1,
		Fraction: 0.5,
		Weekday:  julian.Weekday(jd),
		NewMoon:  cr.Conjunction,
	}, nil
}

// seed estimates the number of lunations since 1900 up to the civil date.
func (c *Converter) seed(day, month, year int) int {
	y := float64(julian.Astronomical(year))
	k := 0.6 + (y+julian.Truncate(float64(month)-0.5)/12.0+float64(day)/365.0-1900)*lunationsPerYear
	return int(julian.Truncate(k))
}

// search finds the last lunation whose crescent is visible on or before jd.
// The seed is first pushed past jd, then walked back one lunation at a time.
func (c *Converter) search(jd float64, k int) (visibility.Crescent, int, error) {
	steps := 0
	for {
		cr, err := c.site.NewMoon(k)
		if err != nil {
			return visibility.Crescent{}, 0, err
		}
		if cr.Visible > jd {
			break
		}
		if steps++; steps > c.maxIterations {
			return visibility.Crescent{}, 0, fmt.Errorf("%w after %d steps from lunation %d", ErrNonConvergent, steps, k)
		}
		k++
	}
	for {
		cr, err := c.site.NewMoon(k)
		if err != nil {
			return visibility.Crescent{}, 0, err
		}
		if cr.Visible <= jd {
			return cr, k, nil
		}
		if steps++; steps > c.maxIterations {
			return visibility.Crescent{}, 0, fmt.Errorf("%w after %d steps from lunation %d", ErrNonConvergent, steps, k)
		}
		k--
	}
}

// fromMonthIndex splits a count of months since 1 Muharram 1405 into a
// Hijri year and month.
func fromMonthIndex(hm int) (year, month int) {
	year = AnchorYear + int(julian.Truncate(float64(hm)/12))
	month = hm%12 + 1
	if hm != 0 && month <= 0 {
		month += 12
		year--
	}
	if year <= 0 {
		year--
	}
	return year, month
}

// lunation returns the lunation that opens the given Hijri month.
func lunation(month, year int) int {
	y := julian.Astronomical(year)
	return month + y*12 - (AnchorYear*12 + 1) + AnchorLunation
}

// HijriToGregorian converts a Hijri date to the civil calendar.
func (c *Converter) HijriToGregorian(day, month, year int) (Date, error) {
	if err := validateHijri(day, month, year); err != nil {
		return Date{}, err
	}
	cr, err := c.site.NewMoon(lunation(month, year))
	if err != nil {
		return Date{}, err
	}
	cd := julian.FromDay(cr.Visible + float64(day))
	return Date{
		System:   Gregorian,
		Year:     cd.Year,
		Month:    cd.Month,
		Day:      cd.Day,
		Fraction: cd.Fraction,
		Weekday:  cd.Weekday,
		NewMoon:  cr.Conjunction,
	}, nil
}

// MonthStart returns the civil date of the first day of a Hijri month.
func (c *Converter) MonthStart(month, year int) (Date, error) {
	return c.HijriToGregorian(1, month, year)
}

// MonthLength returns the number of days, 29 or 30, in a Hijri month: the
// civil days from one visible crescent up to the next.
func (c *Converter) MonthLength(month, year int) (int, error) {
	if err := validateHijri(1, month, year); err != nil {
		return 0, err
	}
	k := lunation(month, year)
	this, err := c.site.NewMoon(k)
	if err != nil {
		return 0, err
	}
	next, err := c.site.NewMoon(k + 1)
	if err != nil {
		return 0, err
	}
	return firstCivilDay(next.Visible) - firstCivilDay(this.Visible), nil
}

// firstCivilDay returns the Julian day number, at noon, of the first civil
// day whose midnight falls on or after the visible crescent.
func firstCivilDay(visible float64) int {
	return int(math.Ceil(visible + 0.5))
}
