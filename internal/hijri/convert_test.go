package hijri_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lululau/hijri/internal/ephemeris"
	"github.com/lululau/hijri/internal/hijri"
	"github.com/lululau/hijri/internal/julian"
	"github.com/lululau/hijri/internal/visibility"
)

type ymd struct{ year, month, day int }

func TestGregorianToHijriKnownDates(t *testing.T) {
	tests := []struct {
		name    string
		civil   ymd
		want    ymd
		weekday time.Weekday
	}{
		{"start of 1405", ymd{1984, 9, 27}, ymd{1405, 1, 1}, time.Thursday},
		{"eve of 1405", ymd{1984, 9, 26}, ymd{1404, 12, 30}, time.Wednesday},
		{"J2000", ymd{2000, 1, 1}, ymd{1420, 9, 24}, time.Saturday},
		{"hijra", ymd{622, 7, 16}, ymd{1, 1, 1}, time.Friday},
		{"year before hijra", ymd{622, 7, 15}, ymd{-1, 12, 30}, time.Thursday},
		{"last of Sha`ban 1445", ymd{2024, 3, 11}, ymd{1445, 8, 30}, time.Monday},
		{"first of Ramadan 1445", ymd{2024, 3, 12}, ymd{1445, 9, 1}, time.Tuesday},
		{"first day AD", ymd{1, 1, 1}, ymd{-641, 5, 17}, time.Saturday},
		{"last day BC", ymd{-1, 12, 31}, ymd{-641, 5, 16}, time.Friday},
		{"ides of March", ymd{-44, 3, 15}, ymd{-686, 3, 24}, time.Wednesday},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hijri.GregorianToHijri(tt.civil.day, tt.civil.month, tt.civil.year)
			require.NoError(t, err)
			assert.Equal(t, hijri.Hijri, got.System)
			assert.Equal(t, tt.want, ymd{got.Year, got.Month, got.Day})
			assert.Equal(t, tt.weekday, got.Weekday)
			assert.Equal(t, 0.5, got.Fraction)
		})
	}
}

func TestHijriToGregorianKnownDates(t *testing.T) {
	tests := []struct {
		hijri   ymd
		want    ymd
		weekday time.Weekday
	}{
		{ymd{1405, 1, 1}, ymd{1984, 9, 27}, time.Thursday},
		{ymd{1445, 9, 1}, ymd{2024, 3, 12}, time.Tuesday},
		{ymd{1445, 10, 1}, ymd{2024, 4, 10}, time.Wednesday},
		{ymd{1, 1, 1}, ymd{622, 7, 16}, time.Friday},
		{ymd{-1, 12, 30}, ymd{622, 7, 15}, time.Thursday},
		{ymd{-1, 1, 1}, ymd{621, 7, 26}, time.Sunday},
		{ymd{-10, 5, 3}, ymd{613, 3, 1}, time.Thursday},
	}
	for _, tt := range tests {
		got, err := hijri.HijriToGregorian(tt.hijri.day, tt.hijri.month, tt.hijri.year)
		require.NoError(t, err)
		assert.Equal(t, hijri.Gregorian, got.System)
		assert.Equal(t, tt.want, ymd{got.Year, got.Month, got.Day}, "from %v", tt.hijri)
		assert.Equal(t, tt.weekday, got.Weekday, "from %v", tt.hijri)
	}
}

func TestReferenceConjunction(t *testing.T) {
	got, err := hijri.HijriToGregorian(1, 1, 1405)
	require.NoError(t, err)
	assert.InDelta(t, 2445968.63196058, got.NewMoon, 1e-6)

	back, err := hijri.GregorianToHijri(got.Day, got.Month, got.Year)
	require.NoError(t, err)
	assert.Equal(t, got.NewMoon, back.NewMoon)
}

func TestRoundTrip(t *testing.T) {
	start := julian.Day(1900, 1, 1, 0.5)
	end := julian.Day(2100, 12, 31, 0.5)
	for jd := start; jd <= end; jd++ {
		civil := julian.FromDay(jd)
		h, err := hijri.GregorianToHijri(civil.Day, civil.Month, civil.Year)
		require.NoError(t, err)
		back, err := hijri.HijriToGregorian(h.Day, h.Month, h.Year)
		require.NoError(t, err)
		require.True(t, civil.SameDay(julian.Date{Year: back.Year, Month: back.Month, Day: back.Day}),
			"%v -> %v -> %v", civil, h, back)
	}
}

func TestRoundTripBeforeEpochs(t *testing.T) {
	for _, year := range []int{-700, -45, -2, -1, 1, 2, 621, 622, 623, 1582} {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= julian.DaysInMonth(month, year); day++ {
				if !julian.Valid(year, month, day) {
					continue
				}
				h, err := hijri.GregorianToHijri(day, month, year)
				require.NoError(t, err)
				require.NotZero(t, h.Year)
				require.True(t, h.Day >= 1 && h.Day <= 30, "%d-%d-%d gave day %d", year, month, day, h.Day)
				back, err := hijri.HijriToGregorian(h.Day, h.Month, h.Year)
				require.NoError(t, err)
				require.Equal(t, ymd{year, month, day}, ymd{back.Year, back.Month, back.Day}, "via %v", h)
			}
		}
	}
}

func TestRoundTripBeforeJulianEpoch(t *testing.T) {
	for _, year := range []int{-9000, -6001, -4714, -4713} {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= julian.DaysInMonth(month, year); day++ {
				h, err := hijri.GregorianToHijri(day, month, year)
				require.NoError(t, err)
				require.True(t, h.Day >= 1 && h.Day <= 30, "%d-%d-%d gave day %d", year, month, day, h.Day)
				back, err := hijri.HijriToGregorian(h.Day, h.Month, h.Year)
				require.NoError(t, err)
				require.Equal(t, ymd{year, month, day}, ymd{back.Year, back.Month, back.Day}, "via %v", h)
				require.Equal(t, back.Weekday, h.Weekday, "%d-%d-%d", year, month, day)
			}
		}
	}
}

func TestMonotonicAcrossJulianEpoch(t *testing.T) {
	var prev hijri.Date
	for jd := -400.0; jd <= 400; jd++ {
		civil := julian.FromDay(jd)
		h, err := hijri.GregorianToHijri(civil.Day, civil.Month, civil.Year)
		require.NoError(t, err)
		if jd > -400 {
			require.True(t, prev.Before(h), "%v then %v at %v", prev, h, civil)
			require.Equal(t, (prev.Weekday+1)%7, h.Weekday, "at %v", civil)
		}
		prev = h
	}
}

func TestMonotonic(t *testing.T) {
	start := julian.Day(1570, 1, 1, 0.5)
	end := julian.Day(1600, 1, 1, 0.5)
	var prev hijri.Date
	for jd := start; jd <= end; jd++ {
		civil := julian.FromDay(jd)
		h, err := hijri.GregorianToHijri(civil.Day, civil.Month, civil.Year)
		require.NoError(t, err)
		if jd > start {
			require.True(t, prev.Before(h), "%v then %v at %v", prev, h, civil)
		}
		prev = h
	}
}

func TestInvalidDates(t *testing.T) {
	tests := []struct {
		name  string
		conv  func(d, m, y int) (hijri.Date, error)
		date  ymd
		field string
	}{
		{"civil year zero", hijri.GregorianToHijri, ymd{0, 1, 1}, "year"},
		{"civil month 13", hijri.GregorianToHijri, ymd{2024, 13, 1}, "month"},
		{"civil february 30", hijri.GregorianToHijri, ymd{2024, 2, 30}, "day"},
		{"dropped reform day", hijri.GregorianToHijri, ymd{1582, 10, 10}, "day"},
		{"hijri year zero", hijri.HijriToGregorian, ymd{0, 1, 1}, "year"},
		{"hijri month 0", hijri.HijriToGregorian, ymd{1445, 0, 1}, "month"},
		{"hijri day 31", hijri.HijriToGregorian, ymd{1445, 1, 31}, "day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.conv(tt.date.day, tt.date.month, tt.date.year)
			require.Error(t, err)
			assert.True(t, errors.Is(err, hijri.ErrInvalidDate))
			var de *hijri.DateError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.field, de.Field)
		})
	}
}

func TestNonConvergentSearch(t *testing.T) {
	c := hijri.NewConverter(hijri.WithMaxIterations(0))
	_, err := c.GregorianToHijri(11, 3, 2024)
	require.Error(t, err)
	assert.True(t, errors.Is(err, hijri.ErrNonConvergent))

	c = hijri.NewConverter(hijri.WithMaxIterations(3))
	_, err = c.GregorianToHijri(11, 3, 2024)
	require.NoError(t, err)
}

func TestConverterSite(t *testing.T) {
	// An observer at UTC+12 sees the September 2023 crescent a day later.
	east := visibility.Mecca()
	east.TimeZone = 12
	c := hijri.NewConverter(hijri.WithVisibility(east))
	assert.Equal(t, east, c.Site())

	mecca, err := hijri.HijriToGregorian(1, 3, 1445)
	require.NoError(t, err)
	shifted, err := c.HijriToGregorian(1, 3, 1445)
	require.NoError(t, err)
	assert.Equal(t, ymd{2023, 9, 16}, ymd{mecca.Year, mecca.Month, mecca.Day})
	assert.Equal(t, ymd{2023, 9, 17}, ymd{shifted.Year, shifted.Month, shifted.Day})
}

func TestMonthLength(t *testing.T) {
	c := hijri.NewConverter()
	want := []int{30, 29, 30, 30, 29, 30, 29, 30, 29, 30, 29, 29}
	for m := 1; m <= 12; m++ {
		n, err := c.MonthLength(m, 1445)
		require.NoError(t, err)
		assert.Equal(t, want[m-1], n, "month %d", m)

		start, err := c.MonthStart(m, 1445)
		require.NoError(t, err)
		last, err := c.HijriToGregorian(n, m, 1445)
		require.NoError(t, err)
		h, err := c.GregorianToHijri(last.Day, last.Month, last.Year)
		require.NoError(t, err)
		assert.Equal(t, ymd{1445, m, n}, ymd{h.Year, h.Month, h.Day})
		assert.Equal(t, start.NewMoon, h.NewMoon)
	}

	_, err := c.MonthLength(13, 1445)
	assert.True(t, errors.Is(err, hijri.ErrInvalidDate))
}

func TestConcurrentConversions(t *testing.T) {
	c := hijri.NewConverter()
	var wg sync.WaitGroup
	results := make([]hijri.Date, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := c.GregorianToHijri(12, 3, 2024)
			assert.NoError(t, err)
			results[i] = d
		}(i)
	}
	wg.Wait()
	for _, d := range results {
		assert.Equal(t, ymd{1445, 9, 1}, ymd{d.Year, d.Month, d.Day})
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, hijri.DaysInMonth(2, 1600))
	assert.Equal(t, 28, hijri.DaysInMonth(2, 1700))
	assert.Equal(t, 29, hijri.DaysInMonth(2, 2000))
	assert.Equal(t, 29, hijri.DaysInMonth(2, 1500))
}

func TestLunationPhaseSelector(t *testing.T) {
	_, err := ephemeris.PhaseTime(hijri.AnchorLunation, 5)
	assert.True(t, errors.Is(err, ephemeris.ErrInvalidPhase))
}
