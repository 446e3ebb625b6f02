package hijri_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lululau/hijri/internal/hijri"
)

func TestDateString(t *testing.T) {
	h, err := hijri.GregorianToHijri(12, 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, "Yaum al-Thulatha 1 Ramadan 1445", h.String())
	assert.Equal(t, "1445-09-01", h.ISO())

	g, err := hijri.HijriToGregorian(1, 9, 1445)
	require.NoError(t, err)
	assert.Equal(t, "Tuesday 12 March 2024", g.String())

	bh, err := hijri.GregorianToHijri(15, 7, 622)
	require.NoError(t, err)
	assert.Equal(t, "Yaum al-Khamees 30 Thu al-Hijjah 1 B.H.", bh.String())
	assert.Equal(t, "-0001-12-30", bh.ISO())

	bc := hijri.Date{System: hijri.Gregorian, Year: -44, Month: 3, Day: 15, Weekday: time.Wednesday}
	assert.Equal(t, "44 B.C.", bc.YearString())
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Muharram", hijri.MonthName(1))
	assert.Equal(t, "Thu al-Hijjah", hijri.MonthName(12))
	assert.Equal(t, "", hijri.MonthName(13))
	assert.Equal(t, "Qi`dah", hijri.ShortMonthName(11))
	assert.Equal(t, "", hijri.ShortMonthName(0))
	assert.Equal(t, "Yaum al-Jumma", hijri.WeekdayName(time.Friday))
	assert.Equal(t, "Ahd", hijri.ShortWeekdayName(time.Sunday))
	assert.Equal(t, "", hijri.WeekdayName(time.Weekday(9)))
}

func TestDateOrdering(t *testing.T) {
	a := hijri.Date{System: hijri.Hijri, Year: 1445, Month: 8, Day: 30}
	b := hijri.Date{System: hijri.Hijri, Year: 1445, Month: 9, Day: 1}
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
	assert.Equal(t, "hijri", hijri.Hijri.String())
	assert.Equal(t, "gregorian", hijri.Gregorian.String())
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"9", 9},
		{"12", 12},
		{"ram", 9},
		{"Muharram", 1},
		{"sha", 8},
		{"thu al-h", 12},
		{"qi", 11},
		{"R. Th", 4},
	}
	for _, tt := range tests {
		got, err := hijri.ParseMonth(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	for _, bad := range []string{"", "13", "0", "january"} {
		_, err := hijri.ParseMonth(bad)
		assert.ErrorIs(t, err, hijri.ErrInvalidDate, bad)
	}
}
