// Package visibility decides on which evening a new crescent first becomes
// visible to a local observer.
package visibility

import (
	"errors"
	"fmt"

	"github.com/lululau/hijri/internal/ephemeris"
	"github.com/lululau/hijri/internal/julian"
)

// Config describes the observing site. All values are in hours.
type Config struct {
	// TimeZone is the local offset from Universal Time.
	TimeZone float64
	// MinAgeHours is the minimum age of the moon at sunset for the crescent
	// to be seen.
	MinAgeHours float64
	// SunsetHour is the approximate local time of sunset.
	SunsetHour float64
}

// Mecca returns the parameters used for Makkah: for a new moon to be visible
// after sunset on the day it started, it has to have started before
// (SUNSET-MINAGE)-TIMZ = 3 A.M. Universal Time.
func Mecca() Config {
	return Config{
		TimeZone:    3.0,
		MinAgeHours: 13.5,
		SunsetHour:  19.5,
	}
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid visibility config")

// Validate checks that the values describe a plausible site.
func (c Config) Validate() error {
	switch {
	case c.TimeZone < -12 || c.TimeZone > 14:
		return fmt.Errorf("%w: time zone offset %v outside -12..14", ErrInvalidConfig, c.TimeZone)
	case c.SunsetHour <= 0 || c.SunsetHour >= 24:
		return fmt.Errorf("%w: sunset hour %v outside 0..24", ErrInvalidConfig, c.SunsetHour)
	case c.MinAgeHours < 0 || c.MinAgeHours >= c.SunsetHour:
		return fmt.Errorf("%w: minimum crescent age %v must be in [0, sunset)", ErrInvalidConfig, c.MinAgeHours)
	}
	return nil
}

// latestLocalHour is the latest local time, counted from midnight, at which
// a conjunction still leaves the crescent old enough by sunset.
func (c Config) latestLocalHour() float64 {
	return c.SunsetHour - c.MinAgeHours
}

// Crescent is the outcome for one lunation.
type Crescent struct {
	Lunation int
	// Conjunction is the Julian date of the astronomical new moon.
	Conjunction float64
	// Visible is the conjunction moved to the evening the crescent can be
	// seen: the conjunction itself or exactly one day later.
	Visible float64
}

// Delayed reports whether the crescent is only visible the day after the
// conjunction.
func (c Crescent) Delayed() bool {
	return c.Visible != c.Conjunction
}

// NewMoon computes the conjunction of lunation n and the evening on which its
// crescent becomes visible.
func (c Config) NewMoon(n int) (Crescent, error) {
	jd, err := ephemeris.PhaseTime(n, ephemeris.NewMoon)
	if err != nil {
		return Crescent{}, err
	}
	cr := Crescent{Lunation: n, Conjunction: jd, Visible: jd}
	tf := jd - julian.Truncate(jd)
	if tf <= 0.5 {
		// conjunction in the afternoon, Universal Time
		cr.Visible = jd + 1.0
		return cr, nil
	}
	local := (tf-0.5)*24 + c.TimeZone
	if local > c.latestLocalHour() {
		// age at sunset below the visibility minimum
		cr.Visible = jd + 1.0
	}
	return cr, nil
}
