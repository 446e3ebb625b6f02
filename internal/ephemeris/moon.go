// Package ephemeris predicts the times of the principal lunar phases.
//
// The series is the truncated one from Meeus, "Astronomical Formulae for
// Calculators" (3rd ed., 1985). Lunation 0 is the new moon of 1 January 1900.
package ephemeris

import (
	"errors"
	"fmt"
	"math"
)

// Phase selects one of the four principal lunar phases.
type Phase int

const (
	NewMoon Phase = iota
	FirstQuarter
	FullMoon
	LastQuarter
)

var phaseNames = []string{"new moon", "first quarter", "full moon", "last quarter"}

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Valid reports whether p is one of the four principal phases.
func (p Phase) Valid() bool {
	return p >= NewMoon && p <= LastQuarter
}

// Phases lists the principal phases in the order they occur within a lunation.
var Phases = []Phase{NewMoon, FirstQuarter, FullMoon, LastQuarter}

// ErrInvalidPhase is returned for a phase selector outside 0..3.
var ErrInvalidPhase = errors.New("illegal phase number")

const (
	// radians per degree
	rpd = 0.01745329251994329577

	// epoch is the mean Julian date of lunation 0.
	epoch = 2415020.75933
	// SynodicMonth is the mean length of a lunation in days.
	SynodicMonth = 29.53058868
	// lunationsPerCentury converts a lunation count to Julian centuries since 1900.
	lunationsPerCentury = 1236.85
)

// PhaseTime returns the Julian date, in approximate Universal Time, of the
// given phase within lunation n.
func PhaseTime(n int, phase Phase) (float64, error) {
	if !phase.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPhase, int(phase))
	}
	k := float64(n) + float64(phase)/4.0
	t := k / lunationsPerCentury
	t2 := t * t
	t3 := t2 * t

	jd := epoch + SynodicMonth*k - 1.178e-4*t2 - 1.55e-7*t3 +
		3.3e-4*math.Sin(rpd*(166.56+132.87*t-0.009173*t2))

	// Sun's mean anomaly.
	sa := rpd * (359.2242 + 29.10535608*k - 3.33e-5*t2 - 3.47e-6*t3)
	// Moon's mean anomaly.
	ma := rpd * (306.0253 + 385.81691806*k + 0.0107306*t2 + 1.236e-5*t3)
	// Moon's argument of latitude.
	tf := rpd * 2.0 * (21.2964 + 390.67050646*k - 0.0016528*t2 - 2.39e-6*t3)

	var xtra float64
	switch phase {
	case NewMoon, FullMoon:
		xtra = syzygyCorrection(t, sa, ma, tf)
	case FirstQuarter, LastQuarter:
		xtra = quadratureCorrection(t, sa, ma, tf)
		bias := 0.0028 - 0.0004*math.Cos(sa) + 0.0003*math.Cos(ma)
		if phase == FirstQuarter {
			xtra += bias
		} else {
			xtra -= bias
		}
	}

	// Ephemeris Time to Universal Time.
	jd += xtra - (0.41+1.2053*t+0.4992*t2)/1440
	return jd, nil
}

func syzygyCorrection(t, sa, ma, tf float64) float64 {
	return (0.1734-0.000393*t)*math.Sin(sa) +
		0.0021*math.Sin(sa*2) -
		0.4068*math.Sin(ma) +
		0.0161*math.Sin(2*ma) -
		0.0004*math.Sin(3*ma) +
		0.0104*math.Sin(tf) -
		0.0051*math.Sin(sa+ma) -
		0.0074*math.Sin(sa-ma) +
		0.0004*math.Sin(tf+sa) -
		0.0004*math.Sin(tf-sa) -
		0.0006*math.Sin(tf+ma) +
		0.0010*math.Sin(tf-ma) +
		0.0005*math.Sin(sa+2*ma)
}

func quadratureCorrection(t, sa, ma, tf float64) float64 {
	return (0.1721-0.0004*t)*math.Sin(sa) +
		0.0021*math.Sin(sa*2) -
		0.6280*math.Sin(ma) +
		0.0089*math.Sin(2*ma) -
		0.0004*math.Sin(3*ma) +
		0.0079*math.Sin(tf) -
		0.0119*math.Sin(sa+ma) -
		0.0047*math.Sin(sa-ma) +
		0.0003*math.Sin(tf+sa) -
		0.0004*math.Sin(tf-sa) -
		0.0006*math.Sin(tf+ma) +
		0.0021*math.Sin(tf-ma) +
		0.0003*math.Sin(sa+2*ma) +
		0.0004*math.Sin(sa-2*ma) -
		0.0003*math.Sin(2*sa+ma)
}

// Lunation holds the times of all four phases of one lunation.
type Lunation struct {
	Index int
	Times [4]float64 // indexed by Phase
}

// At returns the Julian date of phase p.
func (l Lunation) At(p Phase) float64 {
	return l.Times[p]
}

// LunationPhases returns all four phase times of lunation n.
func LunationPhases(n int) Lunation {
	l := Lunation{Index: n}
	for _, p := range Phases {
		// the selector is always valid here
		l.Times[p], _ = PhaseTime(n, p)
	}
	return l
}

// LunationNear returns the index of the lunation whose new moon is closest
// to the Julian date jd.
func LunationNear(jd float64) int {
	n := int(math.Round((jd - epoch) / SynodicMonth))
	best := n
	bestDist := math.Inf(1)
	for i := n - 1; i <= n+1; i++ {
		t, _ := PhaseTime(i, NewMoon)
		if d := math.Abs(t - jd); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
