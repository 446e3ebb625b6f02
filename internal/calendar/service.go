package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/lululau/hijri/internal/ephemeris"
	"github.com/lululau/hijri/internal/hijri"
	"github.com/lululau/hijri/internal/holidays"
	"github.com/lululau/hijri/internal/julian"
)

// Supported year ranges, chosen so every day laid out has a positive
// Julian day number.
const (
	MinCivilYear = -4712
	MaxCivilYear = 9999
	MinHijriYear = -5400
	MaxHijriYear = 9666
)

// ViewMode indicates whether we display a single month or an entire year.
type ViewMode int

const (
	ModeMonth ViewMode = iota
	ModeYear
)

// Request captures the initial year/month/mode that should be rendered.
// Layout selects whether months are civil or Hijri months.
type Request struct {
	Year   int
	Month  int
	Mode   ViewMode
	Layout hijri.System
}

// Normalize keeps the month within 1..12 by rolling the year value. There is
// no year zero in either calendar.
func (r Request) Normalize() Request {
	for r.Month > 12 {
		r.Month -= 12
		r.Year = step(r.Year, 1)
	}
	for r.Month < 1 {
		r.Month += 12
		r.Year = step(r.Year, -1)
	}
	if r.Year == 0 {
		r.Year = 1
	}
	return r
}

// NextMonth moves the request to the following month.
func (r Request) NextMonth() Request {
	r.Month++
	return r.Normalize()
}

// PreviousMonth moves the request to the preceding month.
func (r Request) PreviousMonth() Request {
	r.Month--
	return r.Normalize()
}

// NextYear moves to the following year.
func (r Request) NextYear() Request {
	r.Year = step(r.Year, 1)
	return r
}

// PreviousYear moves to the preceding year.
func (r Request) PreviousYear() Request {
	r.Year = step(r.Year, -1)
	return r
}

// ToggleLayout switches between civil and Hijri months, moving to the month
// of the other calendar that contains the first day of the current one.
func (r Request) ToggleLayout(svc *Service) Request {
	r = r.Normalize()
	if r.Layout == hijri.Hijri {
		g, err := svc.conv.MonthStart(r.Month, r.Year)
		if err != nil {
			return r
		}
		return Request{Year: g.Year, Month: g.Month, Mode: r.Mode, Layout: hijri.Gregorian}
	}
	h, err := svc.conv.GregorianToHijri(1, r.Month, r.Year)
	if err != nil {
		return r
	}
	return Request{Year: h.Year, Month: h.Month, Mode: r.Mode, Layout: hijri.Hijri}
}

func step(year, delta int) int {
	year += delta
	if year == 0 {
		year += delta
	}
	return year
}

// Day is a single civil day with its Hijri date and lunar metadata.
type Day struct {
	Civil      julian.Date
	Hijri      hijri.Date
	JDN        int // Julian day number at noon
	InMonth    bool
	IsToday    bool
	Phase      *ephemeris.Phase // lunar phase reached during the day, site local time
	Observance *holidays.Info
}

// Number is the day of the month in the view's own calendar.
func (d Day) Number(layout hijri.System) int {
	if layout == hijri.Hijri {
		return d.Hijri.Day
	}
	return d.Civil.Day
}

// SecondaryLabel selects the string rendered beneath the day number. In a
// civil month it is the Hijri day, replaced by the short Hijri month name on
// the first of the month; in a Hijri month it is the civil day, replaced by
// the short civil month name on the first.
func (d Day) SecondaryLabel(layout hijri.System) string {
	if layout == hijri.Hijri {
		if d.Civil.Day == 1 {
			return time.Month(d.Civil.Month).String()[:3]
		}
		return fmt.Sprintf("%d", d.Civil.Day)
	}
	if d.Hijri.Day == 1 {
		return hijri.ShortMonthName(d.Hijri.Month)
	}
	return fmt.Sprintf("%d", d.Hijri.Day)
}

// PhaseMarker returns a one-rune marker for the lunar phase, or "".
func (d Day) PhaseMarker() string {
	if d.Phase == nil {
		return ""
	}
	return phaseMarkers[*d.Phase]
}

var phaseMarkers = map[ephemeris.Phase]string{
	ephemeris.NewMoon:      "●",
	ephemeris.FirstQuarter: "◐",
	ephemeris.FullMoon:     "○",
	ephemeris.LastQuarter:  "◑",
}

// MonthView describes a month laid out into weeks starting on Sunday.
type MonthView struct {
	Layout hijri.System
	Year   int
	Month  int
	Title  string
	Weeks  [][]Day
}

// Service materialises month/year views for one observing site.
type Service struct {
	now         func() time.Time
	conv        *hijri.Converter
	observances holidays.Data
}

// Option configures the Service.
type Option func(*Service)

// WithNow overrides the clock, which is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithConverter sets the converter, and with it the observing site.
func WithConverter(conv *hijri.Converter) Option {
	return func(s *Service) {
		s.conv = conv
	}
}

// WithObservances sets the observances shown in the calendar.
func WithObservances(data holidays.Data) Option {
	return func(s *Service) {
		s.observances = data
	}
}

// NewService constructs a Service.
func NewService(opts ...Option) *Service {
	s := &Service{
		now:  time.Now,
		conv: hijri.NewConverter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasObservances reports whether observance data was supplied.
func (s *Service) HasObservances() bool {
	return len(s.observances) > 0
}

// Converter returns the converter used by s.
func (s *Service) Converter() *hijri.Converter {
	return s.conv
}

var (
	// ErrYearOutOfRange indicates the requested year is unsupported.
	ErrYearOutOfRange = errors.New("year out of range")
	// ErrInvalidMonth indicates the month is not in the 1..12 range.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)

// Month builds a MonthView of a civil month.
func (s *Service) Month(year, month int) (MonthView, error) {
	if year == 0 || year < MinCivilYear || year > MaxCivilYear {
		return MonthView{}, fmt.Errorf("%w: %d not in %d..%d, no year zero", ErrYearOutOfRange, year, MinCivilYear, MaxCivilYear)
	}
	if month < 1 || month > 12 {
		return MonthView{}, ErrInvalidMonth
	}
	first := int(julian.Day(year, month, 1, 0.5))
	last := int(julian.Day(year, month, julian.DaysInMonth(month, year), 0.5))
	view := MonthView{
		Layout: hijri.Gregorian,
		Year:   year,
		Month:  month,
		Title:  title(hijri.Gregorian, year, month),
	}
	weeks, err := s.layout(first, last, func(d Day) bool {
		return d.Civil.Year == year && d.Civil.Month == month
	})
	if err != nil {
		return MonthView{}, err
	}
	view.Weeks = weeks
	return view, nil
}

// HijriMonth builds a MonthView of a Hijri month.
func (s *Service) HijriMonth(year, month int) (MonthView, error) {
	if year == 0 || year < MinHijriYear || year > MaxHijriYear {
		return MonthView{}, fmt.Errorf("%w: %d not in %d..%d, no year zero", ErrYearOutOfRange, year, MinHijriYear, MaxHijriYear)
	}
	if month < 1 || month > 12 {
		return MonthView{}, ErrInvalidMonth
	}
	start, err := s.conv.MonthStart(month, year)
	if err != nil {
		return MonthView{}, err
	}
	length, err := s.conv.MonthLength(month, year)
	if err != nil {
		return MonthView{}, err
	}
	first := int(julian.Day(start.Year, start.Month, start.Day, 0.5))
	view := MonthView{
		Layout: hijri.Hijri,
		Year:   year,
		Month:  month,
		Title:  title(hijri.Hijri, year, month),
	}
	weeks, err := s.layout(first, first+length-1, func(d Day) bool {
		return d.Hijri.Year == year && d.Hijri.Month == month
	})
	if err != nil {
		return MonthView{}, err
	}
	view.Weeks = weeks
	return view, nil
}

// title renders "March 2024", "Ramadan 1445" or "March 44 B.C.".
func title(system hijri.System, year, month int) string {
	d := hijri.Date{System: system, Year: year, Month: month}
	return d.MonthName() + " " + d.YearString()
}

// View builds the month named by req in its layout.
func (s *Service) View(req Request) (MonthView, error) {
	if req.Layout == hijri.Hijri {
		return s.HijriMonth(req.Year, req.Month)
	}
	return s.Month(req.Year, req.Month)
}

// Year returns the MonthView list for an entire civil year.
func (s *Service) Year(year int) ([]MonthView, error) {
	return s.year(Request{Year: year, Layout: hijri.Gregorian})
}

// HijriYear returns the MonthView list for an entire Hijri year.
func (s *Service) HijriYear(year int) ([]MonthView, error) {
	return s.year(Request{Year: year, Layout: hijri.Hijri})
}

// Views returns every month req asks for.
func (s *Service) Views(req Request) ([]MonthView, error) {
	if req.Mode == ModeYear {
		return s.year(req)
	}
	view, err := s.View(req)
	if err != nil {
		return nil, err
	}
	return []MonthView{view}, nil
}

func (s *Service) year(req Request) ([]MonthView, error) {
	months := make([]MonthView, 0, 12)
	for m := 1; m <= 12; m++ {
		req.Month = m
		view, err := s.View(req)
		if err != nil {
			return nil, err
		}
		months = append(months, view)
	}
	return months, nil
}

// layout fills whole weeks around the days first..last.
func (s *Service) layout(first, last int, inMonth func(Day) bool) ([][]Day, error) {
	start := first - int(julian.Weekday(float64(first)))
	end := last + 6 - int(julian.Weekday(float64(last)))
	phases := s.phases(start, end)
	today := julian.Today(s.now)

	weeks := make([][]Day, 0, 6)
	for cursor := start; cursor <= end; {
		week := make([]Day, 7)
		for i := range week {
			d, err := s.buildDay(cursor, today)
			if err != nil {
				return nil, err
			}
			d.InMonth = inMonth(d)
			if p, ok := phases[cursor]; ok {
				d.Phase = &p
			}
			week[i] = d
			cursor++
		}
		weeks = append(weeks, week)
	}
	return weeks, nil
}

func (s *Service) buildDay(jdn int, today julian.Date) (Day, error) {
	civil := julian.FromDay(float64(jdn))
	h, err := s.conv.GregorianToHijri(civil.Day, civil.Month, civil.Year)
	if err != nil {
		return Day{}, fmt.Errorf("day %d: %w", jdn, err)
	}
	d := Day{
		Civil:   civil,
		Hijri:   h,
		JDN:     jdn,
		IsToday: civil.SameDay(today),
	}
	if s.observances != nil {
		d.Observance = holidays.Lookup(s.observances, h.Year, h.Month, h.Day)
	}
	return d, nil
}

// phases maps the day numbers start..end to the lunar phase reached on that
// day in the site's local time.
func (s *Service) phases(start, end int) map[int]ephemeris.Phase {
	offset := s.conv.Site().TimeZone / 24
	out := make(map[int]ephemeris.Phase)
	from := ephemeris.LunationNear(float64(start)) - 1
	to := ephemeris.LunationNear(float64(end)) + 1
	for n := from; n <= to; n++ {
		l := ephemeris.LunationPhases(n)
		for _, p := range ephemeris.Phases {
			day := int(julian.Truncate(l.At(p) + offset + 0.5))
			if day >= start && day <= end {
				out[day] = p
			}
		}
	}
	return out
}
