package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lululau/hijri/internal/ephemeris"
	"github.com/lululau/hijri/internal/hijri"
	"github.com/lululau/hijri/internal/holidays"
	"github.com/lululau/hijri/internal/julian"
	"github.com/lululau/hijri/internal/logger"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	conv        *hijri.Converter
	observances holidays.Data
	now         func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(conv *hijri.Converter, observances holidays.Data) *Handlers {
	return &Handlers{
		conv:        conv,
		observances: observances,
		now:         time.Now,
	}
}

// DateJSON is the wire form of a date in either calendar.
type DateJSON struct {
	Calendar  string `json:"calendar"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	MonthName string `json:"month_name"`
	Weekday   string `json:"weekday"`
	ISO       string `json:"iso"`
	Formatted string `json:"formatted"`
}

func newDateJSON(d hijri.Date) DateJSON {
	weekday := d.Weekday.String()
	if d.System == hijri.Hijri {
		weekday = hijri.WeekdayName(d.Weekday)
	}
	return DateJSON{
		Calendar:  d.System.String(),
		Year:      d.Year,
		Month:     d.Month,
		Day:       d.Day,
		MonthName: d.MonthName(),
		Weekday:   weekday,
		ISO:       d.ISO(),
		Formatted: d.String(),
	}
}

// ConversionJSON is returned by both conversion endpoints.
type ConversionJSON struct {
	Gregorian  DateJSON `json:"gregorian"`
	Hijri      DateJSON `json:"hijri"`
	NewMoon    float64  `json:"new_moon_jd"`
	Observance string   `json:"observance,omitempty"`
	Holiday    bool     `json:"holiday,omitempty"`
}

func (h *Handlers) conversion(g, hd hijri.Date) ConversionJSON {
	out := ConversionJSON{
		Gregorian: newDateJSON(g),
		Hijri:     newDateJSON(hd),
		NewMoon:   hd.NewMoon,
	}
	if info := holidays.Lookup(h.observances, hd.Year, hd.Month, hd.Day); info != nil {
		out.Observance = info.Name
		out.Holiday = info.Holiday
	}
	return out
}

// NewMoonJSON describes one lunation's conjunction and first visibility.
type NewMoonJSON struct {
	Lunation        int      `json:"lunation"`
	Conjunction     float64  `json:"conjunction_jd"`
	ConjunctionDate string   `json:"conjunction_date"`
	Visible         float64  `json:"visible_jd"`
	Delayed         bool     `json:"delayed"`
	MonthStart      DateJSON `json:"month_start"`
}

var dateRe = regexp.MustCompile(`^(-?\d{1,5})-(\d{1,2})-(\d{1,2})$`)

// ParseDate parses "YYYY-MM-DD", where the year may be negative.
func ParseDate(s string) (year, month, day int, err error) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, fmt.Errorf("invalid date format: %q, use YYYY-MM-DD", s)
	}
	year, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	day, _ = strconv.Atoi(m[3])
	return year, month, day, nil
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// GetToday handles GET /api/v1/today
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	today := julian.Today(h.now)
	h.toHijri(w, r, today.Year, today.Month, today.Day)
}

// GetHijri handles GET /api/v1/hijri/{date}, converting a civil date.
func (h *Handlers) GetHijri(w http.ResponseWriter, r *http.Request) {
	year, month, day, err := ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	h.toHijri(w, r, year, month, day)
}

func (h *Handlers) toHijri(w http.ResponseWriter, r *http.Request, year, month, day int) {
	hd, err := h.conv.GregorianToHijri(day, month, year)
	if err != nil {
		h.writeConversionError(w, r, err)
		return
	}
	g := hijri.Date{System: hijri.Gregorian, Year: year, Month: month, Day: day, Weekday: hd.Weekday}
	WriteSuccess(w, h.conversion(g, hd))
}

// GetGregorian handles GET /api/v1/gregorian/{date}, converting a Hijri date.
func (h *Handlers) GetGregorian(w http.ResponseWriter, r *http.Request) {
	year, month, day, err := ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	g, err := h.conv.HijriToGregorian(day, month, year)
	if err != nil {
		h.writeConversionError(w, r, err)
		return
	}
	hd := hijri.Date{
		System:  hijri.Hijri,
		Year:    year,
		Month:   month,
		Day:     day,
		Weekday: g.Weekday,
		NewMoon: g.NewMoon,
	}
	WriteSuccess(w, h.conversion(g, hd))
}

// GetNewMoon handles GET /api/v1/newmoon/{lunation}
func (h *Handlers) GetNewMoon(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "lunation"))
	if err != nil {
		WriteBadRequest(w, "lunation must be an integer")
		return
	}
	cr, err := h.conv.Site().NewMoon(n)
	if err != nil {
		h.writeConversionError(w, r, err)
		return
	}
	start := julian.FromDay(cr.Visible + 1)
	hd, err := h.conv.GregorianToHijri(start.Day, start.Month, start.Year)
	if err != nil {
		h.writeConversionError(w, r, err)
		return
	}
	WriteSuccess(w, NewMoonJSON{
		Lunation:        n,
		Conjunction:     cr.Conjunction,
		ConjunctionDate: julian.FromDay(cr.Conjunction).String(),
		Visible:         cr.Visible,
		Delayed:         cr.Delayed(),
		MonthStart:      newDateJSON(hd),
	})
}

func (h *Handlers) writeConversionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, hijri.ErrInvalidDate) || errors.Is(err, ephemeris.ErrInvalidPhase) {
		WriteBadRequest(w, err.Error())
		return
	}
	logger.FromContext(r.Context()).Error("conversion failed", slog.Any("error", err))
	WriteInternalError(w, "Conversion failed")
}
