package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cloudeng.io/datetime"

	"github.com/lululau/hijri/internal/api"
	"github.com/lululau/hijri/internal/calendar"
	"github.com/lululau/hijri/internal/config"
	"github.com/lululau/hijri/internal/hijri"
	"github.com/lululau/hijri/internal/holidays"
	"github.com/lululau/hijri/internal/julian"
	"github.com/lululau/hijri/internal/logger"
	"github.com/lululau/hijri/internal/render"
	"github.com/lululau/hijri/internal/tui"
)

var (
	hijriInput      = flag.Bool("h", false, "arguments are a Hijri date, convert it to the civil calendar")
	calendarFlag    = flag.Bool("c", false, "show a calendar instead of converting a date")
	yearFlag        = flag.Bool("y", false, "calendar: show the whole year")
	plain           = flag.Bool("n", false, "calendar: render once and exit (non-interactive)")
	hijriLayout     = flag.Bool("H", false, "calendar: lay out Hijri months")
	updateFlag      = flag.Bool("u", false, "download the latest observances table")
	observancesFile = flag.String("o", "", "observances JSON file to use")
	serveAddr       = flag.String("serve", "", "serve the HTTP API on `addr` (\"-\" uses HIJRI_HTTP_ADDR)")
	noColor         = flag.Bool("N", false, "disable all color output")
	noColorLong     = flag.Bool("no-color", false, "disable all color output")
	verbose         = flag.Bool("v", false, "debug logging")
)

// examples is printed by -help. A negative year directly after the options
// would be read as a flag, so those need "--" first.
const examples = `
  no arguments       today's date in the Hijri calendar
  12 3 2024          12 March 2024 in the Hijri calendar
  12 mar -44         12 March 44 B.C.
  -h 1 9 1445        1 Ramadan 1445 in the civil calendar
  -h 1 ram 1445      the same, month by name
  -c                 calendar of the current month
  -c 1983            calendar of 1983
  -c 2012 12         calendar of December 2012
  -c -- -44 3        calendar of March 44 B.C.
  -c -- -1           calendar of 1 B.C.
  -c -H 1445 9       calendar of Ramadan 1445
  -serve :8080       HTTP API

options:
`

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] [--] [day month year]\n", os.Args[0])
		fmt.Fprint(flag.CommandLine.Output(), examples)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	ctx, log := logger.Setup(context.Background(), cfg, os.Stderr)

	if *noColor || *noColorLong {
		render.SetNoColor(true)
		tui.SetNoColor(true)
	}

	if *updateFlag {
		return holidays.DownloadObservances(cfg.ObservancesURL)
	}

	conv := hijri.NewConverter(hijri.WithVisibility(cfg.Visibility()))
	observances, cacheValid := loadObservances(ctx, *observancesFile)

	switch {
	case *serveAddr != "":
		addr := *serveAddr
		if addr == "-" {
			addr = cfg.HTTPAddr
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.Serve(ctx, addr, api.SetupRoutes(api.NewHandlers(conv, observances), log))
	case *calendarFlag:
		return showCalendar(conv, observances, cacheValid, flag.Args())
	}

	date, err := convert(ctx, conv, *hijriInput, flag.Args(), time.Now)
	if err != nil {
		return err
	}
	fmt.Println(date)
	if info := lookupObservance(observances, date); info != nil {
		fmt.Println(info.Name)
	}
	return nil
}

// loadObservances starts from the built-in table and overlays the file
// given with -o, or else the cached download.
func loadObservances(ctx context.Context, path string) (holidays.Data, bool) {
	log := logger.FromContext(ctx)
	data := holidays.Default()
	if path != "" {
		extra, err := holidays.LoadFromFile(path)
		if err != nil {
			log.Warn("cannot load observances file", slog.String("path", path), slog.Any("error", err))
			return data, false
		}
		log.Debug("observances loaded", slog.String("source", path))
		return data.Merge(extra), true
	}
	extra, cachePath, err := holidays.LoadFromCache()
	if err != nil {
		if !errors.Is(err, holidays.ErrNoCache) {
			log.Warn("cannot load cached observances", slog.String("path", cachePath), slog.Any("error", err))
		}
		return data, false
	}
	log.Debug("observances loaded", slog.String("source", cachePath))
	return data.Merge(extra), true
}

func lookupObservance(data holidays.Data, d hijri.Date) *holidays.Info {
	if d.System != hijri.Hijri {
		return nil
	}
	return holidays.Lookup(data, d.Year, d.Month, d.Day)
}

// convert converts the day month year arguments, or today's date when there
// are none.
func convert(ctx context.Context, conv *hijri.Converter, fromHijri bool, args []string, now func() time.Time) (hijri.Date, error) {
	log := logger.FromContext(ctx)
	var day, month, year int
	switch len(args) {
	case 0:
		if fromHijri {
			return hijri.Date{}, errors.New("-h needs a Hijri date: day month year")
		}
		today := julian.Today(now)
		day, month, year = today.Day, today.Month, today.Year
	case 3:
		var err error
		if day, err = parseNumber(args[0], "day"); err != nil {
			return hijri.Date{}, err
		}
		if month, err = parseMonth(args[1], fromHijri); err != nil {
			return hijri.Date{}, err
		}
		if year, err = parseNumber(args[2], "year"); err != nil {
			return hijri.Date{}, err
		}
	default:
		return hijri.Date{}, errors.New("expected day month year, see -help")
	}

	if fromHijri {
		log.Debug("converting Hijri date", "day", day, "month", month, "year", year)
		return conv.HijriToGregorian(day, month, year)
	}
	log.Debug("converting civil date", "day", day, "month", month, "year", year)
	return conv.GregorianToHijri(day, month, year)
}

func parseMonth(value string, fromHijri bool) (int, error) {
	if fromHijri {
		return hijri.ParseMonth(value)
	}
	if value == "" {
		return 0, errors.New("empty month")
	}
	var m datetime.Month
	if err := m.Parse(value); err != nil {
		return 0, err
	}
	return int(m), nil
}

func showCalendar(conv *hijri.Converter, observances holidays.Data, cacheValid bool, args []string) error {
	layout := hijri.Gregorian
	if *hijriLayout {
		layout = hijri.Hijri
	}
	current, err := currentMonth(conv, layout, time.Now)
	if err != nil {
		return err
	}
	req, err := parseRequest(current, *yearFlag, args)
	if err != nil {
		return err
	}

	service := calendar.NewService(
		calendar.WithConverter(conv),
		calendar.WithObservances(observances),
	)
	nonInteractive := *plain || req.Mode == calendar.ModeYear
	if nonInteractive {
		return render.RunPlain(render.PlainOptions{
			Service:               service,
			Request:               req,
			ObservancesCacheValid: cacheValid,
		})
	}
	return tui.Run(service, req, cacheValid)
}

// currentMonth returns a request for today's month in layout.
func currentMonth(conv *hijri.Converter, layout hijri.System, now func() time.Time) (calendar.Request, error) {
	today := julian.Today(now)
	if layout == hijri.Hijri {
		h, err := conv.GregorianToHijri(today.Day, today.Month, today.Year)
		if err != nil {
			return calendar.Request{}, err
		}
		return calendar.Request{Year: h.Year, Month: h.Month, Layout: hijri.Hijri}, nil
	}
	return calendar.Request{Year: today.Year, Month: today.Month, Layout: hijri.Gregorian}, nil
}

func parseRequest(req calendar.Request, showYear bool, args []string) (calendar.Request, error) {
	switch len(args) {
	case 0:
		// defaults
	case 1:
		val, err := parseNumber(args[0], "month/year")
		if err != nil {
			return calendar.Request{}, err
		}
		if !showYear && val >= 1 && val <= 12 {
			req.Month = val
		} else {
			req.Year = val
			showYear = true
		}
	case 2:
		if showYear {
			return calendar.Request{}, errors.New("-y takes at most one year argument")
		}
		y, err := parseNumber(args[0], "year")
		if err != nil {
			return calendar.Request{}, err
		}
		m, err := parseNumber(args[1], "month")
		if err != nil {
			return calendar.Request{}, err
		}
		if m < 1 || m > 12 {
			return calendar.Request{}, fmt.Errorf("month must be between 1 and 12 (got %d)", m)
		}
		req.Year = y
		req.Month = m
	default:
		return calendar.Request{}, errors.New("too many arguments, see -help")
	}
	if req.Year == 0 {
		return calendar.Request{}, errors.New("there is no year zero")
	}

	req.Mode = calendar.ModeMonth
	if showYear {
		req.Mode = calendar.ModeYear
	}
	return req.Normalize(), nil
}

func parseNumber(value string, field string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as %s", value, field)
	}
	return n, nil
}
