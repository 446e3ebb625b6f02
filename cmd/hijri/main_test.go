package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lululau/hijri/internal/calendar"
	"github.com/lululau/hijri/internal/hijri"
	"github.com/lululau/hijri/internal/holidays"
)

func TestConvert(t *testing.T) {
	conv := hijri.NewConverter()
	now := func() time.Time { return time.Date(2024, 3, 12, 20, 0, 0, 0, time.UTC) }
	tests := []struct {
		name      string
		fromHijri bool
		args      []string
		want      string
	}{
		{"today", false, nil, "Yaum al-Thulatha 1 Ramadan 1445"},
		{"numeric", false, []string{"27", "9", "1984"}, "Yaum al-Khamees 1 Muharram 1405"},
		{"month name", false, []string{"12", "mar", "2024"}, "Yaum al-Thulatha 1 Ramadan 1445"},
		{"before christ", false, []string{"15", "March", "-44"}, "Yaum al-Arbi'a 24 Rabi` al-Awal 686 B.H."},
		{"hijri", true, []string{"1", "10", "1445"}, "Wednesday 10 April 2024"},
		{"hijri month name", true, []string{"1", "ram", "1445"}, "Tuesday 12 March 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convert(context.Background(), conv, tt.fromHijri, tt.args, now)
			if err != nil {
				t.Fatalf("convert failed: %v", err)
			}
			if got.String() != tt.want {
				t.Fatalf("got %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestConvertErrors(t *testing.T) {
	conv := hijri.NewConverter()
	for _, tc := range []struct {
		fromHijri bool
		args      []string
	}{
		{true, nil},
		{false, []string{"1", "2"}},
		{false, []string{"x", "1", "2024"}},
		{false, []string{"1", "", "2024"}},
		{false, []string{"1", "smarch", "2024"}},
		{false, []string{"31", "2", "2024"}},
		{true, []string{"1", "13", "1445"}},
	} {
		if _, err := convert(context.Background(), conv, tc.fromHijri, tc.args, time.Now); err == nil {
			t.Fatalf("expected error for %v", tc.args)
		}
	}
}

func TestParseRequest(t *testing.T) {
	current := calendar.Request{Year: 2025, Month: 11}
	tests := []struct {
		name     string
		showYear bool
		args     []string
		want     calendar.Request
		wantErr  bool
	}{
		{"defaults", false, nil, calendar.Request{Year: 2025, Month: 11, Mode: calendar.ModeMonth}, false},
		{"month", false, []string{"9"}, calendar.Request{Year: 2025, Month: 9, Mode: calendar.ModeMonth}, false},
		{"year", false, []string{"1983"}, calendar.Request{Year: 1983, Month: 11, Mode: calendar.ModeYear}, false},
		{"year flag", true, []string{"9"}, calendar.Request{Year: 9, Month: 11, Mode: calendar.ModeYear}, false},
		{"year month", false, []string{"2012", "12"}, calendar.Request{Year: 2012, Month: 12, Mode: calendar.ModeMonth}, false},
		{"bad month", false, []string{"2012", "13"}, calendar.Request{}, true},
		{"year zero", true, []string{"0"}, calendar.Request{}, true},
		{"too many", false, []string{"1", "2", "3"}, calendar.Request{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRequest(current, tt.showYear, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNegativeYearAfterDoubleDash(t *testing.T) {
	current := calendar.Request{Year: 2025, Month: 11}
	tests := []struct {
		name string
		args []string
		want calendar.Request
	}{
		{"month of a B.C. year", []string{"-c", "--", "-44", "3"}, calendar.Request{Year: -44, Month: 3, Mode: calendar.ModeMonth}},
		{"B.C. year", []string{"-c", "--", "-1"}, calendar.Request{Year: -1, Month: 11, Mode: calendar.ModeYear}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("hijri", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			fs.Bool("c", false, "")
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse %v: %v", tt.args, err)
			}
			got, err := parseRequest(current, false, fs.Args())
			if err != nil {
				t.Fatalf("parseRequest: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			if !strings.Contains(examples, strings.Join(tt.args, " ")) {
				t.Fatalf("usage examples do not show %q", strings.Join(tt.args, " "))
			}
		})
	}

	fs := flag.NewFlagSet("hijri", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Bool("c", false, "")
	if err := fs.Parse([]string{"-c", "-1"}); err == nil {
		t.Fatalf("a bare negative year should still be taken for a flag")
	}
}

func TestCurrentMonth(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC) }
	req, err := currentMonth(hijri.NewConverter(), hijri.Hijri, now)
	if err != nil {
		t.Fatal(err)
	}
	if req.Year != 1445 || req.Month != 9 || req.Layout != hijri.Hijri {
		t.Fatalf("got %+v", req)
	}
}

func TestLoadObservancesFromCache(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	t.Setenv("HOME", dir)

	data, valid := loadObservances(context.Background(), "")
	if valid {
		t.Fatalf("no cache written yet, expected built-in table only")
	}
	if info := holidays.Lookup(data, 1445, 10, 1); info == nil || info.Name != "Eid al-Fitr" {
		t.Fatalf("built-in table missing Eid al-Fitr: %+v", info)
	}

	path, err := holidays.GetCachePath()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	cached := `[{"year": "1445", "observances": {"05-05": {"name": "Local Day", "holiday": true}}}]`
	if err := os.WriteFile(path, []byte(cached), 0644); err != nil {
		t.Fatal(err)
	}
	data, valid = loadObservances(context.Background(), "")
	if !valid {
		t.Fatalf("fresh cache should be reported valid")
	}
	if info := holidays.Lookup(data, 1445, 5, 5); info == nil || info.Name != "Local Day" {
		t.Fatalf("cached entry not merged: %+v", info)
	}
	if info := holidays.Lookup(data, 1445, 1, 1); info == nil || info.Name != "Islamic New Year" {
		t.Fatalf("built-in entries lost after merge: %+v", info)
	}
}
