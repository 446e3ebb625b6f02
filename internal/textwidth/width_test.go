package textwidth_test

import (
	"testing"

	"github.com/lululau/hijri/internal/textwidth"
)

func TestStringWidthMixedScripts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"ascii", "hello", 5},
		{"backquote name", "Sha`ban", 7},
		{"phase marker", "12●", 3},
		{"wide", "中文", 4},
		{"mixed", "A中", 3},
		{"ansi", "\x1b[38;2;52;211;153m12\x1b[0m", 2},
		{"multiline", "ab\n中文", 4},
		{"combining", "é", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textwidth.StringWidth(tt.in); got != tt.want {
				t.Fatalf("StringWidth(%q)=%d want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	got := textwidth.PadRight("中", 4)
	if textwidth.StringWidth(got) != 4 {
		t.Fatalf("PadRight width=%d want 4", textwidth.StringWidth(got))
	}
	if got == "中" {
		t.Fatalf("PadRight should append spaces")
	}
	if textwidth.PadRight("Ramadan", 3) != "Ramadan" {
		t.Fatalf("PadRight should not truncate")
	}
}

func TestStrip(t *testing.T) {
	if got := textwidth.Strip("\x1b[1mEid\x1b[0m"); got != "Eid" {
		t.Fatalf("Strip = %q", got)
	}
}
