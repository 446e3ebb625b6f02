package render

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/lululau/hijri/internal/calendar"
)

// PlainOptions controls how the non-interactive renderer behaves.
type PlainOptions struct {
	Writer                io.Writer
	Service               *calendar.Service
	Request               calendar.Request
	Width                 int
	ObservancesCacheValid bool
}

// CacheHint is shown when no fresh observances file is cached.
const CacheHint = "Using the built-in observances; run `hijri -u` to fetch the latest table."

// RunPlain renders the requested view exactly once.
func RunPlain(opts PlainOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Service == nil {
		opts.Service = calendar.NewService()
	}

	req := opts.Request.Normalize()
	views, err := opts.Service.Views(req)
	if err != nil {
		return err
	}
	blocks, err := BuildBlocks(views)
	if err != nil {
		return err
	}
	width := opts.Width
	if width == 0 {
		width = DetectWidth()
	}
	output := Layout(blocks, width)
	if output == "" {
		return nil
	}
	if _, err := fmt.Fprintln(opts.Writer, output); err != nil {
		return err
	}

	if req.Mode == calendar.ModeMonth {
		if events := EventsTable(views[0]); events != "" {
			if _, err := fmt.Fprintln(opts.Writer, "\n"+events); err != nil {
				return err
			}
		}
	}
	if opts.Service.HasObservances() {
		if _, err := fmt.Fprintln(opts.Writer, "\n"+ColorLegend()); err != nil {
			return err
		}
	}
	if !opts.ObservancesCacheValid {
		_, err = fmt.Fprintln(opts.Writer, "\n"+CacheHint)
	}
	return err
}

// DetectWidth tries to determine the terminal width, falling back to 100 cols.
func DetectWidth() int {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) {
		if w, _, err := term.GetSize(int(fd)); err == nil {
			return w
		}
	}
	return 100
}
