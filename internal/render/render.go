package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/lululau/hijri/internal/calendar"
	"github.com/lululau/hijri/internal/ephemeris"
	"github.com/lululau/hijri/internal/hijri"
	"github.com/lululau/hijri/internal/textwidth"
)

const (
	cellPadding = 1
	blockGap    = 3
)

var (
	noColorMode bool // Global flag to disable all color output
)

// SetNoColor sets the global no-color flag
func SetNoColor(disable bool) {
	noColorMode = disable
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FEC260"))
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A5B4FC"))
	cellStyle    = lipgloss.NewStyle().Padding(0, cellPadding)
	todayStyle   = cellStyle.Foreground(lipgloss.Color("#34D399"))
	holidayStyle = cellStyle.Foreground(lipgloss.Color("#3B82F6"))
	noteStyle    = cellStyle.Foreground(lipgloss.Color("#F97316"))
	labelStyle   = cellStyle.Foreground(lipgloss.Color("#94A3B8"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	legendStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#475569"))
)

var civilWeekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// weekdayHeaders returns column titles in the language of the layout. Weeks
// start on Sunday.
func weekdayHeaders(layout hijri.System) []string {
	if layout == hijri.Hijri {
		out := make([]string, 7)
		for i := range out {
			out[i] = hijri.ShortWeekdayName(time.Weekday(i))
		}
		return out
	}
	return civilWeekdays
}

// MonthBlock packages rendered lines with their visual width/height.
type MonthBlock struct {
	Lines  []string
	Width  int
	Height int
}

// BuildBlocks converts month views into renderable blocks.
func BuildBlocks(views []calendar.MonthView) ([]MonthBlock, error) {
	blocks := make([]MonthBlock, len(views))
	for i, view := range views {
		block, err := buildMonthBlock(view)
		if err != nil {
			return nil, err
		}
		blocks[i] = block
	}
	return blocks, nil
}

// Layout places blocks side by side, as many per row as fit in width.
func Layout(blocks []MonthBlock, width int) string {
	if len(blocks) == 0 {
		return ""
	}
	blockWidth := 0
	for _, b := range blocks {
		blockWidth = max(blockWidth, b.Width)
	}
	perRow := max(1, (width+blockGap)/(blockWidth+blockGap))

	var lines []string
	for start := 0; start < len(blocks); start += perRow {
		row := blocks[start:min(start+perRow, len(blocks))]
		height := 0
		for _, b := range row {
			height = max(height, b.Height)
		}
		if start > 0 {
			lines = append(lines, "")
		}
		for i := 0; i < height; i++ {
			var sb strings.Builder
			for j, b := range row {
				line := ""
				if i < len(b.Lines) {
					line = b.Lines[i]
				}
				if j == len(row)-1 {
					sb.WriteString(line)
					continue
				}
				sb.WriteString(textwidth.PadRight(line, blockWidth+blockGap))
			}
			lines = append(lines, strings.TrimRight(sb.String(), " "))
		}
	}
	return strings.Join(lines, "\n")
}

func buildMonthBlock(view calendar.MonthView) (MonthBlock, error) {
	if len(view.Weeks) == 0 {
		return MonthBlock{}, fmt.Errorf("%s: no weeks to render", view.Title)
	}
	colWidth := determineColumnWidth(view)

	// rowDays[i] holds the days behind table row i, nil for spacer rows.
	var rows [][]string
	var rowDays [][]calendar.Day
	var rowIsLabel []bool
	for weekIdx, week := range view.Weeks {
		numberRow := make([]string, len(week))
		labelRow := make([]string, len(week))
		for i, day := range week {
			numberRow[i] = renderNumberCell(view.Layout, day)
			labelRow[i] = renderLabelCell(view.Layout, day)
		}
		rows = append(rows, numberRow, labelRow)
		rowDays = append(rowDays, week, week)
		rowIsLabel = append(rowIsLabel, false, true)
		if weekIdx != len(view.Weeks)-1 {
			rows = append(rows, make([]string, len(week)))
			rowDays = append(rowDays, nil)
			rowIsLabel = append(rowIsLabel, false)
		}
	}

	t := lgtable.New().
		Headers(weekdayHeaders(view.Layout)...).
		Rows(rows...).
		BorderRow(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return styleHeader(colWidth)
			}
			if row < 0 || row >= len(rowDays) || rowDays[row] == nil {
				return cellStyle.Width(colWidth + 2*cellPadding)
			}
			return styleDayCell(rowDays[row][col], rowIsLabel[row]).Width(colWidth + 2*cellPadding)
		})
	if noColorMode {
		t = t.Border(lipgloss.HiddenBorder())
	} else {
		t = t.Border(lipgloss.RoundedBorder()).BorderStyle(borderStyle)
	}

	title := view.Title
	if !noColorMode {
		title = titleStyle.Render(title)
	}
	lines := append([]string{title, ""}, strings.Split(strings.TrimRight(t.Render(), "\n"), "\n")...)

	width := 0
	for _, line := range lines {
		width = max(width, textwidth.StringWidth(line))
	}
	return MonthBlock{
		Lines:  lines,
		Width:  width,
		Height: len(lines),
	}, nil
}

func determineColumnWidth(view calendar.MonthView) int {
	width := 3
	for _, week := range view.Weeks {
		for _, day := range week {
			width = max(width, textwidth.StringWidth(renderNumberCell(view.Layout, day)))
			width = max(width, textwidth.StringWidth(renderLabelCell(view.Layout, day)))
		}
	}
	return width
}

func renderNumberCell(layout hijri.System, day calendar.Day) string {
	if !day.InMonth {
		return ""
	}
	return fmt.Sprintf("%2d%s", day.Number(layout), day.PhaseMarker())
}

func renderLabelCell(layout hijri.System, day calendar.Day) string {
	if !day.InMonth {
		return ""
	}
	return day.SecondaryLabel(layout)
}

func styleHeader(colWidth int) lipgloss.Style {
	if noColorMode {
		return cellStyle.Width(colWidth + 2*cellPadding)
	}
	return headerStyle.Padding(0, cellPadding).Width(colWidth + 2*cellPadding)
}

// styleDayCell colors a day. Observances take priority over today.
func styleDayCell(day calendar.Day, label bool) lipgloss.Style {
	if noColorMode || !day.InMonth {
		return cellStyle
	}
	switch {
	case day.Observance != nil && day.Observance.Holiday:
		return holidayStyle
	case day.Observance != nil:
		return noteStyle
	case day.IsToday:
		return todayStyle
	case label:
		return labelStyle
	}
	return cellStyle
}

// EventsTable lists the phases and observances of the view's month.
func EventsTable(view calendar.MonthView) string {
	columns := []table.Column{
		{Title: "Date", Width: 20},
		{Title: "Hijri", Width: 24},
		{Title: "Event", Width: 24},
	}
	var rows []table.Row
	for _, week := range view.Weeks {
		for _, day := range week {
			if !day.InMonth {
				continue
			}
			h := fmt.Sprintf("%d %s %s", day.Hijri.Day, day.Hijri.MonthName(), day.Hijri.YearString())
			if day.Phase != nil {
				rows = append(rows, table.Row{day.Civil.String(), h, phaseEvent(*day.Phase)})
			}
			if day.Observance != nil {
				rows = append(rows, table.Row{day.Civil.String(), h, day.Observance.Name})
			}
		}
	}
	if len(rows) == 0 {
		return ""
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+2),
	)
	t.SetStyles(tableStyles())
	t.Blur()
	return strings.TrimRight(t.View(), "\n ")
}

func phaseEvent(p ephemeris.Phase) string {
	s := p.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	if noColorMode {
		styles.Header = lipgloss.NewStyle().Padding(0, 1)
	} else {
		styles.Header = headerStyle.Padding(0, 1)
	}
	styles.Selected = lipgloss.NewStyle()
	styles.Cell = lipgloss.NewStyle().Padding(0, cellPadding)
	return styles
}

// HelpLine describes the interactive key bindings.
func HelpLine() string {
	helpText := "j/] next month  k/[ previous month  J/} next year  K/{ previous year  . today  h civil/Hijri  y year  m month  q quit"
	if noColorMode {
		return helpText
	}
	return helpStyle.Render(helpText)
}

// ColorLegend explains the colors and phase markers.
func ColorLegend() string {
	legend := "blue=holiday  orange=day of note  green=today    ● new  ◐ first quarter  ○ full  ◑ last quarter"
	if noColorMode {
		return legend
	}
	return legendStyle.Render(legend)
}
