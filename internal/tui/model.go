package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lululau/hijri/internal/calendar"
	"github.com/lululau/hijri/internal/hijri"
	"github.com/lululau/hijri/internal/julian"
	"github.com/lululau/hijri/internal/render"
)

var (
	noColorMode bool // Global flag to disable all color output
)

// SetNoColor sets the global no-color flag
func SetNoColor(disable bool) {
	noColorMode = disable
}

type inputMode int

const (
	inputNone inputMode = iota
	inputYear
	inputMonth
)

// Run starts the interactive Bubble Tea UI.
func Run(svc *calendar.Service, req calendar.Request, cacheValid bool) error {
	if svc == nil {
		svc = calendar.NewService()
	}
	m := newModel(svc, req.Normalize(), cacheValid)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

type model struct {
	svc        *calendar.Service
	request    calendar.Request
	now        func() time.Time
	width      int
	inputMode  inputMode
	input      textinput.Model
	statusMsg  string
	cacheValid bool
}

func newModel(svc *calendar.Service, req calendar.Request, cacheValid bool) model {
	ti := textinput.New()
	ti.Placeholder = "number"
	ti.CharLimit = 16
	ti.Prompt = "> "
	return model{
		svc:        svc,
		request:    req,
		now:        time.Now,
		input:      ti,
		cacheValid: cacheValid,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if m.inputMode != inputNone {
			return m.handleInputKey(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "k", "[":
			m.request = m.request.PreviousMonth()
			m.statusMsg = ""
		case "j", "]":
			m.request = m.request.NextMonth()
			m.statusMsg = ""
		case "K", "{":
			m.request = m.request.PreviousYear()
			m.statusMsg = ""
		case "J", "}":
			m.request = m.request.NextYear()
			m.statusMsg = ""
		case "h":
			m.request = m.request.ToggleLayout(m.svc)
			m.statusMsg = ""
		case "y":
			m.activateInput(inputYear, "year [month]")
		case "m":
			m.activateInput(inputMonth, "1-12")
		case ".":
			m.goToday()
		}
	}
	return m, nil
}

// goToday moves to the current month in the active layout.
func (m *model) goToday() {
	today := julian.Today(m.now)
	req := calendar.Request{Year: today.Year, Month: today.Month, Layout: hijri.Gregorian}
	if m.request.Layout == hijri.Hijri {
		h, err := m.svc.Converter().GregorianToHijri(today.Day, today.Month, today.Year)
		if err != nil {
			m.statusMsg = err.Error()
			return
		}
		req = calendar.Request{Year: h.Year, Month: h.Month, Layout: hijri.Hijri}
	}
	m.request = req
	m.statusMsg = ""
}

func (m model) View() string {
	if m.inputMode != inputNone {
		return m.inputView()
	}

	body, err := m.renderCalendar()
	status := m.statusMsg
	if err != nil {
		status = err.Error()
	}

	sb := strings.Builder{}
	sb.WriteString(body)
	sb.WriteString("\n\n")
	sb.WriteString(render.HelpLine())
	if status != "" {
		sb.WriteString("\n")
		if noColorMode {
			sb.WriteString(status)
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316")).Render(status))
		}
	}
	if !m.cacheValid {
		sb.WriteString("\n\n")
		if noColorMode {
			sb.WriteString(render.CacheHint)
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render(render.CacheHint))
		}
	}
	return sb.String()
}

func (m model) renderCalendar() (string, error) {
	view, err := m.svc.View(m.request)
	if err != nil {
		return "", err
	}
	blocks, err := render.BuildBlocks([]calendar.MonthView{view})
	if err != nil {
		return "", err
	}
	width := m.width
	if width <= 0 {
		width = 100
	}
	out := render.Layout(blocks, width)
	if events := render.EventsTable(view); events != "" {
		out += "\n\n" + events
	}
	return out, nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = inputNone
		m.statusMsg = ""
		return m, nil
	case tea.KeyEnter:
		m.applyInput()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) activateInput(mode inputMode, placeholder string) {
	m.inputMode = mode
	m.input.SetValue("")
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	m.input.Focus()
	m.statusMsg = ""
}

func (m *model) applyInput() {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		m.statusMsg = "enter a number"
		return
	}
	switch m.inputMode {
	case inputYear:
		fields := strings.Fields(value)
		if len(fields) == 0 || len(fields) > 2 {
			m.statusMsg = "expected: year or year month"
			return
		}
		year, err := strconv.Atoi(fields[0])
		if err != nil || year == 0 {
			m.statusMsg = "invalid year"
			return
		}
		m.request.Year = year
		if len(fields) == 2 {
			month, err := strconv.Atoi(fields[1])
			if err != nil || month < 1 || month > 12 {
				m.statusMsg = "month must be between 1 and 12"
				return
			}
			m.request.Month = month
		}
		m.request.Mode = calendar.ModeMonth
	case inputMonth:
		num, err := strconv.Atoi(value)
		if err != nil {
			m.statusMsg = "invalid month"
			return
		}
		if num < 1 || num > 12 {
			m.statusMsg = "month must be between 1 and 12"
			return
		}
		m.request.Month = num
		m.request.Mode = calendar.ModeMonth
	}
	m.request = m.request.Normalize()
	m.statusMsg = ""
	m.inputMode = inputNone
	m.input.Blur()
}

func (m model) inputView() string {
	var label string
	switch m.inputMode {
	case inputYear:
		label = "Year (Enter to confirm / Esc to cancel)"
	case inputMonth:
		label = "Month 1-12 (Enter to confirm / Esc to cancel)"
	default:
		return ""
	}
	if noColorMode {
		return label + "\n\n" + m.input.View()
	}
	return lipgloss.NewStyle().
		Bold(true).
		Render(label) + "\n\n" + m.input.View()
}
