package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"treant/internal/driver"
)

// rowPhase is where one module is in the pipeline.
type rowPhase uint8

const (
	phaseQueued rowPhase = iota
	phaseDeclaring
	phaseDeclared
	phaseInitializing
	phaseDone
	phaseFailed
)

var phaseInfo = [...]struct {
	label  string
	weight float64 // share of the module's work completed
	color  lipgloss.Color
}{
	phaseQueued:       {"queued", 0, "7"},
	phaseDeclaring:    {"declaring", 0.1, "6"},
	phaseDeclared:     {"declared", 0.5, "6"},
	phaseInitializing: {"initializing", 0.6, "6"},
	phaseDone:         {"done", 1, "2"},
	phaseFailed:       {"error", 1, "1"},
}

func (p rowPhase) String() string { return phaseInfo[p].label }

func (p rowPhase) finished() bool { return p == phaseDone || p == phaseFailed }

// phaseFor maps a per-module driver event onto a row phase.
func phaseFor(ev driver.Event) (rowPhase, bool) {
	switch ev.Status {
	case driver.StatusQueued:
		return phaseQueued, true
	case driver.StatusError:
		return phaseFailed, true
	case driver.StatusWorking:
		switch ev.Stage {
		case driver.StageDeclare:
			return phaseDeclaring, true
		case driver.StageInitialize:
			return phaseInitializing, true
		}
	case driver.StatusDone:
		switch ev.Stage {
		case driver.StageDeclare:
			return phaseDeclared, true
		case driver.StageInitialize:
			return phaseDone, true
		}
	}
	return phaseQueued, false
}

// loadLabel describes run-wide manifest loading in the header.
func loadLabel(status driver.Status) string {
	switch status {
	case driver.StatusWorking:
		return "loading"
	case driver.StatusDone:
		return "loaded"
	case driver.StatusError:
		return "load failed"
	}
	return ""
}

type moduleRow struct {
	name    string
	phase   rowPhase
	elapsed time.Duration
}

type progressModel struct {
	title   string
	header  string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []moduleRow
	byName  map[string]int
	width   int
	closed  bool
}

type (
	driverEventMsg  driver.Event
	eventsClosedMsg struct{}
)

// NewProgressModel returns a Bubble Tea model showing one row per module
// until events is closed.
func NewProgressModel(title string, modules []string, events <-chan driver.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("6")))),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:    make([]moduleRow, len(modules)),
		byName:  make(map[string]int, len(modules)),
		width:   80,
	}
	for i, name := range modules {
		m.rows[i] = moduleRow{name: name}
		m.byName[name] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next blocks on the driver channel for one event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return driverEventMsg(ev)
		}
		return eventsClosedMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case driverEventMsg:
		return m, tea.Batch(m.observe(driver.Event(msg)), m.next())
	case eventsClosedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.closed {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case progress.FrameMsg:
		var bar tea.Model
		bar, cmd = m.bar.Update(msg)
		m.bar = bar.(progress.Model)
	}
	return m, cmd
}

// observe folds ev into the model and returns the bar animation command.
func (m *progressModel) observe(ev driver.Event) tea.Cmd {
	if ev.Module == "" {
		if ev.Stage == driver.StageLoad {
			if label := loadLabel(ev.Status); label != "" {
				m.header = label
			}
		}
		return nil
	}
	i, ok := m.byName[ev.Module]
	if !ok {
		return nil
	}
	phase, ok := phaseFor(ev)
	if !ok {
		return nil
	}
	row := &m.rows[i]
	row.phase = phase
	row.elapsed += ev.Elapsed
	return m.bar.SetPercent(m.fraction())
}

// fraction is the overall completion in [0, 1].
func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += phaseInfo[r.phase].weight
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) counts() (finished, failed int) {
	for _, r := range m.rows {
		if r.phase.finished() {
			finished++
		}
		if r.phase == phaseFailed {
			failed++
		}
	}
	return finished, failed
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	title := m.title
	if m.header != "" {
		title += " (" + m.header + ")"
	}
	lead := m.spinner.View()
	if m.closed {
		lead = "done:"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(lead + " " + title))
	b.WriteString("\n\n")

	const labelWidth, timeWidth = 12, 8
	nameWidth := max(m.width-labelWidth-timeWidth-6, 20)
	for _, r := range m.rows {
		label := lipgloss.NewStyle().Foreground(phaseInfo[r.phase].color).Render(fmt.Sprintf("%*s", labelWidth, r.phase))
		elapsed := ""
		if r.elapsed > 0 {
			elapsed = r.elapsed.Round(time.Millisecond).String()
		}
		fmt.Fprintf(&b, "  %s %s %s\n", label, runewidth.FillRight(truncate(r.name, nameWidth), nameWidth), elapsed)
	}

	finished, failed := m.counts()
	fmt.Fprintf(&b, "\n%d/%d modules", finished, len(m.rows))
	if failed > 0 {
		fmt.Fprintf(&b, ", %d failed", failed)
	}
	b.WriteString("\n")
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// truncate shortens s to width display cells, marking the cut with "...".
func truncate(s string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(s) <= width:
		return s
	case width <= 3:
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
