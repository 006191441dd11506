package pages

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/statsdash/pkg/listreport"
	"github.com/dkoosis/statsdash/pkg/query"
)

// Options configure the interactive report.
type Options struct {
	Query      query.Query
	SmallModal bool
}

// Run launches the interactive Pages report.
func Run(ctx context.Context, ctrl *Controller, opts Options) error {
	program := tea.NewProgram(NewModel(ctx, ctrl, opts), tea.WithContext(ctx), tea.WithAltScreen())
	final, err := program.Run()
	if m, ok := final.(Model); ok {
		m.report.Close()
	}
	return err
}

type keyMap struct {
	Top     key.Binding
	Entry   key.Binding
	Exit    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Up      key.Binding
	Down    key.Binding
	Drill   key.Binding
	Back    key.Binding
	Link    key.Binding
	Inspect key.Binding
	Reload  key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Top:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "em alta")),
		Entry:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "entrada")),
		Exit:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "saída")),
		Next:    key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "próxima aba")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "aba anterior")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "subir")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "descer")),
		Drill:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "filtrar")),
		Back:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "remover filtro")),
		Link:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "link")),
		Inspect: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "valores")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recarregar")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "sair")),
	}
}

// Model is the bubbletea model of the Pages report. All state changes go
// through Update; the report body is a listreport.Model rebuilt on every
// mode or query change.
type Model struct {
	ctx       context.Context
	ctrl      *Controller
	query     query.Query
	drill     []query.Query // queries before each drill-down, most recent last
	small     bool
	report    listreport.Model
	keys      keyMap
	status    string
	statusErr bool
	width     int
	height    int
	ready     bool
}

// NewModel builds the model for the controller's current mode.
func NewModel(ctx context.Context, ctrl *Controller, opts Options) Model {
	m := Model{
		ctx:   ctx,
		ctrl:  ctrl,
		query: opts.Query,
		small: opts.SmallModal,
		keys:  defaultKeyMap(),
	}
	m.report = listreport.New(ctx, ctrl.Content(m.query, m.small), activeTheme.Report)
	return m
}

// Init starts the first fetch.
func (m Model) Init() tea.Cmd {
	return m.report.Init()
}

// Mode returns the selected mode.
func (m Model) Mode() Mode { return m.ctrl.Mode() }

// Query returns the query the report is showing, drill-down filters included.
func (m Model) Query() query.Query { return m.query }

// Report returns the list report being shown.
func (m Model) Report() listreport.Model { return m.report }

// Status returns the current status line message.
func (m Model) Status() string { return m.status }

// StatusIsError reports whether the status line holds an error.
func (m Model) StatusIsError() bool { return m.statusErr }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width - 4 // box border + padding
		m.height = msg.Height
		m.ready = true
		m.report = m.report.SetWidth(m.width - 2)
		return m, nil
	case listreport.FetchedMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.report, cmd = m.report.Update(msg)
		if fm, ok := msg.(listreport.FetchedMsg); ok && fm.Err != nil && fm.ID == m.report.ID() {
			slog.Warn("pages report fetch failed", "mode", m.ctrl.Mode(), "error", fm.Err)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.report.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Top):
		return m.selectMode(ModeTopPages)
	case key.Matches(msg, m.keys.Entry):
		return m.selectMode(ModeEntryPages)
	case key.Matches(msg, m.keys.Exit):
		return m.selectMode(ModeExitPages)
	case key.Matches(msg, m.keys.Next):
		return m.selectMode(m.cycle(1))
	case key.Matches(msg, m.keys.Prev):
		return m.selectMode(m.cycle(-1))
	case key.Matches(msg, m.keys.Up):
		m.report = m.report.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.report = m.report.MoveCursor(1)
	case key.Matches(msg, m.keys.Drill):
		return m.drillDown()
	case key.Matches(msg, m.keys.Back):
		return m.popFilter()
	case key.Matches(msg, m.keys.Link):
		if item, ok := m.report.Selected(); ok {
			m.setStatus(m.report.Props().LinkFor(item), false)
		}
	case key.Matches(msg, m.keys.Inspect):
		if item, ok := m.report.Selected(); ok {
			m.setStatus(strings.Join(listreport.RawValues(item, m.report.Props()), "  "), false)
		}
	case key.Matches(msg, m.keys.Reload):
		var cmd tea.Cmd
		m.report, cmd = m.report.Reload()
		return m, cmd
	}
	return m, nil
}

func (m Model) cycle(step int) Mode {
	modes := Modes()
	idx := 0
	for i, mode := range modes {
		if mode == m.ctrl.Mode() {
			idx = i
		}
	}
	return modes[(idx+step+len(modes))%len(modes)]
}

// selectMode is a pill click. Clicking the active pill does nothing.
func (m Model) selectMode(mode Mode) (tea.Model, tea.Cmd) {
	if mode == m.ctrl.Mode() {
		return m, nil
	}
	m.setStatus("", false)
	if err := m.ctrl.Select(mode); err != nil {
		slog.Warn("pages tab not persisted", "mode", mode, "error", err)
		m.setStatus(err.Error(), true)
	}
	slog.Debug("pages tab selected", "mode", mode, "report", mode.Title(), "site", m.ctrl.Site().Domain)
	return m.rebuild()
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m Model) drillDown() (tea.Model, tea.Cmd) {
	item, ok := m.report.Selected()
	if !ok {
		return m, nil
	}
	filter := m.report.Props().FilterFor(item)
	if !changes(m.query.Filters, filter) {
		return m, nil
	}
	m.drill = append(m.drill, m.query)
	m.query = m.query.WithFilter(filter)
	m.setStatus("", false)
	return m.rebuild()
}

// popFilter restores the query as it was before the last drill-down.
func (m Model) popFilter() (tea.Model, tea.Cmd) {
	if len(m.drill) == 0 {
		return m, nil
	}
	m.query = m.drill[len(m.drill)-1]
	m.drill = m.drill[:len(m.drill)-1]
	m.setStatus("", false)
	return m.rebuild()
}

// changes reports whether merging f into current would alter any value.
func changes(current, f query.Filters) bool {
	for k, v := range f {
		if cur, ok := current[k]; !ok || cur != v {
			return true
		}
	}
	return false
}

// rebuild replaces the report for the current mode and query. The old
// report's fetch is canceled and its late result no longer matches.
func (m Model) rebuild() (tea.Model, tea.Cmd) {
	m.report.Close()
	m.report = listreport.New(m.ctx, m.ctrl.Content(m.query, m.small), activeTheme.Report).SetWidth(m.width - 2)
	return m, m.report.Init()
}

func (m Model) View() string {
	if !m.ready {
		return "Carregando..."
	}

	titleText := activeTheme.TitleIcon + " " + activeTheme.TitleText + " · " + m.ctrl.Site().Domain
	title := activeTheme.TitleStyle.Width(m.width + 4).Render(titleText)

	var body strings.Builder
	body.WriteString(renderHeader(m.ctrl, m.width-2, false))
	body.WriteString("\n")
	if len(m.query.Filters) > 0 {
		body.WriteString(activeTheme.FilterStyle.Render("filtros: " + m.query.Filters.String()))
		body.WriteString("\n")
	}
	body.WriteString("\n")
	body.WriteString(m.report.View())

	box := activeTheme.BoxStyle.Width(m.width).Render(body.String())

	status := m.status
	if m.statusErr {
		status = activeTheme.ErrorStyle.Render(status)
	}
	help := m.helpLine()
	if status != "" {
		help = status + "\n" + help
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, box, activeTheme.StatusBarStyle.Render(help))
}

func (m Model) helpLine() string {
	bindings := []key.Binding{
		m.keys.Top, m.keys.Entry, m.keys.Exit, m.keys.Up, m.keys.Down,
		m.keys.Drill, m.keys.Back, m.keys.Link, m.keys.Inspect, m.keys.Reload, m.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// renderHeader draws the report title on the left and the pills on the
// right. In plain mode the active pill is bracketed instead of styled.
func renderHeader(ctrl *Controller, width int, plain bool) string {
	left := activeTheme.HeaderStyle.Render(ctrl.Header())

	pills := make([]string, 0, 3)
	for _, p := range ctrl.Pills() {
		switch {
		case plain && p.Active:
			pills = append(pills, "["+p.Label+"]")
		case plain:
			pills = append(pills, p.Label)
		case p.Active:
			pills = append(pills, activeTheme.ActivePillStyle.Render(p.Label))
		default:
			pills = append(pills, activeTheme.PillStyle.Render(p.Label))
		}
	}
	right := strings.Join(pills, "  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}
