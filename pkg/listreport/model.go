package listreport

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoosis/statsdash/pkg/api"
)

var nextID atomic.Int64

// FetchedMsg carries the outcome of one FetchData call. ID ties it to the
// model generation that issued it.
type FetchedMsg struct {
	ID    int64
	Items []api.ListItem
	Err   error
}

// Model is the interactive list report.
type Model struct {
	id      int64
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	props   Props
	styles  Styles
	items   []api.ListItem
	err     error
	loading bool
	cursor  int
	width   int
	spinner spinner.Model
}

// New returns a report for props. The fetch starts with Init.
func New(parent context.Context, props Props, styles Styles) Model {
	ctx, cancel := context.WithCancel(parent)
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styles.Muted))
	return Model{
		id:      nextID.Add(1),
		parent:  parent,
		ctx:     ctx,
		cancel:  cancel,
		props:   props,
		styles:  styles,
		loading: true,
		spinner: sp,
	}
}

// Init starts the fetch and the loading spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m Model) fetch() tea.Cmd {
	id, ctx, fetch := m.id, m.ctx, m.props.FetchData
	return func() tea.Msg {
		if fetch == nil {
			return FetchedMsg{ID: id, Items: []api.ListItem{}}
		}
		items, err := fetch(ctx)
		return FetchedMsg{ID: id, Items: items, Err: err}
	}
}

// Update applies fetch results and spinner ticks. Results from another
// generation are dropped.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FetchedMsg:
		if msg.ID != m.id {
			return m, nil
		}
		m.loading = false
		m.items = msg.Items
		m.err = msg.Err
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Reload cancels any fetch in flight and fetches again under a new ID.
func (m Model) Reload() (Model, tea.Cmd) {
	m.Close()
	m.ctx, m.cancel = context.WithCancel(m.parent)
	m.id = nextID.Add(1)
	m.loading = true
	m.err = nil
	return m, m.Init()
}

// Close cancels the fetch in flight, if any.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// ID identifies the current fetch generation.
func (m Model) ID() int64 { return m.id }

// Props returns the report configuration.
func (m Model) Props() Props { return m.props }

// Loading reports whether a fetch is in flight.
func (m Model) Loading() bool { return m.loading }

// Items returns the rows of the last successful fetch.
func (m Model) Items() []api.ListItem { return m.items }

// Err returns the last fetch error.
func (m Model) Err() error { return m.err }

// Cursor returns the selected row index.
func (m Model) Cursor() int { return m.cursor }

// SetWidth sets the render width in terminal cells.
func (m Model) SetWidth(w int) Model {
	m.width = w
	return m
}

// MoveCursor moves the selection by delta rows, clamped to the list.
func (m Model) MoveCursor(delta int) Model {
	if len(m.items) == 0 {
		m.cursor = 0
		return m
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.items)-1 {
		m.cursor = len(m.items) - 1
	}
	return m
}

// Selected returns the row under the cursor.
func (m Model) Selected() (api.ListItem, bool) {
	if m.loading || m.err != nil || m.cursor < 0 || m.cursor >= len(m.items) {
		return api.ListItem{}, false
	}
	return m.items[m.cursor], true
}

// View draws the report.
func (m Model) View() string {
	switch {
	case m.loading:
		return m.spinner.View() + " " + m.styles.Muted.Render("Carregando...")
	case m.err != nil:
		return RenderError(m.err, m.styles)
	default:
		return Render(m.items, m.props, m.width, m.cursor, m.styles)
	}
}
