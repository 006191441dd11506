package pages

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/statsdash/pkg/listreport"
	"github.com/dkoosis/statsdash/pkg/theme"
)

// CompiledTheme holds lipgloss styles built from a Theme.
type CompiledTheme struct {
	TitleStyle      lipgloss.Style
	HeaderStyle     lipgloss.Style
	ActivePillStyle lipgloss.Style
	PillStyle       lipgloss.Style
	BoxStyle        lipgloss.Style
	StatusBarStyle  lipgloss.Style
	ErrorStyle      lipgloss.Style
	FilterStyle     lipgloss.Style

	TitleText string
	TitleIcon string

	Report listreport.Styles
}

// Compile builds lipgloss styles from t.
func Compile(t *theme.Theme) *CompiledTheme {
	primary := lipgloss.Color(t.Colors.Primary)
	active := lipgloss.Color(t.Colors.Active)
	muted := lipgloss.Color(t.Colors.Muted)
	errColor := lipgloss.Color(t.Colors.Error)

	ct := &CompiledTheme{TitleText: t.Title.Text, TitleIcon: t.Title.Icon}

	ct.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(primary).
		Padding(0, 1)

	ct.HeaderStyle = lipgloss.NewStyle().Bold(true)

	ct.ActivePillStyle = lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Foreground(active)

	ct.PillStyle = lipgloss.NewStyle().Foreground(muted)

	ct.BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Colors.Border)).
		Padding(0, 1)

	ct.StatusBarStyle = lipgloss.NewStyle().Foreground(muted).MarginTop(1)
	ct.ErrorStyle = lipgloss.NewStyle().Foreground(errColor).Bold(true)
	ct.FilterStyle = lipgloss.NewStyle().Foreground(active).Italic(true)

	bars := make(map[string]lipgloss.Color, len(t.Bars))
	for name, c := range t.Bars {
		bars[name] = lipgloss.Color(c)
	}
	ct.Report = listreport.Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(muted),
		Key:       lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Text)),
		Value:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Value)),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Colors.Hover)),
		Muted:     lipgloss.NewStyle().Foreground(muted),
		Error:     lipgloss.NewStyle().Foreground(errColor).Bold(true),
		Bar:       lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.BarText)),
		BarColors: bars,
	}
	return ct
}

// activeTheme is the compiled theme used by Model and Snapshot.
var activeTheme = Compile(theme.Default())

// SetTheme sets the active theme. Unset fields fall back to defaults.
func SetTheme(t *theme.Theme) {
	if t != nil {
		activeTheme = Compile(theme.MergeWithDefaults(t))
	}
}
