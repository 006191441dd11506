package listreport

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/statsdash/pkg/api"
	"github.com/dkoosis/statsdash/pkg/metrics"
)

const (
	// narrowWidth is the terminal width below which HiddenOnMobile columns go.
	narrowWidth = 60
	// pxPerCell converts ColMinWidth from CSS pixels to terminal cells.
	pxPerCell      = 8
	minValueWidth  = 6
	minKeyWidth    = 12
	defaultWidth   = 80
	columnGap      = 2
	noDataText     = "Nenhum dado disponível"
	detailsText    = "» DETALHES"
	selectedMarker = "▶ "
)

// Styles are the lipgloss styles a report is drawn with.
type Styles struct {
	Header    lipgloss.Style
	Key       lipgloss.Style
	Value     lipgloss.Style
	Selected  lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Bar       lipgloss.Style
	BarColors map[string]lipgloss.Color
}

// DefaultStyles returns the built-in report styles.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#626262")),
		Key:      lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")),
		Value:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F56")).Bold(true),
		Bar:      lipgloss.NewStyle().Foreground(lipgloss.Color("#1F1F1F")),
		BarColors: map[string]lipgloss.Color{
			"bg-orange-50": lipgloss.Color("#FED7AA"),
			"bg-blue-50":   lipgloss.Color("#BFDBFE"),
			"bg-green-50":  lipgloss.Color("#BBF7D0"),
			"bg-red-50":    lipgloss.Color("#FECACA"),
		},
	}
}

func (s Styles) barStyle(name string) lipgloss.Style {
	if c, ok := s.BarColors[name]; ok {
		return s.Bar.Background(c)
	}
	return s.Bar.Background(lipgloss.Color("#FED7AA"))
}

// column is one resolved metric column.
type column struct {
	metric metrics.Metric
	label  string
	cells  []metrics.Display
	width  int
}

// Render draws items as a table for the given terminal width. cursor marks
// the selected row; pass -1 for none.
func Render(items []api.ListItem, p Props, width, cursor int, s Styles) string {
	if width <= 0 {
		width = defaultWidth
	}
	if len(items) == 0 {
		return s.Muted.Render(noDataText)
	}

	cols := resolveColumns(items, p, width)
	valuesWidth := 0
	for _, c := range cols {
		valuesWidth += c.width + columnGap
	}
	keyWidth := width - valuesWidth - runewidth.StringWidth(selectedMarker)
	if keyWidth < minKeyWidth {
		keyWidth = minKeyWidth
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", runewidth.StringWidth(selectedMarker)))
	b.WriteString(s.Header.Render(fit(p.KeyLabel, keyWidth)))
	for _, c := range cols {
		b.WriteString(strings.Repeat(" ", columnGap))
		b.WriteString(s.Header.Render(align(c.label, c.width, c.metric.AlignLeft)))
	}
	b.WriteString("\n")

	plot, hasPlot := p.plotMetric()
	maxPlot := 0.0
	if hasPlot {
		for _, item := range items {
			if v, ok := item.Float(plot.Name); ok && v > maxPlot {
				maxPlot = v
			}
		}
	}
	bar := s.barStyle(p.Color)

	for i, item := range items {
		marker := strings.Repeat(" ", runewidth.StringWidth(selectedMarker))
		keyStyle := s.Key
		if i == cursor {
			marker = selectedMarker
			keyStyle = s.Selected
		}
		b.WriteString(s.Selected.Render(marker))

		cell := fit(item.Name, keyWidth)
		barCells := 0
		if hasPlot && maxPlot > 0 {
			if v, ok := item.Float(plot.Name); ok {
				barCells = int(v / maxPlot * float64(keyWidth))
			}
		}
		head, tail := splitAt(cell, barCells)
		if head != "" {
			b.WriteString(bar.Render(head))
		}
		b.WriteString(keyStyle.Render(tail))

		for _, c := range cols {
			b.WriteString(strings.Repeat(" ", columnGap))
			b.WriteString(s.Value.Render(align(c.cells[i].Text, c.width, c.metric.AlignLeft)))
		}
		b.WriteString("\n")
	}

	if p.DetailsLink != "" {
		b.WriteString("\n")
		b.WriteString(s.Muted.Render(detailsText + "  " + p.DetailsLink))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderError draws a fetch failure in place of the table.
func RenderError(err error, s Styles) string {
	return s.Error.Render("✗ " + err.Error())
}

// RawValues lists "label=raw" for each metric of item: the unformatted
// value behind every cell of its row.
func RawValues(item api.ListItem, p Props) []string {
	out := make([]string, 0, len(p.Metrics))
	for _, m := range p.Metrics {
		d := metrics.DisplayValue(item.Value(m.Name), m)
		if d.Raw == "" {
			continue
		}
		out = append(out, metrics.LabelFor(m, p.Query)+"="+d.Raw)
	}
	return out
}

// resolveColumns formats every cell and drops columns that do not fit.
func resolveColumns(items []api.ListItem, p Props, width int) []column {
	minKey := p.ColMinWidth / pxPerCell
	if minKey < minKeyWidth {
		minKey = minKeyWidth
	}

	cols := make([]column, 0, len(p.Metrics))
	for _, m := range p.Metrics {
		if m.HiddenOnMobile && width < narrowWidth {
			continue
		}
		c := column{metric: m, label: metrics.LabelFor(m, p.Query)}
		c.width = max(runewidth.StringWidth(c.label), minValueWidth)
		c.cells = make([]metrics.Display, len(items))
		for i, item := range items {
			c.cells[i] = metrics.DisplayValue(item.Value(m.Name), m)
			c.width = max(c.width, runewidth.StringWidth(c.cells[i].Text))
		}
		cols = append(cols, c)
	}

	// Give the key column its minimum by dropping optional columns first.
	for {
		used := 0
		for _, c := range cols {
			used += c.width + columnGap
		}
		if width-used >= minKey {
			return cols
		}
		dropped := false
		for i := len(cols) - 1; i >= 0; i-- {
			if cols[i].metric.HiddenOnMobile {
				cols = append(cols[:i], cols[i+1:]...)
				dropped = true
				break
			}
		}
		if !dropped {
			return cols
		}
	}
}

// fit truncates or pads s to exactly w cells.
func fit(s string, w int) string {
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	return runewidth.FillRight(s, w)
}

func align(s string, w int, left bool) string {
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	if left {
		return runewidth.FillRight(s, w)
	}
	return runewidth.FillLeft(s, w)
}

// splitAt splits s after n display cells.
func splitAt(s string, n int) (string, string) {
	if n <= 0 {
		return "", s
	}
	head := runewidth.Truncate(s, n, "")
	return head, s[len(head):]
}
