// Package pages is the tabbed Pages report: Top Pages, Entry Pages and Exit
// Pages behind one pill selector whose choice is remembered per site.
package pages

import "fmt"

// Mode is the selected sub-report.
type Mode string

const (
	ModeTopPages   Mode = "pages"
	ModeEntryPages Mode = "entry-pages"
	ModeExitPages  Mode = "exit-pages"
)

// DefaultMode is used when nothing valid has been stored.
const DefaultMode = ModeTopPages

// fallbackHeader is shown for a mode without a translated header.
const fallbackHeader = "Page Visits"

// Modes lists the modes in pill order.
func Modes() []Mode {
	return []Mode{ModeTopPages, ModeEntryPages, ModeExitPages}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeTopPages, ModeEntryPages, ModeExitPages:
		return true
	}
	return false
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown pages tab %q (expected pages, entry-pages, exit-pages)", s)
	}
	return m, nil
}

// Endpoint is the report path of the mode, relative to the site.
func (m Mode) Endpoint() string {
	switch m {
	case ModeEntryPages:
		return "/entry-pages"
	case ModeExitPages:
		return "/exit-pages"
	default:
		return "/pages"
	}
}

var headerLabels = map[Mode]string{
	ModeTopPages:   "Páginas em Alta",
	ModeEntryPages: "Páginas de Entrada",
	ModeExitPages:  "Páginas de Saída",
}

var pillLabels = map[Mode]string{
	ModeTopPages:   "Em Alta",
	ModeEntryPages: "Páginas de Entrada",
	ModeExitPages:  "Páginas de Saída",
}

// Title is the untranslated report name, used in logs.
func (m Mode) Title() string {
	switch m {
	case ModeTopPages:
		return "Top Pages"
	case ModeEntryPages:
		return "Entry Pages"
	case ModeExitPages:
		return "Exit Pages"
	}
	return fallbackHeader
}

// HeaderLabel is the localized report header for m.
func HeaderLabel(m Mode) string {
	if l, ok := headerLabels[m]; ok {
		return l
	}
	return fallbackHeader
}

// TabKey is the storage key holding the selected mode for a site.
func TabKey(siteDomain string) string {
	return "pageTab__" + siteDomain
}
