package pages

import (
	"fmt"
	"log/slog"

	"github.com/dkoosis/statsdash/pkg/api"
	"github.com/dkoosis/statsdash/pkg/listreport"
	"github.com/dkoosis/statsdash/pkg/query"
	"github.com/dkoosis/statsdash/pkg/storage"
)

// Pill is one tab selector control.
type Pill struct {
	Label  string
	Mode   Mode
	Active bool
}

// Controller owns the selected mode of one site's Pages report and keeps it
// in the store.
type Controller struct {
	deps  Deps
	store storage.Store
	key   string
	state State
}

// NewController restores the last selected mode for the site. A missing,
// unreadable or unknown stored value selects DefaultMode.
func NewController(deps Deps, store storage.Store) *Controller {
	c := &Controller{
		deps:  deps,
		store: store,
		key:   TabKey(deps.Site.Domain),
		state: State{Mode: DefaultMode},
	}
	stored, ok, err := store.Get(c.key)
	switch {
	case err != nil:
		slog.Warn("reading stored pages tab failed", "key", c.key, "error", err)
	case !ok:
	case Mode(stored).Valid():
		c.state.Mode = Mode(stored)
	default:
		slog.Debug("ignoring unknown stored pages tab", "key", c.key, "value", stored)
	}
	return c
}

// Mode returns the selected mode.
func (c *Controller) Mode() Mode {
	return c.state.Mode
}

// State returns a copy of the controller state.
func (c *Controller) State() State {
	return c.state
}

// Key returns the storage key for this site.
func (c *Controller) Key() string {
	return c.key
}

// Select handles a click on the pill for mode. The active pill is inert, so
// selecting the current mode changes nothing and writes nothing. A failed
// write is returned but the selection still takes effect.
func (c *Controller) Select(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("select pages tab: unknown mode %q", mode)
	}
	if mode == c.state.Mode {
		return nil
	}
	err := c.store.Set(c.key, string(mode))
	c.state = Reduce(c.state, PillClick{Mode: mode})
	if err != nil {
		return fmt.Errorf("persist pages tab: %w", err)
	}
	return nil
}

// Header is the localized title of the selected report.
func (c *Controller) Header() string {
	return HeaderLabel(c.state.Mode)
}

// Pills returns the selector controls in display order.
func (c *Controller) Pills() []Pill {
	pills := make([]Pill, 0, len(pillLabels))
	for _, m := range Modes() {
		pills = append(pills, Pill{Label: pillLabels[m], Mode: m, Active: m == c.state.Mode})
	}
	return pills
}

// Content returns the configuration of the selected sub-report.
func (c *Controller) Content(q query.Query, isSmallModal bool) listreport.Props {
	switch c.state.Mode {
	case ModeEntryPages:
		return EntryPages(c.deps, q)
	case ModeExitPages:
		return ExitPages(c.deps, q)
	default:
		return TopPages(c.deps, q, isSmallModal)
	}
}

// Site returns the site the controller belongs to.
func (c *Controller) Site() api.Site {
	return c.deps.Site
}
