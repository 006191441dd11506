// Package listreport renders a ranked list of rows with one key column and a
// set of metric columns, fetching the rows through a caller-supplied function.
package listreport

import (
	"context"

	"github.com/dkoosis/statsdash/pkg/api"
	"github.com/dkoosis/statsdash/pkg/metrics"
	"github.com/dkoosis/statsdash/pkg/query"
)

// Props configure one list report.
type Props struct {
	// FetchData loads the rows. Its error is shown as is.
	FetchData func(ctx context.Context) ([]api.ListItem, error)
	// GetFilterFor maps a row to the drill-down filter it stands for.
	GetFilterFor func(item api.ListItem) query.Filters
	KeyLabel     string
	Metrics      []metrics.Metric
	DetailsLink  string
	Query        query.Query
	// ExternalLinkDest resolves the public URL of a row, if it has one.
	ExternalLinkDest func(item api.ListItem) string
	// Color names the bar palette entry (see Styles.BarColors).
	Color string
	// ColMinWidth is the minimum key column width in CSS pixels; 0 means none.
	ColMinWidth int
}

// FilterFor returns the drill-down filter for item, or nil.
func (p Props) FilterFor(item api.ListItem) query.Filters {
	if p.GetFilterFor == nil {
		return nil
	}
	return p.GetFilterFor(item)
}

// LinkFor returns the external URL for item, or "".
func (p Props) LinkFor(item api.ListItem) string {
	if p.ExternalLinkDest == nil {
		return ""
	}
	return p.ExternalLinkDest(item)
}

// plotMetric is the metric that sizes the row bars.
func (p Props) plotMetric() (metrics.Metric, bool) {
	for _, m := range p.Metrics {
		if m.Plot {
			return m, true
		}
	}
	return metrics.Metric{}, false
}
