// Package metrics defines the report columns shared by the tabular reports:
// which metrics a report shows, how their headers read for a given query, and
// how raw values are turned into cell text.
package metrics

import (
	"github.com/dkoosis/statsdash/pkg/query"
)

// Kind identifies a metric. Matching is always done on Kind so relabeled
// copies of a descriptor still match the registered one.
type Kind int

const (
	KindUnknown Kind = iota
	KindVisitors
	KindPageName
	KindPageviews
	KindPercentage
	KindConversionRate
	KindTotalRevenue
	KindAverageRevenue
)

// Metric describes one report column.
type Metric struct {
	Kind            Kind
	Name            string
	Label           string
	RealtimeLabel   string
	GoalFilterLabel string
	Plot            bool // drives the row bar
	AlignLeft       bool // value cells are not right-justified
	HiddenOnMobile  bool // dropped on narrow layouts
}

// Registered descriptors.
var (
	Visitors = Metric{
		Kind:            KindVisitors,
		Name:            "visitors",
		Label:           "Visitantes",
		RealtimeLabel:   "Visitantes ativos",
		GoalFilterLabel: "Conversions",
		Plot:            true,
	}
	PageName       = Metric{Kind: KindPageName, Name: "pagename", Label: "Página", AlignLeft: true}
	Pageviews      = Metric{Kind: KindPageviews, Name: "pageviews", Label: "Visualizações", HiddenOnMobile: true}
	Percentage     = Metric{Kind: KindPercentage, Name: "percentage", Label: "%"}
	ConversionRate = Metric{Kind: KindConversionRate, Name: "conversion_rate", Label: "CR"}
	TotalRevenue   = Metric{Kind: KindTotalRevenue, Name: "total_revenue", Label: "Receita"}
	AverageRevenue = Metric{Kind: KindAverageRevenue, Name: "average_revenue", Label: "Receita média"}
)

var registry = []Metric{Visitors, PageName, Pageviews, Percentage, ConversionRate, TotalRevenue, AverageRevenue}

// ByName looks up a registered descriptor by its API name.
func ByName(name string) (Metric, bool) {
	for _, m := range registry {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// WithLabel returns a copy of m with a different default label.
func (m Metric) WithLabel(label string) Metric {
	m.Label = label
	return m
}

// Is reports whether m is the same metric as other.
func (m Metric) Is(other Metric) bool {
	return m.Kind == other.Kind
}

// IsRevenue reports whether m carries a money amount.
func (m Metric) IsRevenue() bool {
	return m.Kind == KindTotalRevenue || m.Kind == KindAverageRevenue
}

// MaybeWithCR adds the conversion rate column when the query is scoped to a
// goal, replacing the percentage column if there is one. ConversionRate is
// always last when added. The input slice is never modified.
func MaybeWithCR(ms []Metric, q query.Query) []Metric {
	if !q.HasGoal() {
		return ms
	}
	out := make([]Metric, 0, len(ms)+1)
	for _, m := range ms {
		if m.Is(Percentage) {
			continue
		}
		out = append(out, m)
	}
	return append(out, ConversionRate)
}

// LabelFor picks the header for m under q. Realtime wins over goal, goal wins
// over the default label.
func LabelFor(m Metric, q query.Query) string {
	if m.RealtimeLabel != "" && q.IsRealtime() {
		return m.RealtimeLabel
	}
	if m.GoalFilterLabel != "" && q.HasGoal() {
		return m.GoalFilterLabel
	}
	return m.Label
}
