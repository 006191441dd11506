// Package query holds the dashboard query: the period being looked at and the
// filters narrowing it down.
package query

import (
	"encoding/json"
	"net/url"
	"sort"
	"strings"
)

// Period values understood by the stats API.
const (
	PeriodRealtime = "realtime"
	PeriodDay      = "day"
	Period7d       = "7d"
	Period30d      = "30d"
	PeriodMonth    = "month"
	PeriodYear     = "year"
	PeriodCustom   = "custom"
)

// Filter keys used by the pages reports.
const (
	FilterGoal      = "goal"
	FilterPage      = "page"
	FilterEntryPage = "entry_page"
	FilterExitPage  = "exit_page"
)

// Filters maps a filter key to its value. A nil Filters is the empty set.
type Filters map[string]string

// Query is the read-only view state a report is computed for.
type Query struct {
	Period  string
	Date    string
	From    string
	To      string
	Filters Filters
}

// Goal returns the active goal filter, or "" when none is set.
func (q Query) Goal() string {
	return q.Filters[FilterGoal]
}

// HasGoal reports whether the query is scoped to a conversion goal.
func (q Query) HasGoal() bool {
	return q.Goal() != ""
}

// IsRealtime reports whether the query looks at the realtime period.
func (q Query) IsRealtime() bool {
	return q.Period == PeriodRealtime
}

// WithFilter returns a copy of q with the given filters merged in.
func (q Query) WithFilter(f Filters) Query {
	merged := make(Filters, len(q.Filters)+len(f))
	for k, v := range q.Filters {
		merged[k] = v
	}
	for k, v := range f {
		merged[k] = v
	}
	q.Filters = merged
	return q
}

// WithoutFilter returns a copy of q with the named filter removed.
func (q Query) WithoutFilter(key string) Query {
	if _, ok := q.Filters[key]; !ok {
		return q
	}
	rest := make(Filters, len(q.Filters))
	for k, v := range q.Filters {
		if k != key {
			rest[k] = v
		}
	}
	q.Filters = rest
	return q
}

// Keys returns the filter keys in a stable order.
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders filters as "k=v, k=v" for status lines.
func (f Filters) String() string {
	parts := make([]string, 0, len(f))
	for _, k := range f.Keys() {
		parts = append(parts, k+"="+f[k])
	}
	return strings.Join(parts, ", ")
}

// Values encodes the query the way the stats API expects it. Filters travel
// as a single JSON object in the "filters" parameter.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Period != "" {
		v.Set("period", q.Period)
	}
	if q.Date != "" {
		v.Set("date", q.Date)
	}
	if q.From != "" {
		v.Set("from", q.From)
	}
	if q.To != "" {
		v.Set("to", q.To)
	}
	filters := q.Filters
	if filters == nil {
		filters = Filters{}
	}
	// json.Marshal on map[string]string cannot fail.
	raw, _ := json.Marshal(filters)
	v.Set("filters", string(raw))
	return v
}
