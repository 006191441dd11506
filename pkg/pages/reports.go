package pages

import (
	"context"

	"github.com/dkoosis/statsdash/pkg/api"
	"github.com/dkoosis/statsdash/pkg/listreport"
	"github.com/dkoosis/statsdash/pkg/metrics"
	"github.com/dkoosis/statsdash/pkg/query"
)

const (
	entryExitLimit = 9
	topPagesLimit  = 30
	topPagesMinCol = 200
	barColor       = "bg-orange-50"
	keyLabel       = "URL"
)

// Deps are the collaborators the sub-reports read through.
type Deps struct {
	Client api.Getter
	Site   api.Site
}

func (d Deps) fetcher(endpoint string, q query.Query, limit int) func(context.Context) ([]api.ListItem, error) {
	return func(ctx context.Context) ([]api.ListItem, error) {
		return d.Client.Get(ctx, api.APIPath(d.Site, endpoint), q, api.Params{Limit: limit})
	}
}

func (d Deps) externalLink(item api.ListItem) string {
	return api.ExternalLinkForPage(d.Site.Domain, item.Name)
}

// EntryPages configures the entry pages report.
func EntryPages(d Deps, q query.Query) listreport.Props {
	endpoint := ModeEntryPages.Endpoint()
	return listreport.Props{
		FetchData: d.fetcher(endpoint, q, entryExitLimit),
		GetFilterFor: func(item api.ListItem) query.Filters {
			return query.Filters{query.FilterEntryPage: item.Name}
		},
		KeyLabel:         keyLabel,
		Metrics:          metrics.MaybeWithCR([]metrics.Metric{metrics.Visitors.WithLabel("Unique Entrances")}, q),
		DetailsLink:      api.SitePath(d.Site, endpoint),
		Query:            q,
		ExternalLinkDest: d.externalLink,
		Color:            barColor,
	}
}

// ExitPages configures the exit pages report.
func ExitPages(d Deps, q query.Query) listreport.Props {
	endpoint := ModeExitPages.Endpoint()
	return listreport.Props{
		FetchData: d.fetcher(endpoint, q, entryExitLimit),
		GetFilterFor: func(item api.ListItem) query.Filters {
			return query.Filters{query.FilterExitPage: item.Name}
		},
		KeyLabel:         keyLabel,
		Metrics:          metrics.MaybeWithCR([]metrics.Metric{metrics.Visitors.WithLabel("Unique Exits")}, q),
		DetailsLink:      api.SitePath(d.Site, endpoint),
		Query:            q,
		ExternalLinkDest: d.externalLink,
		Color:            barColor,
	}
}

// TopPages configures the top pages report. A small modal has no room for
// the page name column.
func TopPages(d Deps, q query.Query, isSmallModal bool) listreport.Props {
	endpoint := ModeTopPages.Endpoint()
	return listreport.Props{
		FetchData: d.fetcher(endpoint, q, topPagesLimit),
		GetFilterFor: func(item api.ListItem) query.Filters {
			return query.Filters{query.FilterPage: item.Name}
		},
		KeyLabel:         keyLabel,
		Metrics:          metrics.MaybeWithCR(topPagesMetrics(isSmallModal), q),
		DetailsLink:      api.SitePath(d.Site, endpoint),
		Query:            q,
		ExternalLinkDest: d.externalLink,
		Color:            barColor,
		ColMinWidth:      topPagesMinCol,
	}
}

func topPagesMetrics(isSmallModal bool) []metrics.Metric {
	if isSmallModal {
		return []metrics.Metric{metrics.Visitors}
	}
	return []metrics.Metric{metrics.PageName, metrics.Visitors}
}
