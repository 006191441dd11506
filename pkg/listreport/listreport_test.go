package listreport

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/statsdash/pkg/api"
	"github.com/dkoosis/statsdash/pkg/metrics"
	"github.com/dkoosis/statsdash/pkg/query"
)

func sampleItems() []api.ListItem {
	return []api.ListItem{
		{Name: "/", Values: map[string]any{"visitors": 1234.0, "pageviews": 4000.0}},
		{Name: "/blog/a-very-long-article-slug-that-keeps-going", Values: map[string]any{"visitors": 12.0, "pageviews": 20.0}},
	}
}

func sampleProps(items []api.ListItem, err error) Props {
	return Props{
		FetchData: func(context.Context) ([]api.ListItem, error) { return items, err },
		GetFilterFor: func(item api.ListItem) query.Filters {
			return query.Filters{query.FilterPage: item.Name}
		},
		KeyLabel:    "URL",
		Metrics:     []metrics.Metric{metrics.Visitors, metrics.Pageviews},
		DetailsLink: "/example.com/pages",
		Query:       query.Query{Period: query.PeriodDay},
		ExternalLinkDest: func(item api.ListItem) string {
			return api.ExternalLinkForPage("example.com", item.Name)
		},
		Color: "bg-orange-50",
	}
}

func TestRender_ShowsHeadersRowsAndDetails(t *testing.T) {
	t.Parallel()

	out := Render(sampleItems(), sampleProps(nil, nil), 100, -1, DefaultStyles())

	assert.Contains(t, out, "URL")
	assert.Contains(t, out, "Visitantes")
	assert.Contains(t, out, "Visualizações")
	assert.Contains(t, out, "/blog/")
	assert.Contains(t, out, "DETALHES")
	assert.Contains(t, out, "/example.com/pages")
	assert.NotContains(t, out, "1234 ")
}

func TestRender_UsesGoalLabel_When_QueryHasGoal(t *testing.T) {
	t.Parallel()

	p := sampleProps(nil, nil)
	p.Query = query.Query{Period: query.PeriodDay, Filters: query.Filters{query.FilterGoal: "Signup"}}
	p.Metrics = metrics.MaybeWithCR([]metrics.Metric{metrics.Visitors}, p.Query)
	items := []api.ListItem{{Name: "/", Values: map[string]any{"visitors": 3.0, "conversion_rate": 1.5}}}

	out := Render(items, p, 80, -1, DefaultStyles())

	assert.Contains(t, out, "Conversions")
	assert.Contains(t, out, "CR")
	assert.Contains(t, out, "1.5%")
}

func TestRender_DropsHiddenOnMobileColumns_When_Narrow(t *testing.T) {
	t.Parallel()

	out := Render(sampleItems(), sampleProps(nil, nil), 40, -1, DefaultStyles())

	assert.NotContains(t, out, "Visualizações")
	assert.Contains(t, out, "Visitantes")
}

func TestRender_TruncatesLongKeys(t *testing.T) {
	t.Parallel()

	out := Render(sampleItems(), sampleProps(nil, nil), 60, -1, DefaultStyles())

	assert.NotContains(t, out, "keeps-going")
	assert.Contains(t, out, "…")
}

func TestRender_MarksCursorRow(t *testing.T) {
	t.Parallel()

	out := Render(sampleItems(), sampleProps(nil, nil), 100, 1, DefaultStyles())
	lines := strings.Split(out, "\n")

	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[2], selectedMarker))
	assert.False(t, strings.HasPrefix(lines[1], selectedMarker))
}

func TestRender_ShowsNoData_When_Empty(t *testing.T) {
	t.Parallel()

	out := Render(nil, sampleProps(nil, nil), 80, -1, DefaultStyles())

	assert.Contains(t, out, noDataText)
}

func TestModel_AppliesFetchResult(t *testing.T) {
	t.Parallel()

	m := New(context.Background(), sampleProps(sampleItems(), nil), DefaultStyles())
	require.True(t, m.Loading())

	msg := m.fetch()()
	m, _ = m.Update(msg)

	assert.False(t, m.Loading())
	assert.Len(t, m.Items(), 2)
	item, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "/", item.Name)
}

func TestModel_IgnoresResult_When_FromOtherGeneration(t *testing.T) {
	t.Parallel()

	m := New(context.Background(), sampleProps(sampleItems(), nil), DefaultStyles())
	stale := FetchedMsg{ID: m.ID() - 1000, Items: []api.ListItem{{Name: "/stale"}}}

	m, _ = m.Update(stale)

	assert.True(t, m.Loading())
	assert.Empty(t, m.Items())
}

func TestModel_IgnoresOldResult_After_Reload(t *testing.T) {
	t.Parallel()

	m := New(context.Background(), sampleProps(sampleItems(), nil), DefaultStyles())
	oldFetch := m.fetch()
	m, _ = m.Reload()

	m, _ = m.Update(oldFetch())

	assert.True(t, m.Loading())
}

func TestModel_CancelsContext_On_Close(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	props := sampleProps(nil, nil)
	props.FetchData = func(ctx context.Context) ([]api.ListItem, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	m := New(context.Background(), props, DefaultStyles())
	done := make(chan FetchedMsg, 1)
	go func() { done <- m.fetch()().(FetchedMsg) }()
	<-started

	m.Close()

	msg := <-done
	assert.ErrorIs(t, msg.Err, context.Canceled)
}

func TestModel_ShowsError_When_FetchFails(t *testing.T) {
	t.Parallel()

	m := New(context.Background(), sampleProps(nil, errors.New("stats api: status 500")), DefaultStyles())
	m, _ = m.Update(m.fetch()())

	assert.Contains(t, m.View(), "status 500")
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestModel_MoveCursor_Clamps(t *testing.T) {
	t.Parallel()

	m := New(context.Background(), sampleProps(sampleItems(), nil), DefaultStyles())
	m, _ = m.Update(m.fetch()())

	m = m.MoveCursor(5)
	assert.Equal(t, 1, m.Cursor())
	m = m.MoveCursor(-9)
	assert.Equal(t, 0, m.Cursor())
}

func TestProps_FilterAndLinkFor(t *testing.T) {
	t.Parallel()

	p := sampleProps(nil, nil)
	item := api.ListItem{Name: "/docs"}

	assert.Equal(t, query.Filters{query.FilterPage: "/docs"}, p.FilterFor(item))
	assert.Equal(t, "https://example.com/docs", p.LinkFor(item))
	assert.Nil(t, Props{}.FilterFor(item))
	assert.Empty(t, Props{}.LinkFor(item))
}

func TestRender_LeavesPageNameEmpty_When_RowHasNone(t *testing.T) {
	t.Parallel()

	p := sampleProps(nil, nil)
	p.Metrics = []metrics.Metric{metrics.PageName, metrics.Visitors}
	p.DetailsLink = ""
	items := []api.ListItem{{Name: "/pricing", Values: map[string]any{"visitors": 3.0}}}

	out := Render(items, p, 120, -1, DefaultStyles())

	assert.Contains(t, out, "Página")
	assert.Equal(t, 1, strings.Count(out, "/pricing"))
}

func TestRawValues_ListsUnformattedCells(t *testing.T) {
	t.Parallel()

	p := sampleProps(nil, nil)
	p.Metrics = []metrics.Metric{metrics.PageName, metrics.Visitors, metrics.Pageviews}

	got := RawValues(sampleItems()[0], p)

	assert.Equal(t, []string{"Visitantes=1234", "Visualizações=4000"}, got)
}
