package pages

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dkoosis/statsdash/pkg/listreport"
	"github.com/dkoosis/statsdash/pkg/query"
)

// Snapshot fetches the selected report once and writes it to out for
// non-interactive environments. A fetch error is rendered in place of the
// table and also returned.
func Snapshot(ctx context.Context, ctrl *Controller, q query.Query, isSmallModal bool, width int, out io.Writer) error {
	props := ctrl.Content(q, isSmallModal)
	fmt.Fprintln(out, renderHeader(ctrl, width, true))
	if len(q.Filters) > 0 {
		fmt.Fprintf(out, "filtros: %s\n", q.Filters.String())
	}
	fmt.Fprintln(out)

	items, err := props.FetchData(ctx)
	if err != nil {
		slog.Error("pages snapshot fetch failed", "mode", ctrl.Mode(), "report", ctrl.Mode().Title(), "site", ctrl.Site().Domain, "error", err)
		fmt.Fprintln(out, listreport.RenderError(err, activeTheme.Report))
		return fmt.Errorf("fetch %s: %w", ctrl.Mode(), err)
	}
	fmt.Fprintln(out, listreport.Render(items, props, width, -1, activeTheme.Report))
	return nil
}
