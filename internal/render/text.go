package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"

	"github.com/danpilch/platformboard/internal/board"
	"github.com/danpilch/platformboard/internal/stations"
)

// Text writes a lookup result as one table per platform, or the result's
// message when there is nothing to list.
func Text(w io.Writer, res board.Result) {
	if res.State != board.Success {
		fmt.Fprintln(w, res.Message)
		return
	}

	fmt.Fprintf(w, "Departures from %s\n", res.Code)
	for _, g := range res.Visible() {
		fmt.Fprintf(w, "\nPlatform %s\n", g.Platform)

		tbl := table.New("Time", "Destination", "Status").WithWriter(w)
		tbl.WithHeaderFormatter(func(format string, vals ...interface{}) string {
			return strings.ToUpper(fmt.Sprintf(format, vals...))
		})
		for _, d := range g.Departures {
			tbl.AddRow(d.Time, d.Destination, d.Status)
		}
		tbl.Print()
	}
}

// Suggestions writes autocomplete matches as a name/code table.
func Suggestions(w io.Writer, list []stations.Station) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No matching stations.")
		return
	}

	tbl := table.New("Station", "Code").WithWriter(w)
	for _, s := range list {
		tbl.AddRow(s.Name, s.Code)
	}
	tbl.Print()
}
