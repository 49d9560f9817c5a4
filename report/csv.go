package report

import (
	"encoding/csv"
	"io"

	"github.com/warp/attendance-engine/attendance"
)

// WriteCSV exports the window in the fixed column layout
// Name,Team,<day1>,<day2>,... with one row per employee. Unresolved days
// render as empty cells. Purely a read-only consumer of Resolve.
func (a *Aggregator) WriteCSV(w io.Writer, window attendance.DayRange) error {
	cw := csv.NewWriter(w)

	days := window.Days()
	header := make([]string, 0, len(days)+2)
	header = append(header, "Name", "Team")
	for _, d := range days {
		header = append(header, d.String())
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, e := range a.store.Employees() {
		row := make([]string, 0, len(days)+2)
		row = append(row, e.Name, e.Team)
		for _, d := range days {
			st := a.resolver.Resolve(e.ID, d)
			if !st.Resolved() {
				row = append(row, "")
				continue
			}
			row = append(row, string(st))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
