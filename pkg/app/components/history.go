package components

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/kerbaras/comicenc/pkg/app/styles"
	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/kerbaras/comicenc/pkg/utils"
)

// HistoryTable renders recorded volumes as a table, newest first as given.
// now is the reference time for relative dates.
func HistoryTable(records []*data.VolumeRecord, fullNames bool, now time.Time) string {
	columns := []table.Column{
		{Title: "ID", Width: 36},
		{Title: "File", Width: 40},
		{Title: "Method", Width: 8},
		{Title: "Volume", Width: 6},
		{Title: "Chapters", Width: 8},
		{Title: "Pages", Width: 6},
		{Title: "Size", Width: 9},
		{Title: "Built", Width: 16},
	}
	if fullNames {
		columns[1].Width = utils.DisplayNameLimit + 3
	}

	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			r.ID,
			utils.TruncateForDisplay(filepath.Base(r.Path), fullNames),
			r.Method,
			fmt.Sprintf("%d", r.Volume),
			fmt.Sprintf("%d", r.Chapters),
			fmt.Sprintf("%d", r.Pages),
			humanize.Bytes(uint64(r.Bytes)),
			humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)),
	)

	s := table.DefaultStyles()
	s.Header = styles.HeaderStyle
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t.View()
}
