package commands

import (
	"strings"

	"odoo-partners/internal/export"

	"github.com/jedib0t/go-pretty/v6/table"
)

var previewColumns = []string{
	"Partner Name",
	"Tier",
	"Location",
	"References",
	"Certified Experts",
	"Certified Versions",
	"References Total",
	"Customer Retention %",
}

// previewTable builds a table of the first `limit` rows, restricted to `columns`
// that exist in `t`. Without matching columns every column is shown.
func previewTable(t export.Table, columns []string, limit int) table.Writer {
	var indices []int
	for _, col := range columns {
		for i, h := range t.Header {
			if h == col {
				indices = append(indices, i)
				break
			}
		}
	}
	if len(indices) == 0 {
		for i := range t.Header {
			indices = append(indices, i)
		}
	}

	tw := newTable()
	header := make(table.Row, len(indices))
	for i, idx := range indices {
		header[i] = t.Header[idx]
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows[:max(0, min(limit, len(t.Rows)))] {
		r := make(table.Row, len(indices))
		for i, idx := range indices {
			if idx < len(row) {
				r[i] = truncate(row[idx], 40)
			}
		}
		tw.AppendRow(r)
	}
	return tw
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}

func renderPreview(t export.Table, columns []string, limit int) {
	previewTable(t, columns, limit).Render()
}
