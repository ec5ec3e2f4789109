package commands

import (
	"fmt"
	"strings"

	"odoo-partners/internal/export"
	"odoo-partners/pkg/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var inspectRows *int

func init() {
	inspectRows = inspectCmd.Flags().IntP("rows", "n", previewRows, "The number of rows to preview.")
	rootCmd.AddCommand(inspectCmd)
}

type industryTotal struct {
	Column   string
	Partners int
}

// industryTotals counts the rows flagged in each RI_* column, in header order.
func industryTotals(t export.Table) []industryTotal {
	var out []industryTotal
	for _, h := range t.Header {
		if !strings.HasPrefix(h, "RI_") {
			continue
		}
		total := industryTotal{Column: h}
		for _, v := range t.Column(h) {
			if v == "1" {
				total.Partners++
			}
		}
		out = append(out, total)
	}
	return out
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.csv|file.xlsx>",
	Short: "Reads an export back and prints its shape, first rows and industry totals.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t, err := export.Read(args[0])
		if err != nil {
			serviceutil.Fatal("failed to read export", err)
		}

		totals := industryTotals(t)
		renderPreview(t, previewColumns, *inspectRows)

		tw := newTable()
		tw.AppendHeader(table.Row{"Column", "Partners"})
		for _, total := range totals {
			if total.Partners > 0 {
				tw.AppendRow(table.Row{total.Column, total.Partners})
			}
		}
		tw.Render()

		fmt.Printf("rows: %d, columns: %d, RI columns: %d\n", len(t.Rows), len(t.Header), len(totals))
	},
}
