package commands

import (
	"odoo-partners/internal/industry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(industriesCmd)
}

var industriesCmd = &cobra.Command{
	Use:   "industries",
	Short: "Lists the reference industries and their RI_* export columns.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		names := industry.Default.Names()
		columns := industry.Default.Columns()

		t := newTable()
		t.AppendHeader(table.Row{"#", "Industry", "Column"})
		for i := range names {
			t.AppendRow(table.Row{i + 1, names[i], columns[i]})
		}
		t.Render()
	},
}
