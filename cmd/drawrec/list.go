package main

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"drawrec/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog examples",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl := tablewriter.NewWriter(cmd.OutOrStdout())
		tbl.SetHeader([]string{"Name", "Usage", "Defaults", "Description"})
		tbl.SetAutoWrapText(false)
		for _, e := range catalog.All() {
			defaults := make([]string, len(e.Defaults))
			for i, d := range e.Defaults {
				defaults[i] = strconv.Itoa(d)
			}
			tbl.Append([]string{e.Name, e.Usage, strings.Join(defaults, ","), e.Description})
		}
		tbl.Render()
		return nil
	},
}
