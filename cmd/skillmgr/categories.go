package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/jingkaihe/skillmgr/pkg/manager"
	"github.com/jingkaihe/skillmgr/pkg/presenter"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with their unit counts",
	Long: `List skill categories (or slash command categories with --commands) in display
order, with the number of units and enabled units in each.`,
	Run: func(cmd *cobra.Command, _ []string) {
		a := openApp(cmd.Context())
		catalog := a.manager.Catalog(kindFromFlags(cmd))
		writeCategories(os.Stdout, catalog)

		total, enabled := catalog.Totals()
		presenter.Totals("total", enabled, total)
	},
}

func init() {
	addKindFlag(categoriesCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func writeCategories(w io.Writer, catalog *manager.Catalog) {
	counts := catalog.Counts()
	enabled := catalog.EnabledCounts()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tUNITS\tENABLED")
	fmt.Fprintln(tw, "--------\t-----\t-------")
	for _, name := range catalog.Categories() {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", name, counts[name], enabled[name])
	}
	tw.Flush()
}
