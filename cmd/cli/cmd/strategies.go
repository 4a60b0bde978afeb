package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/picogrid/osmf-sim/pkg/strategy"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List containment strategies",
	RunE:  listStrategies,
}

func listStrategies(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "----\t-----------")

	for _, s := range strategy.DefaultRegistry.List() {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Description)
	}

	return w.Flush()
}
