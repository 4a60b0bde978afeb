package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/picogrid/osmf-sim/pkg/logger"
)

var graphsCmd = &cobra.Command{
	Use:   "graphs",
	Short: "List available graphs",
	Long:  `List the graphs offered by the selected engine or graph directory`,
	RunE:  listGraphs,
}

func listGraphs(cmd *cobra.Command, _ []string) error {
	b, err := resolveBackend(isInteractive())
	if err != nil {
		return fmt.Errorf("failed to select environment: %w", err)
	}

	if b.engine != nil {
		logger.Networkf("Requesting graphs from %s", b.engine.BaseURL())
	}

	var names []string
	err = logger.WithSpinner(fmt.Sprintf("Fetching graphs from %s", b.name), func() error {
		var err error
		names, err = b.lister.ListGraphs(cmd.Context())
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list graphs: %w", err)
	}

	if len(names) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No graphs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tGRAPH")
	_, _ = fmt.Fprintln(w, "-\t-----")
	for i, name := range names {
		_, _ = fmt.Fprintf(w, "%d\t%s\n", i+1, name)
	}

	return w.Flush()
}
