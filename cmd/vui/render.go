package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vui/internal/demo"
)

func renderCmd(a *app) *cobra.Command {
	var (
		demoName string
		clicks   int
		batch    bool
		document bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a demo and print its HTML",
		Long: `Render a demo into an in-memory document, optionally click its
action element, and print the resulting HTML.

Examples:
  vui render --demo counter
  vui render --demo counter --clicks 3 --batch
  vui render --demo todo --clicks 2 --document`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := lookupDemo(demoName)
			if err != nil {
				return err
			}

			rt := a.newRuntime(prometheus.NewRegistry())
			root, err := runDemo(cmd.Context(), rt, d, clicks, batch)
			if err != nil {
				return err
			}

			out := root.HTML()
			if document {
				out = rt.Document().String()
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)

			stats := rt.Scheduler().Stats()
			a.logger.Info("rendered",
				"demo", d.Name,
				"clicks", clicks,
				"renders", rt.Renders(),
				"flushes", stats.Flushes,
				"failed", stats.Failed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&demoName, "demo", "d", "counter", "Demo to render")
	cmd.Flags().IntVarP(&clicks, "clicks", "n", 0, "Number of clicks on the demo's action element")
	cmd.Flags().BoolVar(&batch, "batch", false, "Deliver all clicks in one batching window")
	cmd.Flags().BoolVar(&document, "document", false, "Print the whole document instead of the root")

	return cmd
}

func demosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demos",
		Short: "List available demos",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range demo.Names() {
				d, _ := demo.Get(name)
				fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %s\n", d.Name, d.Description)
			}
			return nil
		},
	}
}
