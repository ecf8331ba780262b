package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vui/internal/snapshot"
)

func snapshotCmd(a *app) *cobra.Command {
	var (
		demoName string
		dest     string
		name     string
		clicks   int
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render a demo and store the document HTML",
		Long: `Render a demo and store the serialized document as <name>.html.

The destination is a directory or s3://bucket/prefix. It defaults to the
snapshot settings in vui.json. S3 credentials are read from the standard
AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN variables.

Examples:
  vui snapshot --demo todo
  vui snapshot --demo counter --clicks 5 --dest ./out
  vui snapshot --demo todo --dest s3://ui-snapshots/nightly`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := lookupDemo(demoName)
			if err != nil {
				return err
			}
			if dest == "" {
				dest = a.cfg.SnapshotDest()
			}
			if name == "" {
				name = d.Name
			}

			ctx := cmd.Context()
			store, err := snapshot.Open(ctx, dest, snapshot.Options{
				Region:   a.cfg.Snapshot.Region,
				Endpoint: a.cfg.Snapshot.Endpoint,
			})
			if err != nil {
				return err
			}

			rt := a.newRuntime(prometheus.NewRegistry())
			if _, err := runDemo(ctx, rt, d, clicks, false); err != nil {
				return err
			}

			loc, err := store.Put(ctx, snapshot.FromDocument(name, rt.Document()))
			if err != nil {
				return err
			}
			a.logger.Info("snapshot stored", "demo", d.Name, "location", loc)
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}

	cmd.Flags().StringVarP(&demoName, "demo", "d", "todo", "Demo to render")
	cmd.Flags().StringVar(&dest, "dest", "", "Directory or s3://bucket/prefix (default from vui.json)")
	cmd.Flags().StringVar(&name, "name", "", "Snapshot name (default: demo name)")
	cmd.Flags().IntVarP(&clicks, "clicks", "n", 0, "Number of clicks before the snapshot")

	return cmd
}
