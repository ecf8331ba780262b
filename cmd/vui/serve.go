package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vui/pkg/devtools"
)

func serveCmd(a *app) *cobra.Command {
	var (
		demoName string
		addr     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a demo with the devtools inspector",
		Long: `Mount a demo and serve the devtools inspector.

Endpoints:
  /tree     current document HTML
  /stats    runtime counters
  /metrics  Prometheus metrics
  /ws       websocket event injection

Examples:
  vui serve
  vui serve --demo todo --addr 0.0.0.0:7070`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := lookupDemo(demoName)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Devtools.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			rt := a.newRuntime(reg)

			g, gctx := errgroup.WithContext(ctx)
			loop := devtools.NewLoop(256)
			g.Go(func() error {
				if err := loop.Run(gctx); !stderrors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})

			var mountErr error
			if err := loop.Do(gctx, func() { _, mountErr = rt.Mount(gctx, d.Root(), "body") }); err != nil {
				mountErr = err
			}
			if mountErr != nil {
				stop()
				g.Wait()
				return mountErr
			}

			tools := devtools.New(rt, loop, devtools.WithLogger(a.logger), devtools.WithGatherer(reg))
			server := &http.Server{
				Addr:              addr,
				Handler:           tools.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g.Go(func() error {
				a.logger.Info("devtools listening", "addr", addr, "demo", d.Name)
				if err := server.ListenAndServe(); !stderrors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				a.logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&demoName, "demo", "d", "counter", "Demo to mount")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from vui.json)")

	return cmd
}
