package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/vui/internal/demo"
	"github.com/vango-dev/vui/pkg/dom"
	"github.com/vango-dev/vui/pkg/metrics"
	"github.com/vango-dev/vui/pkg/vui"
)

const tracerName = "github.com/vango-dev/vui"

// newRuntime creates a runtime on a fresh document, reporting to reg.
func (a *app) newRuntime(reg prometheus.Registerer) *vui.Runtime {
	collector := metrics.New(
		metrics.WithRegistry(reg),
		metrics.WithNamespace(a.cfg.Metrics.Namespace),
	)
	return vui.New(dom.NewDocument(),
		vui.WithLogger(a.logger),
		vui.WithMetrics(collector),
		vui.WithDebug(a.cfg.Debug),
		vui.WithTracer(otel.Tracer(tracerName)),
	)
}

func lookupDemo(name string) (demo.Demo, error) {
	d, ok := demo.Get(name)
	if !ok {
		return demo.Demo{}, fmt.Errorf("unknown demo %q (available: %s)", name, strings.Join(demo.Names(), ", "))
	}
	return d, nil
}

// runDemo mounts d into the document body and clicks its action element
// clicks times. With batch set, all clicks share one batching window.
func runDemo(ctx context.Context, rt *vui.Runtime, d demo.Demo, clicks int, batch bool) (*vui.Root, error) {
	root, err := rt.Mount(ctx, d.Root(), "body")
	if err != nil {
		return nil, err
	}

	click := func() error {
		target := rt.Document().GetElementByID(d.Action)
		if target == nil {
			return fmt.Errorf("demo %s: element %q not found", d.Name, d.Action)
		}
		rt.Dispatch(dom.NewEvent("click", target))
		return nil
	}

	if batch {
		rt.Batch(func() {
			for i := 0; i < clicks && err == nil; i++ {
				err = click()
			}
		})
		return root, err
	}
	for i := 0; i < clicks; i++ {
		if err := click(); err != nil {
			return root, err
		}
	}
	return root, nil
}
