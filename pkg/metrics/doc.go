// Package metrics exports vui runtime measurements to Prometheus.
//
// A Collector is passed to the runtime with vui.WithMetrics; the runtime
// forwards it to its scheduler and event system, so one collector observes
// renders, patches, flushes and events:
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("myapp"))
//	rt := vui.New(doc, vui.WithMetrics(collector))
//
// Metrics are registered once per Collector. Use a dedicated registry when
// more than one collector lives in a process.
package metrics
