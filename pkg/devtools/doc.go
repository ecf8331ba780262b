// Package devtools serves an inspector for a running vui document.
//
// The server exposes:
//
//	GET /healthz   liveness probe
//	GET /tree      serialized document HTML
//	GET /stats     runtime counters as JSON
//	GET /metrics   Prometheus metrics from the configured gatherer
//	GET /ws        websocket for event injection
//
// A websocket client sends {"type": "click", "target": "increment"} messages;
// target is an element id or a simple selector. The server dispatches the
// event and replies with the document HTML after the resulting flush.
//
// A Runtime is single-threaded. All engine work coming from HTTP goroutines
// is funneled through a Loop, which runs it on one goroutine:
//
//	loop := devtools.NewLoop(64)
//	go loop.Run(ctx)
//	srv := devtools.New(rt, loop, devtools.WithGatherer(reg))
//	http.ListenAndServe(":7070", srv.Handler())
package devtools
