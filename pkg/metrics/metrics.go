package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the Prometheus collector.
type Config struct {
	// Namespace is the metrics namespace (default: "vui").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render and flush durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vui",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records runtime measurements as Prometheus metrics. It
// implements vui.Metrics, and through it the scheduler and event observers.
//
// Metrics collected:
//   - vui_renders_total: Counter of completed renders by component
//   - vui_render_duration_seconds: Histogram of render durations by component
//   - vui_render_errors_total: Counter of render failures by component
//   - vui_patches_total: Counter of display-tree mutations by operation
//   - vui_attribute_errors_total: Counter of skipped attributes by name
//   - vui_flushes_total: Counter of non-empty scheduler flushes
//   - vui_flush_tasks: Histogram of tasks run per flush
//   - vui_flush_duration_seconds: Histogram of flush durations
//   - vui_task_errors_total: Counter of failed scheduled tasks by task name
//   - vui_events_total: Counter of dispatched events by kind
//   - vui_event_handlers_total: Counter of handler invocations by kind
//   - vui_handler_errors_total: Counter of failed handlers by kind
//
// All methods are safe on a nil *Collector.
type Collector struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderErrors   *prometheus.CounterVec
	patchesTotal   *prometheus.CounterVec
	attrErrors     *prometheus.CounterVec
	flushesTotal   prometheus.Counter
	flushTasks     prometheus.Histogram
	flushDuration  prometheus.Histogram
	taskErrors     *prometheus.CounterVec
	eventsTotal    *prometheus.CounterVec
	eventHandlers  *prometheus.CounterVec
	handlerErrors  *prometheus.CounterVec
}

// New creates a collector and registers its metrics.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	rt := vui.New(doc, vui.WithMetrics(metrics.New(metrics.WithRegistry(reg))))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}

	return &Collector{
		rendersTotal: counter("renders_total", "Total number of completed component renders", "component"),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Component render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),

		renderErrors: counter("render_errors_total", "Total number of component render failures", "component"),
		patchesTotal: counter("patches_total", "Total number of display-tree mutations", "op"),
		attrErrors:   counter("attribute_errors_total", "Total number of attributes skipped because they could not be applied", "attr"),

		flushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of scheduler flushes that ran at least one task",
			ConstLabels: config.ConstLabels,
		}),

		flushTasks: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_tasks",
			Help:        "Number of tasks run per scheduler flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Scheduler flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		taskErrors:    counter("task_errors_total", "Total number of scheduled tasks that panicked", "task"),
		eventsTotal:   counter("events_total", "Total number of dispatched events", "kind"),
		eventHandlers: counter("event_handlers_total", "Total number of event handler invocations", "kind"),
		handlerErrors: counter("handler_errors_total", "Total number of event handlers that panicked", "kind"),
	}
}

// ObserveRender records a completed render.
func (c *Collector) ObserveRender(component string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.rendersTotal.WithLabelValues(component).Inc()
	c.renderDuration.WithLabelValues(component).Observe(elapsed.Seconds())
}

// ObserveRenderError records a failed render.
func (c *Collector) ObserveRenderError(component string) {
	if c == nil {
		return
	}
	c.renderErrors.WithLabelValues(component).Inc()
}

// ObservePatch records n display-tree mutations of kind op.
func (c *Collector) ObservePatch(op string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.patchesTotal.WithLabelValues(op).Add(float64(n))
}

// ObserveAttributeError records a skipped attribute.
func (c *Collector) ObserveAttributeError(attr string) {
	if c == nil {
		return
	}
	c.attrErrors.WithLabelValues(attr).Inc()
}

// ObserveFlush records a scheduler flush.
func (c *Collector) ObserveFlush(tasks int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.flushesTotal.Inc()
	c.flushTasks.Observe(float64(tasks))
	c.flushDuration.Observe(elapsed.Seconds())
}

// ObserveTaskError records a panicking scheduled task.
func (c *Collector) ObserveTaskError(task string) {
	if c == nil {
		return
	}
	c.taskErrors.WithLabelValues(task).Inc()
}

// ObserveEvent records a dispatched event and the handlers it reached.
func (c *Collector) ObserveEvent(kind string, handlers int) {
	if c == nil {
		return
	}
	c.eventsTotal.WithLabelValues(kind).Inc()
	if handlers > 0 {
		c.eventHandlers.WithLabelValues(kind).Add(float64(handlers))
	}
}

// ObserveHandlerError records a panicking event handler.
func (c *Collector) ObserveHandlerError(kind string) {
	if c == nil {
		return
	}
	c.handlerErrors.WithLabelValues(kind).Inc()
}
