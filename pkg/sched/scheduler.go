package sched

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Task is a schedulable zero-argument callback. Its pointer is its identity.
type Task struct {
	name string
	fn   func()
}

// NewTask creates a task. name is used in logs and traces.
func NewTask(name string, fn func()) *Task {
	return &Task{name: name, fn: fn}
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

// Observer receives scheduler measurements.
type Observer interface {
	ObserveFlush(tasks int, elapsed time.Duration)
	ObserveTaskError(task string)
}

// Stats are cumulative scheduler counters.
type Stats struct {
	Flushes uint64 // Flushes that ran at least one task
	Ran     uint64 // Tasks executed
	Failed  uint64 // Tasks that panicked
}

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Task  string
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("sched: task %q panicked: %v", e.Task, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Scheduler collapses updates issued inside a batching window into one flush.
type Scheduler struct {
	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer

	depth   int
	pending []*Task
	queued  map[*Task]struct{}

	stats Stats
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used to report task failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver sets a measurement sink (see pkg/metrics).
func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

// WithTracer sets the tracer used for flush spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Scheduler) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New creates an idle scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger: slog.Default(),
		tracer: otel.Tracer("github.com/vango-dev/vui/pkg/sched"),
		queued: make(map[*Task]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsBatching reports whether a batching window is open.
func (s *Scheduler) IsBatching() bool { return s.depth > 0 }

// Pending returns the number of tasks waiting for the next flush.
func (s *Scheduler) Pending() int { return len(s.pending) }

// Stats returns cumulative counters.
func (s *Scheduler) Stats() Stats { return s.stats }

// Schedule runs t now, or defers it to the flush if a window is open.
// A task already pending in the current window is not added again.
func (s *Scheduler) Schedule(t *Task) {
	if t == nil || t.fn == nil {
		return
	}
	if s.depth > 0 {
		if _, ok := s.queued[t]; ok {
			return
		}
		s.queued[t] = struct{}{}
		s.pending = append(s.pending, t)
		return
	}
	s.run(t)
}

// ScheduleFunc schedules fn as a fresh task. Fresh tasks are never merged.
func (s *Scheduler) ScheduleFunc(name string, fn func()) {
	s.Schedule(NewTask(name, fn))
}

// BatchStart opens a batching window. Windows nest.
func (s *Scheduler) BatchStart() {
	s.depth++
}

// BatchEnd closes a batching window. Closing the outermost window clears the
// batching flag and flushes pending tasks in insertion order.
func (s *Scheduler) BatchEnd() {
	if s.depth == 0 {
		return
	}
	s.depth--
	if s.depth > 0 {
		return
	}
	s.flush()
}

// Batch runs fn inside a batching window. The window is closed even if fn
// panics; the panic is re-raised after the flush.
func (s *Scheduler) Batch(fn func()) {
	s.BatchStart()
	defer s.BatchEnd()
	fn()
}

func (s *Scheduler) flush() {
	tasks := s.pending
	s.pending = nil
	clear(s.queued)
	if len(tasks) == 0 {
		return
	}
	s.stats.Flushes++

	_, span := s.tracer.Start(context.Background(), "vui.flush",
		trace.WithAttributes(attribute.Int("vui.tasks", len(tasks))))
	defer span.End()

	start := time.Now()
	for _, t := range tasks {
		s.run(t)
	}
	if s.observer != nil {
		s.observer.ObserveFlush(len(tasks), time.Since(start))
	}
}

// run executes t, recovering and logging a panic.
func (s *Scheduler) run(t *Task) {
	s.stats.Ran++
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s.stats.Failed++
		err := &PanicError{Task: t.name, Value: r, Stack: string(debug.Stack())}
		s.logger.Error("scheduled task failed", "task", t.name, "error", err)
		if s.observer != nil {
			s.observer.ObserveTaskError(t.name)
		}
	}()
	t.fn()
}
